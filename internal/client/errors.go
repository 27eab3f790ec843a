package client

import "fmt"

// msgRejected is used when the server says ok:false without a message.
const msgRejected = "request was rejected by the server"

// TransportError means the request never produced an envelope: the network
// failed, the status was not 2xx or the body was not JSON.
type TransportError struct {
	Verb   Verb
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Verb, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Verb, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RejectedError carries the message of an ok:false envelope.
type RejectedError struct {
	Msg string
}

func (e *RejectedError) Error() string { return e.Msg }

func rejected(msg string) *RejectedError {
	if msg == "" {
		msg = msgRejected
	}
	return &RejectedError{Msg: msg}
}
