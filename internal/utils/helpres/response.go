package helpers

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every /api call answers with. Ok gates the rest.
type Response struct {
	Ok      bool        `json:"ok"`
	Msg     string      `json:"msg,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

func JSON(w http.ResponseWriter, status int, msg string, payload interface{}) {
	write(w, status, Response{Ok: true, Msg: msg, Payload: payload})
}

func Error(w http.ResponseWriter, status int, errMsg string) {
	write(w, status, Response{Ok: false, Msg: errMsg})
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
