package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"publish/internal/logger"

	"go.uber.org/zap"
)

// Verb picks both the HTTP method and where the payload goes.
type Verb int

const (
	Read Verb = iota
	Create
	Update
)

func (v Verb) String() string {
	switch v {
	case Read:
		return "read"
	case Create:
		return "create"
	case Update:
		return "update"
	default:
		return fmt.Sprintf("verb(%d)", int(v))
	}
}

func (v Verb) method() string {
	switch v {
	case Create:
		return http.MethodPut
	case Update:
		return http.MethodPost
	default:
		return http.MethodGet
	}
}

const maxResponseBytes = 4 << 20

type envelope struct {
	Ok      bool            `json:"ok"`
	Msg     string          `json:"msg"`
	Payload json.RawMessage `json:"payload"`
}

// Client talks to one /api endpoint.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

func New(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{Endpoint: endpoint, HTTPClient: httpClient}
}

// Do sends payload with verb and decodes the envelope. On ok:true the payload
// field goes into dst, or the whole envelope when there is no payload field.
// An ok:false answer returns *RejectedError, anything else that went wrong
// returns *TransportError.
func (c *Client) Do(ctx context.Context, verb Verb, payload map[string]any, dst any) error {
	log := logger.WithCtx(ctx).With(zap.Stringer("verb", verb))

	req, err := c.newRequest(ctx, verb, payload)
	if err != nil {
		return &TransportError{Verb: verb, Err: err}
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return &TransportError{Verb: verb, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Warn("read response failed", zap.Error(err))
		return &TransportError{Verb: verb, Status: resp.StatusCode, Err: err}
	}

	log.Debug("response",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)),
	)

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &TransportError{Verb: verb, Status: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", err)}
	}

	if !env.Ok {
		return rejected(env.Msg)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Verb: verb, Status: resp.StatusCode, Err: errors.New("unexpected status")}
	}

	if dst == nil {
		return nil
	}

	src := []byte(env.Payload)
	if len(src) == 0 || string(src) == "null" {
		src = body
	}
	if err := json.Unmarshal(src, dst); err != nil {
		return &TransportError{Verb: verb, Status: resp.StatusCode, Err: fmt.Errorf("decode payload: %w", err)}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, verb Verb, payload map[string]any) (*http.Request, error) {
	if verb == Read {
		u, err := url.Parse(c.Endpoint)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		for k, v := range payload {
			q.Set(k, fmt.Sprint(v))
		}
		u.RawQuery = q.Encode()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, verb.method(), c.Endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}
