// Package proxy holds the request and response shapes exchanged between the browser-facing
// handlers and the backend gateway.
package proxy

import (
	"encoding/json"
	"net/http"
)

// Envelope is the normalized response handed back to the browser.
// OK always reflects the HTTP status class of the backend response; a backend payload
// field named "ok" never overrides it.
type Envelope struct {
	OK      bool
	Status  int
	Payload map[string]any
	Message string
}

// Success builds a 2xx envelope.
func Success(status int, payload map[string]any) Envelope {
	return Envelope{OK: true, Status: status, Payload: payload}
}

// Failure builds an ok:false envelope with only a message.
func Failure(status int, message string) Envelope {
	return Envelope{OK: false, Status: status, Message: message}
}

// FromStatus builds an envelope whose OK flag is derived from the status code.
func FromStatus(status int, payload map[string]any) Envelope {
	return Envelope{OK: status >= 200 && status < 300, Status: status, Payload: payload}
}

// HTTPStatus returns the status to write, defaulting by OK when unset.
func (e Envelope) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	if e.OK {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}

// String returns a string payload field.
func (e Envelope) String(key string) (string, bool) {
	v, ok := e.Payload[key].(string)
	return v, ok && v != ""
}

// Without returns a copy of e with the named payload fields removed.
func (e Envelope) Without(keys ...string) Envelope {
	if len(e.Payload) == 0 {
		return e
	}
	out := make(map[string]any, len(e.Payload))
	for k, v := range e.Payload {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	e.Payload = out
	return e
}

// MarshalJSON flattens the payload next to "ok" and the optional "message".
func (e Envelope) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Payload)+2)
	for k, v := range e.Payload {
		out[k] = v
	}
	out["ok"] = e.OK
	if e.Message != "" {
		out["message"] = e.Message
	}
	return json.Marshal(out)
}
