package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// OriginPrefix is the path prefix the fake origin serves under, mirroring BACKEND_BASE_URL.
const OriginPrefix = "/api"

// RecordedRequest is one call the fake origin received.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	ContentType   string
	Body          []byte
}

// JSONBody decodes the recorded body as a JSON object; nil when it is not one.
func (r RecordedRequest) JSONBody() map[string]any {
	var out map[string]any
	if err := json.Unmarshal(r.Body, &out); err != nil {
		return nil
	}
	return out
}

// Origin is a scriptable stand-in for the remote backend. Routes are keyed by
// method and path relative to OriginPrefix; unknown routes answer 404.
type Origin struct {
	Server *httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []RecordedRequest
}

// NewOrigin starts a fake origin and closes it when the test ends.
func NewOrigin(t interface {
	Helper()
	Cleanup(func())
},
) *Origin {
	t.Helper()
	o := &Origin{routes: make(map[string]http.HandlerFunc)}
	o.Server = httptest.NewServer(http.HandlerFunc(o.serve))
	t.Cleanup(o.Server.Close)
	return o
}

// BaseURL is the value to use for BACKEND_BASE_URL.
func (o *Origin) BaseURL() string { return o.Server.URL + OriginPrefix }

// Handle registers h for method and path, e.g. Handle("POST", "/auth/login/", h).
func (o *Origin) Handle(method, path string, h http.HandlerFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.routes[method+" "+path] = h
}

// Respond registers a canned JSON answer.
func (o *Origin) Respond(method, path string, status int, body any) {
	o.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, body)
	})
}

// Calls counts requests received for method and path.
func (o *Origin) Calls(method, path string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, r := range o.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// TotalCalls counts every request received.
func (o *Origin) TotalCalls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.requests)
}

// Requests returns a copy of the received requests in arrival order.
func (o *Origin) Requests() []RecordedRequest {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]RecordedRequest, len(o.requests))
	copy(out, o.requests)
	return out
}

// Last returns the most recent request for method and path.
func (o *Origin) Last(method, path string) (RecordedRequest, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.requests) - 1; i >= 0; i-- {
		if o.requests[i].Method == method && o.requests[i].Path == path {
			return o.requests[i], true
		}
	}
	return RecordedRequest{}, false
}

func (o *Origin) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	path := strings.TrimPrefix(r.URL.Path, OriginPrefix)
	o.mu.Lock()
	o.requests = append(o.requests, RecordedRequest{
		Method:        r.Method,
		Path:          path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          body,
	})
	h, ok := o.routes[r.Method+" "+path]
	o.mu.Unlock()

	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found."})
		return
	}
	h(w, r)
}

// WriteJSON writes v as a JSON response with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// BearerHandler answers ok for the expected bearer token and 401 otherwise.
func BearerHandler(token string, ok any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			WriteJSON(w, http.StatusUnauthorized, map[string]any{
				"detail": "Given token not valid for any token type",
			})
			return
		}
		WriteJSON(w, http.StatusOK, ok)
	}
}
