package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/target/gallery-ui/internal/domain/proxy"
)

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// WriteEnvelope writes env with its own status code.
func WriteEnvelope(w http.ResponseWriter, env proxy.Envelope) {
	WriteJSON(w, env.HTTPStatus(), env)
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	Message string
}

// WriteError writes an ok:false envelope.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteEnvelope(w, proxy.Failure(p.Code, p.Message))
}
