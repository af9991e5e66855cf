package httpx

import (
	"context"
	"io"
	"net/http"
	"time"
)

const healthResponse = `{"status":"ok"}`

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthPingTimeout = 2 * time.Second

// healthHandler returns 200 for readiness/liveness checks, or 503 when a pinged dependency is down.
func healthHandler(deps ...Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		for _, d := range deps {
			ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
			err := d.Ping(ctx)
			cancel()
			if err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				if r.Method != http.MethodHead {
					_, _ = io.WriteString(w, `{"status":"unavailable"}`)
				}
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		if _, err := io.WriteString(w, healthResponse); err != nil {
			// Nothing more to do if the client connection is gone.
			return
		}
	}
}
