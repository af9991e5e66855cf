package service

import (
	"errors"
	"net/http"

	"github.com/target/gallery-ui/internal/domain/proxy"
	apperrors "github.com/target/gallery-ui/internal/errors"
)

// ErrorEnvelope renders an application error as an ok:false envelope.
// Transport causes are only echoed when dev is set.
func ErrorEnvelope(err error, dev bool) proxy.Envelope {
	var rejected *RefreshRejectedError
	if errors.As(err, &rejected) {
		return rejected.Envelope()
	}

	status := apperrors.StatusFor(err)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return proxy.Failure(status, http.StatusText(status))
	}
	switch {
	case apperrors.IsValidation(err):
		env := proxy.Failure(status, appErr.Message)
		if field := apperrors.GetField(err); field != "" {
			env.Payload = map[string]any{"field": field}
		}
		return env
	case apperrors.IsUnauthenticated(err):
		return proxy.Failure(status, msgNotAuthenticated)
	case apperrors.IsTransport(err):
		msg := msgUpstreamFailed
		if dev && appErr.Cause != nil {
			msg += ": " + appErr.Cause.Error()
		}
		return proxy.Failure(http.StatusInternalServerError, msg)
	default:
		return proxy.Failure(status, http.StatusText(status))
	}
}
