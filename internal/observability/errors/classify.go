// Package errors classifies errors into short labels for logs.
package errors

import (
	"context"
	goerrors "errors"
	"net"
	"reflect"
	"strings"

	apperrors "github.com/target/gallery-ui/internal/errors"
)

// Classify returns a normalized label for err. Application errors report their code,
// timeouts and cancellations get fixed labels, and anything else falls back to the
// first concrete type name below the wrappers, in snake_case-ish form.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	if code := apperrors.GetCode(err); code != "" && code != apperrors.ErrCodeTransport {
		return string(code)
	}
	if goerrors.Is(err, context.Canceled) {
		return "canceled"
	}
	if goerrors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var netErr net.Error
	if goerrors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}

	err = stripWrappers(err)

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(t.String())
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}

// stripWrappers peels application errors and fmt.Errorf wrapping.
func stripWrappers(err error) error {
	for {
		var next error
		if appErr, ok := err.(*apperrors.AppError); ok {
			next = appErr.Cause
		} else if reflect.TypeOf(err).String() == "*fmt.wrapError" {
			next = goerrors.Unwrap(err)
		}
		if next == nil {
			return err
		}
		err = next
	}
}
