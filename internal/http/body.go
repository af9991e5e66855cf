package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/target/gallery-ui/internal/domain/proxy"
)

const (
	maxJSONBody      = 1 << 20
	maxMultipartBody = 32 << 20
)

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a single JSON value into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("decode json body: %w", err)
	}
	if dec.More() {
		return errors.New("decode json body: trailing data")
	}
	return nil
}

// isMultipart reports whether the request carries multipart/form-data.
func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// readBody turns the inbound request into the outbound body variant. The choice between
// JSON and multipart is made here once; nothing downstream inspects content types.
func readBody(w http.ResponseWriter, r *http.Request) (proxy.Body, error) {
	if isMultipart(r) {
		return readMultipart(w, r)
	}
	var v any
	if err := decodeJSON(r, &v); err != nil {
		return nil, err
	}
	return proxy.JSONBody{Value: v}, nil
}

// readMultipart recomposes the form part by part, keeping arrival order.
func readMultipart(w http.ResponseWriter, r *http.Request) (proxy.Body, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("parse multipart body: %w", err)
	}

	var fields []proxy.Field
	for {
		p, err := mr.NextPart()
		// A truncated body wraps io.EOF; only the bare value marks the final boundary.
		if err == io.EOF { //nolint:errorlint
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse multipart body: %w", err)
		}
		field, err := readPart(p)
		_ = p.Close()
		if err != nil {
			return nil, err
		}
		if field.Name != "" {
			fields = append(fields, field)
		}
	}
	return proxy.MultipartBody{Fields: fields}, nil
}

func readPart(p *multipart.Part) (proxy.Field, error) {
	name := p.FormName()
	data, err := io.ReadAll(p)
	if err != nil {
		return proxy.Field{}, fmt.Errorf("read part %q: %w", name, err)
	}
	if p.FileName() == "" {
		return proxy.Field{Name: name, Value: string(data)}, nil
	}
	return proxy.Field{
		Name: name,
		File: &proxy.FilePart{
			Filename:    p.FileName(),
			ContentType: p.Header.Get("Content-Type"),
			Data:        data,
		},
	}, nil
}
