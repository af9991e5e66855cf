// Package backend provides the HTTP adapter for the remote marketplace backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/target/gallery-ui/internal/domain/proxy"
	"github.com/target/gallery-ui/internal/ports"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrMalformedResponse is returned when the backend body is not valid JSON.
var ErrMalformedResponse = errors.New("malformed backend response")

const maxResponseBytes = 10 << 20

// Config describes how to reach the backend.
type Config struct {
	BaseURL string
	// Timeout of zero means no local timeout.
	Timeout    time.Duration
	HTTPClient *http.Client
	Metrics    ports.ProxyMetrics
}

// Client performs calls against a single configured backend origin.
type Client struct {
	base    *url.URL
	hc      *http.Client
	metrics ports.ProxyMetrics
}

var _ ports.Backend = (*Client)(nil)

// NewClient validates the base URL and builds a client.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("backend base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("backend base url must be absolute http(s): %q", raw)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &Client{base: base, hc: hc, metrics: cfg.Metrics}, nil
}

// Do sends call and decodes the JSON answer. HTTP error statuses are returned as responses;
// only network and decode failures produce an error.
func (c *Client) Do(ctx context.Context, call ports.BackendCall) (ports.BackendResponse, error) {
	method := call.Method
	if method == "" {
		method = http.MethodGet
	}

	body, contentType, err := encodeBody(call.Body)
	if err != nil {
		return ports.BackendResponse{}, fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(call.Path, call.Query), body)
	if err != nil {
		return ports.BackendResponse{}, fmt.Errorf("create backend request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if call.Token != nil && call.Token.AccessToken != "" {
		call.Token.SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if c.metrics != nil {
		c.metrics.ObserveBackend(method, time.Since(start))
	}
	if err != nil {
		return ports.BackendResponse{}, fmt.Errorf("backend %s %s: %w", method, call.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return ports.BackendResponse{}, fmt.Errorf("read backend response: %w", err)
	}

	payload, err := decodePayload(data)
	if err != nil {
		return ports.BackendResponse{}, fmt.Errorf("%w: status %d: %v", ErrMalformedResponse, resp.StatusCode, err)
	}

	return ports.BackendResponse{Status: resp.StatusCode, Payload: payload}, nil
}

// resolve joins the base URL path with p, keeping p's trailing slash.
func (c *Client) resolve(p string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(p, "/")
	u.RawPath = ""
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func encodeBody(b proxy.Body) (io.Reader, string, error) {
	switch body := b.(type) {
	case nil:
		return nil, "", nil
	case proxy.JSONBody:
		data, err := json.Marshal(body.Value)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	case proxy.MultipartBody:
		return encodeMultipart(body)
	default:
		return nil, "", fmt.Errorf("unsupported body type %T", b)
	}
}

// encodeMultipart rebuilds the form with a fresh boundary; the inbound boundary is never reused.
func encodeMultipart(body proxy.MultipartBody) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range body.Fields {
		if f.File == nil {
			if err := mw.WriteField(f.Name, f.Value); err != nil {
				return nil, "", fmt.Errorf("write field %q: %w", f.Name, err)
			}
			continue
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(f.Name), escapeQuotes(f.File.Filename)))
		ct := f.File.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %q: %w", f.Name, err)
		}
		if _, err := part.Write(f.File.Data); err != nil {
			return nil, "", fmt.Errorf("write file part %q: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// decodePayload turns a body into a field map. Non-object JSON is placed under "data".
func decodePayload(data []byte) (map[string]any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON value")
	}

	if obj, ok := v.(map[string]any); ok {
		return obj, nil
	}
	return map[string]any{"data": v}, nil
}
