package httpx

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/publicsuffix"

	"github.com/target/gallery-ui/internal/adapters/backend"
	"github.com/target/gallery-ui/internal/adapters/cookies"
	"github.com/target/gallery-ui/internal/adapters/memory"
	"github.com/target/gallery-ui/internal/service"
	"github.com/target/gallery-ui/internal/testutil"
)

type stackOptions struct {
	loginMode service.LoginMode
	dev       bool
	metrics   http.Handler
	health    []Pinger
}

// testStack wires the real services against a fake origin.
type testStack struct {
	origin *testutil.Origin
	server *httptest.Server
	client *http.Client
}

func newTestStack(t *testing.T, opts stackOptions) *testStack {
	t.Helper()
	origin := testutil.NewOrigin(t)
	client, err := backend.NewClient(backend.Config{BaseURL: origin.BaseURL()})
	require.NoError(t, err)

	refresher := service.NewTokenRefreshCoordinator(service.TokenRefreshOptions{Backend: client})
	gateway := service.NewGateway(service.GatewayOptions{Backend: client, Refresher: refresher, Dev: opts.dev})
	resolver, err := service.NewSessionResolver(service.SessionResolverOptions{Gateway: gateway})
	require.NoError(t, err)

	router := NewRouter(RouterServices{
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Gateway:   gateway,
			Refresher: refresher,
			LoginMode: opts.loginMode,
			Dev:       opts.dev,
		}),
		Profiles:  service.NewProfileService(gateway),
		Identity:  service.NewIdentityService(
			resolver,
			refresher,
			service.NewDemoIdentityFallback(memory.NewDemoIdentityStore(), nil),
		),
		Resolver:  resolver,
		Cookies:   cookies.Options{Insecure: true},
		LoginPath: "/login",
		Metrics:   opts.metrics,
		Health:    opts.health,
		Dev:       opts.dev,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	require.NoError(t, err)
	return &testStack{
		origin: origin,
		server: srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (s *testStack) url(path string) string { return s.server.URL + path }

// setCookies seeds the client jar as if the browser already held these cookies.
func (s *testStack) setCookies(t *testing.T, kv map[string]string) {
	t.Helper()
	u, err := url.Parse(s.server.URL)
	require.NoError(t, err)
	cs := make([]*http.Cookie, 0, len(kv))
	for k, v := range kv {
		cs = append(cs, &http.Cookie{Name: k, Value: v, Path: "/"})
	}
	s.client.Jar.SetCookies(u, cs)
}

// cookie returns the jar's current value for name.
func (s *testStack) cookie(t *testing.T, name string) (string, bool) {
	t.Helper()
	u, err := url.Parse(s.server.URL)
	require.NoError(t, err)
	for _, c := range s.client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func (s *testStack) do(t *testing.T, method, path, body string, header map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, s.url(path), strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := s.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, jsonDecode(resp, &out))
	return out
}

func findSetCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func jsonDecode(resp *http.Response, dst any) error {
	return json.NewDecoder(resp.Body).Decode(dst)
}

func testBearer(token string, ok any) http.HandlerFunc { return testutil.BearerHandler(token, ok) }

func newTextLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, nil))
}
