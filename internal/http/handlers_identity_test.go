package httpx

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_DemoRecordWithoutSession(t *testing.T) {
	s := newTestStack(t, stackOptions{})

	resp := s.do(t, http.MethodGet, "/api/identity", "", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "demo", body["source"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "demo-admin", user["id"])
	assert.Equal(t, "admin", user["role"])

	c := findSetCookie(resp, BrowserCookieName)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.Zero(t, s.origin.TotalCalls(), "demo identity never reaches the backend")

	// Second visit reuses the browser id without issuing a new one.
	again := s.do(t, http.MethodGet, "/api/identity", "", nil)
	assert.Nil(t, findSetCookie(again, BrowserCookieName))
	assert.Equal(t, "demo", decodeBody(t, again)["source"])
}

func TestIdentity_SessionWins(t *testing.T) {
	s := newTestStack(t, stackOptions{})
	s.origin.Handle(http.MethodGet, "/auth/me/", testBearer("a1", map[string]any{
		"id": "u1", "email": "ada@example.com", "role": "artist",
	}))
	s.setCookies(t, map[string]string{"access_token": "a1", BrowserCookieName: "b1"})

	resp := s.do(t, http.MethodGet, "/api/identity", "", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "session", body["source"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "u1", user["id"])
	assert.Equal(t, "artist", user["role"])
}

func TestIdentity_RejectedSessionIsAnonymous(t *testing.T) {
	s := newTestStack(t, stackOptions{})
	s.origin.Handle(http.MethodGet, "/auth/me/", testBearer("other", map[string]any{"id": "u1"}))
	s.setCookies(t, map[string]string{"access_token": "a1"})

	resp := s.do(t, http.MethodGet, "/api/identity", "", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "anonymous", body["source"])
	assert.Nil(t, body["user"])
	assert.Nil(t, findSetCookie(resp, BrowserCookieName))
}

func TestIdentity_RefreshOnlySessionWins(t *testing.T) {
	s := newTestStack(t, stackOptions{})
	s.origin.Respond(http.MethodPost, "/auth/token/refresh/", http.StatusOK, map[string]any{"access": "a2"})
	s.origin.Handle(http.MethodGet, "/auth/me/", testBearer("a2", map[string]any{
		"id": "u1", "email": "ada@example.com", "role": "artist",
	}))
	s.setCookies(t, map[string]string{"refresh_token": "r1"})

	resp := s.do(t, http.MethodGet, "/api/identity", "", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "session", body["source"])
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "u1", user["id"])
	assert.Nil(t, findSetCookie(resp, BrowserCookieName))

	v, ok := s.cookie(t, "access_token")
	require.True(t, ok)
	assert.Equal(t, "a2", v)
}

func TestIdentity_RejectedRefreshIsAnonymous(t *testing.T) {
	s := newTestStack(t, stackOptions{})
	s.origin.Respond(http.MethodPost, "/auth/token/refresh/", http.StatusUnauthorized,
		map[string]any{"detail": "Token is invalid or expired"})
	s.setCookies(t, map[string]string{"refresh_token": "stale"})

	resp := s.do(t, http.MethodGet, "/api/identity", "", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "anonymous", body["source"])
	assert.Nil(t, body["user"])
	assert.Nil(t, findSetCookie(resp, BrowserCookieName))
	assert.Zero(t, s.origin.Calls(http.MethodGet, "/auth/me/"))
}
