// Package cookies provides the cookie-backed credential store.
package cookies

import (
	"net/http"
	"sync"
	"time"

	domainauth "github.com/target/gallery-ui/internal/domain/auth"
	"golang.org/x/oauth2"
)

// Options controls cookie attributes shared by both tokens.
type Options struct {
	// Domain is the cookie domain; empty uses the request host.
	Domain string
	// Insecure drops the Secure attribute for plain-HTTP local development.
	Insecure bool
}

// Jar is a per-request credential store backed by httpOnly cookies.
// Writes are sent on the response and also kept in an overlay so later reads
// within the same request observe them.
type Jar struct {
	w    http.ResponseWriter
	r    *http.Request
	opts Options

	mu      sync.Mutex
	overlay map[domainauth.TokenKind]string
}

// New returns a Jar reading from r and writing to w.
func New(w http.ResponseWriter, r *http.Request, opts Options) *Jar {
	return &Jar{
		w:       w,
		r:       r,
		opts:    opts,
		overlay: make(map[domainauth.TokenKind]string, 2),
	}
}

// Set writes the token cookie. A ttlSeconds <= 0 expires it on the client.
func (j *Jar) Set(kind domainauth.TokenKind, value string, ttlSeconds int) {
	c := &http.Cookie{
		Name:     kind.CookieName(),
		Value:    value,
		Path:     "/",
		Domain:   j.opts.Domain,
		HttpOnly: true,
		Secure:   !j.opts.Insecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   ttlSeconds,
	}
	if ttlSeconds <= 0 {
		// net/http only emits "Max-Age=0" for negative values.
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0).UTC()
		value = ""
	}
	http.SetCookie(j.w, c)

	j.mu.Lock()
	j.overlay[kind] = value
	j.mu.Unlock()
}

// Get returns the token, preferring a value written earlier in this request.
func (j *Jar) Get(kind domainauth.TokenKind) (string, bool) {
	j.mu.Lock()
	v, written := j.overlay[kind]
	j.mu.Unlock()
	if written {
		return v, v != ""
	}

	if j.r == nil {
		return "", false
	}
	c, err := j.r.Cookie(kind.CookieName())
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Clear expires the token cookie.
func (j *Jar) Clear(kind domainauth.TokenKind) {
	j.Set(kind, "", 0)
}

// Session returns the current token pair, or nil when no access token is present.
func (j *Jar) Session() *oauth2.Token {
	access, ok := j.Get(domainauth.AccessToken)
	if !ok {
		return nil
	}
	refresh, _ := j.Get(domainauth.RefreshToken)
	return &oauth2.Token{AccessToken: access, RefreshToken: refresh, TokenType: "Bearer"}
}
