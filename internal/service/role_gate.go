package service

import (
	"context"
	"net/url"
	"strings"
	"sync"

	domainauth "github.com/target/gallery-ui/internal/domain/auth"
	"github.com/target/gallery-ui/internal/ports"
)

// GatePhase is the state of one protected render.
type GatePhase int

const (
	PhaseChecking GatePhase = iota
	PhaseAdmitted
	PhaseRedirecting
)

func (p GatePhase) String() string {
	switch p {
	case PhaseAdmitted:
		return "admitted"
	case PhaseRedirecting:
		return "redirecting"
	default:
		return "checking"
	}
}

// GateView is what a renderer may show for the current phase.
type GateView int

const (
	// ViewLoading is the neutral placeholder shown while checking.
	ViewLoading GateView = iota
	// ViewContent is the guarded subtree.
	ViewContent
	// ViewNone renders nothing from the guarded subtree.
	ViewNone
)

// RoleGate decides ALLOW or REDIRECT for one protected render. It is the only component that
// blocks rendering on authorization grounds. Any authenticated role is admitted to the shared
// shell; per-area checks are left to the pages behind it.
type RoleGate struct {
	resolver  ports.PrincipalResolver
	loginPath string

	mu         sync.Mutex
	phase      GatePhase
	principal  domainauth.Principal
	redirectTo string
	started    bool
	done       chan struct{}
}

// NewRoleGate creates a gate in PhaseChecking.
func NewRoleGate(resolver ports.PrincipalResolver, loginPath string) *RoleGate {
	if loginPath == "" {
		loginPath = "/login"
	}
	return &RoleGate{
		resolver:  resolver,
		loginPath: loginPath,
		done:      make(chan struct{}),
	}
}

// Decide resolves the principal once and settles the gate. Later calls return the settled phase.
// returnTo is the path the user was entering; it is carried on the login redirect.
func (g *RoleGate) Decide(ctx context.Context, creds ports.CredentialStore, returnTo string) GatePhase {
	g.mu.Lock()
	if g.started {
		g.mu.Unlock()
		<-g.done
		return g.Phase()
	}
	g.started = true
	g.mu.Unlock()

	principal, ok := g.resolver.Resolve(ctx, creds)

	g.mu.Lock()
	if ok {
		g.phase = PhaseAdmitted
		g.principal = principal
	} else {
		g.phase = PhaseRedirecting
		g.redirectTo = LoginRedirect(g.loginPath, returnTo)
	}
	g.mu.Unlock()
	close(g.done)
	return g.Phase()
}

// Phase returns the current phase.
func (g *RoleGate) Phase() GatePhase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// View maps the phase onto what may be rendered.
func (g *RoleGate) View() GateView {
	switch g.Phase() {
	case PhaseAdmitted:
		return ViewContent
	case PhaseRedirecting:
		return ViewNone
	default:
		return ViewLoading
	}
}

// Principal returns the admitted principal.
func (g *RoleGate) Principal() (domainauth.Principal, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.principal, g.phase == PhaseAdmitted
}

// RedirectTo returns the login location once the gate is redirecting.
func (g *RoleGate) RedirectTo() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.redirectTo
}

// Done is closed when the gate settles.
func (g *RoleGate) Done() <-chan struct{} { return g.done }

// LoginRedirect builds the login location carrying a sanitized return path.
func LoginRedirect(loginPath, returnTo string) string {
	return loginPath + "?redirect_uri=" + url.QueryEscape(SafeRedirectPath(returnTo))
}

// SafeRedirectPath keeps only same-origin absolute paths; anything else becomes "/".
func SafeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	if strings.HasPrefix(candidate, "//") || strings.HasPrefix(candidate, "/\\") {
		return "/"
	}
	return candidate
}
