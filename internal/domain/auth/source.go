package auth

// SourceKind names where an identity came from.
type SourceKind string

const (
	SourceSession   SourceKind = "session"
	SourceDemo      SourceKind = "demo"
	SourceAnonymous SourceKind = "anonymous"
)

// IdentitySource is the closed set of places the current identity can come from.
// Precedence: a session always wins over the demo record when both could apply.
// Implementations: SessionIdentity, DemoIdentitySource, Anonymous.
type IdentitySource interface {
	Kind() SourceKind
	// Authoritative reports whether the identity was asserted by the backend.
	Authoritative() bool
	isIdentitySource()
}

// SessionIdentity wraps a principal resolved from the credential store and the backend.
type SessionIdentity struct {
	Principal Principal
}

func (SessionIdentity) Kind() SourceKind    { return SourceSession }
func (SessionIdentity) Authoritative() bool { return true }
func (SessionIdentity) isIdentitySource()   {}

// DemoIdentitySource wraps the browser-local demo record.
type DemoIdentitySource struct {
	Identity DemoIdentity
}

func (DemoIdentitySource) Kind() SourceKind    { return SourceDemo }
func (DemoIdentitySource) Authoritative() bool { return false }
func (DemoIdentitySource) isIdentitySource()   {}

// Anonymous is returned when credentials exist but the backend does not accept them.
type Anonymous struct{}

func (Anonymous) Kind() SourceKind    { return SourceAnonymous }
func (Anonymous) Authoritative() bool { return false }
func (Anonymous) isIdentitySource()   {}
