package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainauth "github.com/target/gallery-ui/internal/domain/auth"
	"github.com/target/gallery-ui/internal/ports"
)

// DemoAdmin is the synthetic record written for a browser with no identity.
var DemoAdmin = domainauth.DemoIdentity{
	ID:           "demo-admin",
	FirstName:    "Demo",
	LastName:     "Admin",
	EmailAddress: "admin@demo.local",
	Role:         domainauth.RoleAdmin,
	AvatarRef:    "/images/avatars/demo-admin.png",
}

var errNoBrowserID = errors.New("browser ID is required")

// DemoIdentityFallback lets demo screens render without a backend. Its record carries no
// token and is never handed to the gateway or the session resolver.
type DemoIdentityFallback struct {
	store  ports.DemoIdentityStore
	logger *slog.Logger
}

// NewDemoIdentityFallback constructs a DemoIdentityFallback.
func NewDemoIdentityFallback(store ports.DemoIdentityStore, logger *slog.Logger) *DemoIdentityFallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &DemoIdentityFallback{store: store, logger: logger.With("component", "demo_identity")}
}

// Ensure returns the browser's record, writing DemoAdmin first when none exists.
// An existing record is never overwritten.
func (f *DemoIdentityFallback) Ensure(ctx context.Context, browserID string) (domainauth.DemoIdentity, error) {
	if browserID == "" {
		return domainauth.DemoIdentity{}, errNoBrowserID
	}

	rec, ok, err := f.store.Get(ctx, browserID)
	if err != nil {
		return domainauth.DemoIdentity{}, fmt.Errorf("get demo identity: %w", err)
	}
	if ok {
		return rec, nil
	}

	written, err := f.store.SaveIfAbsent(ctx, browserID, DemoAdmin)
	if err != nil {
		return domainauth.DemoIdentity{}, fmt.Errorf("save demo identity: %w", err)
	}
	if written {
		f.logger.DebugContext(ctx, "demo identity created", "browser_id", browserID)
		return DemoAdmin, nil
	}

	// Another request won the write; read what it stored.
	rec, ok, err = f.store.Get(ctx, browserID)
	if err != nil {
		return domainauth.DemoIdentity{}, fmt.Errorf("get demo identity: %w", err)
	}
	if !ok {
		return DemoAdmin, nil
	}
	return rec, nil
}
