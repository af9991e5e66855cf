package ports_test

import (
	"testing"

	"github.com/target/gallery-ui/internal/adapters/backend"
	"github.com/target/gallery-ui/internal/adapters/cookies"
	"github.com/target/gallery-ui/internal/adapters/memory"
	redisadapter "github.com/target/gallery-ui/internal/adapters/redis"
	"github.com/target/gallery-ui/internal/mocks"
	"github.com/target/gallery-ui/internal/ports"
)

// This test only verifies that adapters and mocks conform to the ports at compile time.
func TestAdaptersImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.CredentialStore = (*cookies.Jar)(nil)
	var _ ports.CredentialStore = (*mocks.MockCredentialStore)(nil)
	var _ ports.Backend = (*backend.Client)(nil)
	var _ ports.DemoIdentityStore = (*memory.DemoIdentityStore)(nil)
	var _ ports.DemoIdentityStore = (*redisadapter.DemoIdentityStore)(nil)
	var _ ports.DemoIdentityStore = (*mocks.MockDemoIdentityStore)(nil)
}
