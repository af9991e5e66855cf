// Package memory provides in-process adapters used when no external store is configured.
package memory

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/target/gallery-ui/internal/domain/auth"
)

// DemoIdentityStore keeps demo identity records in memory, keyed by browser id.
// Records do not survive a restart.
type DemoIdentityStore struct {
	mu      sync.Mutex
	records map[string]domainauth.DemoIdentity
}

// NewDemoIdentityStore creates an empty store.
func NewDemoIdentityStore() *DemoIdentityStore {
	return &DemoIdentityStore{records: make(map[string]domainauth.DemoIdentity)}
}

func (s *DemoIdentityStore) Get(_ context.Context, browserID string) (domainauth.DemoIdentity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[browserID]
	return rec, ok, nil
}

func (s *DemoIdentityStore) SaveIfAbsent(_ context.Context, browserID string, rec domainauth.DemoIdentity) (bool, error) {
	if browserID == "" {
		return false, errors.New("browser ID cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[browserID]; ok {
		return false, nil
	}
	s.records[browserID] = rec
	return true, nil
}
