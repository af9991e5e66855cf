package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"
	"time"

	domainauth "github.com/target/gallery-ui/internal/domain/auth"
	"github.com/target/gallery-ui/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialStore   = (*MemoryCredentialStore)(nil)
	_ ports.PrincipalResolver = (*StaticPrincipalResolver)(nil)
	_ ports.ProxyMetrics      = (*RecordingMetrics)(nil)
)

// Write is one Set call observed by MemoryCredentialStore.
type Write struct {
	Kind       domainauth.TokenKind
	Value      string
	TTLSeconds int
}

// MemoryCredentialStore is an in-memory credential store that records every write.
type MemoryCredentialStore struct {
	mu     sync.Mutex
	values map[domainauth.TokenKind]string
	writes []Write
}

// NewMemoryCredentialStore creates a store seeded with the given access and refresh tokens.
// Empty arguments leave the slot absent.
func NewMemoryCredentialStore(access, refresh string) *MemoryCredentialStore {
	s := &MemoryCredentialStore{values: make(map[domainauth.TokenKind]string)}
	if access != "" {
		s.values[domainauth.AccessToken] = access
	}
	if refresh != "" {
		s.values[domainauth.RefreshToken] = refresh
	}
	return s
}

func (s *MemoryCredentialStore) Set(kind domainauth.TokenKind, value string, ttlSeconds int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, Write{Kind: kind, Value: value, TTLSeconds: ttlSeconds})
	if value == "" || ttlSeconds <= 0 {
		delete(s.values, kind)
		return
	}
	s.values[kind] = value
}

func (s *MemoryCredentialStore) Get(kind domainauth.TokenKind) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[kind]
	return v, ok && v != ""
}

func (s *MemoryCredentialStore) Clear(kind domainauth.TokenKind) {
	s.Set(kind, "", 0)
}

// Writes returns a copy of every Set observed so far.
func (s *MemoryCredentialStore) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Write, len(s.writes))
	copy(out, s.writes)
	return out
}

// StaticPrincipalResolver answers with a fixed principal.
type StaticPrincipalResolver struct {
	Principal domainauth.Principal
	OK        bool
	calls     int
	mu        sync.Mutex
}

func (r *StaticPrincipalResolver) Resolve(_ context.Context, _ ports.CredentialStore) (domainauth.Principal, bool) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return r.Principal, r.OK
}

// Calls reports how many times Resolve ran.
func (r *StaticPrincipalResolver) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// RecordingMetrics counts proxy metric observations by label.
type RecordingMetrics struct {
	mu       sync.Mutex
	forwards map[string]int
	refresh  map[string]int
	backend  map[string]int
}

// NewRecordingMetrics creates an empty recorder.
func NewRecordingMetrics() *RecordingMetrics {
	return &RecordingMetrics{
		forwards: make(map[string]int),
		refresh:  make(map[string]int),
		backend:  make(map[string]int),
	}
}

func (m *RecordingMetrics) ObserveForward(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forwards[outcome]++
}

func (m *RecordingMetrics) ObserveBackend(method string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backend[method]++
}

func (m *RecordingMetrics) ObserveRefresh(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh[result]++
}

// Forwards returns the count recorded for outcome.
func (m *RecordingMetrics) Forwards(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.forwards[outcome]
}

// Refreshes returns the count recorded for result.
func (m *RecordingMetrics) Refreshes(result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh[result]
}

// BackendCalls returns the count recorded for method.
func (m *RecordingMetrics) BackendCalls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend[method]
}
