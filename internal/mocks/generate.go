// Package mocks provides mock implementations of the gallery ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the interfaces in internal/ports.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockDemoIdentityStore(ctrl)
//	store.EXPECT().Get(gomock.Any(), "browser-1").Return(domainauth.DemoIdentity{}, false, nil)
package mocks

// Generate mock for CredentialStore: Set, Get, Clear
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=credential_store_mock.go github.com/target/gallery-ui/internal/ports CredentialStore

// Generate mock for DemoIdentityStore: Get, SaveIfAbsent
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=demo_identity_store_mock.go github.com/target/gallery-ui/internal/ports DemoIdentityStore

// Generate mock for Backend: Do
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=backend_mock.go github.com/target/gallery-ui/internal/ports Backend

// Generate mock for PrincipalResolver: Resolve
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=principal_resolver_mock.go github.com/target/gallery-ui/internal/ports PrincipalResolver
