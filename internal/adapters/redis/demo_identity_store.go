// Package redis provides Redis-based adapters for the gallery front end.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/gallery-ui/internal/domain/auth"
)

// DefaultDemoTTL bounds how long an idle browser's demo record is kept.
const DefaultDemoTTL = 30 * 24 * time.Hour

// DemoIdentityStore keeps one demo identity record per browser id.
// SaveIfAbsent relies on SETNX, so concurrent first visits write exactly once.
type DemoIdentityStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewDemoIdentityStore creates a Redis demo identity store with the default prefix and TTL.
func NewDemoIdentityStore(client redis.UniversalClient) *DemoIdentityStore {
	return NewDemoIdentityStoreWithPrefix(client, "demo_identity:", DefaultDemoTTL)
}

// NewDemoIdentityStoreWithPrefix creates a Redis demo identity store with a custom key prefix and TTL.
func NewDemoIdentityStoreWithPrefix(client redis.UniversalClient, prefix string, ttl time.Duration) *DemoIdentityStore {
	if ttl <= 0 {
		ttl = DefaultDemoTTL
	}
	return &DemoIdentityStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *DemoIdentityStore) Get(ctx context.Context, browserID string) (domainauth.DemoIdentity, bool, error) {
	if browserID == "" {
		return domainauth.DemoIdentity{}, false, nil
	}

	data, err := s.client.Get(ctx, s.prefix+browserID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.DemoIdentity{}, false, nil
		}
		return domainauth.DemoIdentity{}, false, fmt.Errorf("redis get: %w", err)
	}

	var rec domainauth.DemoIdentity
	if unmarshalErr := json.Unmarshal([]byte(data), &rec); unmarshalErr != nil {
		return domainauth.DemoIdentity{}, false, fmt.Errorf("unmarshal demo identity: %w", unmarshalErr)
	}
	return rec, true, nil
}

func (s *DemoIdentityStore) SaveIfAbsent(
	ctx context.Context,
	browserID string,
	rec domainauth.DemoIdentity,
) (bool, error) {
	if browserID == "" {
		return false, errors.New("browser ID cannot be empty")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("marshal demo identity: %w", err)
	}

	written, err := s.client.SetNX(ctx, s.prefix+browserID, data, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return written, nil
}
