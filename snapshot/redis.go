// SPDX-License-Identifier: MIT

package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces RedisStore keys.
const DefaultPrefix = "rollrate:snapshot:"

const latestKey = "latest"

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(r *RedisStore) { r.prefix = prefix }
}

// WithTTL expires snapshots after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) RedisOption {
	if ttl < 0 {
		panic("snapshot: WithTTL(negative)")
	}
	return func(r *RedisStore) { r.ttl = ttl }
}

// RedisStore persists snapshots as JSON strings.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore dials addr and pings it.
func NewRedisStore(ctx context.Context, addr, password string, db int, opts ...RedisOption) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("snapshot: redis ping %s: %w", addr, err)
	}

	return NewRedisStoreFromClient(client, opts...), nil
}

// NewRedisStoreFromClient wraps an existing client. Close closes it.
func NewRedisStoreFromClient(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	r := &RedisStore{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Save writes the document and moves the latest pointer in one transaction.
func (r *RedisStore) Save(ctx context.Context, s *Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, r.key(s.ID.String()), doc, r.ttl)
		p.Set(ctx, r.key(latestKey), s.ID.String(), r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("snapshot: redis save %s: %w", s.ID, err)
	}

	return nil
}

// Load fetches the snapshot with id.
func (r *RedisStore) Load(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	doc, err := r.client.Get(ctx, r.key(id.String())).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: redis load %s: %w", id, err)
	}

	return decode(doc)
}

// Latest follows the latest pointer.
func (r *RedisStore) Latest(ctx context.Context) (*Snapshot, error) {
	raw, err := r.client.Get(ctx, r.key(latestKey)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("latest snapshot: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: redis latest: %w", err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: latest pointer %q: %w", ErrInvalid, raw, err)
	}

	return r.Load(ctx, id)
}

// Close releases the client.
func (r *RedisStore) Close() error { return r.client.Close() }

func (r *RedisStore) key(suffix string) string { return r.prefix + suffix }
