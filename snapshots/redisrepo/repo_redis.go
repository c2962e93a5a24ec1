package redisrepo

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/jrsteele09/go-oauth-request/internal/errors"
	"github.com/jrsteele09/go-oauth-request/snapshots"
	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var _ snapshots.Repo = (*Repo)(nil)

// Repo stores snapshot entries in Redis. Entries expire after the configured
// TTL; a zero TTL keeps them until deleted.
type Repo struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// New creates a Redis backed snapshot repository.
func New(client redis.UniversalClient, ttl time.Duration) *Repo {
	return &Repo{client: client, ttl: ttl}
}

// Upsert stores or replaces the entry under entry.Key
func (r *Repo) Upsert(ctx context.Context, entry *snapshots.Entry) error {
	if entry == nil {
		return apperrors.ErrNilEntry
	}
	if entry.Key == "" {
		return apperrors.ErrInvalidKey
	}

	data, err := snapshots.MarshalEntry(entry)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, entry.Key, data, r.ttl).Err(); err != nil {
		return pkgerrors.Wrapf(err, "[Upsert] failed to store %s", entry.Key)
	}
	return nil
}

// Get retrieves an entry by key
func (r *Repo) Get(ctx context.Context, key string) (*snapshots.Entry, error) {
	if key == "" {
		return nil, apperrors.ErrInvalidKey
	}

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "snapshot %s", key)
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "[Get] failed to read %s", key)
	}

	entry, err := snapshots.UnmarshalEntry(data)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "[Get] %s", key)
	}
	return entry, nil
}

// Delete removes an entry
func (r *Repo) Delete(ctx context.Context, key string) error {
	if key == "" {
		return apperrors.ErrInvalidKey
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return pkgerrors.Wrapf(err, "[Delete] failed to delete %s", key)
	}
	return nil
}
