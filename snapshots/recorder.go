package snapshots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-oauth-request/oauthmodel"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrSnapshotUnavailable is returned by Record when a request cannot be
// snapshotted. It is not a flow error: the authorization flow carries on
// without an audit record.
var ErrSnapshotUnavailable = errors.New("snapshot unavailable")

// Recorder snapshots requests into a Repo for caching and auditing.
type Recorder struct {
	repo    Repo
	logger  zerolog.Logger
	prefix  string
	nowTime func() time.Time
}

// RecorderOption defines a function type to modify the Recorder instance.
type RecorderOption func(*Recorder)

// WithLogger sets the logger, the global zerolog logger is used by default
func WithLogger(logger zerolog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// WithKeyPrefix sets the prefix of generated keys
func WithKeyPrefix(prefix string) RecorderOption {
	return func(r *Recorder) {
		r.prefix = prefix
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) RecorderOption {
	return func(r *Recorder) {
		r.nowTime = nowFunc
	}
}

// NewRecorder creates a Recorder storing entries in repo.
func NewRecorder(repo Repo, options ...RecorderOption) (*Recorder, error) {
	if repo == nil {
		return nil, pkgerrors.New("[NewRecorder] repo is required")
	}

	r := &Recorder{
		repo:    repo,
		logger:  log.Logger,
		prefix:  DefaultKeyPrefix,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	return r, nil
}

// Record snapshots request and stores it under its content key.
// A request that cannot be serialized yields ErrSnapshotUnavailable and
// nothing is stored.
func (r *Recorder) Record(ctx context.Context, request *oauthmodel.Request) (*Entry, error) {
	snapshot, err := oauthmodel.MarshalSnapshot(request)
	if err != nil {
		event := r.logger.Warn().Err(err)
		if request != nil {
			event = event.Str("client_id", request.ClientID())
		}
		event.Msg("Request snapshot unavailable")
		return nil, fmt.Errorf("%w: %w", ErrSnapshotUnavailable, err)
	}

	entry := &Entry{
		ID:        uuid.New().String(),
		Key:       Key(r.prefix, snapshot),
		ClientID:  request.ClientID(),
		GrantType: request.GrantType(),
		Snapshot:  snapshot,
		CreatedAt: r.nowTime(),
	}
	if err := r.repo.Upsert(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(err, "[Record] failed to store snapshot")
	}

	r.logger.Debug().
		Str("id", entry.ID).
		Str("key", entry.Key).
		Str("client_id", entry.ClientID).
		Str("grant_type", entry.GrantType).
		Msg("Recorded request snapshot")
	return entry, nil
}

// Load returns the request stored under key.
func (r *Recorder) Load(ctx context.Context, key string) (*oauthmodel.Request, error) {
	entry, err := r.repo.Get(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[Load] failed to get snapshot")
	}
	request, err := oauthmodel.UnmarshalSnapshot(entry.Snapshot)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[Load] failed to decode snapshot")
	}
	return request, nil
}
