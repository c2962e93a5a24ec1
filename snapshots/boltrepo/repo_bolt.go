package boltrepo

import (
	"bytes"
	"context"
	"time"

	apperrors "github.com/jrsteele09/go-oauth-request/internal/errors"
	"github.com/jrsteele09/go-oauth-request/snapshots"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

var _ snapshots.Repo = (*Repo)(nil)

var bucketName = []byte("snapshots")

// Repo stores snapshot entries in a local bolt database file so that they
// outlive the process. Entries do not expire.
type Repo struct {
	db *bbolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Repo, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "[Open] failed to open %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "[Open] failed to create bucket")
	}
	return &Repo{db: db}, nil
}

// Close releases the database file.
func (r *Repo) Close() error {
	return r.db.Close()
}

// Upsert stores or replaces the entry under entry.Key
func (r *Repo) Upsert(_ context.Context, entry *snapshots.Entry) error {
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
	return r.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketName).Put([]byte(entry.Key), data); err != nil {
			return errors.Wrapf(err, "[Upsert] failed to store %s", entry.Key)
		}
		return nil
	})
}

// Get retrieves an entry by key
func (r *Repo) Get(_ context.Context, key string) (*snapshots.Entry, error) {
	if key == "" {
		return nil, apperrors.ErrInvalidKey
	}

	var data []byte
	err := r.db.View(func(tx *bbolt.Tx) error {
		// Values are only valid for the life of the transaction
		data = bytes.Clone(tx.Bucket(bucketName).Get([]byte(key)))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "[Get] failed to read %s", key)
	}
	if data == nil {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "snapshot %s", key)
	}

	entry, err := snapshots.UnmarshalEntry(data)
	if err != nil {
		return nil, errors.Wrapf(err, "[Get] %s", key)
	}
	return entry, nil
}

// Delete removes an entry
func (r *Repo) Delete(_ context.Context, key string) error {
	if key == "" {
		return apperrors.ErrInvalidKey
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
}
