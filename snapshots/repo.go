package snapshots

import (
	"context"
	"time"
)

// Entry is a stored request snapshot.
type Entry struct {
	ID        string    `msgpack:"id"`         // Unique ID of this audit record
	Key       string    `msgpack:"key"`        // Content derived key, see Key
	ClientID  string    `msgpack:"client_id"`  // Client the request was made by
	GrantType string    `msgpack:"grant_type"` // Resolved grant type, may be empty
	Snapshot  []byte    `msgpack:"snapshot"`   // Output of oauthmodel.MarshalSnapshot
	CreatedAt time.Time `msgpack:"created_at"` // When the entry was recorded
}

// Copy returns a deep copy of e.
func (e *Entry) Copy() *Entry {
	c := *e
	c.Snapshot = append([]byte(nil), e.Snapshot...)
	return &c
}

// Repo stores snapshot entries by key.
type Repo interface {
	Upsert(ctx context.Context, entry *Entry) error
	Get(ctx context.Context, key string) (*Entry, error)
	Delete(ctx context.Context, key string) error
}
