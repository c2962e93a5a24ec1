package snapshots

import (
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v4"
)

// MarshalEntry encodes an entry for the persistent stores.
func MarshalEntry(entry *Entry) ([]byte, error) {
	data, err := msgpack.Marshal(entry)
	if err != nil {
		return nil, errors.Wrap(err, "[MarshalEntry] failed to encode entry")
	}
	return data, nil
}

// UnmarshalEntry decodes an entry written by MarshalEntry.
func UnmarshalEntry(data []byte) (*Entry, error) {
	var entry Entry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		return nil, errors.Wrap(err, "[UnmarshalEntry] failed to decode entry")
	}
	return &entry, nil
}
