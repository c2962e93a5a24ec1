package snapshots_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-oauth-request/snapshots"
	"github.com/stretchr/testify/require"
)

func TestEntryCodec(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		entry := &snapshots.Entry{
			ID:        "7d1c7a4e-4b8f-4a43-9d2b-0f1c2e3d4a5b",
			Key:       "oauth_request:00000000000000ff",
			ClientID:  "theClient",
			GrantType: "implicit",
			Snapshot:  []byte{0x9c, 0x01, 0xa1, 'c'},
			CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 600, time.UTC),
		}

		data, err := snapshots.MarshalEntry(entry)
		require.NoError(t, err)
		got, err := snapshots.UnmarshalEntry(data)
		require.NoError(t, err)

		require.Equal(t, entry.ID, got.ID)
		require.Equal(t, entry.Key, got.Key)
		require.Equal(t, entry.ClientID, got.ClientID)
		require.Equal(t, entry.GrantType, got.GrantType)
		require.Equal(t, entry.Snapshot, got.Snapshot)
		require.True(t, entry.CreatedAt.Equal(got.CreatedAt), "created at %v, got %v", entry.CreatedAt, got.CreatedAt)
	})

	t.Run("empty grant type and snapshot", func(t *testing.T) {
		data, err := snapshots.MarshalEntry(&snapshots.Entry{Key: "k", ClientID: "c"})
		require.NoError(t, err)
		got, err := snapshots.UnmarshalEntry(data)
		require.NoError(t, err)
		require.Equal(t, "k", got.Key)
		require.Empty(t, got.GrantType)
		require.Empty(t, got.Snapshot)
		require.True(t, got.CreatedAt.IsZero())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := snapshots.UnmarshalEntry([]byte{0xc1})
		require.Error(t, err)
	})
}
