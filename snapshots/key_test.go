package snapshots_test

import (
	"strings"
	"testing"

	"github.com/jrsteele09/go-oauth-request/snapshots"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	a := snapshots.Key("prefix", []byte("snapshot-a"))

	require.True(t, strings.HasPrefix(a, "prefix:"))
	require.Len(t, a, len("prefix:")+16)
	require.Equal(t, a, snapshots.Key("prefix", []byte("snapshot-a")))
	require.NotEqual(t, a, snapshots.Key("prefix", []byte("snapshot-b")))
	require.NotEqual(t, a, snapshots.Key("other", []byte("snapshot-a")))
}
