package snapshots

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// DefaultKeyPrefix namespaces snapshot keys in shared stores.
const DefaultKeyPrefix = "oauth_request"

// Key derives the store key of a snapshot from its content. Requests with the
// same logical content share a key because their snapshots are identical.
func Key(prefix string, snapshot []byte) string {
	return fmt.Sprintf("%s:%016x", prefix, xxhash.Sum64(snapshot))
}
