package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-oauth-request/internal/config"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	for _, name := range []string{"APP_NAME", "ENV", "LOG_LEVEL", "SNAPSHOT_STORE", "REDIS_URL", "SNAPSHOT_BOLT_PATH", "SNAPSHOT_TTL", "SNAPSHOT_KEY_PREFIX"} {
		t.Setenv(name, "")
	}
	c := config.New()

	require.Equal(t, "OAuth Request", c.GetAppName())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "info", c.GetLogLevel())
	require.Equal(t, config.SnapshotStoreMemory, c.GetSnapshotStore())
	require.Equal(t, "redis://localhost:6379/0", c.GetRedisURL())
	require.Equal(t, "oauthreq-snapshots.db", c.GetSnapshotBoltPath())
	require.Equal(t, 24*time.Hour, c.GetSnapshotTTL())
	require.Equal(t, "oauth_request", c.GetSnapshotKeyPrefix())
}

func TestConfig_FromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SNAPSHOT_STORE", "redis")
	t.Setenv("SNAPSHOT_TTL", "90m")
	t.Setenv("SNAPSHOT_KEY_PREFIX", "audit")
	t.Setenv("SNAPSHOT_BOLT_PATH", "/var/lib/oauthreq/snapshots.db")
	c := config.New()

	require.Equal(t, "debug", c.GetLogLevel())
	require.Equal(t, config.SnapshotStoreRedis, c.GetSnapshotStore())
	require.Equal(t, 90*time.Minute, c.GetSnapshotTTL())
	require.Equal(t, "audit", c.GetSnapshotKeyPrefix())
	require.Equal(t, "/var/lib/oauthreq/snapshots.db", c.GetSnapshotBoltPath())

	t.Run("invalid ttl falls back", func(t *testing.T) {
		t.Setenv("SNAPSHOT_TTL", "soon")
		require.Equal(t, 24*time.Hour, c.GetSnapshotTTL())
	})
}
