package config

import (
	"time"

	"github.com/jrsteele09/go-oauth-request/snapshots"
)

const (
	// SnapshotStoreMemory keeps snapshots in process memory
	SnapshotStoreMemory = "memory"
	// SnapshotStoreRedis keeps snapshots in Redis at REDIS_URL
	SnapshotStoreRedis = "redis"
	// SnapshotStoreBolt keeps snapshots in a local bolt file at SNAPSHOT_BOLT_PATH
	SnapshotStoreBolt = "bolt"
)

type SnapshotConfig interface {
	GetSnapshotStore() string
	GetRedisURL() string
	GetSnapshotBoltPath() string
	GetSnapshotTTL() time.Duration
	GetSnapshotKeyPrefix() string
}

type Snapshot struct{}

var _ SnapshotConfig = Snapshot{}

func (Snapshot) GetSnapshotStore() string {
	return GetEnv("SNAPSHOT_STORE", SnapshotStoreMemory)
}

func (Snapshot) GetRedisURL() string {
	return GetEnv("REDIS_URL", "redis://localhost:6379/0")
}

func (Snapshot) GetSnapshotBoltPath() string {
	return GetEnv("SNAPSHOT_BOLT_PATH", "oauthreq-snapshots.db")
}

// GetSnapshotTTL returns how long stored snapshots are kept, falling back to
// 24 hours when SNAPSHOT_TTL is unset or not a valid duration
func (Snapshot) GetSnapshotTTL() time.Duration {
	ttl, err := time.ParseDuration(GetEnv("SNAPSHOT_TTL", ""))
	if err != nil || ttl < 0 {
		return 24 * time.Hour
	}
	return ttl
}

func (Snapshot) GetSnapshotKeyPrefix() string {
	return GetEnv("SNAPSHOT_KEY_PREFIX", snapshots.DefaultKeyPrefix)
}
