package config

type Config interface {
	EnvConfig
	SnapshotConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	Snapshot
}

func New() Config {
	return mainConfig{}
}
