package config

import "log/slog"

// YAMLConfig represents the application's configuration.
type YAMLConfig struct {
	WorkingDir string            `yaml:"working_dir"`
	LogLevel   string            `yaml:"log_level"`
	Supply     YAMLConfigSupply  `yaml:"supply"`
	Catalog    YAMLConfigCatalog `yaml:"catalog"`
	Journal    YAMLConfigJournal `yaml:"journal"`
	Stream     YAMLConfigStream  `yaml:"stream"`
	Server     YAMLConfigServer  `yaml:"server"`
	Raft       YAMLConfigRaft    `yaml:"raft"`
}

// YAMLConfigSupply holds the supply size bounds and defaults.
type YAMLConfigSupply struct {
	DefaultSize int    `yaml:"default_size"`
	MinSize     int    `yaml:"min_size"`
	MaxSize     int    `yaml:"max_size"`
	MaxHistory  int    `yaml:"max_history"`
	Mode        string `yaml:"mode"`
	// Seed fixes the shuffle source. Zero seeds from time.
	Seed int64 `yaml:"seed"`
}

// YAMLConfigCatalog selects and configures the catalog store.
type YAMLConfigCatalog struct {
	Driver string `yaml:"driver"` // memory | file | sqlite | postgres | redis | s3
	Dir    string `yaml:"dir"`
	DSN    string `yaml:"dsn"`
	Table  string `yaml:"table"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	S3Bucket   string `yaml:"s3_bucket"`
	S3Prefix   string `yaml:"s3_prefix"`
	S3Region   string `yaml:"s3_region"`
	S3Endpoint string `yaml:"s3_endpoint"`

	// Items seeds a memory store.
	Items []string `yaml:"items"`
}

// YAMLConfigJournal represents the configuration for the session journal.
type YAMLConfigJournal struct {
	Disabled     bool   `yaml:"disabled"`
	Storage      string `yaml:"storage"` // file | mmap
	MaxFileSize  int64  `yaml:"max_file_size"`
	FlushAfterN  int    `yaml:"flush_after_n"`
	MailboxSize  int    `yaml:"mailbox_size"`
	Formatter    string `yaml:"formatter"` // json | csv
}

type YAMLConfigStream struct {
	Driver   string `yaml:"driver"` // none | log | nats
	NATSURL  string `yaml:"nats_url"`
	Subject  string `yaml:"subject"`
	ClientID string `yaml:"client_id"`
}

type YAMLConfigServer struct {
	HTTPAddr    string `yaml:"http_addr"`
	GRPCAddr    string `yaml:"grpc_addr"`
	MetricsPath string `yaml:"metrics_path"`
	GinMode     string `yaml:"gin_mode"`
}

type YAMLConfigRaft struct {
	Enabled        bool              `yaml:"enabled"`
	ReplicaID      uint64            `yaml:"replica_id"`
	ShardID        uint64            `yaml:"shard_id"`
	Addr           string            `yaml:"addr"`
	DataDir        string            `yaml:"data_dir"`
	InitialMembers map[uint64]string `yaml:"initial_members"`
	Join           bool              `yaml:"join"`
}

// SlogLevel maps LogLevel to slog. Unknown values mean info.
func (c YAMLConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
