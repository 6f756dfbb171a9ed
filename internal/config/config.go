package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
	"gopkg.in/yaml.v3"
)

type ConfigImpl struct{}

func (c *ConfigImpl) LoadYAML(path string) (YAMLConfig, error) {
	return LoadYAML(path)
}

// LoadYAML reads path, fills unset fields from Default and validates the result.
func LoadYAML(path string) (YAMLConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return YAMLConfig{}, err
	}
	defer file.Close()

	var cfg YAMLConfig
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return YAMLConfig{}, fmt.Errorf("decode %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return YAMLConfig{}, err
	}
	return cfg, nil
}

// Default returns a config that runs everything locally under ./tmp.
func Default() YAMLConfig {
	cfg := YAMLConfig{}
	cfg.ApplyDefaults()
	return cfg
}

func (c *YAMLConfig) ApplyDefaults() {
	if c.WorkingDir == "" {
		c.WorkingDir = "./tmp"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.Supply.MinSize == 0 {
		c.Supply.MinSize = 5
	}
	if c.Supply.MaxSize == 0 {
		c.Supply.MaxSize = 15
	}
	if c.Supply.DefaultSize == 0 {
		c.Supply.DefaultSize = 10
	}
	if c.Supply.Mode == "" {
		c.Supply.Mode = "random"
	}

	if c.Catalog.Driver == "" {
		c.Catalog.Driver = "file"
	}
	if c.Catalog.Dir == "" {
		c.Catalog.Dir = c.WorkingDir
	}
	if c.Catalog.Table == "" {
		c.Catalog.Table = "kv"
	}

	if c.Journal.Storage == "" {
		c.Journal.Storage = "file"
	}
	if c.Journal.Formatter == "" {
		c.Journal.Formatter = "json"
	}
	if c.Journal.FlushAfterN == 0 {
		c.Journal.FlushAfterN = 1
	}
	if c.Journal.MailboxSize == 0 {
		c.Journal.MailboxSize = 100
	}

	if c.Stream.Driver == "" {
		c.Stream.Driver = "none"
	}
	if c.Stream.Subject == "" {
		c.Stream.Subject = "supply.journal"
	}

	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = ":8080"
	}
	if c.Server.GRPCAddr == "" {
		c.Server.GRPCAddr = ":50051"
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = "/metrics"
	}

	if c.Raft.ShardID == 0 {
		c.Raft.ShardID = 128
	}
	if c.Raft.DataDir == "" {
		c.Raft.DataDir = filepath.Join(c.WorkingDir, "raft")
	}
}

// Validate rejects combinations the services cannot start with.
func (c YAMLConfig) Validate() error {
	s := c.Supply
	if s.MinSize < 1 || s.MaxSize < s.MinSize {
		return fmt.Errorf("%w: bounds [%d, %d]", types.ErrInvalidSupplySize, s.MinSize, s.MaxSize)
	}
	if s.DefaultSize < s.MinSize || s.DefaultSize > s.MaxSize {
		return fmt.Errorf("%w: default %d not in [%d, %d]", types.ErrInvalidSupplySize, s.DefaultSize, s.MinSize, s.MaxSize)
	}
	if _, err := types.ParseSelectionMode(s.Mode); err != nil {
		return fmt.Errorf("%w: %q", err, s.Mode)
	}

	switch c.Catalog.Driver {
	case "memory", "file", "sqlite":
	case "postgres":
		if c.Catalog.DSN == "" {
			return fmt.Errorf("catalog: postgres needs dsn")
		}
	case "redis":
		if c.Catalog.RedisAddr == "" {
			return fmt.Errorf("catalog: redis needs redis_addr")
		}
	case "s3":
		if c.Catalog.S3Bucket == "" {
			return fmt.Errorf("catalog: s3 needs s3_bucket")
		}
	default:
		return fmt.Errorf("%w: %q", types.ErrUnknownStoreDriver, c.Catalog.Driver)
	}

	switch c.Journal.Storage {
	case "file", "mmap":
	default:
		return fmt.Errorf("journal: unknown storage %q", c.Journal.Storage)
	}
	// A failed batched flush would roll back operations already acknowledged.
	if c.Journal.FlushAfterN != 1 {
		return fmt.Errorf("journal: flush_after_n must be 1, got %d", c.Journal.FlushAfterN)
	}
	switch c.Journal.Formatter {
	case "json", "csv":
	default:
		return fmt.Errorf("journal: unknown formatter %q", c.Journal.Formatter)
	}

	switch c.Stream.Driver {
	case "none", "log":
	case "nats":
		if c.Stream.NATSURL == "" {
			return fmt.Errorf("stream: nats needs nats_url")
		}
	default:
		return fmt.Errorf("stream: unknown driver %q", c.Stream.Driver)
	}

	if c.Raft.Enabled {
		if c.Raft.ReplicaID == 0 {
			return fmt.Errorf("raft: replica_id must be > 0")
		}
		if !c.Raft.Join && len(c.Raft.InitialMembers) == 0 {
			return fmt.Errorf("raft: initial_members required unless joining")
		}
	}
	return nil
}

// JournalDir and SnapshotDir live under the working dir.
func (c YAMLConfig) JournalDir() string  { return filepath.Join(c.WorkingDir, "journal") }
func (c YAMLConfig) SnapshotDir() string { return filepath.Join(c.WorkingDir, "snapshot") }
