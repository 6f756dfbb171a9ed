package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/config"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

func TestLoadYAML_Sample(t *testing.T) {
	c := &config.ConfigImpl{}
	cfg, err := c.LoadYAML("../../samples/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Supply.DefaultSize)
	assert.Equal(t, "file", cfg.Catalog.Driver)
	assert.Equal(t, "log", cfg.Stream.Driver)
	assert.Equal(t, "localhost:63001", cfg.Raft.InitialMembers[1])
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadYAML_DefaultsFilled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("working_dir: /data\nlog_level: debug\n"), 0644))

	cfg, err := config.LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, "/data", cfg.Catalog.Dir)
	assert.Equal(t, filepath.Join("/data", "journal"), cfg.JournalDir())
	assert.Equal(t, filepath.Join("/data", "raft"), cfg.Raft.DataDir)
	assert.Equal(t, 5, cfg.Supply.MinSize)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.YAMLConfig)
		is     error
	}{
		{"default size above max", func(c *config.YAMLConfig) { c.Supply.DefaultSize = 20 }, types.ErrInvalidSupplySize},
		{"min above max", func(c *config.YAMLConfig) { c.Supply.MinSize = 9; c.Supply.MaxSize = 8 }, types.ErrInvalidSupplySize},
		{"bad mode", func(c *config.YAMLConfig) { c.Supply.Mode = "weighted" }, types.ErrUnknownSelectionMode},
		{"bad driver", func(c *config.YAMLConfig) { c.Catalog.Driver = "etcd" }, types.ErrUnknownStoreDriver},
		{"postgres without dsn", func(c *config.YAMLConfig) { c.Catalog.Driver = "postgres" }, nil},
		{"nats without url", func(c *config.YAMLConfig) { c.Stream.Driver = "nats" }, nil},
		{"raft without id", func(c *config.YAMLConfig) { c.Raft.Enabled = true }, nil},
		{"batched flush", func(c *config.YAMLConfig) { c.Journal.FlushAfterN = 10 }, nil},
		{"negative flush", func(c *config.YAMLConfig) { c.Journal.FlushAfterN = -1 }, nil},
		{"bad formatter", func(c *config.YAMLConfig) { c.Journal.Formatter = "xml" }, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tc.is != nil {
				assert.ErrorIs(t, err, tc.is)
			}
		})
	}
	assert.NoError(t, config.Default().Validate())
}
