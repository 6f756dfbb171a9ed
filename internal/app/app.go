package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/actor"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/catalogstore"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/config"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/journal"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/journal/formatter"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/journalstream"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/recovery"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/supply"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/utils"
)

// App is a running supply session with its catalog store and journal.
type App struct {
	Config  config.YAMLConfig
	Utils   *utils.DefaultUtils
	Store   types.CatalogStore
	System  *actor.System
	Logger  *slog.Logger
	closers []func()
}

// Open recovers the session from the journal and starts the actor system.
// Logs go to logWriter; nil means stdout.
func Open(ctx context.Context, cfg config.YAMLConfig, logWriter io.Writer) (*App, error) {
	journalDir, snapshotDir := cfg.JournalDir(), cfg.SnapshotDir()
	if cfg.Journal.Disabled {
		journalDir, snapshotDir = "", ""
	} else {
		for _, dir := range []string{journalDir, snapshotDir} {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}
	u := utils.NewDefaultUtils(journalDir, snapshotDir, cfg.SlogLevel(), logWriter)
	a := &App{Config: cfg, Utils: u, Logger: u.GetLogger()}

	store, err := catalogstore.New(ctx, cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("catalog store: %w", err)
	}
	a.Store = store
	if c, ok := store.(io.Closer); ok {
		a.closers = append(a.closers, func() { c.Close() })
	}

	sys, err := a.startSystem(cfg, u)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.System = sys
	return a, nil
}

func (a *App) startSystem(cfg config.YAMLConfig, u *utils.DefaultUtils) (*actor.System, error) {
	opts, err := ManagerOptions(cfg.Supply)
	if err != nil {
		return nil, err
	}
	if cfg.Journal.Disabled {
		return actor.NewSystem(&types.Context{Journal: journal.Discard{}, Utils: u}, supply.NewManager(opts), &actor.SystemOptional{
			RequestBufferSize: cfg.Journal.MailboxSize,
		})
	}

	format := Formatter(cfg.Journal.Formatter)
	var snapshotPath string
	if p := u.GenSnapshotPath(); p != nil {
		snapshotPath = *p
	}
	res, err := recovery.RecoverSession(snapshotPath, format, u, opts)
	if err != nil {
		return nil, fmt.Errorf("recovery failed: %w", err)
	}

	path := res.LastJournalPath
	var seqNo uint64
	if path == "" {
		if path, seqNo, err = u.GenNextJournalPath(); err != nil {
			return nil, fmt.Errorf("error generating journal path: %w", err)
		}
	} else if seqNo, err = utils.SeqFromJournalPath(path); err != nil {
		return nil, err
	}

	factory := journal.FileStorageFactory(cfg.Journal.MaxFileSize)
	if cfg.Journal.Storage == "mmap" {
		factory = journal.MMapStorageFactory(cfg.Journal.MaxFileSize)
	}
	j, err := journal.NewJournal(path, seqNo, format, factory)
	if err != nil {
		return nil, fmt.Errorf("error opening journal: %w", err)
	}

	streamer, err := a.streamer(cfg.Stream)
	if err != nil {
		j.Close()
		return nil, err
	}

	return actor.NewSystem(&types.Context{Journal: j, Utils: u}, res.Manager, &actor.SystemOptional{
		FlushAfterN:       cfg.Journal.FlushAfterN,
		RequestBufferSize: cfg.Journal.MailboxSize,
		LastSeq:           res.LastSeq,
		JournalPath:       path,
		Streamer:          streamer,
	})
}

func (a *App) streamer(cfg config.YAMLConfigStream) (journalstream.Streamer, error) {
	switch cfg.Driver {
	case "log":
		return journalstream.NewLogStreamer(a.Logger), nil
	case "nats":
		name := cfg.ClientID
		if name == "" {
			name = "tiny-supply"
		}
		conn, err := journalstream.ConnectNATS(cfg.NATSURL, name, a.Logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { conn.Drain() })
		return journalstream.NewNATSStreamer(conn, cfg.Subject, a.Logger), nil
	}
	return nil, nil
}

// Close stops the system, which flushes and closes the journal, then releases
// the stream connection and the catalog store.
func (a *App) Close() {
	if a.System != nil {
		a.System.Stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// ManagerOptions maps the supply config section to manager options.
func ManagerOptions(cfg config.YAMLConfigSupply) (supply.ManagerOptional, error) {
	mode, err := types.ParseSelectionMode(cfg.Mode)
	if err != nil {
		return supply.ManagerOptional{}, err
	}
	var src rand.Source
	if cfg.Seed != 0 {
		src = rand.NewSource(cfg.Seed)
	}
	return supply.ManagerOptional{
		Shuffler:   supply.NewRandShuffler(src),
		Size:       cfg.DefaultSize,
		Mode:       mode,
		MinSize:    cfg.MinSize,
		MaxSize:    cfg.MaxSize,
		MaxHistory: cfg.MaxHistory,
	}, nil
}

// Formatter maps a config name to a journal formatter. Unknown names mean JSON.
func Formatter(name string) types.LogFormatter {
	if name == "csv" {
		return formatter.NewCSVFormatter()
	}
	return formatter.NewJSONFormatter()
}
