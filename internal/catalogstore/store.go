// Package catalogstore persists the catalog as a flat JSON list under a single key.
package catalogstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/catalog"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/config"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// Key is the literal key every backend stores the catalog under.
const Key = catalog.StorageKey

func encode(items []string) ([]byte, error) {
	list, err := catalog.Validate(items)
	if err != nil {
		return nil, err
	}
	return json.Marshal(list)
}

// decode turns a stored payload into a catalog. A missing payload or one that
// normalizes to nothing yields the default facilities.
func decode(payload []byte, found bool) ([]string, error) {
	if !found {
		return catalog.Defaults(), nil
	}
	var raw []string
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	list := catalog.Normalize(raw)
	if len(list) == 0 {
		return catalog.Defaults(), nil
	}
	return list, nil
}

// New opens the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.YAMLConfigCatalog) (types.CatalogStore, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(cfg.Items), nil
	case "file":
		return NewFileStore(cfg.Dir)
	case "sqlite":
		return NewSQLiteStore(ctx, cfg.DSN, cfg.Table)
	case "postgres":
		return NewPostgresStore(ctx, cfg.DSN, cfg.Table)
	case "redis":
		return NewRedisStore(ctx, RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	case "s3":
		return NewS3Store(ctx, S3Options{
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		})
	}
	return nil, fmt.Errorf("%w: %q", types.ErrUnknownStoreDriver, cfg.Driver)
}

// Update applies a newline separated bulk edit. An edit that normalizes to
// nothing is rejected with ErrEmptyCatalogEdit and the stored catalog is kept.
func Update(ctx context.Context, store types.CatalogStore, text string) ([]string, error) {
	list, err := catalog.ParseBulk(text)
	if err != nil {
		return nil, err
	}
	if err := store.Save(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}
