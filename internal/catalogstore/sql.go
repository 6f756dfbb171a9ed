package catalogstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

const (
	defaultTable       = "kv"
	defaultSQLitePath  = "catalog.db"
	defaultPostgresDSN = "postgres://localhost/supply?sslmode=disable"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type dialect struct {
	driver string
	ddl    string
	get    string
	put    string
}

func sqliteDialect(table string) dialect {
	return dialect{
		driver: "sqlite",
		ddl:    fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, payload BLOB NOT NULL)`, table),
		get:    fmt.Sprintf(`SELECT payload FROM %s WHERE key = ?`, table),
		put:    fmt.Sprintf(`INSERT INTO %s (key, payload) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`, table),
	}
}

func postgresDialect(table string) dialect {
	return dialect{
		driver: "pgx",
		ddl:    fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, payload BYTEA NOT NULL)`, table),
		get:    fmt.Sprintf(`SELECT payload FROM %s WHERE key = $1`, table),
		put:    fmt.Sprintf(`INSERT INTO %s (key, payload) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload`, table),
	}
}

// SQLStore keeps the catalog in one row of a key/payload table.
type SQLStore struct {
	db *sql.DB
	d  dialect
}

var _ types.CatalogStore = (*SQLStore)(nil)

// NewSQLiteStore opens (creating when needed) a SQLite database at path.
func NewSQLiteStore(ctx context.Context, path, table string) (*SQLStore, error) {
	if path == "" {
		path = defaultSQLitePath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	return openSQL(ctx, path, table, sqliteDialect)
}

// NewPostgresStore connects through pgx and ensures the table exists.
func NewPostgresStore(ctx context.Context, dsn, table string) (*SQLStore, error) {
	if dsn == "" {
		dsn = defaultPostgresDSN
	}
	return openSQL(ctx, dsn, table, postgresDialect)
}

func openSQL(ctx context.Context, dsn, table string, mk func(string) dialect) (*SQLStore, error) {
	if table == "" {
		table = defaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	d := mk(table)
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.driver, err)
	}
	if _, err := db.ExecContext(ctx, d.ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create %s table: %w", table, err)
	}
	return &SQLStore{db: db, d: d}, nil
}

func (s *SQLStore) Load(ctx context.Context) ([]string, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, s.d.get, Key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return decode(nil, false)
	}
	if err != nil {
		return nil, fmt.Errorf("select catalog: %w", err)
	}
	return decode(payload, true)
}

func (s *SQLStore) Save(ctx context.Context, items []string) error {
	payload, err := encode(items)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.d.put, Key, payload); err != nil {
		return fmt.Errorf("upsert catalog: %w", err)
	}
	return nil
}

// DB exposes the underlying sql.DB for tests.
func (s *SQLStore) DB() *sql.DB { return s.db }

func (s *SQLStore) Close() error { return s.db.Close() }
