// Package database opens bun connections for the supported dialects and
// bootstraps the page tables.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/codepilotrules/go-docs/pages"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

var (
	ErrDialectUnsupported = errors.New("database: unsupported dialect")
	ErrDSNRequired        = errors.New("database: dsn is required")
)

// Config selects the driver and connection string.
type Config struct {
	Dialect      string
	DSN          string
	MaxOpenConns int
}

// Open connects to the configured database and returns a bun handle.
func Open(cfg Config) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, ErrDSNRequired
	}

	var (
		sqlDB *sql.DB
		db    *bun.DB
		err   error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Dialect)) {
	case DialectSQLite, "sqlite3", "":
		sqlDB, err = sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("database: open sqlite: %w", err)
		}
		db = bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
	case DialectPostgres, "postgresql", "pg":
		sqlDB, err = sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("database: open postgres: %w", err)
		}
		db = bun.NewDB(sqlDB, pgdialect.New())
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrDialectUnsupported, cfg.Dialect)
	}
	return db, nil
}

// Models lists the tables owned by the module.
func Models() []any {
	return []any{
		(*pages.Page)(nil),
		(*pages.PageTag)(nil),
	}
}

// EnsureSchema creates the page tables and indexes when they are missing.
func EnsureSchema(ctx context.Context, db bun.IDB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("database: create table for %T: %w", model, err)
		}
	}

	indexes := []struct {
		name    string
		columns []string
	}{
		{name: "idx_pages_parent_order", columns: []string{"parent_id", "order_index"}},
		{name: "idx_pages_path", columns: []string{"path"}},
	}
	for _, index := range indexes {
		if _, err := db.NewCreateIndex().
			Model((*pages.Page)(nil)).
			Index(index.name).
			Column(index.columns...).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("database: create index %s: %w", index.name, err)
		}
	}
	return nil
}
