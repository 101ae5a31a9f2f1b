package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/codepilotrules/go-docs/internal/database"
	"github.com/codepilotrules/go-docs/pages"
)

func TestOpenRejectsUnknownDialect(t *testing.T) {
	if _, err := database.Open(database.Config{Dialect: "oracle", DSN: "x"}); !errors.Is(err, database.ErrDialectUnsupported) {
		t.Fatalf("expected ErrDialectUnsupported, got %v", err)
	}
	if _, err := database.Open(database.Config{Dialect: "sqlite"}); !errors.Is(err, database.ErrDSNRequired) {
		t.Fatalf("expected ErrDSNRequired, got %v", err)
	}
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(database.Config{Dialect: "sqlite", DSN: "file:database_schema_test?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for i := 0; i < 2; i++ {
		if err := database.EnsureSchema(ctx, db); err != nil {
			t.Fatalf("ensure schema (pass %d): %v", i+1, err)
		}
	}

	count, err := db.NewSelect().Model((*pages.Page)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("count pages: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty pages table, got %d rows", count)
	}
}
