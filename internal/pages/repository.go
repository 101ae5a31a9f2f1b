package pages

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PageRepository abstracts page persistence for the service.
type PageRepository interface {
	Create(ctx context.Context, record *Page) (*Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Page, error)
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	GetByPath(ctx context.Context, path string) (*Page, error)
	List(ctx context.Context) ([]*Page, error)
	ListChildren(ctx context.Context, parentID *uuid.UUID) ([]*Page, error)
	ListByPathPrefix(ctx context.Context, prefix string) ([]*Page, error)
	CountChildren(ctx context.Context, id uuid.UUID) (int, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	MaxSiblingOrder(ctx context.Context, parentID *uuid.UUID) (*int, error)
	Update(ctx context.Context, record *Page) (*Page, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceTags(ctx context.Context, pageID uuid.UUID, tags []string) error
	ListTags(ctx context.Context, pageID uuid.UUID) ([]string, error)
	// Atomic runs fn against a repository whose reads and writes are
	// isolated from concurrent Atomic calls. A returned error discards
	// every write made through tx.
	Atomic(ctx context.Context, fn func(ctx context.Context, tx PageRepository) error) error
}

// NewPageRepository builds the generic bun repository for pages.
func NewPageRepository(db *bun.DB) repository.Repository[*Page] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Page]{
		NewRecord: func() *Page { return &Page{} },
		GetID: func(p *Page) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Page, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Page) string {
			return p.Slug
		},
	})
}

// pageColumns lists the columns written on update.
var pageColumns = []string{
	"title",
	"slug",
	"parent_id",
	"order_index",
	"path",
	"content",
	"markdown",
	"excerpt",
	"status",
	"published_at",
	"updated_by",
	"updated_at",
}
