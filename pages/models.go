package pages

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Page is a node in the documentation hierarchy. Path is derived from the
// parent's path and the page slug and is kept in sync on renames and moves.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID          uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Title       string         `bun:"title,notnull" json:"title"`
	Slug        string         `bun:"slug,notnull,unique" json:"slug"`
	ParentID    *uuid.UUID     `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	OrderIndex  int            `bun:"order_index,notnull,default:0" json:"order_index"`
	Path        string         `bun:"path,notnull" json:"path"`
	Content     map[string]any `bun:"content,type:jsonb" json:"content,omitempty"`
	Markdown    string         `bun:"markdown" json:"markdown,omitempty"`
	Excerpt     string         `bun:"excerpt" json:"excerpt,omitempty"`
	Status      string         `bun:"status,notnull,default:'draft'" json:"status"`
	PublishedAt *time.Time     `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedBy   uuid.UUID      `bun:"created_by,type:uuid" json:"created_by"`
	UpdatedBy   uuid.UUID      `bun:"updated_by,type:uuid" json:"updated_by"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Tags []string `bun:"-" json:"tags,omitempty"`
}

// IsRoot reports whether the page sits at the top of the hierarchy.
func (p *Page) IsRoot() bool {
	return p != nil && p.ParentID == nil
}

// PageTag associates a free-form tag with a page.
type PageTag struct {
	bun.BaseModel `bun:"table:page_tags,alias:ptg"`

	PageID    uuid.UUID `bun:"page_id,pk,type:uuid" json:"page_id"`
	Tag       string    `bun:"tag,pk" json:"tag"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// PageNode is a materialised subtree. Children are ordered by OrderIndex.
type PageNode struct {
	Page     *Page       `json:"page"`
	Children []*PageNode `json:"children"`
}

// PagePreview is the rendered form of a page's markdown source.
type PagePreview struct {
	PageID uuid.UUID      `json:"page_id,omitempty"`
	HTML   string         `json:"html"`
	Doc    map[string]any `json:"document,omitempty"`
}
