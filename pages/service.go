package pages

import (
	"context"

	"github.com/google/uuid"
)

// Service describes page management capabilities.
type Service interface {
	Create(ctx context.Context, req CreatePageRequest) (*Page, error)
	Get(ctx context.Context, id uuid.UUID) (*Page, error)
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	GetByPath(ctx context.Context, path string) (*Page, error)
	List(ctx context.Context) ([]*Page, error)
	Update(ctx context.Context, req UpdatePageRequest) (*Page, error)
	Move(ctx context.Context, req MovePageRequest) (*Page, error)
	Reorder(ctx context.Context, req ReorderPageRequest) (*Page, error)
	Delete(ctx context.Context, req DeletePageRequest) error
	Children(ctx context.Context, parentID *uuid.UUID) ([]*Page, error)
	Tree(ctx context.Context, rootID *uuid.UUID) ([]*PageNode, error)
	Breadcrumbs(ctx context.Context, id uuid.UUID) ([]*Page, error)
	Publish(ctx context.Context, req PageStatusRequest) (*Page, error)
	Unpublish(ctx context.Context, req PageStatusRequest) (*Page, error)
	Archive(ctx context.Context, req PageStatusRequest) (*Page, error)
	SetTags(ctx context.Context, req SetPageTagsRequest) ([]string, error)
	Tags(ctx context.Context, id uuid.UUID) ([]string, error)
	Preview(ctx context.Context, req PreviewPageRequest) (*PagePreview, error)
}

// CreatePageRequest captures the payload required to create a page. When
// Markdown is supplied it is converted into structured content; otherwise
// Content must already be an editor document. Slug is derived from Title when
// empty.
type CreatePageRequest struct {
	ID        uuid.UUID
	Title     string
	Slug      string
	ParentID  *uuid.UUID
	Markdown  string
	Content   map[string]any
	Excerpt   string
	Tags      []string
	Publish   bool
	CreatedBy uuid.UUID
	UpdatedBy uuid.UUID
}

// UpdatePageRequest carries the mutable fields of a page. Nil pointers leave
// the stored value untouched.
type UpdatePageRequest struct {
	ID        uuid.UUID
	Title     *string
	Slug      *string
	Markdown  *string
	Content   map[string]any
	Excerpt   *string
	UpdatedBy uuid.UUID
}

// MovePageRequest re-parents a page. A nil NewParentID moves it to the root.
type MovePageRequest struct {
	PageID      uuid.UUID
	NewParentID *uuid.UUID
	ActorID     uuid.UUID
}

// ReorderPageRequest places a page at an explicit position among its siblings.
type ReorderPageRequest struct {
	PageID     uuid.UUID
	OrderIndex int
	ActorID    uuid.UUID
}

// DeletePageRequest captures the information required to delete a page.
type DeletePageRequest struct {
	ID        uuid.UUID
	DeletedBy uuid.UUID
}

// PageStatusRequest drives a lifecycle transition.
type PageStatusRequest struct {
	ID      uuid.UUID
	ActorID uuid.UUID
}

// SetPageTagsRequest replaces the tag set of a page.
type SetPageTagsRequest struct {
	PageID  uuid.UUID
	Tags    []string
	ActorID uuid.UUID
}

// PreviewPageRequest renders either a stored page or ad-hoc markdown.
type PreviewPageRequest struct {
	ID       uuid.UUID
	Markdown string
}
