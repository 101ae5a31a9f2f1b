package pages_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/codepilotrules/go-docs/internal/pages"
)

func TestComputePath(t *testing.T) {
	ctx := context.Background()
	parentID := uuid.New()
	resolver := func(_ context.Context, id uuid.UUID) (string, bool, error) {
		if id == parentID {
			return "/docs/intro", true, nil
		}
		return "", false, nil
	}

	root, err := pages.ComputePath(ctx, "", nil, "intro", resolver)
	if err != nil || root != "/docs/intro" {
		t.Fatalf("expected /docs/intro, got %q (%v)", root, err)
	}

	child, err := pages.ComputePath(ctx, "/docs", &parentID, "setup", resolver)
	if err != nil || child != "/docs/intro/setup" {
		t.Fatalf("expected /docs/intro/setup, got %q (%v)", child, err)
	}

	custom, err := pages.ComputePath(ctx, "guides/", nil, "go", resolver)
	if err != nil || custom != "/guides/go" {
		t.Fatalf("expected /guides/go, got %q (%v)", custom, err)
	}

	missing := uuid.New()
	_, err = pages.ComputePath(ctx, "", &missing, "orphan", resolver)
	var invalid *pages.InvalidParentError
	if !errors.As(err, &invalid) || invalid.ParentID != missing {
		t.Fatalf("expected InvalidParentError for %s, got %v", missing, err)
	}
	if !errors.Is(err, pages.ErrInvalidParent) {
		t.Fatalf("expected ErrInvalidParent, got %v", err)
	}
}

func TestNextOrderIndex(t *testing.T) {
	if got := pages.NextOrderIndex(nil); got != 0 {
		t.Fatalf("expected 0 for empty sibling group, got %d", got)
	}
	highest := 2
	if got := pages.NextOrderIndex(&highest); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

type fakeForest map[uuid.UUID][]*pages.Page

func (f fakeForest) fetch(_ context.Context, parentID *uuid.UUID) ([]*pages.Page, error) {
	key := uuid.Nil
	if parentID != nil {
		key = *parentID
	}
	return append([]*pages.Page(nil), f[key]...), nil
}

func TestBuildChildTreeOrdersEveryLevel(t *testing.T) {
	rootA := &pages.Page{ID: uuid.New(), Slug: "a", OrderIndex: 1}
	rootB := &pages.Page{ID: uuid.New(), Slug: "b", OrderIndex: 0}
	childA2 := &pages.Page{ID: uuid.New(), Slug: "a2", OrderIndex: 5, ParentID: &rootA.ID}
	childA1 := &pages.Page{ID: uuid.New(), Slug: "a1", OrderIndex: 2, ParentID: &rootA.ID}

	forest := fakeForest{
		uuid.Nil: {rootA, rootB},
		rootA.ID: {childA2, childA1},
	}

	nodes, err := pages.BuildChildTree(context.Background(), nil, forest.fetch)
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	if len(nodes) != 2 || nodes[0].Page.Slug != "b" || nodes[1].Page.Slug != "a" {
		t.Fatalf("unexpected root order: %+v", nodes)
	}
	children := nodes[1].Children
	if len(children) != 2 || children[0].Page.Slug != "a1" || children[1].Page.Slug != "a2" {
		t.Fatalf("unexpected child order: %+v", children)
	}
	if len(nodes[0].Children) != 0 {
		t.Fatalf("expected leaf root b, got %d children", len(nodes[0].Children))
	}

	subtree, err := pages.BuildChildTree(context.Background(), &rootA.ID, forest.fetch)
	if err != nil {
		t.Fatalf("build subtree: %v", err)
	}
	if len(subtree) != 2 || subtree[0].Page.Slug != "a1" {
		t.Fatalf("unexpected subtree: %+v", subtree)
	}
}

func TestBuildChildTreeDetectsCycles(t *testing.T) {
	a := &pages.Page{ID: uuid.New(), Slug: "a"}
	b := &pages.Page{ID: uuid.New(), Slug: "b", ParentID: &a.ID}
	forest := fakeForest{
		a.ID: {b},
		b.ID: {a},
	}

	_, err := pages.BuildChildTree(context.Background(), &a.ID, forest.fetch)
	if !errors.Is(err, pages.ErrPageParentCycle) {
		t.Fatalf("expected ErrPageParentCycle, got %v", err)
	}
}

func TestGuardDelete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	withChildren := func(context.Context, uuid.UUID) (int, error) { return 2, nil }
	err := pages.GuardDelete(ctx, id, withChildren)
	var blocked *pages.BlockedByChildrenError
	if !errors.As(err, &blocked) || blocked.Children != 2 {
		t.Fatalf("expected BlockedByChildrenError with 2 children, got %v", err)
	}

	leaf := func(context.Context, uuid.UUID) (int, error) { return 0, nil }
	if err := pages.GuardDelete(ctx, id, leaf); err != nil {
		t.Fatalf("expected leaf delete to be allowed, got %v", err)
	}
}

func TestCheckAncestry(t *testing.T) {
	ctx := context.Background()
	root := uuid.New()
	mid := uuid.New()
	leaf := uuid.New()
	parents := map[uuid.UUID]*uuid.UUID{root: nil, mid: &root, leaf: &mid}
	parentOf := func(_ context.Context, id uuid.UUID) (*uuid.UUID, error) {
		return parents[id], nil
	}

	if err := pages.CheckAncestry(ctx, root, &leaf, parentOf); !errors.Is(err, pages.ErrPageParentCycle) {
		t.Fatalf("expected cycle when moving root under its descendant, got %v", err)
	}
	if err := pages.CheckAncestry(ctx, mid, &mid, parentOf); !errors.Is(err, pages.ErrPageParentCycle) {
		t.Fatalf("expected cycle when parenting a page to itself, got %v", err)
	}
	if err := pages.CheckAncestry(ctx, leaf, &root, parentOf); err != nil {
		t.Fatalf("expected valid move, got %v", err)
	}
	if err := pages.CheckAncestry(ctx, leaf, nil, parentOf); err != nil {
		t.Fatalf("expected move to root to be valid, got %v", err)
	}
}
