package pages

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// DefaultPathPrefix anchors the materialised path of root pages.
const DefaultPathPrefix = "/docs"

// PathResolver returns the stored path of a page. found is false when the
// page does not exist.
type PathResolver func(ctx context.Context, id uuid.UUID) (path string, found bool, err error)

// ChildFetcher returns the direct children of parentID, or the root pages
// when parentID is nil.
type ChildFetcher func(ctx context.Context, parentID *uuid.UUID) ([]*Page, error)

// ChildCounter reports how many direct children a page has.
type ChildCounter func(ctx context.Context, id uuid.UUID) (int, error)

// ParentResolver returns the parent id of a page, or nil for roots.
type ParentResolver func(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)

// ComputePath builds the materialised path for slug under parentID.
func ComputePath(ctx context.Context, prefix string, parentID *uuid.UUID, slug string, pathOf PathResolver) (string, error) {
	if parentID == nil {
		return JoinPath(normalizePrefix(prefix), slug), nil
	}
	if pathOf == nil {
		return "", &InvalidParentError{ParentID: *parentID}
	}
	parentPath, found, err := pathOf(ctx, *parentID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", &InvalidParentError{ParentID: *parentID}
	}
	return JoinPath(parentPath, slug), nil
}

// JoinPath appends a slug segment to a parent path.
func JoinPath(parent, slug string) string {
	return strings.TrimRight(parent, "/") + "/" + slug
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return DefaultPathPrefix
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return strings.TrimRight(prefix, "/")
}

// NextOrderIndex returns the order index for a new sibling given the current
// maximum, or 0 when the sibling group is empty.
func NextOrderIndex(maxSibling *int) int {
	if maxSibling == nil {
		return 0
	}
	return *maxSibling + 1
}

// BuildChildTree materialises the forest below rootID (or the whole forest
// when rootID is nil). Siblings are sorted by ascending order index at every
// level. A page seen twice aborts the walk with ErrPageParentCycle.
func BuildChildTree(ctx context.Context, rootID *uuid.UUID, fetch ChildFetcher) ([]*PageNode, error) {
	visited := map[uuid.UUID]struct{}{}
	if rootID != nil {
		visited[*rootID] = struct{}{}
	}
	return buildLevel(ctx, rootID, fetch, visited)
}

func buildLevel(ctx context.Context, parentID *uuid.UUID, fetch ChildFetcher, visited map[uuid.UUID]struct{}) ([]*PageNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	children, err := fetch(ctx, parentID)
	if err != nil {
		return nil, err
	}
	SortSiblings(children)

	nodes := make([]*PageNode, 0, len(children))
	for _, child := range children {
		if child == nil {
			continue
		}
		if _, seen := visited[child.ID]; seen {
			return nil, fmt.Errorf("%w: page %s reached twice", ErrPageParentCycle, child.ID)
		}
		visited[child.ID] = struct{}{}
		id := child.ID
		grandchildren, err := buildLevel(ctx, &id, fetch, visited)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &PageNode{Page: child, Children: grandchildren})
	}
	return nodes, nil
}

// SortSiblings orders pages by order index, then slug for stable output.
func SortSiblings(items []*Page) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].OrderIndex != items[j].OrderIndex {
			return items[i].OrderIndex < items[j].OrderIndex
		}
		return items[i].Slug < items[j].Slug
	})
}

// GuardDelete refuses deletion of a page that still has children.
func GuardDelete(ctx context.Context, id uuid.UUID, countChildren ChildCounter) error {
	count, err := countChildren(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &BlockedByChildrenError{PageID: id, Children: count}
	}
	return nil
}

// CheckAncestry walks up from candidateParent and fails when pageID is one
// of its ancestors (or the candidate itself).
func CheckAncestry(ctx context.Context, pageID uuid.UUID, candidateParent *uuid.UUID, parentOf ParentResolver) error {
	if candidateParent == nil {
		return nil
	}
	seen := map[uuid.UUID]struct{}{}
	current := candidateParent
	for current != nil {
		if *current == pageID {
			return fmt.Errorf("%w: %s would become its own ancestor", ErrPageParentCycle, pageID)
		}
		if _, ok := seen[*current]; ok {
			return fmt.Errorf("%w: existing cycle at %s", ErrPageParentCycle, *current)
		}
		seen[*current] = struct{}{}
		next, err := parentOf(ctx, *current)
		if err != nil {
			return err
		}
		current = next
	}
	return nil
}
