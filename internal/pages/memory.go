package pages

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryPageRepository is an in-memory page store for tests and local runs.
type MemoryPageRepository struct {
	atomicMu sync.Mutex

	mu        sync.RWMutex
	pages     map[uuid.UUID]*Page
	slugIndex map[string]uuid.UUID
	tags      map[uuid.UUID][]string
}

// NewMemoryPageRepository constructs the repository.
func NewMemoryPageRepository() *MemoryPageRepository {
	return &MemoryPageRepository{
		pages:     make(map[uuid.UUID]*Page),
		slugIndex: make(map[string]uuid.UUID),
		tags:      make(map[uuid.UUID][]string),
	}
}

// Create inserts the supplied page. Slugs are unique across the store.
func (m *MemoryPageRepository) Create(_ context.Context, record *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pages[record.ID]; exists {
		return nil, ErrPageExists
	}
	key := slugKey(record.Slug)
	if _, taken := m.slugIndex[key]; taken {
		return nil, ErrSlugExists
	}
	copied := clonePage(record)
	copied.Tags = nil
	m.pages[copied.ID] = copied
	m.slugIndex[key] = copied.ID
	return m.withTags(clonePage(copied)), nil
}

// GetByID retrieves a page by identifier.
func (m *MemoryPageRepository) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	page, ok := m.pages[id]
	if !ok {
		return nil, &PageNotFoundError{Key: id.String()}
	}
	return m.withTags(clonePage(page)), nil
}

// GetBySlug retrieves a page by slug.
func (m *MemoryPageRepository) GetBySlug(_ context.Context, slug string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.slugIndex[slugKey(slug)]
	if !ok {
		return nil, &PageNotFoundError{Key: slug}
	}
	return m.withTags(clonePage(m.pages[id])), nil
}

// GetByPath retrieves a page by materialised path.
func (m *MemoryPageRepository) GetByPath(_ context.Context, path string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, record := range m.pages {
		if record.Path == path {
			return m.withTags(clonePage(record)), nil
		}
	}
	return nil, &PageNotFoundError{Key: path}
}

// List returns every page ordered by path.
func (m *MemoryPageRepository) List(_ context.Context) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Page, 0, len(m.pages))
	for _, record := range m.pages {
		out = append(out, m.withTags(clonePage(record)))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// ListChildren returns the direct children of parentID ordered by order index.
func (m *MemoryPageRepository) ListChildren(_ context.Context, parentID *uuid.UUID) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Page{}
	for _, record := range m.pages {
		if sameParent(record.ParentID, parentID) {
			out = append(out, clonePage(record))
		}
	}
	SortSiblings(out)
	return out, nil
}

// ListByPathPrefix returns the pages strictly below prefix.
func (m *MemoryPageRepository) ListByPathPrefix(_ context.Context, prefix string) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	needle := strings.TrimRight(prefix, "/") + "/"
	out := []*Page{}
	for _, record := range m.pages {
		if strings.HasPrefix(record.Path, needle) {
			out = append(out, clonePage(record))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// CountChildren reports the number of direct children of id.
func (m *MemoryPageRepository) CountChildren(_ context.Context, id uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, record := range m.pages {
		if record.ParentID != nil && *record.ParentID == id {
			count++
		}
	}
	return count, nil
}

// SlugExists reports whether slug is taken.
func (m *MemoryPageRepository) SlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.slugIndex[slugKey(slug)]
	return ok, nil
}

// MaxSiblingOrder returns the highest order index under parentID, or nil.
func (m *MemoryPageRepository) MaxSiblingOrder(_ context.Context, parentID *uuid.UUID) (*int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var highest *int
	for _, record := range m.pages {
		if !sameParent(record.ParentID, parentID) {
			continue
		}
		if highest == nil || record.OrderIndex > *highest {
			value := record.OrderIndex
			highest = &value
		}
	}
	return highest, nil
}

// Update persists mutable fields of a page.
func (m *MemoryPageRepository) Update(_ context.Context, record *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.pages[record.ID]
	if !ok {
		return nil, &PageNotFoundError{Key: record.ID.String()}
	}
	newKey := slugKey(record.Slug)
	if owner, taken := m.slugIndex[newKey]; taken && owner != record.ID {
		return nil, ErrSlugExists
	}

	updated := clonePage(record)
	updated.Tags = nil
	updated.CreatedAt = current.CreatedAt
	updated.CreatedBy = current.CreatedBy

	delete(m.slugIndex, slugKey(current.Slug))
	m.slugIndex[newKey] = updated.ID
	m.pages[updated.ID] = updated
	return m.withTags(clonePage(updated)), nil
}

// Delete removes the page and its tags.
func (m *MemoryPageRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.pages[id]
	if !ok {
		return &PageNotFoundError{Key: id.String()}
	}
	delete(m.pages, id)
	delete(m.slugIndex, slugKey(record.Slug))
	delete(m.tags, id)
	return nil
}

// ReplaceTags swaps the tag set of a page.
func (m *MemoryPageRepository) ReplaceTags(_ context.Context, pageID uuid.UUID, tags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pages[pageID]; !ok {
		return &PageNotFoundError{Key: pageID.String()}
	}
	if len(tags) == 0 {
		delete(m.tags, pageID)
		return nil
	}
	m.tags[pageID] = append([]string(nil), tags...)
	return nil
}

// ListTags returns the sorted tags of a page.
func (m *MemoryPageRepository) ListTags(_ context.Context, pageID uuid.UUID) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.pages[pageID]; !ok {
		return nil, &PageNotFoundError{Key: pageID.String()}
	}
	out := append([]string{}, m.tags[pageID]...)
	sort.Strings(out)
	return out, nil
}

// Atomic serialises fn against other Atomic calls and restores the previous
// state when fn fails.
func (m *MemoryPageRepository) Atomic(ctx context.Context, fn func(ctx context.Context, tx PageRepository) error) error {
	m.atomicMu.Lock()
	defer m.atomicMu.Unlock()

	snapshot := m.snapshot()
	if err := fn(ctx, memoryTx{m}); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

// memoryTx is the repository handed to Atomic callbacks; nested Atomic calls
// join the running one.
type memoryTx struct {
	*MemoryPageRepository
}

func (tx memoryTx) Atomic(ctx context.Context, fn func(ctx context.Context, tx PageRepository) error) error {
	return fn(ctx, tx)
}

type memorySnapshot struct {
	pages     map[uuid.UUID]*Page
	slugIndex map[string]uuid.UUID
	tags      map[uuid.UUID][]string
}

func (m *MemoryPageRepository) snapshot() memorySnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := memorySnapshot{
		pages:     make(map[uuid.UUID]*Page, len(m.pages)),
		slugIndex: make(map[string]uuid.UUID, len(m.slugIndex)),
		tags:      make(map[uuid.UUID][]string, len(m.tags)),
	}
	for id, page := range m.pages {
		snap.pages[id] = clonePage(page)
	}
	for key, id := range m.slugIndex {
		snap.slugIndex[key] = id
	}
	for id, tags := range m.tags {
		snap.tags[id] = append([]string(nil), tags...)
	}
	return snap
}

func (m *MemoryPageRepository) restore(snap memorySnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = snap.pages
	m.slugIndex = snap.slugIndex
	m.tags = snap.tags
}

func (m *MemoryPageRepository) withTags(page *Page) *Page {
	if page == nil {
		return nil
	}
	if tags := m.tags[page.ID]; len(tags) > 0 {
		page.Tags = append([]string(nil), tags...)
		sort.Strings(page.Tags)
	}
	return page
}

func slugKey(slug string) string {
	return strings.TrimSpace(slug)
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func clonePage(src *Page) *Page {
	if src == nil {
		return nil
	}
	copied := *src
	copied.ParentID = cloneUUIDPointer(src.ParentID)
	copied.PublishedAt = cloneTimePointer(src.PublishedAt)
	copied.Content = cloneMap(src.Content)
	if len(src.Tags) > 0 {
		copied.Tags = append([]string(nil), src.Tags...)
	}
	return &copied
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		switch typed := v.(type) {
		case map[string]any:
			out[k] = cloneMap(typed)
		case []any:
			out[k] = cloneSlice(typed)
		default:
			out[k] = v
		}
	}
	return out
}

func cloneSlice(src []any) []any {
	out := make([]any, len(src))
	for i, v := range src {
		switch typed := v.(type) {
		case map[string]any:
			out[i] = cloneMap(typed)
		case []any:
			out[i] = cloneSlice(typed)
		default:
			out[i] = v
		}
	}
	return out
}

func cloneTimePointer(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}

func cloneUUIDPointer(src *uuid.UUID) *uuid.UUID {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
