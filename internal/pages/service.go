package pages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/codepilotrules/go-docs/internal/domain"
	"github.com/codepilotrules/go-docs/internal/logging"
	"github.com/codepilotrules/go-docs/internal/richtext"
	"github.com/codepilotrules/go-docs/pkg/interfaces"
)

const (
	// DefaultCreateRetries bounds how often Create re-derives a slug after an
	// insert-time uniqueness violation.
	DefaultCreateRetries = 3
	// DefaultExcerptLength bounds derived excerpts, in runes.
	DefaultExcerptLength = 160
)

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

type IDGenerator func() uuid.UUID

func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger sets the logger used for slug collisions, retries and guarded deletes.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSlugOptions overrides slug derivation settings.
func WithSlugOptions(opts SlugOptions) ServiceOption {
	return func(s *service) {
		s.slugs = opts.normalized()
	}
}

// WithPathPrefix sets the path root for top-level pages.
func WithPathPrefix(prefix string) ServiceOption {
	return func(s *service) {
		s.pathPrefix = normalizePrefix(prefix)
	}
}

// WithCreateRetries sets how many times Create retries after a slug race.
func WithCreateRetries(retries int) ServiceOption {
	return func(s *service) {
		if retries < 0 {
			retries = 0
		}
		s.createRetries = retries
	}
}

// WithExcerptLength bounds excerpts derived from page content.
func WithExcerptLength(length int) ServiceOption {
	return func(s *service) {
		if length > 0 {
			s.excerptLength = length
		}
	}
}

// WithPreviewRenderer enables HTML previews.
func WithPreviewRenderer(renderer interfaces.MarkdownParser) ServiceOption {
	return func(s *service) {
		s.renderer = renderer
	}
}

type service struct {
	repo          PageRepository
	now           func() time.Time
	id            IDGenerator
	logger        interfaces.Logger
	slugs         SlugOptions
	pathPrefix    string
	createRetries int
	excerptLength int
	renderer      interfaces.MarkdownParser
}

// NewService constructs a page service over repo.
func NewService(repo PageRepository, opts ...ServiceOption) Service {
	s := &service{
		repo:          repo,
		now:           time.Now,
		id:            uuid.New,
		logger:        logging.NoOp(),
		slugs:         DefaultSlugOptions(),
		pathPrefix:    DefaultPathPrefix,
		createRetries: DefaultCreateRetries,
		excerptLength: DefaultExcerptLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the request, assigns slug, path and order index inside an
// atomic boundary and inserts the page.
func (s *service) Create(ctx context.Context, req CreatePageRequest) (*Page, error) {
	title := strings.TrimSpace(req.Title)
	if err := validation.Validate(title, validation.Required); err != nil {
		return nil, ErrTitleRequired
	}

	explicitSlug := strings.TrimSpace(req.Slug)
	if explicitSlug != "" {
		if err := ValidateSlug(explicitSlug); err != nil {
			return nil, err
		}
	}

	tags, err := NormalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}

	body, err := s.resolveContent(req.Markdown, req.Content)
	if err != nil {
		return nil, err
	}
	excerpt := strings.TrimSpace(req.Excerpt)
	if excerpt == "" {
		excerpt = body.excerpt
	}

	id := req.ID
	if id == uuid.Nil {
		id = s.id()
	}

	var created *Page
	for attempt := 0; ; attempt++ {
		err = s.repo.Atomic(ctx, func(ctx context.Context, tx PageRepository) error {
			if req.ID != uuid.Nil {
				if _, err := tx.GetByID(ctx, id); err == nil {
					return fmt.Errorf("%w: %s", ErrPageExists, id)
				} else if !errors.Is(err, ErrPageNotFound) {
					return err
				}
			}
			slug, err := s.chooseSlug(ctx, tx, title, explicitSlug)
			if err != nil {
				return err
			}
			path, err := ComputePath(ctx, s.pathPrefix, req.ParentID, slug, pathResolver(tx))
			if err != nil {
				return err
			}
			highest, err := tx.MaxSiblingOrder(ctx, req.ParentID)
			if err != nil {
				return err
			}

			now := s.now()
			record := &Page{
				ID:         id,
				Title:      title,
				Slug:       slug,
				ParentID:   cloneUUIDPointer(req.ParentID),
				OrderIndex: NextOrderIndex(highest),
				Path:       path,
				Content:    body.content,
				Markdown:   body.markdown,
				Excerpt:    excerpt,
				Status:     string(domain.StatusDraft),
				CreatedBy:  req.CreatedBy,
				UpdatedBy:  actorOr(req.UpdatedBy, req.CreatedBy),
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if req.Publish {
				if _, err := ApplyTransition(record, domain.ActionPublish, now); err != nil {
					return err
				}
			}

			inserted, err := tx.Create(ctx, record)
			if err != nil {
				return err
			}
			if len(tags) > 0 {
				if err := tx.ReplaceTags(ctx, inserted.ID, tags); err != nil {
					return err
				}
				inserted.Tags = tags
			}
			created = inserted
			return nil
		})
		if err == nil {
			break
		}
		if errors.Is(err, ErrSlugGenerationExhausted) {
			s.logger.Error("page slug generation exhausted", "title", title, "error", err)
			return nil, err
		}
		if explicitSlug != "" || !errors.Is(err, ErrSlugExists) || attempt >= s.createRetries {
			return nil, err
		}
		s.logger.Warn("page slug taken at insert, retrying", "title", title, "attempt", attempt+1)
	}

	s.logger.Debug("page created", "page_id", created.ID, "slug", created.Slug, "path", created.Path)
	return created, nil
}

func (s *service) chooseSlug(ctx context.Context, tx PageRepository, title, explicit string) (string, error) {
	if explicit == "" {
		return AssignSlug(ctx, title, tx.SlugExists, s.slugs)
	}
	taken, err := tx.SlugExists(ctx, explicit)
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("%w: %q", ErrSlugExists, explicit)
	}
	return explicit, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Page, error) {
	if id == uuid.Nil {
		return nil, ErrPageRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	return s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
}

func (s *service) GetByPath(ctx context.Context, path string) (*Page, error) {
	return s.repo.GetByPath(ctx, strings.TrimRight(strings.TrimSpace(path), "/"))
}

func (s *service) List(ctx context.Context) ([]*Page, error) {
	return s.repo.List(ctx)
}

// Update applies title, slug and content changes. A slug change recomputes
// the path of the page and of every descendant.
func (s *service) Update(ctx context.Context, req UpdatePageRequest) (*Page, error) {
	if req.ID == uuid.Nil {
		return nil, ErrPageRequired
	}

	var body *resolvedContent
	switch {
	case req.Markdown != nil:
		resolved, err := s.resolveContent(*req.Markdown, nil)
		if err != nil {
			return nil, err
		}
		body = &resolved
	case req.Content != nil:
		resolved, err := s.resolveContent("", req.Content)
		if err != nil {
			return nil, err
		}
		body = &resolved
	}

	var updated *Page
	err := s.repo.Atomic(ctx, func(ctx context.Context, tx PageRepository) error {
		page, err := tx.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if err := validation.Validate(title, validation.Required); err != nil {
				return ErrTitleRequired
			}
			page.Title = title
		}

		oldPath := page.Path
		if req.Slug != nil {
			slug := strings.TrimSpace(*req.Slug)
			if err := ValidateSlug(slug); err != nil {
				return err
			}
			if slug != page.Slug {
				taken, err := tx.SlugExists(ctx, slug)
				if err != nil {
					return err
				}
				if taken {
					return fmt.Errorf("%w: %q", ErrSlugExists, slug)
				}
				page.Slug = slug
				path, err := ComputePath(ctx, s.pathPrefix, page.ParentID, slug, pathResolver(tx))
				if err != nil {
					return err
				}
				page.Path = path
			}
		}

		if body != nil {
			page.Content = body.content
			page.Markdown = body.markdown
			if req.Excerpt == nil {
				page.Excerpt = body.excerpt
			}
		}
		if req.Excerpt != nil {
			page.Excerpt = strings.TrimSpace(*req.Excerpt)
		}

		now := s.now()
		page.UpdatedBy = req.UpdatedBy
		page.UpdatedAt = now

		tags := page.Tags
		saved, err := tx.Update(ctx, page)
		if err != nil {
			return err
		}
		saved.Tags = tags
		if oldPath != saved.Path {
			if err := s.cascadePaths(ctx, tx, oldPath, saved.Path, req.UpdatedBy, now); err != nil {
				return err
			}
		}
		updated = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Move re-parents a page, appending it to the end of the new sibling group.
func (s *service) Move(ctx context.Context, req MovePageRequest) (*Page, error) {
	if req.PageID == uuid.Nil {
		return nil, ErrPageRequired
	}

	var moved *Page
	err := s.repo.Atomic(ctx, func(ctx context.Context, tx PageRepository) error {
		page, err := tx.GetByID(ctx, req.PageID)
		if err != nil {
			return err
		}
		if sameParent(page.ParentID, req.NewParentID) {
			moved = page
			return nil
		}
		if req.NewParentID != nil {
			if _, err := tx.GetByID(ctx, *req.NewParentID); err != nil {
				if errors.Is(err, ErrPageNotFound) {
					return &InvalidParentError{ParentID: *req.NewParentID}
				}
				return err
			}
			if err := CheckAncestry(ctx, page.ID, req.NewParentID, parentResolver(tx)); err != nil {
				return err
			}
		}

		path, err := ComputePath(ctx, s.pathPrefix, req.NewParentID, page.Slug, pathResolver(tx))
		if err != nil {
			return err
		}
		highest, err := tx.MaxSiblingOrder(ctx, req.NewParentID)
		if err != nil {
			return err
		}

		now := s.now()
		oldPath := page.Path
		page.ParentID = cloneUUIDPointer(req.NewParentID)
		page.OrderIndex = NextOrderIndex(highest)
		page.Path = path
		page.UpdatedBy = req.ActorID
		page.UpdatedAt = now

		tags := page.Tags
		saved, err := tx.Update(ctx, page)
		if err != nil {
			return err
		}
		saved.Tags = tags
		if err := s.cascadePaths(ctx, tx, oldPath, saved.Path, req.ActorID, now); err != nil {
			return err
		}
		moved = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("page moved", "page_id", moved.ID, "path", moved.Path)
	return moved, nil
}

// Reorder places a page at OrderIndex among its siblings and renumbers the
// group to 0..n-1. Indexes beyond the group size move the page to the end.
func (s *service) Reorder(ctx context.Context, req ReorderPageRequest) (*Page, error) {
	if req.PageID == uuid.Nil {
		return nil, ErrPageRequired
	}
	if req.OrderIndex < 0 {
		return nil, ErrOrderIndexInvalid
	}

	var reordered *Page
	err := s.repo.Atomic(ctx, func(ctx context.Context, tx PageRepository) error {
		page, err := tx.GetByID(ctx, req.PageID)
		if err != nil {
			return err
		}
		siblings, err := tx.ListChildren(ctx, page.ParentID)
		if err != nil {
			return err
		}

		ordered := make([]*Page, 0, len(siblings))
		for _, sibling := range siblings {
			if sibling.ID != page.ID {
				ordered = append(ordered, sibling)
			}
		}
		target := req.OrderIndex
		if target > len(ordered) {
			target = len(ordered)
		}
		ordered = append(ordered[:target], append([]*Page{page}, ordered[target:]...)...)

		now := s.now()
		for idx, sibling := range ordered {
			if sibling.OrderIndex == idx && sibling.ID != page.ID {
				continue
			}
			sibling.OrderIndex = idx
			sibling.UpdatedBy = req.ActorID
			sibling.UpdatedAt = now
			tags := sibling.Tags
			saved, err := tx.Update(ctx, sibling)
			if err != nil {
				return err
			}
			if sibling.ID == page.ID {
				saved.Tags = tags
				reordered = saved
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reordered, nil
}

// Delete removes a leaf page. Pages with children are refused.
func (s *service) Delete(ctx context.Context, req DeletePageRequest) error {
	if req.ID == uuid.Nil {
		return ErrPageRequired
	}
	err := s.repo.Atomic(ctx, func(ctx context.Context, tx PageRepository) error {
		if _, err := tx.GetByID(ctx, req.ID); err != nil {
			return err
		}
		if err := GuardDelete(ctx, req.ID, tx.CountChildren); err != nil {
			return err
		}
		return tx.Delete(ctx, req.ID)
	})
	if err != nil {
		if errors.Is(err, ErrBlockedByChildren) {
			s.logger.Warn("page delete blocked by children", "page_id", req.ID, "error", err)
		}
		return err
	}
	s.logger.Info("page deleted", "page_id", req.ID, "deleted_by", req.DeletedBy)
	return nil
}

func (s *service) Children(ctx context.Context, parentID *uuid.UUID) ([]*Page, error) {
	if parentID != nil {
		if _, err := s.repo.GetByID(ctx, *parentID); err != nil {
			return nil, err
		}
	}
	return s.repo.ListChildren(ctx, parentID)
}

func (s *service) Tree(ctx context.Context, rootID *uuid.UUID) ([]*PageNode, error) {
	if rootID != nil {
		if _, err := s.repo.GetByID(ctx, *rootID); err != nil {
			return nil, err
		}
	}
	return BuildChildTree(ctx, rootID, s.repo.ListChildren)
}

// Breadcrumbs returns the ancestry of id from the root down to the page itself.
func (s *service) Breadcrumbs(ctx context.Context, id uuid.UUID) ([]*Page, error) {
	if id == uuid.Nil {
		return nil, ErrPageRequired
	}
	trail := []*Page{}
	seen := map[uuid.UUID]struct{}{}
	current := &id
	for current != nil {
		if _, ok := seen[*current]; ok {
			return nil, fmt.Errorf("%w: breadcrumb loop at %s", ErrPageParentCycle, *current)
		}
		seen[*current] = struct{}{}
		page, err := s.repo.GetByID(ctx, *current)
		if err != nil {
			if len(trail) > 0 && errors.Is(err, ErrPageNotFound) {
				return nil, &InvalidParentError{ParentID: *current}
			}
			return nil, err
		}
		trail = append(trail, page)
		current = page.ParentID
	}
	for i, j := 0, len(trail)-1; i < j; i, j = i+1, j-1 {
		trail[i], trail[j] = trail[j], trail[i]
	}
	return trail, nil
}

func (s *service) Publish(ctx context.Context, req PageStatusRequest) (*Page, error) {
	return s.transition(ctx, req, domain.ActionPublish)
}

func (s *service) Unpublish(ctx context.Context, req PageStatusRequest) (*Page, error) {
	return s.transition(ctx, req, domain.ActionUnpublish)
}

func (s *service) Archive(ctx context.Context, req PageStatusRequest) (*Page, error) {
	return s.transition(ctx, req, domain.ActionArchive)
}

func (s *service) transition(ctx context.Context, req PageStatusRequest, action domain.Action) (*Page, error) {
	if req.ID == uuid.Nil {
		return nil, ErrPageRequired
	}
	var result *Page
	err := s.repo.Atomic(ctx, func(ctx context.Context, tx PageRepository) error {
		page, err := tx.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		now := s.now()
		changed, err := ApplyTransition(page, action, now)
		if err != nil {
			return err
		}
		if !changed {
			result = page
			return nil
		}
		page.UpdatedBy = req.ActorID
		page.UpdatedAt = now
		tags := page.Tags
		saved, err := tx.Update(ctx, page)
		if err != nil {
			return err
		}
		saved.Tags = tags
		result = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("page status changed", "page_id", result.ID, "action", string(action), "status", result.Status)
	return result, nil
}

func (s *service) SetTags(ctx context.Context, req SetPageTagsRequest) ([]string, error) {
	if req.PageID == uuid.Nil {
		return nil, ErrPageRequired
	}
	tags, err := NormalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}
	err = s.repo.Atomic(ctx, func(ctx context.Context, tx PageRepository) error {
		if _, err := tx.GetByID(ctx, req.PageID); err != nil {
			return err
		}
		return tx.ReplaceTags(ctx, req.PageID, tags)
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *service) Tags(ctx context.Context, id uuid.UUID) ([]string, error) {
	if id == uuid.Nil {
		return nil, ErrPageRequired
	}
	return s.repo.ListTags(ctx, id)
}

// Preview renders markdown from a stored page or from the request body.
func (s *service) Preview(ctx context.Context, req PreviewPageRequest) (*PagePreview, error) {
	if s.renderer == nil {
		return nil, ErrPreviewRendererMissing
	}
	source := req.Markdown
	if req.ID != uuid.Nil {
		page, err := s.repo.GetByID(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(page.Markdown) == "" {
			return nil, ErrPageSourceMissing
		}
		source = page.Markdown
	}

	html, err := s.renderer.Parse([]byte(source))
	if err != nil {
		return nil, fmt.Errorf("pages: render preview: %w", err)
	}
	doc, err := documentMap(richtext.Convert(source))
	if err != nil {
		return nil, err
	}
	return &PagePreview{PageID: req.ID, HTML: string(html), Doc: doc}, nil
}

func (s *service) cascadePaths(ctx context.Context, tx PageRepository, oldPath, newPath string, actor uuid.UUID, now time.Time) error {
	if oldPath == newPath || oldPath == "" {
		return nil
	}
	descendants, err := tx.ListByPathPrefix(ctx, oldPath)
	if err != nil {
		return err
	}
	for _, descendant := range descendants {
		descendant.Path = newPath + strings.TrimPrefix(descendant.Path, oldPath)
		descendant.UpdatedBy = actor
		descendant.UpdatedAt = now
		if _, err := tx.Update(ctx, descendant); err != nil {
			return err
		}
	}
	if len(descendants) > 0 {
		s.logger.Debug("page paths cascaded", "from", oldPath, "to", newPath, "count", len(descendants))
	}
	return nil
}

type resolvedContent struct {
	content  map[string]any
	markdown string
	excerpt  string
}

// resolveContent converts markdown into editor content, or validates
// supplied editor content. Neither yields an empty document.
func (s *service) resolveContent(markdown string, content map[string]any) (resolvedContent, error) {
	if strings.TrimSpace(markdown) != "" || content == nil {
		doc := richtext.Convert(markdown)
		mapped, err := documentMap(doc)
		if err != nil {
			return resolvedContent{}, err
		}
		return resolvedContent{
			content:  mapped,
			markdown: markdown,
			excerpt:  richtext.Excerpt(doc, s.excerptLength),
		}, nil
	}

	payload, err := json.Marshal(content)
	if err != nil {
		return resolvedContent{}, &ContentInvalidError{Cause: err}
	}
	if err := richtext.ValidateJSON(payload); err != nil {
		return resolvedContent{}, &ContentInvalidError{Cause: err}
	}
	resolved := resolvedContent{content: content}
	if doc, err := richtext.Unmarshal(payload); err == nil {
		resolved.excerpt = richtext.Excerpt(doc, s.excerptLength)
	}
	return resolved, nil
}

func documentMap(doc *richtext.Document) (map[string]any, error) {
	payload, err := richtext.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("pages: encode document: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("pages: decode document: %w", err)
	}
	return out, nil
}

func pathResolver(repo PageRepository) PathResolver {
	return func(ctx context.Context, id uuid.UUID) (string, bool, error) {
		page, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrPageNotFound) {
				return "", false, nil
			}
			return "", false, err
		}
		return page.Path, true, nil
	}
}

func parentResolver(repo PageRepository) ParentResolver {
	return func(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
		page, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return page.ParentID, nil
	}
}

func actorOr(actor, fallback uuid.UUID) uuid.UUID {
	if actor == uuid.Nil {
		return fallback
	}
	return actor
}
