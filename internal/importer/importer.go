// Package importer populates the page hierarchy from a directory of
// documentation sources.
package importer

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/codepilotrules/go-docs/internal/domain"
	"github.com/codepilotrules/go-docs/internal/identity"
	"github.com/codepilotrules/go-docs/internal/logging"
	"github.com/codepilotrules/go-docs/internal/pages"
	"github.com/codepilotrules/go-docs/pkg/interfaces"
)

var (
	ErrPagesServiceRequired = errors.New("importer: pages service is required")
	ErrSourceRequired       = errors.New("importer: document source is required")
	ErrParentUnresolved     = errors.New("importer: parent page not found")
	ErrParentFailed         = errors.New("importer: parent page failed to import")
	ErrParentCycle          = errors.New("importer: parent references form a cycle")
	ErrStatusUnknown        = errors.New("importer: unknown status")
)

// indexName marks the file that represents its directory in the hierarchy.
const indexName = "index"

// DocumentSource loads documents from a directory. markdown.Service
// satisfies it.
type DocumentSource interface {
	LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error)
}

// Options controls a single import run.
type Options struct {
	Dir       string
	Pattern   string
	Recursive *bool
	DryRun    bool
	ActorID   uuid.UUID
}

// Action is what the importer did, or would do, with a file.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip"
)

// Outcome records the result for one imported file.
type Outcome struct {
	Path   string
	PageID uuid.UUID
	Slug   string
	Action Action
}

// FileError ties an import failure to its source file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("importer: %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Result summarises an import run.
type Result struct {
	DryRun   bool
	Outcomes []Outcome
	Errors   []*FileError
}

func (r *Result) count(action Action) int {
	n := 0
	for _, outcome := range r.Outcomes {
		if outcome.Action == action {
			n++
		}
	}
	return n
}

func (r *Result) Created() int { return r.count(ActionCreate) }
func (r *Result) Updated() int { return r.count(ActionUpdate) }
func (r *Result) Skipped() int { return r.count(ActionSkip) }

// Err joins every file error, or returns nil.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, fileErr := range r.Errors {
		errs = append(errs, fileErr)
	}
	return errors.Join(errs...)
}

// Config wires the importer.
type Config struct {
	Pages  pages.Service
	Source DocumentSource
	Logger interfaces.Logger
	Slugs  pages.SlugOptions
}

// Importer creates or updates pages from documentation sources. Page ids are
// derived from source paths, so importing the same tree twice updates in
// place.
type Importer struct {
	pages  pages.Service
	source DocumentSource
	logger interfaces.Logger
	slugs  pages.SlugOptions
}

// New constructs an Importer.
func New(cfg Config) (*Importer, error) {
	if cfg.Pages == nil {
		return nil, ErrPagesServiceRequired
	}
	if cfg.Source == nil {
		return nil, ErrSourceRequired
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	slugs := cfg.Slugs
	if slugs.MaxLength == 0 && slugs.Placeholder == "" {
		slugs = pages.DefaultSlugOptions()
	}
	return &Importer{pages: cfg.Pages, source: cfg.Source, logger: logger, slugs: slugs}, nil
}

// entry is a loaded document with its resolved identity and parent.
type entry struct {
	doc      *interfaces.Document
	id       uuid.UUID
	key      string
	title    string
	status   domain.Status
	parent   *entry
	parentID *uuid.UUID
	err      error
	done     bool
}

// ImportDirectory loads opts.Dir and imports every document, parents before
// children. Per-file failures are collected in the result; the returned
// error reports only failures to load the directory.
func (i *Importer) ImportDirectory(ctx context.Context, opts Options) (*Result, error) {
	dir := opts.Dir
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	docs, err := i.source.LoadDirectory(ctx, dir, interfaces.LoadOptions{Pattern: opts.Pattern, Recursive: opts.Recursive})
	if err != nil {
		return nil, fmt.Errorf("importer: load %s: %w", dir, err)
	}
	return i.ImportDocuments(ctx, docs, opts)
}

// ImportDocuments imports already loaded documents.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*interfaces.Document, opts Options) (*Result, error) {
	result := &Result{DryRun: opts.DryRun}
	entries := i.prepare(docs)
	i.resolveParents(ctx, entries)

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		i.visit(ctx, e, opts, result, map[*entry]bool{})
	}
	if !opts.DryRun {
		i.applyOrders(ctx, entries, opts.ActorID, result)
	}

	i.logger.Info("documentation import finished",
		"dir", opts.Dir,
		"dry_run", opts.DryRun,
		"created", result.Created(),
		"updated", result.Updated(),
		"skipped", result.Skipped(),
		"errors", len(result.Errors),
	)
	return result, nil
}

func (i *Importer) prepare(docs []*interfaces.Document) []*entry {
	entries := make([]*entry, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		meta := doc.FrontMatter
		e := &entry{doc: doc, id: identity.PageUUID(doc.FilePath)}
		e.title = meta.Title
		if e.title == "" {
			e.title = titleFromBody(doc.Body)
		}
		if e.title == "" {
			e.title = titleFromPath(doc.FilePath)
		}
		e.key = meta.Slug
		if e.key == "" {
			e.key = pages.DeriveSlug(e.title, i.slugs.MaxLength, i.slugs.Placeholder)
		}
		status, err := desiredStatus(meta)
		if err != nil {
			e.err = err
		}
		e.status = status
		entries = append(entries, e)
	}
	return entries
}

// resolveParents links each entry to its parent: the frontmatter parent slug
// (batch first, then the store), or else the index file of the enclosing
// directory.
func (i *Importer) resolveParents(ctx context.Context, entries []*entry) {
	byKey := map[string]*entry{}
	byDir := map[string]*entry{}
	for _, e := range entries {
		if _, taken := byKey[e.key]; !taken {
			byKey[e.key] = e
		}
		if dir := path.Dir(e.doc.FilePath); isIndex(e.doc.FilePath) && dir != "." {
			byDir[dir] = e
		}
	}

	for _, e := range entries {
		if e.err != nil {
			continue
		}
		if ref := e.doc.FrontMatter.Parent; ref != "" {
			if parent, ok := byKey[ref]; ok && parent != e {
				e.parent = parent
				continue
			}
			page, err := i.pages.GetBySlug(ctx, ref)
			if err != nil {
				if errors.Is(err, pages.ErrPageNotFound) {
					e.err = fmt.Errorf("%w: %q", ErrParentUnresolved, ref)
				} else {
					e.err = err
				}
				continue
			}
			id := page.ID
			e.parentID = &id
			continue
		}

		dir := path.Dir(e.doc.FilePath)
		if isIndex(e.doc.FilePath) {
			if dir == "." {
				continue
			}
			dir = path.Dir(dir)
		}
		for {
			if parent, ok := byDir[dir]; ok && parent != e {
				e.parent = parent
				break
			}
			if dir == "." || dir == "/" {
				break
			}
			dir = path.Dir(dir)
		}
	}
}

// visit imports e after its parent chain. inProgress detects cycles among
// frontmatter parent references.
func (i *Importer) visit(ctx context.Context, e *entry, opts Options, result *Result, inProgress map[*entry]bool) {
	if e.done {
		return
	}
	if inProgress[e] {
		e.err = ErrParentCycle
		return
	}
	inProgress[e] = true
	defer delete(inProgress, e)

	if e.err == nil && e.parent != nil {
		i.visit(ctx, e.parent, opts, result, inProgress)
		switch {
		case errors.Is(e.err, ErrParentCycle):
		case e.parent.err != nil:
			e.err = fmt.Errorf("%w: %s", ErrParentFailed, e.parent.doc.FilePath)
		default:
			id := e.parent.id
			e.parentID = &id
		}
	}

	if e.done {
		return
	}
	e.done = true
	logger := logging.WithImportContext(i.logger, e.doc.FilePath, e.key, "")
	if e.err != nil {
		result.Errors = append(result.Errors, &FileError{Path: e.doc.FilePath, Err: e.err})
		logger.Warn("documentation import failed", "error", e.err)
		return
	}

	outcome, err := i.apply(ctx, e, opts)
	if err != nil {
		e.err = err
		result.Errors = append(result.Errors, &FileError{Path: e.doc.FilePath, Err: err})
		logger.Warn("documentation import failed", "error", err)
		return
	}
	result.Outcomes = append(result.Outcomes, outcome)
	logging.WithImportContext(logger, "", outcome.Slug, string(outcome.Action)).Debug("documentation page imported")
}

func (i *Importer) apply(ctx context.Context, e *entry, opts Options) (Outcome, error) {
	outcome := Outcome{Path: e.doc.FilePath, PageID: e.id, Slug: e.key}
	existing, err := i.pages.Get(ctx, e.id)
	switch {
	case errors.Is(err, pages.ErrPageNotFound):
		outcome.Action = ActionCreate
		if opts.DryRun {
			return outcome, nil
		}
		page, err := i.create(ctx, e, opts.ActorID)
		if err != nil {
			return outcome, err
		}
		outcome.Slug = page.Slug
		return outcome, nil
	case err != nil:
		return outcome, err
	}

	outcome.Slug = existing.Slug
	changed, err := i.update(ctx, e, existing, opts)
	if err != nil {
		return outcome, err
	}
	outcome.Action = ActionSkip
	if changed {
		outcome.Action = ActionUpdate
	}
	return outcome, nil
}

func (i *Importer) create(ctx context.Context, e *entry, actor uuid.UUID) (*pages.Page, error) {
	meta := e.doc.FrontMatter
	page, err := i.pages.Create(ctx, pages.CreatePageRequest{
		ID:        e.id,
		Title:     e.title,
		Slug:      meta.Slug,
		ParentID:  e.parentID,
		Markdown:  string(e.doc.Body),
		Excerpt:   meta.Summary,
		Tags:      meta.Tags,
		Publish:   e.status != domain.StatusDraft,
		CreatedBy: actor,
		UpdatedBy: actor,
	})
	if err != nil {
		return nil, err
	}
	if e.status == domain.StatusArchived {
		if _, err := i.pages.Archive(ctx, pages.PageStatusRequest{ID: page.ID, ActorID: actor}); err != nil {
			return nil, err
		}
	}
	return page, nil
}

// update brings existing in line with the source and reports whether
// anything changed. Dry runs only compute the answer.
func (i *Importer) update(ctx context.Context, e *entry, existing *pages.Page, opts Options) (bool, error) {
	meta := e.doc.FrontMatter
	actor := opts.ActorID
	req := pages.UpdatePageRequest{ID: existing.ID, UpdatedBy: actor}
	fieldsChanged := false
	if e.title != existing.Title {
		req.Title = &e.title
		fieldsChanged = true
	}
	if meta.Slug != "" && meta.Slug != existing.Slug {
		req.Slug = &meta.Slug
		fieldsChanged = true
	}
	if body := string(e.doc.Body); body != existing.Markdown {
		req.Markdown = &body
		fieldsChanged = true
	}
	if meta.Summary != "" && meta.Summary != existing.Excerpt {
		req.Excerpt = &meta.Summary
		fieldsChanged = true
	}

	moved := !sameParent(existing.ParentID, e.parentID)
	tags, err := pages.NormalizeTags(meta.Tags)
	if err != nil {
		return false, err
	}
	tagsChanged := !slices.Equal(tags, existing.Tags) && !(len(tags) == 0 && len(existing.Tags) == 0)
	reorder := meta.Order != nil && *meta.Order != existing.OrderIndex
	current, _ := domain.NormalizeStatus(existing.Status)
	statusChanged := current != e.status

	changed := fieldsChanged || moved || tagsChanged || reorder || statusChanged
	if opts.DryRun || !changed {
		return changed, nil
	}

	if fieldsChanged {
		if _, err := i.pages.Update(ctx, req); err != nil {
			return false, err
		}
	}
	if moved {
		if _, err := i.pages.Move(ctx, pages.MovePageRequest{PageID: existing.ID, NewParentID: e.parentID, ActorID: actor}); err != nil {
			return false, err
		}
	}
	if tagsChanged {
		if _, err := i.pages.SetTags(ctx, pages.SetPageTagsRequest{PageID: existing.ID, Tags: tags, ActorID: actor}); err != nil {
			return false, err
		}
	}
	if statusChanged {
		if err := i.transition(ctx, existing.ID, current, e.status, actor); err != nil {
			return false, err
		}
	}
	return true, nil
}

// applyOrders pins pages with a frontmatter order once every sibling
// exists. Lower orders are placed first so later moves do not displace them.
func (i *Importer) applyOrders(ctx context.Context, entries []*entry, actor uuid.UUID, result *Result) {
	pinned := make([]*entry, 0, len(entries))
	for _, e := range entries {
		if e.err == nil && e.done && e.doc.FrontMatter.Order != nil {
			pinned = append(pinned, e)
		}
	}
	slices.SortStableFunc(pinned, func(a, b *entry) int {
		return *a.doc.FrontMatter.Order - *b.doc.FrontMatter.Order
	})
	for _, e := range pinned {
		target := *e.doc.FrontMatter.Order
		page, err := i.pages.Get(ctx, e.id)
		if err == nil && page.OrderIndex == target {
			continue
		}
		if err == nil {
			_, err = i.pages.Reorder(ctx, pages.ReorderPageRequest{PageID: e.id, OrderIndex: target, ActorID: actor})
		}
		if err != nil {
			result.Errors = append(result.Errors, &FileError{Path: e.doc.FilePath, Err: err})
		}
	}
}

// transition walks the lifecycle from current to target. Archived pages
// are terminal and surface the service error.
func (i *Importer) transition(ctx context.Context, id uuid.UUID, current, target domain.Status, actor uuid.UUID) error {
	req := pages.PageStatusRequest{ID: id, ActorID: actor}
	var err error
	switch target {
	case domain.StatusDraft:
		_, err = i.pages.Unpublish(ctx, req)
	case domain.StatusPublished:
		_, err = i.pages.Publish(ctx, req)
	case domain.StatusArchived:
		if current == domain.StatusDraft {
			if _, err = i.pages.Publish(ctx, req); err != nil {
				return err
			}
		}
		_, err = i.pages.Archive(ctx, req)
	}
	return err
}

func desiredStatus(meta interfaces.FrontMatter) (domain.Status, error) {
	if meta.Status == "" {
		if meta.Draft {
			return domain.StatusDraft, nil
		}
		return domain.StatusPublished, nil
	}
	status, ok := domain.NormalizeStatus(meta.Status)
	if !ok {
		return domain.StatusDraft, fmt.Errorf("%w: %q", ErrStatusUnknown, meta.Status)
	}
	if meta.Draft && status == domain.StatusPublished {
		return domain.StatusDraft, nil
	}
	return status, nil
}

func isIndex(name string) bool {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base)) == indexName
}

func titleFromBody(body []byte) string {
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
		return ""
	}
	return ""
}

func titleFromPath(name string) string {
	base := path.Base(name)
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == indexName {
		if dir := path.Base(path.Dir(name)); dir != "." && dir != "/" {
			stem = dir
		}
	}
	words := strings.FieldsFunc(stem, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for idx, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[idx] = string(runes)
	}
	return strings.Join(words, " ")
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
