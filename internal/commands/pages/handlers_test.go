package pagescmd

import (
	"context"
	"errors"
	"testing"

	"github.com/codepilotrules/go-docs/internal/commands"
	"github.com/codepilotrules/go-docs/internal/importer"
	"github.com/codepilotrules/go-docs/internal/pages"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

func newService(t *testing.T) pages.Service {
	t.Helper()
	return pages.NewService(pages.NewMemoryPageRepository())
}

func createPage(t *testing.T, service pages.Service, cmd CreatePageCommand) *pages.Page {
	t.Helper()
	var created *pages.Page
	handler := NewCreatePageHandler(service, commands.CommandLogger(nil, "pages"), func(p *pages.Page) {
		created = p
	})
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("create %q: %v", cmd.Title, err)
	}
	if created == nil {
		t.Fatalf("expected created callback for %q", cmd.Title)
	}
	return created
}

func TestCreatePageHandlerCreatesPage(t *testing.T) {
	service := newService(t)
	actor := uuid.New()

	page := createPage(t, service, CreatePageCommand{
		Title:    "Go Style",
		Markdown: "# Go Style\nUse **gofmt**.",
		Tags:     []string{"go"},
		Publish:  true,
		ActorID:  actor,
	})

	if page.Slug != "go-style" || page.Path != "/docs/go-style" {
		t.Fatalf("unexpected slug/path %s %s", page.Slug, page.Path)
	}
	if page.Status != "published" || page.CreatedBy != actor {
		t.Fatalf("expected published page created by actor, got %+v", page)
	}
}

func TestCreatePageHandlerValidation(t *testing.T) {
	service := newService(t)
	handler := NewCreatePageHandler(service, nil, nil)

	nilParent := uuid.Nil
	err := handler.Execute(context.Background(), CreatePageCommand{Title: "  ", ParentID: &nilParent})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestCreatePageHandlerKeepsServiceCategory(t *testing.T) {
	service := newService(t)
	handler := NewCreatePageHandler(service, nil, nil)

	missing := uuid.New()
	err := handler.Execute(context.Background(), CreatePageCommand{Title: "Orphan", ParentID: &missing})
	if !errors.Is(err, pages.ErrInvalidParent) {
		t.Fatalf("expected ErrInvalidParent, got %v", err)
	}
	if goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected service category to be preserved, got %v", err)
	}
}

func TestStatusHandlersDriveLifecycle(t *testing.T) {
	ctx := context.Background()
	service := newService(t)
	page := createPage(t, service, CreatePageCommand{Title: "Lifecycle", Markdown: "body"})

	publish := NewPublishPageHandler(service, nil)
	unpublish := NewUnpublishPageHandler(service, nil)
	archive := NewArchivePageHandler(service, nil)

	if err := publish.Execute(ctx, PublishPageCommand{PageID: page.ID}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := unpublish.Execute(ctx, UnpublishPageCommand{PageID: page.ID}); err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if err := publish.Execute(ctx, PublishPageCommand{PageID: page.ID}); err != nil {
		t.Fatalf("republish: %v", err)
	}
	if err := archive.Execute(ctx, ArchivePageCommand{PageID: page.ID}); err != nil {
		t.Fatalf("archive: %v", err)
	}
	stored, err := service.Get(ctx, page.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != "archived" {
		t.Fatalf("expected archived, got %s", stored.Status)
	}

	err = unpublish.Execute(ctx, UnpublishPageCommand{PageID: page.ID})
	if !errors.Is(err, pages.ErrInvalidStatusTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	if err := publish.Execute(ctx, PublishPageCommand{}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for missing page id, got %v", err)
	}
}

func TestMovePageHandlerMovesAndReorders(t *testing.T) {
	ctx := context.Background()
	service := newService(t)
	guides := createPage(t, service, CreatePageCommand{Title: "Guides"})
	first := createPage(t, service, CreatePageCommand{Title: "First", ParentID: &guides.ID})
	loose := createPage(t, service, CreatePageCommand{Title: "Loose"})

	handler := NewMovePageHandler(service, nil)
	zero := 0
	if err := handler.Execute(ctx, MovePageCommand{PageID: loose.ID, ParentID: &guides.ID, OrderIndex: &zero}); err != nil {
		t.Fatalf("move: %v", err)
	}

	moved, err := service.Get(ctx, loose.ID)
	if err != nil {
		t.Fatalf("get moved: %v", err)
	}
	if moved.Path != "/docs/guides/loose" || moved.OrderIndex != 0 {
		t.Fatalf("unexpected moved page %s at %d", moved.Path, moved.OrderIndex)
	}
	sibling, err := service.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get sibling: %v", err)
	}
	if sibling.OrderIndex != 1 {
		t.Fatalf("expected sibling shifted to 1, got %d", sibling.OrderIndex)
	}

	err = handler.Execute(ctx, MovePageCommand{PageID: guides.ID, ParentID: &guides.ID})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected self-parent validation error, got %v", err)
	}
	err = handler.Execute(ctx, MovePageCommand{PageID: guides.ID, ParentID: &loose.ID})
	if !errors.Is(err, pages.ErrPageParentCycle) {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestDeletePageHandlerGuardsChildren(t *testing.T) {
	ctx := context.Background()
	service := newService(t)
	parent := createPage(t, service, CreatePageCommand{Title: "Parent"})
	child := createPage(t, service, CreatePageCommand{Title: "Child", ParentID: &parent.ID})
	actor := uuid.New()

	handler := NewDeletePageHandler(service, nil)
	err := handler.Execute(ctx, DeletePageCommand{PageID: parent.ID, DeletedBy: actor})
	if !errors.Is(err, pages.ErrBlockedByChildren) {
		t.Fatalf("expected blocked by children, got %v", err)
	}
	if err := handler.Execute(ctx, DeletePageCommand{PageID: child.ID, DeletedBy: actor}); err != nil {
		t.Fatalf("delete child: %v", err)
	}
	if err := handler.Execute(ctx, DeletePageCommand{PageID: parent.ID}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for missing deleted_by, got %v", err)
	}
}

type stubImporter struct {
	opts   []importer.Options
	result *importer.Result
	err    error
}

func (s *stubImporter) ImportDirectory(_ context.Context, opts importer.Options) (*importer.Result, error) {
	s.opts = append(s.opts, opts)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestImportPagesHandler(t *testing.T) {
	ctx := context.Background()
	fileErr := &importer.FileError{Path: "broken.md", Err: importer.ErrParentUnresolved}
	stub := &stubImporter{result: &importer.Result{
		Outcomes: []importer.Outcome{{Path: "intro.md", Action: importer.ActionCreate}},
		Errors:   []*importer.FileError{fileErr},
	}}

	var reported *importer.Result
	handler := NewImportPagesHandler(stub, nil, FeatureGates{}, func(r *importer.Result) { reported = r })

	err := handler.Execute(ctx, ImportPagesCommand{Dir: " content ", DryRun: true})
	if !errors.Is(err, importer.ErrParentUnresolved) {
		t.Fatalf("expected per-file error to surface, got %v", err)
	}
	if reported == nil || reported.Created() != 1 {
		t.Fatalf("expected result callback, got %+v", reported)
	}
	if len(stub.opts) != 1 || stub.opts[0].Dir != "content" || !stub.opts[0].DryRun {
		t.Fatalf("unexpected importer options %+v", stub.opts)
	}

	if err := handler.Execute(ctx, ImportPagesCommand{Dir: "   "}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestImportPagesHandlerRespectsFeatureGate(t *testing.T) {
	stub := &stubImporter{result: &importer.Result{}}
	handler := NewImportPagesHandler(stub, nil, FeatureGates{
		ImportEnabled: func() bool { return false },
	}, nil)

	err := handler.Execute(context.Background(), ImportPagesCommand{Dir: "content"})
	if !errors.Is(err, ErrImportDisabled) {
		t.Fatalf("expected ErrImportDisabled, got %v", err)
	}
	if len(stub.opts) != 0 {
		t.Fatal("expected importer not to run")
	}
}
