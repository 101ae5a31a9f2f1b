package pagescmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/codepilotrules/go-docs/internal/commands"
	"github.com/codepilotrules/go-docs/internal/pages"
)

type flakyService struct {
	pages.Service
	createFailures int
	creates        int
	deletes        int
}

func (s *flakyService) Create(ctx context.Context, req pages.CreatePageRequest) (*pages.Page, error) {
	s.creates++
	if s.creates <= s.createFailures {
		return nil, errors.New("storage unavailable")
	}
	return s.Service.Create(ctx, req)
}

func (s *flakyService) Delete(ctx context.Context, req pages.DeletePageRequest) error {
	s.deletes++
	return s.Service.Delete(ctx, req)
}

func TestDispatchedCreateRetriesUntilStored(t *testing.T) {
	service := &flakyService{Service: newService(t), createFailures: 1}
	handler := NewCreatePageHandler(service, nil, nil, commands.WithTimeout[CreatePageCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), CreatePageCommand{Title: "Retry Rules"}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if service.creates != 2 {
		t.Fatalf("expected 2 create attempts, got %d", service.creates)
	}
	if _, err := service.GetBySlug(context.Background(), "retry-rules"); err != nil {
		t.Fatalf("expected page stored after retry: %v", err)
	}
}

func TestDispatchedDeleteExhaustsRetriesOnBlockedPage(t *testing.T) {
	service := &flakyService{Service: newService(t)}
	parent := createPage(t, service, CreatePageCommand{Title: "Parent"})
	parentID := parent.ID
	createPage(t, service, CreatePageCommand{Title: "Child", ParentID: &parentID})

	handler := NewDeletePageHandler(service, nil, commands.WithTimeout[DeletePageCommand](time.Second))
	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	err := dispatcher.Dispatch(context.Background(), DeletePageCommand{PageID: parent.ID})
	if err == nil {
		t.Fatal("expected dispatcher to return error after exhausting retries")
	}
	if _, err := service.Get(context.Background(), parent.ID); err != nil {
		t.Fatalf("expected parent to survive blocked delete: %v", err)
	}
	if service.deletes != 3 {
		t.Fatalf("expected 3 delete attempts (initial + 2 retries), got %d", service.deletes)
	}
}
