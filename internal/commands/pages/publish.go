package pagescmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/codepilotrules/go-docs/internal/commands"
	"github.com/codepilotrules/go-docs/internal/pages"
	"github.com/codepilotrules/go-docs/pkg/interfaces"
	command "github.com/goliatone/go-command"
	"github.com/google/uuid"
)

const (
	publishPageMessageType   = "docs.pages.publish"
	unpublishPageMessageType = "docs.pages.unpublish"
	archivePageMessageType   = "docs.pages.archive"
)

// PublishPageCommand moves a page to the published state.
type PublishPageCommand struct {
	PageID  uuid.UUID `json:"page_id"`
	ActorID uuid.UUID `json:"actor_id"`
}

// Type implements command.Message.
func (PublishPageCommand) Type() string { return publishPageMessageType }

// Validate ensures the page identifier is present.
func (m PublishPageCommand) Validate() error { return validatePageID(m.PageID, publishPageMessageType) }

func (m PublishPageCommand) request() pages.PageStatusRequest {
	return pages.PageStatusRequest{ID: m.PageID, ActorID: m.ActorID}
}

// UnpublishPageCommand returns a published page to draft.
type UnpublishPageCommand struct {
	PageID  uuid.UUID `json:"page_id"`
	ActorID uuid.UUID `json:"actor_id"`
}

// Type implements command.Message.
func (UnpublishPageCommand) Type() string { return unpublishPageMessageType }

// Validate ensures the page identifier is present.
func (m UnpublishPageCommand) Validate() error {
	return validatePageID(m.PageID, unpublishPageMessageType)
}

func (m UnpublishPageCommand) request() pages.PageStatusRequest {
	return pages.PageStatusRequest{ID: m.PageID, ActorID: m.ActorID}
}

// ArchivePageCommand archives a page.
type ArchivePageCommand struct {
	PageID  uuid.UUID `json:"page_id"`
	ActorID uuid.UUID `json:"actor_id"`
}

// Type implements command.Message.
func (ArchivePageCommand) Type() string { return archivePageMessageType }

// Validate ensures the page identifier is present.
func (m ArchivePageCommand) Validate() error { return validatePageID(m.PageID, archivePageMessageType) }

func (m ArchivePageCommand) request() pages.PageStatusRequest {
	return pages.PageStatusRequest{ID: m.PageID, ActorID: m.ActorID}
}

type statusMessage interface {
	command.Message
	request() pages.PageStatusRequest
}

type transitionFunc func(context.Context, pages.PageStatusRequest) (*pages.Page, error)

// StatusHandler drives a single lifecycle transition through the page service.
type StatusHandler[T statusMessage] struct {
	inner *commands.Handler[T]
}

// NewPublishPageHandler publishes pages.
func NewPublishPageHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[PublishPageCommand]) *StatusHandler[PublishPageCommand] {
	return newStatusHandler(service.Publish, "pages.publish", logger, opts...)
}

// NewUnpublishPageHandler returns pages to draft.
func NewUnpublishPageHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UnpublishPageCommand]) *StatusHandler[UnpublishPageCommand] {
	return newStatusHandler(service.Unpublish, "pages.unpublish", logger, opts...)
}

// NewArchivePageHandler archives pages.
func NewArchivePageHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ArchivePageCommand]) *StatusHandler[ArchivePageCommand] {
	return newStatusHandler(service.Archive, "pages.archive", logger, opts...)
}

func newStatusHandler[T statusMessage](transition transitionFunc, operation string, logger interfaces.Logger, opts ...commands.HandlerOption[T]) *StatusHandler[T] {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg T) error {
		if _, err := transition(ctx, msg.request()); err != nil {
			return pages.Categorize(err)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[T]{
		commands.WithLogger[T](baseLogger),
		commands.WithOperation[T](operation),
		commands.WithMessageFields(func(msg T) map[string]any {
			req := msg.request()
			fields := map[string]any{"page_id": req.ID}
			if req.ActorID != uuid.Nil {
				fields["actor_id"] = req.ActorID
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[T](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &StatusHandler[T]{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[T].Execute.
func (h *StatusHandler[T]) Execute(ctx context.Context, msg T) error {
	return h.inner.Execute(ctx, msg)
}

func validatePageID(id uuid.UUID, prefix string) error {
	if id == uuid.Nil {
		return validation.Errors{
			"page_id": validation.NewError(prefix+".page_id_required", "page_id is required"),
		}
	}
	return nil
}
