package pagescmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/codepilotrules/go-docs/internal/commands"
	"github.com/codepilotrules/go-docs/internal/pages"
	"github.com/codepilotrules/go-docs/pkg/interfaces"
	"github.com/google/uuid"
)

const deletePageMessageType = "docs.pages.delete"

// DeletePageCommand removes a leaf page.
type DeletePageCommand struct {
	PageID    uuid.UUID `json:"page_id"`
	DeletedBy uuid.UUID `json:"deleted_by"`
}

// Type implements command.Message.
func (DeletePageCommand) Type() string { return deletePageMessageType }

// Validate ensures both identifiers are present.
func (m DeletePageCommand) Validate() error {
	errs := validation.Errors{}
	if m.PageID == uuid.Nil {
		errs["page_id"] = validation.NewError("docs.pages.delete.page_id_required", "page_id is required")
	}
	if m.DeletedBy == uuid.Nil {
		errs["deleted_by"] = validation.NewError("docs.pages.delete.deleted_by_required", "deleted_by is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DeletePageHandler deletes pages via the page service.
type DeletePageHandler struct {
	inner *commands.Handler[DeletePageCommand]
}

// NewDeletePageHandler constructs a handler wired to the provided page service.
func NewDeletePageHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeletePageCommand]) *DeletePageHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg DeletePageCommand) error {
		return pages.Categorize(service.Delete(ctx, pages.DeletePageRequest{
			ID:        msg.PageID,
			DeletedBy: msg.DeletedBy,
		}))
	}

	handlerOpts := []commands.HandlerOption[DeletePageCommand]{
		commands.WithLogger[DeletePageCommand](baseLogger),
		commands.WithOperation[DeletePageCommand]("pages.delete"),
		commands.WithMessageFields(func(msg DeletePageCommand) map[string]any {
			return map[string]any{"page_id": msg.PageID, "deleted_by": msg.DeletedBy}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[DeletePageCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DeletePageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[DeletePageCommand].Execute.
func (h *DeletePageHandler) Execute(ctx context.Context, msg DeletePageCommand) error {
	return h.inner.Execute(ctx, msg)
}
