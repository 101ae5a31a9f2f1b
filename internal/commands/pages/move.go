package pagescmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/codepilotrules/go-docs/internal/commands"
	"github.com/codepilotrules/go-docs/internal/pages"
	"github.com/codepilotrules/go-docs/pkg/interfaces"
	"github.com/google/uuid"
)

const movePageMessageType = "docs.pages.move"

// MovePageCommand re-parents a page and optionally pins its sibling position.
// A nil ParentID moves the page to the root.
type MovePageCommand struct {
	PageID     uuid.UUID  `json:"page_id"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	OrderIndex *int       `json:"order_index,omitempty"`
	ActorID    uuid.UUID  `json:"actor_id"`
}

// Type implements command.Message.
func (MovePageCommand) Type() string { return movePageMessageType }

// Validate rejects missing ids, self-parenting and negative positions.
func (m MovePageCommand) Validate() error {
	errs := validation.Errors{}
	if m.PageID == uuid.Nil {
		errs["page_id"] = validation.NewError("docs.pages.move.page_id_required", "page_id is required")
	}
	if m.ParentID != nil {
		switch {
		case *m.ParentID == uuid.Nil:
			errs["parent_id"] = validation.NewError("docs.pages.move.parent_id_invalid", "parent_id must be a valid identifier when provided")
		case *m.ParentID == m.PageID:
			errs["parent_id"] = validation.NewError("docs.pages.move.parent_id_self", "a page cannot be its own parent")
		}
	}
	if m.OrderIndex != nil && *m.OrderIndex < 0 {
		errs["order_index"] = validation.NewError("docs.pages.move.order_index_invalid", "order_index must be zero or greater")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// MovePageHandler moves pages within the hierarchy.
type MovePageHandler struct {
	inner *commands.Handler[MovePageCommand]
}

// NewMovePageHandler constructs a handler wired to the provided page service.
func NewMovePageHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[MovePageCommand]) *MovePageHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg MovePageCommand) error {
		if _, err := service.Move(ctx, pages.MovePageRequest{
			PageID:      msg.PageID,
			NewParentID: msg.ParentID,
			ActorID:     msg.ActorID,
		}); err != nil {
			return pages.Categorize(err)
		}
		if msg.OrderIndex == nil {
			return nil
		}
		_, err := service.Reorder(ctx, pages.ReorderPageRequest{
			PageID:     msg.PageID,
			OrderIndex: *msg.OrderIndex,
			ActorID:    msg.ActorID,
		})
		return pages.Categorize(err)
	}

	handlerOpts := []commands.HandlerOption[MovePageCommand]{
		commands.WithLogger[MovePageCommand](baseLogger),
		commands.WithOperation[MovePageCommand]("pages.move"),
		commands.WithMessageFields(func(msg MovePageCommand) map[string]any {
			fields := map[string]any{"page_id": msg.PageID}
			if msg.ParentID != nil {
				fields["parent_id"] = *msg.ParentID
			}
			if msg.OrderIndex != nil {
				fields["order_index"] = *msg.OrderIndex
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[MovePageCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &MovePageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[MovePageCommand].Execute.
func (h *MovePageHandler) Execute(ctx context.Context, msg MovePageCommand) error {
	return h.inner.Execute(ctx, msg)
}
