package pagescmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/codepilotrules/go-docs/internal/commands"
	"github.com/codepilotrules/go-docs/internal/pages"
	"github.com/codepilotrules/go-docs/pkg/interfaces"
	"github.com/google/uuid"
)

const createPageMessageType = "docs.pages.create"

// CreatePageCommand creates a page from markdown source.
type CreatePageCommand struct {
	Title    string     `json:"title"`
	Slug     string     `json:"slug,omitempty"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	Markdown string     `json:"markdown"`
	Tags     []string   `json:"tags,omitempty"`
	Publish  bool       `json:"publish"`
	ActorID  uuid.UUID  `json:"actor_id"`
}

// Type implements command.Message.
func (CreatePageCommand) Type() string { return createPageMessageType }

// Validate ensures the command carries a title and well-formed identifiers.
func (m CreatePageCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Title) == "" {
		errs["title"] = validation.NewError("docs.pages.create.title_required", "title is required")
	}
	if m.ParentID != nil && *m.ParentID == uuid.Nil {
		errs["parent_id"] = validation.NewError("docs.pages.create.parent_id_invalid", "parent_id must be a valid identifier when provided")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CreatePageHandler creates pages through the page service.
type CreatePageHandler struct {
	inner *commands.Handler[CreatePageCommand]
}

// NewCreatePageHandler constructs a handler wired to the provided page service.
// onCreated, when set, receives the stored page.
func NewCreatePageHandler(service pages.Service, logger interfaces.Logger, onCreated func(*pages.Page), opts ...commands.HandlerOption[CreatePageCommand]) *CreatePageHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg CreatePageCommand) error {
		page, err := service.Create(ctx, pages.CreatePageRequest{
			Title:     msg.Title,
			Slug:      msg.Slug,
			ParentID:  msg.ParentID,
			Markdown:  msg.Markdown,
			Tags:      msg.Tags,
			Publish:   msg.Publish,
			CreatedBy: msg.ActorID,
			UpdatedBy: msg.ActorID,
		})
		if err != nil {
			return pages.Categorize(err)
		}
		if onCreated != nil {
			onCreated(page)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[CreatePageCommand]{
		commands.WithLogger[CreatePageCommand](baseLogger),
		commands.WithOperation[CreatePageCommand]("pages.create"),
		commands.WithMessageFields(func(msg CreatePageCommand) map[string]any {
			fields := map[string]any{"title": strings.TrimSpace(msg.Title)}
			if msg.Slug != "" {
				fields["slug"] = msg.Slug
			}
			if msg.ParentID != nil {
				fields["parent_id"] = *msg.ParentID
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[CreatePageCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CreatePageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CreatePageCommand].Execute.
func (h *CreatePageHandler) Execute(ctx context.Context, msg CreatePageCommand) error {
	return h.inner.Execute(ctx, msg)
}
