package pagescmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/codepilotrules/go-docs/internal/commands"
	"github.com/codepilotrules/go-docs/internal/importer"
	"github.com/codepilotrules/go-docs/pkg/interfaces"
	"github.com/google/uuid"
)

const importPagesMessageType = "docs.pages.import"

// DirectoryImporter is the subset of the importer used by ImportPagesHandler.
type DirectoryImporter interface {
	ImportDirectory(ctx context.Context, opts importer.Options) (*importer.Result, error)
}

// ImportPagesCommand imports a directory of markdown and html documents.
type ImportPagesCommand struct {
	Dir       string    `json:"dir"`
	Pattern   string    `json:"pattern,omitempty"`
	Recursive *bool     `json:"recursive,omitempty"`
	DryRun    bool      `json:"dry_run"`
	ActorID   uuid.UUID `json:"actor_id"`
}

// Type implements command.Message.
func (ImportPagesCommand) Type() string { return importPagesMessageType }

// Validate ensures a directory is supplied.
func (m ImportPagesCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Dir, validation.Required.Error("dir is required"), validation.By(func(any) error {
			if strings.TrimSpace(m.Dir) == "" {
				return validation.NewError("docs.pages.import.dir_required", "dir is required")
			}
			return nil
		})),
		validation.Field(&m.Pattern, validation.Length(0, 256)),
	)
}

// ImportPagesHandler runs directory imports. Per-file failures are reported
// through the result callback and returned joined.
type ImportPagesHandler struct {
	inner *commands.Handler[ImportPagesCommand]
}

// NewImportPagesHandler constructs a handler around the importer. onResult,
// when set, receives every import result including dry runs.
func NewImportPagesHandler(imp DirectoryImporter, logger interfaces.Logger, gates FeatureGates, onResult func(*importer.Result), opts ...commands.HandlerOption[ImportPagesCommand]) *ImportPagesHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ImportPagesCommand) error {
		if !gates.importEnabled() {
			return ErrImportDisabled
		}
		result, err := imp.ImportDirectory(ctx, importer.Options{
			Dir:       strings.TrimSpace(msg.Dir),
			Pattern:   msg.Pattern,
			Recursive: msg.Recursive,
			DryRun:    msg.DryRun,
			ActorID:   msg.ActorID,
		})
		if err != nil {
			return err
		}
		if onResult != nil {
			onResult(result)
		}
		return result.Err()
	}

	handlerOpts := []commands.HandlerOption[ImportPagesCommand]{
		commands.WithLogger[ImportPagesCommand](baseLogger),
		commands.WithOperation[ImportPagesCommand]("pages.import"),
		commands.WithMessageFields(func(msg ImportPagesCommand) map[string]any {
			fields := map[string]any{"dir": msg.Dir, "dry_run": msg.DryRun}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportPagesCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportPagesHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportPagesCommand].Execute.
func (h *ImportPagesHandler) Execute(ctx context.Context, msg ImportPagesCommand) error {
	return h.inner.Execute(ctx, msg)
}
