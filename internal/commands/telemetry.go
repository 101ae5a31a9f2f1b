package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/codepilotrules/go-docs/internal/logging"
	"github.com/codepilotrules/go-docs/pkg/interfaces"
)

// TelemetryStatus classifies how a command finished.
type TelemetryStatus string

const (
	TelemetryStatusSuccess TelemetryStatus = "success"
	// TelemetryStatusRejected marks caller errors: unknown page, slug conflict,
	// blocked delete, invalid transition or bad input.
	TelemetryStatusRejected     TelemetryStatus = "rejected"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo describes one command execution. PageID and Slug are lifted
// from the message fields when the handler reports them.
type TelemetryInfo struct {
	Command   string
	Operation string
	PageID    string
	Slug      string
	Code      string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry is invoked after every command execution.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs page command outcomes. Rejections log at warn since
// they are caller errors, not storage or runtime failures.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	logger = EnsureLogger(logger)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := logging.WithFields(logger, info.Fields)
		args := []any{"duration_ms", info.Duration.Milliseconds()}
		if info.PageID != "" {
			args = append(args, "page_id", info.PageID)
		}
		if info.Slug != "" {
			args = append(args, "slug", info.Slug)
		}
		if info.Code != "" {
			args = append(args, "code", info.Code)
		}
		switch info.Status {
		case TelemetryStatusSuccess:
			entry.Info("pages.command.applied", args...)
		case TelemetryStatusRejected:
			entry.Warn("pages.command.rejected", append(args, "error", info.Error)...)
		case TelemetryStatusContextError:
			entry.Error("pages.command.interrupted", append(args, "error", info.Error)...)
		default:
			entry.Error("pages.command.failed", append(args, "error", info.Error)...)
		}
	}
}

func newTelemetryInfo(fields map[string]any, err, ctxErr error) TelemetryInfo {
	info := TelemetryInfo{
		PageID: fieldString(fields, "page_id"),
		Slug:   fieldString(fields, "slug"),
		Fields: fields,
		Error:  err,
		Status: TelemetryStatusSuccess,
	}
	if err == nil {
		return info
	}

	var rich *goerrors.Error
	if errors.As(err, &rich) {
		info.Code = rich.TextCode
	}
	switch {
	case ctxErr != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		info.Status = TelemetryStatusContextError
	case rich != nil && rejectedCategory(rich.Category):
		info.Status = TelemetryStatusRejected
	default:
		info.Status = TelemetryStatusFailed
	}
	return info
}

func rejectedCategory(category goerrors.Category) bool {
	switch category {
	case goerrors.CategoryNotFound,
		goerrors.CategoryConflict,
		goerrors.CategoryValidation,
		goerrors.CategoryBadInput:
		return true
	default:
		return false
	}
}

func fieldString(fields map[string]any, key string) string {
	value, ok := fields[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
