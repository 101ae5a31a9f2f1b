package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/codepilotrules/go-docs/internal/logging"
	"github.com/codepilotrules/go-docs/internal/pages"
	"github.com/codepilotrules/go-docs/internal/permissions"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type errorResponse struct {
	Error    string                    `json:"error"`
	Message  string                    `json:"message,omitempty"`
	TextCode string                    `json:"text_code,omitempty"`
	Issues   goerrors.ValidationErrors `json:"issues,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message})
}

func (api *AdminAPI) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		fields := map[string]any{"status": status}
		if r != nil {
			fields["method"] = r.Method
			fields["path"] = r.URL.Path
		}
		logging.WithFields(api.logger, fields).Error("http.request.failed", "error", err)
	}
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	if errors.Is(err, permissions.ErrPermissionDenied) {
		return http.StatusForbidden, errorResponse{
			Error:   "forbidden",
			Message: err.Error(),
		}
	}

	var categorized *goerrors.Error
	if !errors.As(pages.Categorize(err), &categorized) {
		return http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: err.Error()}
	}
	payload := errorResponse{
		Message:  err.Error(),
		TextCode: categorized.TextCode,
		Issues:   categorized.ValidationErrors,
	}
	switch categorized.Category {
	case goerrors.CategoryBadInput:
		payload.Error = "bad_request"
		return http.StatusBadRequest, payload
	case goerrors.CategoryNotFound:
		payload.Error = "not_found"
		return http.StatusNotFound, payload
	case goerrors.CategoryConflict:
		payload.Error = "conflict"
		return http.StatusConflict, payload
	case goerrors.CategoryValidation:
		payload.Error = "validation_failed"
		return http.StatusUnprocessableEntity, payload
	case goerrors.CategoryAuthz:
		payload.Error = "forbidden"
		return http.StatusForbidden, payload
	default:
		payload.Error = "internal_error"
		return http.StatusInternalServerError, payload
	}
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, err
	}
	return parsed, nil
}

func (api *AdminAPI) requirePermission(w http.ResponseWriter, r *http.Request, permission string) bool {
	if r == nil {
		writeBadRequest(w, "request missing")
		return false
	}
	if err := permissions.RequireWith(r.Context(), api.auth, permission); err != nil {
		api.writeError(w, r, err)
		return false
	}
	return true
}

// resolveActorID prefers the authenticated caller, then the payload actor.
func (api *AdminAPI) resolveActorID(r *http.Request, fallback *uuid.UUID) uuid.UUID {
	if api.auth != nil && r != nil {
		if raw, err := api.auth.CurrentUserID(r.Context()); err == nil {
			if parsed, err := uuid.Parse(strings.TrimSpace(raw)); err == nil {
				return parsed
			}
		}
	}
	if fallback != nil {
		return *fallback
	}
	return uuid.Nil
}

func (api *AdminAPI) servicesReady(w http.ResponseWriter) bool {
	if api == nil || api.pages == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return false
	}
	return true
}
