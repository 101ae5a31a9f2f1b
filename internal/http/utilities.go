package http

import (
	"encoding/json"
	"net/http"

	"github.com/codepilotrules/go-docs/internal/pages"
	"github.com/codepilotrules/go-docs/internal/permissions"
	"github.com/codepilotrules/go-docs/internal/richtext"
	"github.com/google/uuid"
)

type convertPayload struct {
	Markdown string `json:"markdown"`
}

type convertResponse struct {
	Document json.RawMessage `json:"document"`
	Excerpt  string          `json:"excerpt,omitempty"`
}

type previewPayload struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	Markdown string     `json:"markdown,omitempty"`
}

func (api *AdminAPI) registerUtilityRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	mux.HandleFunc("POST "+joinPath(base, "convert"), api.handleConvert)
	mux.HandleFunc("POST "+joinPath(base, "preview"), api.handlePreview)
}

func (api *AdminAPI) handleConvert(w http.ResponseWriter, r *http.Request) {
	if !api.requirePermission(w, r, permissions.PagesRead) {
		return
	}
	var payload convertPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	doc := richtext.Convert(payload.Markdown)
	raw, err := richtext.Marshal(doc)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convertResponse{
		Document: raw,
		Excerpt:  richtext.Excerpt(doc, 0),
	})
}

func (api *AdminAPI) handlePreview(w http.ResponseWriter, r *http.Request) {
	if !api.previewEnabled {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "preview is disabled"})
		return
	}
	if !api.servicesReady(w) || !api.requirePermission(w, r, permissions.PagesRead) {
		return
	}
	var payload previewPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	req := pages.PreviewPageRequest{Markdown: payload.Markdown}
	if payload.ID != nil {
		req.ID = *payload.ID
	}
	preview, err := api.pages.Preview(r.Context(), req)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}
