package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/codepilotrules/go-docs/internal/pages"
	"github.com/codepilotrules/go-docs/internal/permissions"
	"github.com/google/uuid"
)

type pageCreatePayload struct {
	ID       *uuid.UUID     `json:"id,omitempty"`
	Title    string         `json:"title"`
	Slug     string         `json:"slug,omitempty"`
	ParentID *uuid.UUID     `json:"parent_id,omitempty"`
	Markdown string         `json:"markdown,omitempty"`
	Content  map[string]any `json:"content,omitempty"`
	Excerpt  string         `json:"excerpt,omitempty"`
	Tags     []string       `json:"tags,omitempty"`
	Publish  bool           `json:"publish,omitempty"`
	ActorID  *uuid.UUID     `json:"actor_id,omitempty"`
}

type pageUpdatePayload struct {
	Title    *string        `json:"title,omitempty"`
	Slug     *string        `json:"slug,omitempty"`
	Markdown *string        `json:"markdown,omitempty"`
	Content  map[string]any `json:"content,omitempty"`
	Excerpt  *string        `json:"excerpt,omitempty"`
	ActorID  *uuid.UUID     `json:"actor_id,omitempty"`
}

type pageMovePayload struct {
	ParentID   *uuid.UUID `json:"parent_id"`
	OrderIndex *int       `json:"order_index,omitempty"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
}

type pageTagsPayload struct {
	Tags    []string   `json:"tags"`
	ActorID *uuid.UUID `json:"actor_id,omitempty"`
}

type pageActorPayload struct {
	ActorID *uuid.UUID `json:"actor_id,omitempty"`
}

type pageTagsResponse struct {
	PageID uuid.UUID `json:"page_id"`
	Tags   []string  `json:"tags"`
}

func (api *AdminAPI) registerPageRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "pages")
	mux.HandleFunc("GET "+root, api.handlePageList)
	mux.HandleFunc("POST "+root, api.handlePageCreate)
	mux.HandleFunc("GET "+root+"/tree", api.handlePageTree)
	mux.HandleFunc("GET "+root+"/lookup", api.handlePageLookup)
	mux.HandleFunc("GET "+root+"/{id}", api.handlePageGet)
	mux.HandleFunc("PUT "+root+"/{id}", api.handlePageUpdate)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handlePageDelete)
	mux.HandleFunc("GET "+root+"/{id}/children", api.handlePageChildren)
	mux.HandleFunc("GET "+root+"/{id}/breadcrumbs", api.handlePageBreadcrumbs)
	mux.HandleFunc("POST "+root+"/{id}/move", api.handlePageMove)
	mux.HandleFunc("PUT "+root+"/{id}/tags", api.handlePageTags)
	mux.HandleFunc("POST "+root+"/{id}/publish", api.statusHandler(func(ctx context.Context, req pages.PageStatusRequest) (*pages.Page, error) {
		return api.pages.Publish(ctx, req)
	}))
	mux.HandleFunc("POST "+root+"/{id}/unpublish", api.statusHandler(func(ctx context.Context, req pages.PageStatusRequest) (*pages.Page, error) {
		return api.pages.Unpublish(ctx, req)
	}))
	mux.HandleFunc("POST "+root+"/{id}/archive", api.statusHandler(func(ctx context.Context, req pages.PageStatusRequest) (*pages.Page, error) {
		return api.pages.Archive(ctx, req)
	}))
}

func (api *AdminAPI) handlePageList(w http.ResponseWriter, r *http.Request) {
	if !api.servicesReady(w) || !api.requirePermission(w, r, permissions.PagesRead) {
		return
	}
	list, err := api.pages.List(r.Context())
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *AdminAPI) handlePageGet(w http.ResponseWriter, r *http.Request) {
	if !api.servicesReady(w) || !api.requirePermission(w, r, permissions.PagesRead) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	record, err := api.pages.Get(r.Context(), id)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handlePageLookup(w http.ResponseWriter, r *http.Request) {
	if !api.servicesReady(w) || !api.requirePermission(w, r, permissions.PagesRead) {
		return
	}
	query := r.URL.Query()
	slug := strings.TrimSpace(query.Get("slug"))
	path := strings.TrimSpace(query.Get("path"))

	var (
		record *pages.Page
		err    error
	)
	switch {
	case slug != "":
		record, err = api.pages.GetBySlug(r.Context(), slug)
	case path != "":
		record, err = api.pages.GetByPath(r.Context(), path)
	default:
		writeBadRequest(w, "slug or path query parameter required")
		return
	}
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handlePageTree(w http.ResponseWriter, r *http.Request) {
	if !api.servicesReady(w) || !api.requirePermission(w, r, permissions.PagesRead) {
		return
	}
	var rootID *uuid.UUID
	if raw := strings.TrimSpace(r.URL.Query().Get("root")); raw != "" {
		parsed, err := parseUUID(raw)
		if err != nil {
			writeBadRequest(w, "invalid root id")
			return
		}
		rootID = &parsed
	}
	tree, err := api.pages.Tree(r.Context(), rootID)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (api *AdminAPI) handlePageChildren(w http.ResponseWriter, r *http.Request) {
	if !api.servicesReady(w) || !api.requirePermission(w, r, permissions.PagesRead) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := api.pages.Get(r.Context(), id); err != nil {
		api.writeError(w, r, err)
		return
	}
	children, err := api.pages.Children(r.Context(), &id)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, children)
}

func (api *AdminAPI) handlePageBreadcrumbs(w http.ResponseWriter, r *http.Request) {
	if !api.servicesReady(w) || !api.requirePermission(w, r, permissions.PagesRead) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	trail, err := api.pages.Breadcrumbs(r.Context(), id)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trail)
}

func (api *AdminAPI) handlePageCreate(w http.ResponseWriter, r *http.Request) {
	if !api.servicesReady(w) || !api.requirePermission(w, r, permissions.PagesAdmin) {
		return
	}
	var payload pageCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	actor := api.resolveActorID(r, payload.ActorID)
	req := pages.CreatePageRequest{
		Title:     payload.Title,
		Slug:      payload.Slug,
		ParentID:  payload.ParentID,
		Markdown:  payload.Markdown,
		Content:   payload.Content,
		Excerpt:   payload.Excerpt,
		Tags:      payload.Tags,
		Publish:   payload.Publish,
		CreatedBy: actor,
		UpdatedBy: actor,
	}
	if payload.ID != nil {
		req.ID = *payload.ID
	}
	created, err := api.pages.Create(r.Context(), req)
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (api *AdminAPI) handlePageUpdate(w http.ResponseWriter, r *http.Request) {
	if !api.servicesReady(w) || !api.requirePermission(w, r, permissions.PagesAdmin) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload pageUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	updated, err := api.pages.Update(r.Context(), pages.UpdatePageRequest{
		ID:        id,
		Title:     payload.Title,
		Slug:      payload.Slug,
		Markdown:  payload.Markdown,
		Content:   payload.Content,
		Excerpt:   payload.Excerpt,
		UpdatedBy: api.resolveActorID(r, payload.ActorID),
	})
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (api *AdminAPI) handlePageDelete(w http.ResponseWriter, r *http.Request) {
	if !api.servicesReady(w) || !api.requirePermission(w, r, permissions.PagesAdmin) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload pageActorPayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, err.Error())
		return
	}
	if err := api.pages.Delete(r.Context(), pages.DeletePageRequest{
		ID:        id,
		DeletedBy: api.resolveActorID(r, payload.ActorID),
	}); err != nil {
		api.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *AdminAPI) handlePageMove(w http.ResponseWriter, r *http.Request) {
	if !api.servicesReady(w) || !api.requirePermission(w, r, permissions.PagesAdmin) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload pageMovePayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, err.Error())
		return
	}
	actor := api.resolveActorID(r, payload.ActorID)
	moved, err := api.pages.Move(r.Context(), pages.MovePageRequest{
		PageID:      id,
		NewParentID: payload.ParentID,
		ActorID:     actor,
	})
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	if payload.OrderIndex != nil {
		moved, err = api.pages.Reorder(r.Context(), pages.ReorderPageRequest{
			PageID:     id,
			OrderIndex: *payload.OrderIndex,
			ActorID:    actor,
		})
		if err != nil {
			api.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, moved)
}

func (api *AdminAPI) handlePageTags(w http.ResponseWriter, r *http.Request) {
	if !api.servicesReady(w) || !api.requirePermission(w, r, permissions.PagesAdmin) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload pageTagsPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	tags, err := api.pages.SetTags(r.Context(), pages.SetPageTagsRequest{
		PageID:  id,
		Tags:    payload.Tags,
		ActorID: api.resolveActorID(r, payload.ActorID),
	})
	if err != nil {
		api.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageTagsResponse{PageID: id, Tags: tags})
}

func (api *AdminAPI) statusHandler(transition func(context.Context, pages.PageStatusRequest) (*pages.Page, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !api.servicesReady(w) || !api.requirePermission(w, r, permissions.PagesAdmin) {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var payload pageActorPayload
		if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
			writeBadRequest(w, err.Error())
			return
		}
		record, err := transition(r.Context(), pages.PageStatusRequest{
			ID:      id,
			ActorID: api.resolveActorID(r, payload.ActorID),
		})
		if err != nil {
			api.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeBadRequest(w, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
