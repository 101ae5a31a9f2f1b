// Package http provides the optional admin HTTP adapter for documentation pages.
//
// Routes mount under a configurable base path (default /admin/api):
//   - Pages: /pages, /pages/{id}, /pages/tree, /pages/lookup
//   - Hierarchy: /pages/{id}/children, /pages/{id}/breadcrumbs, /pages/{id}/move
//   - Lifecycle: /pages/{id}/publish, /pages/{id}/unpublish, /pages/{id}/archive
//   - Tags: /pages/{id}/tags
//   - Utilities: /convert, /preview
//
// Reads require pages:read and mutations pages:admin. Host applications can
// register handlers on their own mux as needed.
package http
