package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/codepilotrules/go-docs/internal/logging"
	"github.com/codepilotrules/go-docs/internal/pages"
	"github.com/codepilotrules/go-docs/pkg/interfaces"
)

// AdminAPI registers admin endpoints for page management.
type AdminAPI struct {
	basePath       string
	pages          pages.Service
	auth           interfaces.AuthProvider
	logger         interfaces.Logger
	previewEnabled bool
}

// AdminOption mutates the AdminAPI configuration.
type AdminOption func(*AdminAPI)

// NewAdminAPI constructs an AdminAPI instance.
func NewAdminAPI(opts ...AdminOption) *AdminAPI {
	api := &AdminAPI{
		basePath:       "/admin/api",
		logger:         logging.NoOp(),
		previewEnabled: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/admin/api").
func WithBasePath(path string) AdminOption {
	return func(api *AdminAPI) {
		if api == nil {
			return
		}
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithPageService wires the page service.
func WithPageService(service pages.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.pages = service
		}
	}
}

// WithAuthProvider wires the host authorisation hook. Without one, requests
// fall back to the permission checker stored on the request context.
func WithAuthProvider(provider interfaces.AuthProvider) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.auth = provider
		}
	}
}

// WithLogger sets the logger used for request failures.
func WithLogger(logger interfaces.Logger) AdminOption {
	return func(api *AdminAPI) {
		if api == nil {
			return
		}
		if logger == nil {
			logger = logging.NoOp()
		}
		api.logger = logger
	}
}

// WithPreviewEnabled toggles the /preview endpoint.
func WithPreviewEnabled(enabled bool) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.previewEnabled = enabled
		}
	}
}

// Register attaches the admin endpoints to the provided mux.
func (api *AdminAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: admin api is nil")
	}

	base := joinPath(api.basePath, "")

	api.registerPageRoutes(mux, base)
	api.registerUtilityRoutes(mux, base)

	return nil
}
