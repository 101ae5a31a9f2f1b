package interfaces

import "context"

// Permission names checked by the admin surfaces.
const (
	PermissionPagesRead  = "pages:read"
	PermissionPagesAdmin = "pages:admin"
)

// AuthProvider resolves the caller behind ctx. Hosts own authentication;
// the docs runtime only asks whether a permission is granted.
type AuthProvider interface {
	CurrentUserID(ctx context.Context) (string, error)
	HasPermission(ctx context.Context, permission string) (bool, error)
}
