package permissions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codepilotrules/go-docs/pkg/interfaces"
)

type Action string

const (
	ActionRead  Action = "read"
	ActionAdmin Action = "admin"
)

const ResourcePages = "pages"

const (
	PagesRead  = interfaces.PermissionPagesRead
	PagesAdmin = interfaces.PermissionPagesAdmin
)

var ErrPermissionDenied = errors.New("permissions: denied")

type Error struct {
	Permission string
}

func (e Error) Error() string {
	if strings.TrimSpace(e.Permission) == "" {
		return "permission denied"
	}
	return "permission denied: " + e.Permission
}

func (e Error) Unwrap() error {
	return ErrPermissionDenied
}

// Join builds a resource:action permission token.
func Join(resource string, action Action) string {
	resource = normalizeToken(resource)
	if resource == "" || action == "" {
		return ""
	}
	return resource + ":" + string(action)
}

type Checker interface {
	Allowed(permission string) bool
}

type CheckerFunc func(permission string) bool

func (fn CheckerFunc) Allowed(permission string) bool {
	return fn(permission)
}

type Set map[string]struct{}

func NewSet(perms ...string) Set {
	set := Set{}
	for _, perm := range perms {
		normalized := normalizePermission(perm)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return set
}

// Allowed matches exact tokens, resource:* and *. An admin grant implies read.
func (s Set) Allowed(permission string) bool {
	if len(s) == 0 {
		return false
	}
	normalized := normalizePermission(permission)
	if normalized == "" {
		return false
	}
	if _, ok := s[normalized]; ok {
		return true
	}
	resource, action := splitPermission(normalized)
	if resource != "" {
		if _, ok := s[resource+":*"]; ok {
			return true
		}
		if action == ActionRead {
			if _, ok := s[Join(resource, ActionAdmin)]; ok {
				return true
			}
		}
	}
	if _, ok := s["*"]; ok {
		return true
	}
	return false
}

type contextKey struct{}

// WithChecker stores a permission checker on the context.
func WithChecker(ctx context.Context, checker Checker) context.Context {
	if ctx == nil || checker == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, checker)
}

// WithPermissions stores a static permission set on the context.
func WithPermissions(ctx context.Context, perms ...string) context.Context {
	if ctx == nil || len(perms) == 0 {
		return ctx
	}
	return WithChecker(ctx, NewSet(perms...))
}

// CheckerFromContext returns the configured permission checker if available.
func CheckerFromContext(ctx context.Context) Checker {
	if ctx == nil {
		return nil
	}
	checker, _ := ctx.Value(contextKey{}).(Checker)
	return checker
}

// Allowed reports whether the permission is granted. Contexts without a
// checker are unrestricted.
func Allowed(ctx context.Context, permission string) bool {
	return Require(ctx, permission) == nil
}

// Require returns an Error when the context checker denies the permission.
func Require(ctx context.Context, permission string) error {
	normalized := normalizePermission(permission)
	if normalized == "" {
		return nil
	}
	checker := CheckerFromContext(ctx)
	if checker == nil {
		return nil
	}
	if checker.Allowed(normalized) {
		return nil
	}
	return Error{Permission: normalized}
}

// RequireWith asks provider first and falls back to the context checker when
// provider is nil.
func RequireWith(ctx context.Context, provider interfaces.AuthProvider, permission string) error {
	if provider == nil {
		return Require(ctx, permission)
	}
	normalized := normalizePermission(permission)
	if normalized == "" {
		return nil
	}
	ok, err := provider.HasPermission(ctx, normalized)
	if err != nil {
		return fmt.Errorf("permissions: resolve %s: %w", normalized, err)
	}
	if !ok {
		return Error{Permission: normalized}
	}
	return nil
}

func splitPermission(permission string) (string, Action) {
	resource, action, found := strings.Cut(permission, ":")
	if !found {
		return "", ""
	}
	return resource, Action(action)
}

func normalizePermission(permission string) string {
	return normalizeToken(permission)
}

func normalizeToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
