package pages

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-slug"
)

const (
	// DefaultSlugMaxLength bounds derived slugs before suffixing.
	DefaultSlugMaxLength = 100
	// DefaultSlugPlaceholder replaces titles that sanitise to nothing.
	DefaultSlugPlaceholder = "untitled"
	// DefaultSlugMaxAttempts caps uniqueness probing.
	DefaultSlugMaxAttempts = 1000
)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// SlugChecker reports whether a slug is already taken.
type SlugChecker func(ctx context.Context, candidate string) (bool, error)

// SlugOptions tunes slug derivation and probing.
type SlugOptions struct {
	MaxLength   int
	Placeholder string
	MaxAttempts int
}

// DefaultSlugOptions returns the stock slug settings.
func DefaultSlugOptions() SlugOptions {
	return SlugOptions{
		MaxLength:   DefaultSlugMaxLength,
		Placeholder: DefaultSlugPlaceholder,
		MaxAttempts: DefaultSlugMaxAttempts,
	}
}

func (o SlugOptions) normalized() SlugOptions {
	if o.MaxLength <= 0 {
		o.MaxLength = DefaultSlugMaxLength
	}
	if strings.TrimSpace(o.Placeholder) == "" {
		o.Placeholder = DefaultSlugPlaceholder
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultSlugMaxAttempts
	}
	return o
}

// DeriveSlug turns a title into a URL-safe slug.
func DeriveSlug(title string, maxLen int, placeholder string) string {
	candidate := strings.ToLower(title)
	candidate = slugDisallowed.ReplaceAllString(candidate, "")
	candidate = strings.TrimSpace(candidate)
	candidate = slugWhitespace.ReplaceAllString(candidate, "-")
	candidate = slugHyphens.ReplaceAllString(candidate, "-")
	candidate = strings.Trim(candidate, "-")
	if maxLen > 0 && len(candidate) > maxLen {
		candidate = strings.TrimRight(candidate[:maxLen], "-")
	}
	if candidate == "" {
		return placeholder
	}
	return candidate
}

// AssignSlug derives a slug from title and appends -1, -2, ... until exists
// reports the candidate as free.
func AssignSlug(ctx context.Context, title string, exists SlugChecker, opts SlugOptions) (string, error) {
	opts = opts.normalized()
	base := DeriveSlug(title, opts.MaxLength, opts.Placeholder)
	return probeSlug(ctx, base, exists, opts.MaxAttempts)
}

func probeSlug(ctx context.Context, base string, exists SlugChecker, attempts int) (string, error) {
	if exists == nil {
		return base, nil
	}
	candidate := base
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d", base, attempt)
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %q after %d attempts", ErrSlugGenerationExhausted, base, attempts)
}

// ValidateSlug checks an explicitly supplied slug.
func ValidateSlug(value string) error {
	if !slug.IsValid(value) {
		return fmt.Errorf("%w: %q", ErrSlugInvalid, value)
	}
	return nil
}
