package pages_test

import (
	"context"
	"errors"
	"testing"

	"github.com/codepilotrules/go-docs/internal/pages"
)

func TestDeriveSlug(t *testing.T) {
	cases := []struct {
		name  string
		title string
		max   int
		want  string
	}{
		{name: "punctuation", title: "Hello, World!  Again", max: 100, want: "hello-world-again"},
		{name: "hyphen runs", title: "  --A  b-- ", max: 100, want: "a-b"},
		{name: "non ascii stripped", title: "Café Setup", max: 100, want: "caf-setup"},
		{name: "underscore stripped", title: "snake_case\tRules", max: 100, want: "snakecase-rules"},
		{name: "truncated then trimmed", title: "abc def", max: 4, want: "abc"},
		{name: "placeholder", title: "!!!", max: 100, want: "untitled"},
		{name: "empty", title: "", max: 100, want: "untitled"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := pages.DeriveSlug(tc.title, tc.max, "untitled"); got != tc.want {
				t.Fatalf("expected %q got %q", tc.want, got)
			}
		})
	}
}

func TestAssignSlugIsDeterministic(t *testing.T) {
	ctx := context.Background()
	free := func(context.Context, string) (bool, error) { return false, nil }

	first, err := pages.AssignSlug(ctx, "Getting Started", free, pages.DefaultSlugOptions())
	if err != nil {
		t.Fatalf("assign slug: %v", err)
	}
	second, err := pages.AssignSlug(ctx, "Getting Started", free, pages.DefaultSlugOptions())
	if err != nil {
		t.Fatalf("assign slug: %v", err)
	}
	if first != "getting-started" || first != second {
		t.Fatalf("expected stable slug getting-started, got %q and %q", first, second)
	}
}

func TestAssignSlugAppendsSuffix(t *testing.T) {
	taken := map[string]bool{"intro": true, "intro-1": true}
	exists := func(_ context.Context, candidate string) (bool, error) {
		return taken[candidate], nil
	}

	slug, err := pages.AssignSlug(context.Background(), "Intro", exists, pages.DefaultSlugOptions())
	if err != nil {
		t.Fatalf("assign slug: %v", err)
	}
	if slug != "intro-2" {
		t.Fatalf("expected intro-2 got %q", slug)
	}
}

func TestAssignSlugExhausted(t *testing.T) {
	calls := 0
	exists := func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	}

	_, err := pages.AssignSlug(context.Background(), "Busy", exists, pages.SlugOptions{})
	if !errors.Is(err, pages.ErrSlugGenerationExhausted) {
		t.Fatalf("expected ErrSlugGenerationExhausted, got %v", err)
	}
	if calls != pages.DefaultSlugMaxAttempts {
		t.Fatalf("expected %d probes, got %d", pages.DefaultSlugMaxAttempts, calls)
	}
}

func TestAssignSlugPropagatesCheckerError(t *testing.T) {
	boom := errors.New("store offline")
	exists := func(context.Context, string) (bool, error) { return false, boom }

	if _, err := pages.AssignSlug(context.Background(), "x", exists, pages.DefaultSlugOptions()); !errors.Is(err, boom) {
		t.Fatalf("expected checker error, got %v", err)
	}
}

func TestValidateSlug(t *testing.T) {
	if err := pages.ValidateSlug("getting-started"); err != nil {
		t.Fatalf("expected valid slug, got %v", err)
	}
	if err := pages.ValidateSlug("Bad Slug!"); !errors.Is(err, pages.ErrSlugInvalid) {
		t.Fatalf("expected ErrSlugInvalid, got %v", err)
	}
}

func TestNormalizeTags(t *testing.T) {
	tags, err := pages.NormalizeTags([]string{" Go ", "testing", "go", "API"})
	if err != nil {
		t.Fatalf("normalize tags: %v", err)
	}
	want := []string{"api", "go", "testing"}
	if len(tags) != len(want) {
		t.Fatalf("expected %v got %v", want, tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("expected %v got %v", want, tags)
		}
	}

	if _, err := pages.NormalizeTags([]string{"ok", "  "}); !errors.Is(err, pages.ErrTagInvalid) {
		t.Fatalf("expected ErrTagInvalid, got %v", err)
	}
}
