package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsDeterministic(t *testing.T) {
	first := UUID("go-docs:page:intro.md")
	second := UUID("  go-docs:page:intro.md ")
	if first == uuid.Nil || first != second {
		t.Fatalf("expected stable non-nil uuid, got %s and %s", first, second)
	}
	if UUID("go-docs:page:other.md") == first {
		t.Fatal("expected different keys to produce different ids")
	}
	if UUID("   ") != uuid.Nil {
		t.Fatal("expected blank key to map to uuid.Nil")
	}
}

func TestPageUUIDNormalisesPaths(t *testing.T) {
	want := PageUUID("guides/setup.md")
	for _, variant := range []string{"./guides/setup.md", "guides//setup.md", `guides\setup.md`, "/guides/setup.md"} {
		if got := PageUUID(variant); got != want {
			t.Fatalf("expected %s for %q, got %s", want, variant, got)
		}
	}
	if PageUUID("") != uuid.Nil {
		t.Fatal("expected blank path to map to uuid.Nil")
	}
}
