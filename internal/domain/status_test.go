package domain_test

import (
	"testing"

	"github.com/codepilotrules/go-docs/internal/domain"
)

func TestNextStatus(t *testing.T) {
	cases := []struct {
		name    string
		current domain.Status
		action  domain.Action
		want    domain.Status
		ok      bool
	}{
		{"draft publish", domain.StatusDraft, domain.ActionPublish, domain.StatusPublished, true},
		{"draft archive", domain.StatusDraft, domain.ActionArchive, domain.StatusDraft, false},
		{"draft unpublish", domain.StatusDraft, domain.ActionUnpublish, domain.StatusDraft, false},
		{"published republish", domain.StatusPublished, domain.ActionPublish, domain.StatusPublished, true},
		{"published unpublish", domain.StatusPublished, domain.ActionUnpublish, domain.StatusDraft, true},
		{"published archive", domain.StatusPublished, domain.ActionArchive, domain.StatusArchived, true},
		{"archived publish", domain.StatusArchived, domain.ActionPublish, domain.StatusArchived, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := domain.Next(tc.current, tc.action)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v got %v", tc.ok, ok)
			}
			if ok && got != tc.want {
				t.Fatalf("expected %s got %s", tc.want, got)
			}
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	if status, ok := domain.NormalizeStatus(""); !ok || status != domain.StatusDraft {
		t.Fatalf("expected empty input to normalise to draft, got %q %v", status, ok)
	}
	if status, ok := domain.NormalizeStatus(" Published "); !ok || status != domain.StatusPublished {
		t.Fatalf("expected published, got %q %v", status, ok)
	}
	if _, ok := domain.NormalizeStatus("scheduled"); ok {
		t.Fatal("expected scheduled to be rejected")
	}
	if !domain.IsTerminal(domain.StatusArchived) {
		t.Fatal("expected archived to be terminal")
	}
}
