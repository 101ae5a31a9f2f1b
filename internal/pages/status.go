package pages

import (
	"time"

	"github.com/codepilotrules/go-docs/internal/domain"
)

// ApplyTransition moves page through the lifecycle. PublishedAt is stamped
// the first time a page is published and kept afterwards. Re-publishing a
// published page is a no-op and reports changed=false.
func ApplyTransition(page *Page, action domain.Action, now time.Time) (bool, error) {
	current, ok := domain.NormalizeStatus(page.Status)
	if !ok {
		return false, &StatusTransitionError{From: page.Status, To: string(action)}
	}
	next, ok := domain.Next(current, action)
	if !ok {
		return false, &StatusTransitionError{From: string(current), To: string(action)}
	}
	if next == current {
		page.Status = string(current)
		return false, nil
	}

	page.Status = string(next)
	if next == domain.StatusPublished && page.PublishedAt == nil {
		stamped := now
		page.PublishedAt = &stamped
	}
	return true, nil
}
