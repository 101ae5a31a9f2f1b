package domain

import "strings"

var transitions = map[Status]map[Action]Status{
	StatusDraft: {
		ActionPublish: StatusPublished,
	},
	StatusPublished: {
		ActionPublish:   StatusPublished,
		ActionUnpublish: StatusDraft,
		ActionArchive:   StatusArchived,
	},
	StatusArchived: {},
}

// NormalizeStatus coerces arbitrary status strings into a known Status.
// Empty input maps to draft.
func NormalizeStatus(input string) (Status, bool) {
	value := Status(strings.ToLower(strings.TrimSpace(input)))
	if value == "" {
		return StatusDraft, true
	}
	switch value {
	case StatusDraft, StatusPublished, StatusArchived:
		return value, true
	default:
		return value, false
	}
}

// Next resolves the status reached by applying action to current.
func Next(current Status, action Action) (Status, bool) {
	allowed, ok := transitions[current]
	if !ok {
		return current, false
	}
	next, ok := allowed[action]
	return next, ok
}

// IsTerminal reports whether no transition leaves the status.
func IsTerminal(status Status) bool {
	return len(transitions[status]) == 0
}
