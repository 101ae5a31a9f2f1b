package domain

// Status represents lifecycle states for documentation pages
type Status string

const (
	// StatusDraft indicates a page still under preparation
	StatusDraft Status = "draft"
	// StatusPublished identifies pages visible to readers
	StatusPublished Status = "published"
	// StatusArchived marks pages retained for history; archived is terminal
	StatusArchived Status = "archived"
)

// Action names a lifecycle transition.
type Action string

const (
	ActionPublish   Action = "publish"
	ActionUnpublish Action = "unpublish"
	ActionArchive   Action = "archive"
)
