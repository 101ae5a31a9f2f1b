package pages

import (
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

var (
	ErrPageRequired             = errors.New("pages: page id required")
	ErrPageNotFound             = errors.New("pages: page not found")
	ErrPageExists               = errors.New("pages: page id already exists")
	ErrTitleRequired            = errors.New("pages: title is required")
	ErrSlugInvalid              = errors.New("pages: slug contains invalid characters")
	ErrSlugExists               = errors.New("pages: slug already exists")
	ErrSlugGenerationExhausted  = errors.New("pages: unable to find a free slug")
	ErrInvalidParent            = errors.New("pages: parent page cannot be resolved")
	ErrBlockedByChildren        = errors.New("pages: page has children")
	ErrPageParentCycle          = errors.New("pages: parent assignment creates hierarchy cycle")
	ErrInvalidStatusTransition  = errors.New("pages: invalid status transition")
	ErrContentInvalid           = errors.New("pages: content is not a valid document")
	ErrOrderIndexInvalid        = errors.New("pages: order index must not be negative")
	ErrTagInvalid               = errors.New("pages: tag is empty or too long")
	ErrPreviewRendererMissing   = errors.New("pages: preview renderer not configured")
	ErrPageSourceMissing        = errors.New("pages: page has no markdown source")
	ErrStorageTransactionFailed = errors.New("pages: storage transaction failed")
)

// PageNotFoundError reports a failed lookup by id, slug or path.
type PageNotFoundError struct {
	Key string
}

func (e *PageNotFoundError) Error() string {
	if e == nil || strings.TrimSpace(e.Key) == "" {
		return ErrPageNotFound.Error()
	}
	return fmt.Sprintf("%s: %s", ErrPageNotFound.Error(), e.Key)
}

func (e *PageNotFoundError) Unwrap() error {
	return ErrPageNotFound
}

// InvalidParentError identifies the parent reference that could not be resolved.
type InvalidParentError struct {
	ParentID uuid.UUID
}

func (e *InvalidParentError) Error() string {
	if e == nil {
		return ErrInvalidParent.Error()
	}
	return fmt.Sprintf("%s: parent=%s", ErrInvalidParent.Error(), e.ParentID)
}

func (e *InvalidParentError) Unwrap() error {
	return ErrInvalidParent
}

// BlockedByChildrenError is returned when deleting a page that still has children.
type BlockedByChildrenError struct {
	PageID   uuid.UUID
	Children int
}

func (e *BlockedByChildrenError) Error() string {
	if e == nil {
		return ErrBlockedByChildren.Error()
	}
	return fmt.Sprintf("%s: page=%s children=%d", ErrBlockedByChildren.Error(), e.PageID, e.Children)
}

func (e *BlockedByChildrenError) Unwrap() error {
	return ErrBlockedByChildren
}

// StatusTransitionError captures a rejected lifecycle change.
type StatusTransitionError struct {
	From string
	To   string
}

func (e *StatusTransitionError) Error() string {
	if e == nil {
		return ErrInvalidStatusTransition.Error()
	}
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidStatusTransition.Error(), e.From, e.To)
}

func (e *StatusTransitionError) Unwrap() error {
	return ErrInvalidStatusTransition
}

// ContentInvalidError wraps the schema or decode failure for structured content.
type ContentInvalidError struct {
	Cause error
}

func (e *ContentInvalidError) Error() string {
	if e == nil || e.Cause == nil {
		return ErrContentInvalid.Error()
	}
	return fmt.Sprintf("%s: %v", ErrContentInvalid.Error(), e.Cause)
}

func (e *ContentInvalidError) Unwrap() []error {
	if e == nil || e.Cause == nil {
		return []error{ErrContentInvalid}
	}
	return []error{ErrContentInvalid, e.Cause}
}

// Categorize attaches a go-errors category and text code to page errors so
// transport adapters can map them without knowing every sentinel. Errors that
// already carry a category are returned unchanged.
func Categorize(err error) error {
	if err == nil {
		return nil
	}
	var categorized *goerrors.Error
	if errors.As(err, &categorized) {
		return err
	}

	category, code := classify(err)
	return goerrors.Wrap(err, category, err.Error()).WithTextCode(code)
}

func classify(err error) (goerrors.Category, string) {
	switch {
	case errors.Is(err, ErrPageNotFound):
		return goerrors.CategoryNotFound, "PAGE_NOT_FOUND"
	case errors.Is(err, ErrTitleRequired):
		return goerrors.CategoryValidation, "TITLE_REQUIRED"
	case errors.Is(err, ErrContentInvalid):
		return goerrors.CategoryValidation, "CONTENT_INVALID"
	case errors.Is(err, ErrTagInvalid):
		return goerrors.CategoryValidation, "TAG_INVALID"
	case errors.Is(err, ErrSlugInvalid):
		return goerrors.CategoryBadInput, "SLUG_INVALID"
	case errors.Is(err, ErrPageRequired):
		return goerrors.CategoryBadInput, "PAGE_REQUIRED"
	case errors.Is(err, ErrInvalidParent):
		return goerrors.CategoryBadInput, "INVALID_PARENT"
	case errors.Is(err, ErrOrderIndexInvalid):
		return goerrors.CategoryBadInput, "ORDER_INDEX_INVALID"
	case errors.Is(err, ErrPageSourceMissing):
		return goerrors.CategoryBadInput, "PAGE_SOURCE_MISSING"
	case errors.Is(err, ErrPageExists):
		return goerrors.CategoryConflict, "PAGE_EXISTS"
	case errors.Is(err, ErrSlugExists):
		return goerrors.CategoryConflict, "SLUG_EXISTS"
	case errors.Is(err, ErrBlockedByChildren):
		return goerrors.CategoryConflict, "BLOCKED_BY_CHILDREN"
	case errors.Is(err, ErrPageParentCycle):
		return goerrors.CategoryConflict, "PARENT_CYCLE"
	case errors.Is(err, ErrInvalidStatusTransition):
		return goerrors.CategoryConflict, "INVALID_STATUS_TRANSITION"
	case errors.Is(err, ErrSlugGenerationExhausted):
		return goerrors.CategoryInternal, "SLUG_GENERATION_EXHAUSTED"
	case errors.Is(err, ErrStorageTransactionFailed):
		return goerrors.CategoryInternal, "STORAGE_TRANSACTION_FAILED"
	default:
		return goerrors.CategoryInternal, "INTERNAL"
	}
}
