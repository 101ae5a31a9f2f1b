package pages

import docspages "github.com/codepilotrules/go-docs/pages"

type (
	Page               = docspages.Page
	PageTag            = docspages.PageTag
	PageNode           = docspages.PageNode
	PagePreview        = docspages.PagePreview
	Service            = docspages.Service
	CreatePageRequest  = docspages.CreatePageRequest
	UpdatePageRequest  = docspages.UpdatePageRequest
	MovePageRequest    = docspages.MovePageRequest
	ReorderPageRequest = docspages.ReorderPageRequest
	DeletePageRequest  = docspages.DeletePageRequest
	PageStatusRequest  = docspages.PageStatusRequest
	SetPageTagsRequest = docspages.SetPageTagsRequest
	PreviewPageRequest = docspages.PreviewPageRequest

	PageNotFoundError      = docspages.PageNotFoundError
	InvalidParentError     = docspages.InvalidParentError
	BlockedByChildrenError = docspages.BlockedByChildrenError
	StatusTransitionError  = docspages.StatusTransitionError
	ContentInvalidError    = docspages.ContentInvalidError
)

var (
	ErrPageRequired             = docspages.ErrPageRequired
	ErrPageNotFound             = docspages.ErrPageNotFound
	ErrPageExists               = docspages.ErrPageExists
	ErrTitleRequired            = docspages.ErrTitleRequired
	ErrSlugInvalid              = docspages.ErrSlugInvalid
	ErrSlugExists               = docspages.ErrSlugExists
	ErrSlugGenerationExhausted  = docspages.ErrSlugGenerationExhausted
	ErrInvalidParent            = docspages.ErrInvalidParent
	ErrBlockedByChildren        = docspages.ErrBlockedByChildren
	ErrPageParentCycle          = docspages.ErrPageParentCycle
	ErrInvalidStatusTransition  = docspages.ErrInvalidStatusTransition
	ErrContentInvalid           = docspages.ErrContentInvalid
	ErrOrderIndexInvalid        = docspages.ErrOrderIndexInvalid
	ErrTagInvalid               = docspages.ErrTagInvalid
	ErrPreviewRendererMissing   = docspages.ErrPreviewRendererMissing
	ErrPageSourceMissing        = docspages.ErrPageSourceMissing
	ErrStorageTransactionFailed = docspages.ErrStorageTransactionFailed
)

// Categorize attaches error categories for transport adapters.
func Categorize(err error) error {
	return docspages.Categorize(err)
}
