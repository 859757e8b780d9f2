package gallery

import (
	"context"

	"fe/internal/formstate"
	"fe/types"
)

// Card is one rendered gallery entry.
type Card struct {
	Filename string
	ID       string // filename without its image extension
	Prompt   string
	URL      string
}

type Preview struct {
	Card     Card
	Metadata *types.Metadata // nil when the server had none
}

// View is everything the client draws. Implementations must be safe to call
// from any goroutine.
type View interface {
	SetForm(state formstate.FormState)
	SetLoading(loading bool)
	ShowError(message string)
	ShowNotice(message string)
	RenderGallery(cards []Card)
	RenderPagination(controls []PageControl)
	ShowDeleteConfirm(imageID string)
	HideDeleteConfirm()
	ShowPreview(p Preview)
	HidePreview()
}

// API is the subset of the gallery server the client consumes.
type API interface {
	ListImages(ctx context.Context, page int) (types.ListImagesResponse, error)
	GenerateImage(ctx context.Context, req types.GenerateImageRequest) (types.GenerateImageResponse, error)
	Metadata(ctx context.Context, id string) (types.Metadata, error)
	ImprovePrompt(ctx context.Context, prompt string) (string, error)
	DeleteImage(ctx context.Context, id string) error
	DownloadImage(ctx context.Context, filename, dir string) (string, error)
	ImageURL(filename string) string
}
