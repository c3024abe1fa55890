package domain

import (
	"context"
	"io"
)

// ProductSearcher defines the interface for the shopping search provider
type ProductSearcher interface {
	Search(ctx context.Context, query string) ([]ProductCandidate, error)
}

// ImageGenerator defines the interface for the generative image model
type ImageGenerator interface {
	Generate(ctx context.Context, image []byte, mimeType, prompt string) (*GeneratedImage, error)
}

// FurnitureExtractor defines the interface for the language model that lists
// the furniture visible in an image
type FurnitureExtractor interface {
	Extract(ctx context.Context, image []byte, mimeType, prompt string) ([]FurnitureItem, error)
}

// GalleryRepository defines the interface for the gallery catalogue
type GalleryRepository interface {
	Insert(ctx context.Context, image *GalleryImage) (int64, error)
	List(ctx context.Context, limit, offset int) ([]GalleryImage, error)
	Count(ctx context.Context) (int, error)
	FindByID(ctx context.Context, id int64) (*GalleryImage, error)
	Delete(ctx context.Context, id int64) error
}

// ImageHost defines the interface for the cloud image host
type ImageHost interface {
	Upload(ctx context.Context, r io.Reader, filename string) (*HostedImage, error)
	Destroy(ctx context.Context, publicID string) error
}

// ShoppingListExporter defines the interface for rendering a saved design as
// a downloadable shopping list
type ShoppingListExporter interface {
	Export(w io.Writer, furniture []FurnitureItem, summary BudgetSummary) error
}
