package domain

import "time"

// DesignRequest is a room redesign request
type DesignRequest struct {
	Image        []byte
	MimeType     string
	Styles       []string
	Colors       []string
	Budget       float64
	Instructions string
}

// GeneratedImage is the output of the image generation model
type GeneratedImage struct {
	Data     []byte
	MimeType string
}

// DesignResult is the complete output of a room redesign
type DesignResult struct {
	ImageURL  string          `json:"imageUrl"`
	MimeType  string          `json:"mimeType"`
	Furniture []FurnitureItem `json:"furniture"`
	CostRange BudgetSummary   `json:"costRange"`
}

// HostedImage describes an image stored at the cloud image host
type HostedImage struct {
	PublicID         string
	URL              string
	OriginalFilename string
	Width            int
	Height           int
	Format           string
	Bytes            int
}

// GalleryImage is one saved design in the gallery catalogue
type GalleryImage struct {
	ID               int64     `json:"id"`
	PublicID         string    `json:"publicId"`
	URL              string    `json:"url"`
	OriginalFilename string    `json:"originalFilename,omitempty"`
	Width            int       `json:"width,omitempty"`
	Height           int       `json:"height,omitempty"`
	Format           string    `json:"format,omitempty"`
	Bytes            int       `json:"bytes,omitempty"`
	DesignData       string    `json:"designData,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// GalleryUpload is a request to save a generated design
type GalleryUpload struct {
	Filename   string
	Content    []byte
	DesignData string
}

// GalleryPage is one page of gallery records
type GalleryPage struct {
	Images   []GalleryImage `json:"images"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
	Total    int            `json:"total"`
}
