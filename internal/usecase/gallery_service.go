package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/roomstyler/backend/internal/domain"
	"github.com/zeromicro/go-zero/core/logx"
)

const (
	defaultPageSize = 30
	maxPageSize     = 50
)

// savedDesign is the part of a stored design payload the shopping list reads
type savedDesign struct {
	Furniture []domain.FurnitureItem `json:"furniture"`
	CostRange *domain.BudgetSummary  `json:"costRange"`
	Budget    float64                `json:"budget"`
}

// GalleryService saves generated designs to the image host and catalogue
type GalleryService struct {
	repo     domain.GalleryRepository
	host     domain.ImageHost
	exporter domain.ShoppingListExporter
}

// NewGalleryService creates a new gallery service with dependencies
func NewGalleryService(
	repo domain.GalleryRepository,
	host domain.ImageHost,
	exporter domain.ShoppingListExporter,
) *GalleryService {
	return &GalleryService{
		repo:     repo,
		host:     host,
		exporter: exporter,
	}
}

// Save uploads the image and records it. The hosted asset is removed again
// when the catalogue insert fails.
func (s *GalleryService) Save(ctx context.Context, upload domain.GalleryUpload) (*domain.GalleryImage, error) {
	if len(upload.Content) == 0 {
		return nil, fmt.Errorf("%w: missing 'image' file", domain.ErrInvalidInput)
	}
	designData := strings.TrimSpace(upload.DesignData)
	if designData != "" && !json.Valid([]byte(designData)) {
		return nil, fmt.Errorf("%w: design_data is not valid JSON", domain.ErrInvalidInput)
	}

	logger := logx.WithContext(ctx)

	hosted, err := s.host.Upload(ctx, bytes.NewReader(upload.Content), upload.Filename)
	if err != nil {
		return nil, err
	}

	image := &domain.GalleryImage{
		PublicID:         hosted.PublicID,
		URL:              hosted.URL,
		OriginalFilename: hosted.OriginalFilename,
		Width:            hosted.Width,
		Height:           hosted.Height,
		Format:           hosted.Format,
		Bytes:            hosted.Bytes,
		DesignData:       designData,
	}
	if image.OriginalFilename == "" {
		image.OriginalFilename = upload.Filename
	}

	if _, err := s.repo.Insert(ctx, image); err != nil {
		logger.Errorf("[Gallery] Insert failed, removing hosted asset %s: %v", hosted.PublicID, err)
		if destroyErr := s.host.Destroy(ctx, hosted.PublicID); destroyErr != nil {
			logger.Errorf("[Gallery] Failed to remove orphaned asset %s: %v", hosted.PublicID, destroyErr)
		}
		return nil, err
	}

	logger.Infof("[Gallery] Saved image %d (%s)", image.ID, image.PublicID)
	return image, nil
}

// List returns one page of records, newest first. page below 1 reads as 1 and
// pageSize is clamped to [1, 50].
func (s *GalleryService) List(ctx context.Context, page, pageSize int) (*domain.GalleryPage, error) {
	if page < 1 {
		page = 1
	}
	pageSize = min(max(pageSize, 1), maxPageSize)

	images, err := s.repo.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.GalleryPage{
		Images:   images,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// Delete removes the hosted asset and then the catalogue record
func (s *GalleryService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid id", domain.ErrInvalidInput)
	}

	image, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.host.Destroy(ctx, image.PublicID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logx.WithContext(ctx).Infof("[Gallery] Deleted image %d (%s)", id, image.PublicID)
	return nil
}

// ShoppingList writes the saved design of record id as a shopping list.
// The stored cost range is used when present, otherwise it is recomputed.
func (s *GalleryService) ShoppingList(ctx context.Context, id int64, w io.Writer) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid id", domain.ErrInvalidInput)
	}

	image, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if image.DesignData == "" {
		return fmt.Errorf("%w: image %d has no saved design", domain.ErrNotFound, id)
	}

	var design savedDesign
	if err := json.Unmarshal([]byte(image.DesignData), &design); err != nil {
		return fmt.Errorf("%w: saved design of image %d: %v", domain.ErrCorruptRecord, id, err)
	}

	summary := Aggregate(design.Furniture).Summary(design.Budget)
	if design.CostRange != nil {
		summary = *design.CostRange
	}

	return s.exporter.Export(w, design.Furniture, summary)
}
