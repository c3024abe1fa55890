package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/roomstyler/backend/internal/domain"
)

// MockProductSearcher is a mock implementation of domain.ProductSearcher
type MockProductSearcher struct {
	results map[string][]domain.ProductCandidate
	errs    map[string]error
	delays  map[string]time.Duration

	mu            sync.Mutex
	calls         []string
	inFlight      int
	maxConcurrent int
}

func NewMockProductSearcher() *MockProductSearcher {
	return &MockProductSearcher{
		results: make(map[string][]domain.ProductCandidate),
		errs:    make(map[string]error),
		delays:  make(map[string]time.Duration),
	}
}

func (m *MockProductSearcher) Search(ctx context.Context, query string) ([]domain.ProductCandidate, error) {
	m.mu.Lock()
	m.calls = append(m.calls, query)
	m.inFlight++
	if m.inFlight > m.maxConcurrent {
		m.maxConcurrent = m.inFlight
	}
	delay := m.delays[query]
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := m.errs[query]; err != nil {
		return nil, err
	}
	return m.results[query], nil
}

func (m *MockProductSearcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MockImageGenerator is a mock implementation of domain.ImageGenerator
type MockImageGenerator struct {
	result    *domain.GeneratedImage
	err       error
	gotPrompt string
	called    bool
}

func (m *MockImageGenerator) Generate(ctx context.Context, image []byte, mimeType, prompt string) (*domain.GeneratedImage, error) {
	m.called = true
	m.gotPrompt = prompt
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// MockFurnitureExtractor is a mock implementation of domain.FurnitureExtractor
type MockFurnitureExtractor struct {
	items     []domain.FurnitureItem
	err       error
	gotImage  []byte
	gotPrompt string
	called    bool
}

func (m *MockFurnitureExtractor) Extract(ctx context.Context, image []byte, mimeType, prompt string) ([]domain.FurnitureItem, error) {
	m.called = true
	m.gotImage = image
	m.gotPrompt = prompt
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

// MockGalleryRepository is a mock implementation of domain.GalleryRepository
type MockGalleryRepository struct {
	images    map[int64]domain.GalleryImage
	nextID    int64
	insertErr error
	listErr   error

	gotLimit  int
	gotOffset int
	deleted   []int64
}

func NewMockGalleryRepository() *MockGalleryRepository {
	return &MockGalleryRepository{images: make(map[int64]domain.GalleryImage)}
}

func (m *MockGalleryRepository) Insert(ctx context.Context, image *domain.GalleryImage) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.nextID++
	image.ID = m.nextID
	m.images[image.ID] = *image
	return image.ID, nil
}

func (m *MockGalleryRepository) List(ctx context.Context, limit, offset int) ([]domain.GalleryImage, error) {
	m.gotLimit = limit
	m.gotOffset = offset
	if m.listErr != nil {
		return nil, m.listErr
	}
	images := []domain.GalleryImage{}
	for id := m.nextID; id > 0; id-- {
		if image, ok := m.images[id]; ok {
			images = append(images, image)
		}
	}
	if offset >= len(images) {
		return []domain.GalleryImage{}, nil
	}
	return images[offset:min(offset+limit, len(images))], nil
}

func (m *MockGalleryRepository) Count(ctx context.Context) (int, error) {
	return len(m.images), nil
}

func (m *MockGalleryRepository) FindByID(ctx context.Context, id int64) (*domain.GalleryImage, error) {
	image, ok := m.images[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &image, nil
}

func (m *MockGalleryRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.images[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.images, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// MockImageHost is a mock implementation of domain.ImageHost
type MockImageHost struct {
	uploadErr  error
	destroyErr error
	uploaded   [][]byte
	destroyed  []string
}

func (m *MockImageHost) Upload(ctx context.Context, r io.Reader, filename string) (*domain.HostedImage, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.uploaded = append(m.uploaded, data)
	return &domain.HostedImage{
		PublicID: "hackathon-gallery/" + filename,
		URL:      "https://res.test/" + filename,
		Width:    640,
		Height:   480,
		Format:   "png",
		Bytes:    len(data),
	}, nil
}

func (m *MockImageHost) Destroy(ctx context.Context, publicID string) error {
	if m.destroyErr != nil {
		return m.destroyErr
	}
	m.destroyed = append(m.destroyed, publicID)
	return nil
}

// MockShoppingListExporter is a mock implementation of domain.ShoppingListExporter
type MockShoppingListExporter struct {
	furniture []domain.FurnitureItem
	summary   domain.BudgetSummary
	called    bool
}

func (m *MockShoppingListExporter) Export(w io.Writer, furniture []domain.FurnitureItem, summary domain.BudgetSummary) error {
	m.called = true
	m.furniture = furniture
	m.summary = summary
	_, err := w.Write([]byte("xlsx"))
	return err
}

var errProviderDown = errors.New("provider down")
