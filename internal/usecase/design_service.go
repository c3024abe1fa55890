package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/roomstyler/backend/internal/domain"
	"github.com/zeromicro/go-zero/core/logx"
)

// DesignServiceConfig holds configuration for the design service
type DesignServiceConfig struct {
	ResultLimit int
}

// DesignService redraws a room and shops for the furniture in the result
type DesignService struct {
	generator   domain.ImageGenerator
	extractor   domain.FurnitureExtractor
	pipeline    *PipelineService
	resultLimit int
}

// NewDesignService creates a new design service with dependencies
func NewDesignService(
	generator domain.ImageGenerator,
	extractor domain.FurnitureExtractor,
	pipeline *PipelineService,
	config DesignServiceConfig,
) *DesignService {
	resultLimit := config.ResultLimit
	if resultLimit <= 0 {
		resultLimit = 6
	}

	return &DesignService{
		generator:   generator,
		extractor:   extractor,
		pipeline:    pipeline,
		resultLimit: resultLimit,
	}
}

// GenerateRoomDesign runs the full redesign flow.
// Flow: validate -> generate image -> extract furniture -> match and price
func (s *DesignService) GenerateRoomDesign(ctx context.Context, req domain.DesignRequest) (*domain.DesignResult, error) {
	if err := validateDesignRequest(req); err != nil {
		return nil, err
	}

	logger := logx.WithContext(ctx)

	generated, err := s.generator.Generate(ctx, req.Image, req.MimeType, buildImagePrompt(req))
	if err != nil {
		return nil, err
	}

	furniture, err := s.extractor.Extract(ctx, generated.Data, generated.MimeType, buildFurniturePrompt(req.Budget))
	if err != nil {
		return nil, err
	}

	result := &domain.DesignResult{
		ImageURL:  fmt.Sprintf("data:%s;base64,%s", generated.MimeType, base64.StdEncoding.EncodeToString(generated.Data)),
		MimeType:  generated.MimeType,
		Furniture: []domain.FurnitureItem{},
		CostRange: domain.CostRange{}.Summary(req.Budget),
	}

	if len(furniture) == 0 {
		logger.Infof("[Design] No furniture identified, skipping product search")
		return result, nil
	}

	priced, err := s.pipeline.Run(ctx, furniture, req.Budget, s.resultLimit)
	if err != nil {
		return nil, err
	}

	result.Furniture = priced.Furniture
	result.CostRange = priced.CostRange
	return result, nil
}

func validateDesignRequest(req domain.DesignRequest) error {
	if len(req.Image) == 0 {
		return fmt.Errorf("%w: image is required", domain.ErrInvalidInput)
	}
	if !strings.HasPrefix(req.MimeType, "image/") {
		return fmt.Errorf("%w: mime type %q is not an image", domain.ErrInvalidInput, req.MimeType)
	}
	if req.Budget <= 0 {
		return fmt.Errorf("%w: budget must be greater than zero", domain.ErrInvalidInput)
	}
	return nil
}

func buildImagePrompt(req domain.DesignRequest) string {
	instructions := strings.TrimSpace(req.Instructions)
	if instructions == "" {
		instructions = "None"
	}

	var b strings.Builder
	b.WriteString("Redesign this room with the following characteristics.\n")
	b.WriteString("Do not add any text or overlays on the image.\n")
	fmt.Fprintf(&b, "- Styles: %s\n", strings.Join(req.Styles, ", "))
	fmt.Fprintf(&b, "- Color Palette: %s\n", strings.Join(req.Colors, ", "))
	fmt.Fprintf(&b, "- Other instructions: %s\n", instructions)
	return b.String()
}

func buildFurniturePrompt(budget float64) string {
	var b strings.Builder
	b.WriteString("Analyze the following image of a redesigned room.\n")
	fmt.Fprintf(&b, "- The total cost for all items must be under $%s USD.\n\n", strconv.FormatFloat(budget, 'f', -1, 64))
	b.WriteString("Identify the key furniture and decor items. For each item give a short name, ")
	b.WriteString("a description a shopper could search for, and its estimated price in USD. ")
	b.WriteString("Keep the total plausible for the budget.\n")
	return b.String()
}
