package usecase

import (
	"context"
	"fmt"

	"github.com/roomstyler/backend/internal/domain"
	"github.com/zeromicro/go-zero/core/logx"
)

// PipelineService enriches furniture with product candidates and prices the result
type PipelineService struct {
	matcher *MatchingService
}

// NewPipelineService creates a new pipeline service
func NewPipelineService(matcher *MatchingService) *PipelineService {
	return &PipelineService{matcher: matcher}
}

// Run matches every item, attaches each result list to a copy of the item at
// the same position and aggregates the cost range against budget.
// Flow: build queries -> match -> zip by index -> aggregate
func (s *PipelineService) Run(
	ctx context.Context,
	furniture []domain.FurnitureItem,
	budget float64,
	limit int,
) (*domain.PipelineResult, error) {
	if len(furniture) == 0 {
		return nil, fmt.Errorf("%w: furniture array is required", domain.ErrInvalidInput)
	}

	outcome, err := s.matcher.MatchItems(ctx, furniture, limit)
	if err != nil {
		return nil, err
	}

	enriched := make([]domain.FurnitureItem, len(furniture))
	for i, item := range furniture {
		item.SearchResults = []domain.ProductCandidate{}
		if i < len(outcome) && outcome[i].Results != nil {
			item.SearchResults = outcome[i].Results
		}
		enriched[i] = item
	}

	costRange := Aggregate(enriched)
	summary := costRange.Summary(budget)

	logx.WithContext(ctx).Infof("[Pipeline] %d items priced at %.2f-%.2f (avg %.2f, budget %.2f, over=%t)",
		len(enriched), summary.Min, summary.Max, summary.Average, budget, summary.OverBudget)

	return &domain.PipelineResult{
		Furniture: enriched,
		CostRange: summary,
	}, nil
}
