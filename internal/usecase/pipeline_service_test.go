package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/roomstyler/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(searcher domain.ProductSearcher) *PipelineService {
	return NewPipelineService(NewMatchingService(searcher, MatchConfig{Concurrency: 4}))
}

func TestPipelineRun_SofaAndLamp(t *testing.T) {
	searcher := NewMockProductSearcher()
	searcher.results["sofa"] = []domain.ProductCandidate{
		{Title: "Sofa A", Price: 700, Link: "https://a.test"},
		{Title: "Sofa B", Price: 900, Link: "https://b.test"},
	}

	furniture := []domain.FurnitureItem{
		{Name: "Sofa", EstimatedPrice: 800},
		{Name: "Lamp", EstimatedPrice: 50},
	}

	result, err := newTestPipeline(searcher).Run(context.Background(), furniture, 1000, 6)
	require.NoError(t, err)

	require.Len(t, result.Furniture, 2)
	assert.Equal(t, "Sofa", result.Furniture[0].Name)
	assert.Len(t, result.Furniture[0].SearchResults, 2)
	assert.Equal(t, "Lamp", result.Furniture[1].Name)
	assert.NotNil(t, result.Furniture[1].SearchResults)
	assert.Empty(t, result.Furniture[1].SearchResults)

	assert.Equal(t, domain.BudgetSummary{
		Min:        750,
		Max:        950,
		Average:    850,
		Budget:     1000,
		OverBudget: false,
	}, result.CostRange)
}

func TestPipelineRun_DoesNotMutateInput(t *testing.T) {
	searcher := NewMockProductSearcher()
	searcher.results["sofa"] = candidates(700)

	furniture := []domain.FurnitureItem{{Name: "Sofa", EstimatedPrice: 800}}

	_, err := newTestPipeline(searcher).Run(context.Background(), furniture, 1000, 6)
	require.NoError(t, err)

	assert.Nil(t, furniture[0].SearchResults)
}

func TestPipelineRun_ZipsByPositionNotName(t *testing.T) {
	searcher := NewMockProductSearcher()
	searcher.results["chair"] = candidates(100)

	furniture := []domain.FurnitureItem{
		{Name: "Chair", EstimatedPrice: 120},
		{Name: "Chair", EstimatedPrice: 130},
	}

	result, err := newTestPipeline(searcher).Run(context.Background(), furniture, 500, 6)
	require.NoError(t, err)

	assert.Equal(t, 120.0, result.Furniture[0].EstimatedPrice)
	assert.Equal(t, 130.0, result.Furniture[1].EstimatedPrice)
	assert.Len(t, result.Furniture[0].SearchResults, 1)
	assert.Len(t, result.Furniture[1].SearchResults, 1)
}

func TestPipelineRun_FailedItemFallsBackToEstimate(t *testing.T) {
	searcher := NewMockProductSearcher()
	searcher.results["sofa"] = candidates(700, 900)
	searcher.errs["rug"] = errProviderDown

	furniture := []domain.FurnitureItem{
		{Name: "Sofa", EstimatedPrice: 800},
		{Name: "Rug", EstimatedPrice: 200},
	}

	result, err := newTestPipeline(searcher).Run(context.Background(), furniture, 1000, 6)
	require.NoError(t, err)

	assert.Empty(t, result.Furniture[1].SearchResults)
	assert.Equal(t, 900.0, result.CostRange.Min)
	assert.Equal(t, 1100.0, result.CostRange.Max)
	assert.True(t, result.CostRange.OverBudget)
}

func TestPipelineRun_EmptyInput(t *testing.T) {
	_, err := newTestPipeline(NewMockProductSearcher()).Run(context.Background(), nil, 1000, 6)

	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestPipelineRun_Idempotent(t *testing.T) {
	faker := gofakeit.New(42)

	searcher := NewMockProductSearcher()
	furniture := make([]domain.FurnitureItem, 12)
	for i := range furniture {
		name := faker.Noun()
		furniture[i] = domain.FurnitureItem{
			Name:           name,
			Description:    faker.Sentence(5),
			EstimatedPrice: faker.Price(10, 2000),
		}
		if i%3 != 0 {
			results := make([]domain.ProductCandidate, faker.Number(1, 8))
			for j := range results {
				results[j] = domain.ProductCandidate{
					Title: faker.ProductName(),
					Price: faker.Price(5, 2500),
					Link:  faker.URL(),
				}
			}
			searcher.results[NormalizeQuery(name)] = results
		}
	}

	pipeline := newTestPipeline(searcher)

	first, err := pipeline.Run(context.Background(), furniture, 5000, 6)
	require.NoError(t, err)
	second, err := pipeline.Run(context.Background(), furniture, 5000, 6)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	for _, item := range first.Furniture {
		assert.LessOrEqual(t, len(item.SearchResults), 6)
	}
}
