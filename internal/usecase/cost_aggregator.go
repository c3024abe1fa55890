package usecase

import (
	"math"

	"github.com/roomstyler/backend/internal/domain"
)

// Aggregate computes the cost range of a design. An item with candidates
// contributes its cheapest and dearest candidate; an item without candidates
// contributes its estimated price to both ends.
func Aggregate(items []domain.FurnitureItem) domain.CostRange {
	var total domain.CostRange

	for _, item := range items {
		if len(item.SearchResults) == 0 {
			estimate := domain.SanitizePrice(item.EstimatedPrice)
			total.Min += estimate
			total.Max += estimate
			continue
		}

		lowest := domain.SanitizePrice(item.SearchResults[0].Price)
		highest := lowest
		for _, candidate := range item.SearchResults[1:] {
			price := domain.SanitizePrice(candidate.Price)
			lowest = math.Min(lowest, price)
			highest = math.Max(highest, price)
		}
		total.Min += lowest
		total.Max += highest
	}

	return total
}
