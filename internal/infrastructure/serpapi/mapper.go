package serpapi

import (
	"strings"

	"github.com/roomstyler/backend/internal/domain"
)

// linkFields lists the record keys that may carry the product URL, highest priority first.
// Google Shopping results have moved the URL between these keys over time.
var linkFields = []string{"link", "product_link", "url", "product_url", "href", "website"}

// MapToCandidates converts raw shopping_results records into product candidates,
// preserving provider order
func MapToCandidates(records []map[string]any) []domain.ProductCandidate {
	candidates := make([]domain.ProductCandidate, 0, len(records))
	for _, record := range records {
		candidates = append(candidates, MapToCandidate(record))
	}
	return candidates
}

// MapToCandidate converts a single raw shopping record into a product candidate
func MapToCandidate(record map[string]any) domain.ProductCandidate {
	return domain.ProductCandidate{
		Title:     stringField(record, "title"),
		Price:     extractPrice(record),
		Link:      ResolveString(record, linkFields...),
		Source:    stringField(record, "source"),
		Thumbnail: stringField(record, "thumbnail"),
	}
}

// ResolveString returns the first non-empty string value found under keys
func ResolveString(record map[string]any, keys ...string) string {
	for _, key := range keys {
		if value := stringField(record, key); strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

// extractPrice reads the price of a record, falling back to extracted_price
func extractPrice(record map[string]any) float64 {
	switch v := record["price"].(type) {
	case string:
		return domain.ParsePrice(v)
	case float64:
		return domain.SanitizePrice(v)
	}

	if v, ok := record["extracted_price"].(float64); ok {
		return domain.SanitizePrice(v)
	}
	return 0
}

// stringField returns the string value of key verbatim, or "" when absent or not a string
func stringField(record map[string]any, key string) string {
	if v, ok := record[key].(string); ok {
		return v
	}
	return ""
}
