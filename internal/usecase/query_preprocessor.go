package usecase

import (
	"regexp"
	"strings"

	"github.com/roomstyler/backend/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Multiple spaces cleanup
var multiSpacePattern = regexp.MustCompile(`\s+`)

// NormalizeQuery trims, collapses inner whitespace and lower-cases a query
func NormalizeQuery(query string) string {
	query = multiSpacePattern.ReplaceAllString(strings.TrimSpace(query), " ")
	// cases.Caser is stateful, so one is built per call
	return cases.Lower(language.AmericanEnglish).String(query)
}

// BuildQuery derives the shopping query for a furniture item: its lower-cased
// name, or its description when the name is blank
func BuildQuery(item domain.FurnitureItem) string {
	if query := NormalizeQuery(item.Name); query != "" {
		return query
	}
	return NormalizeQuery(item.Description)
}
