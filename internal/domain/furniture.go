package domain

import "encoding/json"

// FurnitureItem is one piece of furniture or decor identified in a generated room image
type FurnitureItem struct {
	Name           string             `json:"name"`
	Description    string             `json:"description,omitempty"`
	EstimatedPrice float64            `json:"estimatedPrice"`
	SearchResults  []ProductCandidate `json:"searchResults"`
}

// ProductCandidate is a purchasable product returned by the shopping search provider
type ProductCandidate struct {
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Link      string  `json:"link,omitempty"`
	Source    string  `json:"source,omitempty"`
	Thumbnail string  `json:"thumbnail,omitempty"`
}

// UnmarshalJSON decodes the item with a lenient estimatedPrice
func (f *FurnitureItem) UnmarshalJSON(data []byte) error {
	type plain FurnitureItem
	aux := struct {
		*plain
		EstimatedPrice Price `json:"estimatedPrice"`
	}{plain: (*plain)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	f.EstimatedPrice = float64(aux.EstimatedPrice)
	return nil
}

// UnmarshalJSON decodes the candidate with a lenient price
func (p *ProductCandidate) UnmarshalJSON(data []byte) error {
	type plain ProductCandidate
	aux := struct {
		*plain
		Price Price `json:"price"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Price = float64(aux.Price)
	return nil
}

// ItemResults associates one search query with the candidates found for it
type ItemResults struct {
	Item    string             `json:"item"`
	Results []ProductCandidate `json:"results"`
}

// SearchOutcome holds one ItemResults per input query, in input order
type SearchOutcome []ItemResults

// CostRange is the aggregate cost of a design
type CostRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Average returns the midpoint of the range
func (r CostRange) Average() float64 {
	return (r.Min + r.Max) / 2
}

// OverBudget reports whether the average cost exceeds budget. Advisory only.
func (r CostRange) OverBudget(budget float64) bool {
	return r.Average() > budget
}

// Summary returns the JSON view of the range compared against budget
func (r CostRange) Summary(budget float64) BudgetSummary {
	return BudgetSummary{
		Min:        r.Min,
		Max:        r.Max,
		Average:    r.Average(),
		Budget:     budget,
		OverBudget: r.OverBudget(budget),
	}
}

// BudgetSummary is a CostRange together with its budget comparison
type BudgetSummary struct {
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Average    float64 `json:"average"`
	Budget     float64 `json:"budget"`
	OverBudget bool    `json:"overBudget"`
}

// PipelineResult is the output of the furniture matching pipeline
type PipelineResult struct {
	Furniture []FurnitureItem `json:"furniture"`
	CostRange BudgetSummary   `json:"costRange"`
}
