// Package export renders saved designs as spreadsheet shopping lists.
package export

import (
	"fmt"
	"io"

	"github.com/roomstyler/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the shopping list
const SheetName = "Shopping List"

var headers = []string{
	"Item", "Description", "Estimated Price",
	"Product", "Price", "Source", "Link",
}

// WriteShoppingList writes one row per product candidate (or one row for an
// item without candidates) followed by the cost range totals
func WriteShoppingList(w io.Writer, furniture []domain.FurnitureItem, summary domain.BudgetSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(SheetName, cell, header)
		f.SetCellStyle(SheetName, cell, cell, headerStyle)
	}

	row := 2
	for _, item := range furniture {
		if len(item.SearchResults) == 0 {
			setItemCells(f, row, item)
			row++
			continue
		}
		for _, product := range item.SearchResults {
			setItemCells(f, row, item)
			f.SetCellValue(SheetName, fmt.Sprintf("D%d", row), product.Title)
			f.SetCellValue(SheetName, fmt.Sprintf("E%d", row), product.Price)
			f.SetCellValue(SheetName, fmt.Sprintf("F%d", row), product.Source)
			f.SetCellValue(SheetName, fmt.Sprintf("G%d", row), product.Link)
			row++
		}
	}

	row++
	totals := []struct {
		label string
		value any
	}{
		{"Minimum", summary.Min},
		{"Maximum", summary.Max},
		{"Average", summary.Average},
		{"Budget", summary.Budget},
		{"Over Budget", summary.OverBudget},
	}
	for _, total := range totals {
		f.SetCellValue(SheetName, fmt.Sprintf("A%d", row), total.label)
		f.SetCellValue(SheetName, fmt.Sprintf("B%d", row), total.value)
		row++
	}

	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(SheetName, col, col, 20)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setItemCells(f *excelize.File, row int, item domain.FurnitureItem) {
	f.SetCellValue(SheetName, fmt.Sprintf("A%d", row), item.Name)
	f.SetCellValue(SheetName, fmt.Sprintf("B%d", row), item.Description)
	f.SetCellValue(SheetName, fmt.Sprintf("C%d", row), item.EstimatedPrice)
}

// XLSX implements domain.ShoppingListExporter
type XLSX struct{}

// Export writes the shopping list workbook to w
func (XLSX) Export(w io.Writer, furniture []domain.FurnitureItem, summary domain.BudgetSummary) error {
	return WriteShoppingList(w, furniture, summary)
}
