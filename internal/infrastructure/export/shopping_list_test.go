package export

import (
	"bytes"
	"testing"

	"github.com/roomstyler/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteShoppingList(t *testing.T) {
	furniture := []domain.FurnitureItem{
		{
			Name:           "Sofa",
			Description:    "grey linen sofa",
			EstimatedPrice: 800,
			SearchResults: []domain.ProductCandidate{
				{Title: "Linen Sofa A", Price: 700, Source: "Shop A", Link: "https://a.test"},
				{Title: "Linen Sofa B", Price: 900, Source: "Shop B", Link: "https://b.test"},
			},
		},
		{Name: "Lamp", EstimatedPrice: 50},
	}
	summary := domain.CostRange{Min: 750, Max: 950}.Summary(800)

	var buf bytes.Buffer
	require.NoError(t, WriteShoppingList(&buf, furniture, summary))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	cell := func(ref string) string {
		v, err := f.GetCellValue(SheetName, ref)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Item", cell("A1"))
	assert.Equal(t, "Link", cell("G1"))

	assert.Equal(t, "Sofa", cell("A2"))
	assert.Equal(t, "Linen Sofa A", cell("D2"))
	assert.Equal(t, "700", cell("E2"))
	assert.Equal(t, "Sofa", cell("A3"))
	assert.Equal(t, "https://b.test", cell("G3"))

	assert.Equal(t, "Lamp", cell("A4"))
	assert.Empty(t, cell("D4"))

	assert.Equal(t, "Minimum", cell("A6"))
	assert.Equal(t, "750", cell("B6"))
	assert.Equal(t, "Average", cell("A8"))
	assert.Equal(t, "850", cell("B8"))
	assert.Equal(t, "Over Budget", cell("A10"))
	assert.Equal(t, "TRUE", cell("B10"))
}

func TestWriteShoppingList_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteShoppingList(&buf, nil, domain.BudgetSummary{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(SheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Minimum", v)
}
