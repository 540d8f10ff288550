package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/domain"
)

func TestExportCSV(t *testing.T) {
	items := []domain.StockItem{
		{
			ItemCode:     "A100",
			Description:  "Flour",
			Category:     "Dry Goods",
			CostCenter:   "Food Department",
			OpeningQty:   10,
			ClosingQty:   5,
			Usage:        12,
			UsageValue:   66,
			ReorderPoint: 4,
		},
	}

	out := ExportCSV(items)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Item Code,Description,Category,Cost Center,Opening Qty,Closing Qty,Usage,Usage Value,Reorder Point", lines[0])
	assert.Equal(t, "A100,Flour,Dry Goods,Food Department,10,5,12,66,4", lines[1])
}

func TestExportCSVRoundTripsThroughTokenize(t *testing.T) {
	items := []domain.StockItem{
		{ItemCode: "A100", Description: `Beef, "Ground"`, Category: "Meat", CostCenter: "Food Department"},
		{ItemCode: "A200", Description: "Milk", Category: "Dairy", CostCenter: "Food Department"},
	}

	table := Tokenize(ExportCSV(items))
	require.Len(t, table.Rows, 2)
	assert.Equal(t, `Beef, "Ground"`, table.Rows[0][1])
	assert.Equal(t, "Milk", table.Rows[1][1])
}

func TestExportCSVEmptyCollection(t *testing.T) {
	out := ExportCSV(nil)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.True(t, strings.HasPrefix(out, "Item Code,"))
}
