package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyExactHeaders(t *testing.T) {
	mapping := Classify([]string{"Item Code", "Description", "Opening Qty", "Purchases", "Closing Qty", "Unit Cost"})

	assert.Equal(t, 0, mapping.ItemCode)
	assert.Equal(t, 1, mapping.Description)
	assert.Equal(t, 2, mapping.OpeningQty)
	assert.Equal(t, 3, mapping.PurchaseQty)
	assert.Equal(t, 4, mapping.ClosingQty)
	assert.Equal(t, 5, mapping.UnitCost)
}

func TestClassifyCompoundValueFieldsWinOverCousins(t *testing.T) {
	mapping := Classify([]string{"Opening Stock Value", "Opening Qty", "Closing Stock Value", "Closing Qty"})

	assert.Equal(t, 0, mapping.OpeningStockValue)
	assert.Equal(t, 1, mapping.OpeningQty)
	assert.Equal(t, 2, mapping.ClosingStockValue)
	assert.Equal(t, 3, mapping.ClosingQty)
}

func TestClassifyPurchaseValueBeforeQty(t *testing.T) {
	mapping := Classify([]string{"Purchase Value", "Purchases"})

	assert.Equal(t, 0, mapping.PurchaseValue)
	assert.Equal(t, 1, mapping.PurchaseQty)
}

func TestClassifyUnitCostDoesNotClaimUnit(t *testing.T) {
	mapping := Classify([]string{"Unit Cost", "Unit"})

	assert.Equal(t, 0, mapping.UnitCost)
	assert.Equal(t, 1, mapping.Unit)
}

func TestClassifyHeuristicAliases(t *testing.T) {
	mapping := Classify([]string{"SKU", "Product Name", "Beginning Qty", "Received", "Ending Qty", "Vendor"})

	assert.Equal(t, 0, mapping.ItemCode)
	assert.Equal(t, 1, mapping.Description)
	assert.Equal(t, 2, mapping.OpeningQty)
	assert.Equal(t, 3, mapping.PurchaseQty)
	assert.Equal(t, 4, mapping.ClosingQty)
	assert.Equal(t, 5, mapping.SupplierName)
}

func TestClassifyItemCodeFallsBackToFirstColumn(t *testing.T) {
	mapping := Classify([]string{"Mystery", "Qty Used"})

	assert.Equal(t, 0, mapping.ItemCode)
}

func TestClassifyItemCodeAlwaysMapped(t *testing.T) {
	headerSets := [][]string{
		{"Item Code", "Description"},
		{"Nothing", "Recognizable"},
		{"Description", "Opening Qty"},
		{},
	}

	for _, headers := range headerSets {
		mapping := Classify(headers)
		assert.GreaterOrEqual(t, mapping.ItemCode, 0, "headers: %v", headers)
	}
}

func TestClassifyFoodHeaderIsCostCenter(t *testing.T) {
	mapping := Classify([]string{"Item Code", "Food"})

	assert.Equal(t, 1, mapping.CostCenter)
}

func TestClassifyColumnClaimedOnce(t *testing.T) {
	// "Opening Stock" matches both the opening-qty and stock-level rules;
	// the first-declared field keeps it.
	mapping := Classify([]string{"Item Code", "Opening Stock"})

	assert.Equal(t, 1, mapping.OpeningQty)
	assert.Equal(t, Unmapped, mapping.StockLevel)
}

func TestClassifyDoesNotMutateInput(t *testing.T) {
	headers := []string{"Item Code", "Description"}
	Classify(headers)

	assert.Equal(t, []string{"Item Code", "Description"}, headers)
}
