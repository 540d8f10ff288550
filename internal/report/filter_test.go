package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/domain"
)

func sampleItems() []domain.StockItem {
	return []domain.StockItem{
		{ItemCode: "A100", Description: "Flour", Category: "Dry Goods", CostCenter: "Food Department"},
		{ItemCode: "A200", Description: "Ground Beef", Category: "Meat", CostCenter: "Food Department", BelowReorderPoint: true},
		{ItemCode: "B300", Description: "Milk", Category: "Dairy", CostCenter: "Beverage"},
	}
}

func TestFilterEmptyCriteriaReturnsAllInOrder(t *testing.T) {
	items := sampleItems()

	out := Filter(items, domain.FilterCriteria{})

	require.Len(t, out, 3)
	assert.Equal(t, "A100", out[0].ItemCode)
	assert.Equal(t, "A200", out[1].ItemCode)
	assert.Equal(t, "B300", out[2].ItemCode)
}

func TestFilterByCategoryCaseInsensitive(t *testing.T) {
	out := Filter(sampleItems(), domain.FilterCriteria{Categories: []string{"MEAT", "dairy"}})

	require.Len(t, out, 2)
	assert.Equal(t, "A200", out[0].ItemCode)
	assert.Equal(t, "B300", out[1].ItemCode)
}

func TestFilterByCostCenter(t *testing.T) {
	out := Filter(sampleItems(), domain.FilterCriteria{CostCenters: []string{"beverage"}})

	require.Len(t, out, 1)
	assert.Equal(t, "B300", out[0].ItemCode)
}

func TestFilterSearchTerm(t *testing.T) {
	out := Filter(sampleItems(), domain.FilterCriteria{SearchTerm: "beef"})

	require.Len(t, out, 1)
	assert.Equal(t, "A200", out[0].ItemCode)

	out = Filter(sampleItems(), domain.FilterCriteria{SearchTerm: "a1"})
	require.Len(t, out, 1)
	assert.Equal(t, "A100", out[0].ItemCode)
}

func TestFilterLowStockOnly(t *testing.T) {
	out := Filter(sampleItems(), domain.FilterCriteria{LowStockOnly: true})

	require.Len(t, out, 1)
	assert.Equal(t, "A200", out[0].ItemCode)
}

func TestFilterCombinesCriteria(t *testing.T) {
	out := Filter(sampleItems(), domain.FilterCriteria{
		CostCenters:  []string{"Food Department"},
		LowStockOnly: true,
	})

	require.Len(t, out, 1)
	assert.Equal(t, "A200", out[0].ItemCode)
}

func TestFilterNoMatches(t *testing.T) {
	out := Filter(sampleItems(), domain.FilterCriteria{Categories: []string{"Seafood"}})

	assert.Empty(t, out)
	assert.NotNil(t, out)
}
