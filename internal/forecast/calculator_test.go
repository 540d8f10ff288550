package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/domain"
)

func TestApplyPeriod(t *testing.T) {
	items := []domain.StockItem{
		{ItemCode: "A100", Usage: 28, ClosingQty: 10},
		{ItemCode: "A200", Usage: 0, ClosingQty: 3},
	}

	ApplyPeriod(items, 14, 3)

	assert.InDelta(t, 2, items[0].UsagePerDay, 1e-9)
	// Projected stock at next delivery: 10 - 2*3 = 4.
	assert.InDelta(t, 4, items[0].ReorderPoint, 1e-9)
	assert.False(t, items[0].BelowReorderPoint)

	assert.Zero(t, items[1].UsagePerDay)
	assert.InDelta(t, 3, items[1].ReorderPoint, 1e-9)
	assert.False(t, items[1].BelowReorderPoint)
}

func TestApplyPeriodFlagsDepletionBeforeDelivery(t *testing.T) {
	items := []domain.StockItem{{ItemCode: "A100", Usage: 28, ClosingQty: 10}}

	ApplyPeriod(items, 14, 5)

	// Projected stock 10 - 2*5 = 0: reorder point clamps, flag raises.
	assert.Zero(t, items[0].ReorderPoint)
	assert.True(t, items[0].BelowReorderPoint)
}

func TestApplyPeriodIsIdempotent(t *testing.T) {
	items := []domain.StockItem{{ItemCode: "A100", Usage: 28, ClosingQty: 10}}

	once := ApplyPeriod(items, 14, 3)
	first := once[0]
	twice := ApplyPeriod(once, 14, 3)

	assert.Equal(t, first, twice[0])
}

func TestApplyPeriodFloorsDegenerateDays(t *testing.T) {
	items := []domain.StockItem{{ItemCode: "A100", Usage: 7, ClosingQty: 10}}

	ApplyPeriod(items, 0, 0)

	assert.InDelta(t, 7, items[0].UsagePerDay, 1e-9)
}

func baseParams() domain.CalculationParameters {
	return domain.CalculationParameters{
		StockPeriodDays:       14,
		DaysToNextDelivery:    5,
		SafetyStockPercentage: 20,
		CriticalItemBuffer:    30,
		OrderCycle:            7,
	}
}

func TestForecastOrder(t *testing.T) {
	item := domain.StockItem{ItemCode: "A100", Usage: 28, ClosingQty: 10}

	f := ForecastOrder(item, baseParams())

	// usagePerDay 2, projected stock at delivery 0, base 14, safety 2.8.
	assert.Zero(t, f.ReorderPoint)
	assert.InDelta(t, 16.8, f.ForecastedDemand, 1e-9)
	require.True(t, f.NeedsReordering)
	assert.InDelta(t, 17, f.RecommendedOrderQty, 1e-9)
}

func TestForecastOrderCriticalBuffer(t *testing.T) {
	item := domain.StockItem{ItemCode: "A100", Usage: 28, ClosingQty: 10}
	params := baseParams()
	critical := true
	params.IsCritical = &critical

	f := ForecastOrder(item, params)

	// 16.8 * 1.3 = 21.84, rounded up to 22.
	assert.InDelta(t, 21.84, f.ForecastedDemand, 1e-9)
	assert.InDelta(t, 22, f.RecommendedOrderQty, 1e-9)
}

func TestForecastOrderCompositeCriticality(t *testing.T) {
	item := domain.StockItem{ItemCode: "A100", Usage: 28, ClosingQty: 10}
	params := baseParams()
	params.Criticality = &domain.CriticalityScore{
		Volatility:          80,
		StockLevel:          70,
		SupplierReliability: 60,
	}

	// 0.4*80 + 0.3*70 + 0.3*60 = 71, over the critical line.
	f := ForecastOrder(item, params)
	assert.InDelta(t, 21.84, f.ForecastedDemand, 1e-9)

	params.Criticality.SupplierReliability = 50
	// Score drops to 68: no buffer.
	f = ForecastOrder(item, params)
	assert.InDelta(t, 16.8, f.ForecastedDemand, 1e-9)
}

func TestForecastOrderExplicitFlagOverridesComposite(t *testing.T) {
	item := domain.StockItem{ItemCode: "A100", Usage: 28, ClosingQty: 10}
	params := baseParams()
	notCritical := false
	params.IsCritical = &notCritical
	params.Criticality = &domain.CriticalityScore{Volatility: 100, StockLevel: 100, SupplierReliability: 100}

	f := ForecastOrder(item, params)
	assert.InDelta(t, 16.8, f.ForecastedDemand, 1e-9)
}

func TestForecastOrderZeroVelocityNeverOrders(t *testing.T) {
	item := domain.StockItem{ItemCode: "A100", Usage: 0, ClosingQty: 2}
	params := baseParams()
	critical := true
	params.IsCritical = &critical

	f := ForecastOrder(item, params)

	assert.InDelta(t, 2, f.ReorderPoint, 1e-9)
	assert.Zero(t, f.ForecastedDemand)
	assert.Zero(t, f.RecommendedOrderQty)
	assert.False(t, f.NeedsReordering)
}

func TestForecastOrderCoveredStockNeedsNothing(t *testing.T) {
	// Plenty on hand: projected stock at delivery stays above demand.
	item := domain.StockItem{ItemCode: "A100", Usage: 14, ClosingQty: 100}

	f := ForecastOrder(item, baseParams())

	// usagePerDay 1, reorder point 95, demand 8.4.
	assert.InDelta(t, 95, f.ReorderPoint, 1e-9)
	assert.False(t, f.NeedsReordering)
	assert.Zero(t, f.RecommendedOrderQty)
}
