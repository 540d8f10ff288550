// Package forecast derives operational purchasing metrics from normalized
// stock items: usage velocity, reorder points and recommended order
// quantities. Everything here is a pure transformation of its inputs.
package forecast

import (
	"math"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/domain"
)

// ApplyPeriod recomputes the period-dependent metrics on every item in
// place and returns the slice. Re-running with identical parameters yields
// identical results, so parameter changes can simply re-apply.
func ApplyPeriod(items []domain.StockItem, stockPeriodDays, daysToNextDelivery int) []domain.StockItem {
	days := stockPeriodDays
	if days < 1 {
		// Floor of one day avoids division by zero on degenerate input.
		days = 1
	}

	for i := range items {
		item := &items[i]
		item.UsagePerDay = item.Usage / float64(days)

		// Reorder point is the projected stock level at the next delivery.
		projected := item.ClosingQty - item.UsagePerDay*float64(daysToNextDelivery)
		item.ReorderPoint = math.Max(0, projected)
		item.BelowReorderPoint = item.UsagePerDay > 0 && projected <= 0
	}

	return items
}

// ForecastOrder produces the purchase recommendation for one item. The
// reorder point is recomputed from the supplied parameters so a forecast
// never depends on which period pass last touched the item.
//
// A zero-velocity item is never auto-ordered, regardless of buffers.
func ForecastOrder(item domain.StockItem, params domain.CalculationParameters) domain.OrderForecast {
	days := params.StockPeriodDays
	if days < 1 {
		days = 1
	}
	usagePerDay := item.Usage / float64(days)

	reorderPoint := math.Max(0, item.ClosingQty-usagePerDay*float64(params.DaysToNextDelivery))

	if usagePerDay == 0 {
		return domain.OrderForecast{ReorderPoint: reorderPoint}
	}

	baseUsage := usagePerDay * float64(params.OrderCycle)
	safetyStock := baseUsage * (params.SafetyStockPercentage / 100)
	requiredStock := baseUsage + safetyStock
	if isCritical(params) {
		requiredStock *= 1 + params.CriticalItemBuffer/100
	}

	forecast := domain.OrderForecast{
		ReorderPoint:     reorderPoint,
		ForecastedDemand: requiredStock,
		NeedsReordering:  requiredStock > reorderPoint,
	}
	if forecast.NeedsReordering {
		// Order quantities are whole units, rounded up.
		forecast.RecommendedOrderQty = math.Ceil(requiredStock - reorderPoint)
	}

	return forecast
}

// isCritical resolves the critical classification: explicit flag first, then
// the weighted composite score when provided.
func isCritical(params domain.CalculationParameters) bool {
	if params.IsCritical != nil {
		return *params.IsCritical
	}
	if params.Criticality != nil {
		return params.Criticality.Critical()
	}
	return false
}
