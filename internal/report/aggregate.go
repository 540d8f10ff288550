package report

import (
	"sort"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/domain"
)

// DefaultTopLimit bounds TopItems when the caller passes no limit.
const DefaultTopLimit = 10

// AggregateByCategory sums usage cost per category, returning pairs sorted
// descending by cost. Categories appear in first-seen order before sorting,
// and the sort is stable, so equal-cost categories keep input order.
func AggregateByCategory(items []domain.StockItem) []domain.CategoryCost {
	index := make(map[string]int)
	out := make([]domain.CategoryCost, 0)

	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(out)
			index[item.Category] = i
			out = append(out, domain.CategoryCost{Label: item.Category})
		}
		out[i].TotalUsageCost += item.UsageValue
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalUsageCost > out[j].TotalUsageCost
	})

	return out
}

// TopItems returns the costliest items by usage value, sorted descending with
// ties broken by input order, truncated to limit (DefaultTopLimit when the
// limit is not positive).
func TopItems(items []domain.StockItem, limit int) []domain.CategoryCost {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	out := make([]domain.CategoryCost, 0, len(items))
	for _, item := range items {
		label := item.Description
		if label == "" {
			label = item.ItemCode
		}
		out = append(out, domain.CategoryCost{Label: label, TotalUsageCost: item.UsageValue})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalUsageCost > out[j].TotalUsageCost
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Summary computes the collection totals. The cost percentage is only
// meaningful against a positive sales amount; otherwise it stays zero.
func Summary(items []domain.StockItem, salesAmount float64) domain.UsageSummary {
	var s domain.UsageSummary
	for _, item := range items {
		s.TotalOpeningValue += item.OpeningStockValue
		s.TotalPurchases += item.PurchaseValue
		s.TotalClosingValue += item.ClosingStockValue
		s.TotalUsage += item.Usage
		s.TotalCostOfUsage += item.UsageValue
	}
	if salesAmount > 0 {
		s.CostPercentage = s.TotalCostOfUsage / salesAmount * 100
	}
	return s
}
