// Package report provides the view layer over a processed stock collection:
// criteria filtering, category aggregation and period summaries.
package report

import (
	"strings"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/domain"
)

// Filter returns the subset of items matching the criteria, preserving input
// order. Empty category and cost-center sets mean "no restriction". The
// search term is a case-insensitive substring match over item code,
// description, category and cost center.
func Filter(items []domain.StockItem, criteria domain.FilterCriteria) []domain.StockItem {
	categories := toSet(criteria.Categories)
	costCenters := toSet(criteria.CostCenters)
	search := strings.ToLower(strings.TrimSpace(criteria.SearchTerm))

	out := make([]domain.StockItem, 0, len(items))
	for _, item := range items {
		if len(categories) > 0 {
			if _, ok := categories[strings.ToLower(item.Category)]; !ok {
				continue
			}
		}
		if len(costCenters) > 0 {
			if _, ok := costCenters[strings.ToLower(item.CostCenter)]; !ok {
				continue
			}
		}
		if search != "" && !matchesSearch(item, search) {
			continue
		}
		if criteria.LowStockOnly && !item.BelowReorderPoint {
			continue
		}
		out = append(out, item)
	}

	return out
}

func matchesSearch(item domain.StockItem, search string) bool {
	haystack := strings.ToLower(strings.Join([]string{
		item.ItemCode,
		item.Description,
		item.Category,
		item.CostCenter,
	}, " "))
	return strings.Contains(haystack, search)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
