package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/domain"
)

// ErrMappingIncomplete blocks normalization when a required field has no
// source column. The caller surfaces it instead of guessing.
var ErrMappingIncomplete = errors.New("field mapping incomplete")

const (
	defaultCategory   = "Uncategorized"
	defaultUnit       = "ea"
	defaultCostCenter = "Unassigned"
	foodCostCenter    = "Food Department"
)

// RequireFields checks the mapping for the fields normalization cannot run
// without. ItemCode and Description are required; everything else may stay
// unmapped.
func RequireFields(mapping FieldMapping) error {
	var missing []string
	if mapping.ItemCode == Unmapped {
		missing = append(missing, "itemCode")
	}
	if mapping.Description == Unmapped {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s unmapped", ErrMappingIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

// Normalize converts every data row into a canonical StockItem using the
// supplied mapping. Rows with neither an item code nor a description are
// dropped. The mapping is received by value, so callers keep ownership of
// their copy.
func Normalize(table RawTable, mapping FieldMapping) []domain.StockItem {
	items := make([]domain.StockItem, 0, len(table.Rows))

	for _, row := range table.Rows {
		itemCode := cell(row, mapping.ItemCode)
		description := cell(row, mapping.Description)
		if itemCode == "" && description == "" {
			continue
		}

		item := domain.StockItem{
			ItemCode:     itemCode,
			Description:  description,
			Category:     textOrDefault(row, mapping.Category, defaultCategory),
			Unit:         textOrDefault(row, mapping.Unit, defaultUnit),
			CostCenter:   normalizeCostCenter(cell(row, mapping.CostCenter)),
			SupplierName: cell(row, mapping.SupplierName),

			OpeningQty:   numeric(row, mapping.OpeningQty),
			OpeningValue: numeric(row, mapping.OpeningValue),
			PurchaseQty:  numeric(row, mapping.PurchaseQty),
			ClosingQty:   numeric(row, mapping.ClosingQty),
			ClosingValue: numeric(row, mapping.ClosingValue),
		}

		reconcileUnitCost(&item)

		usage := item.OpeningQty + item.PurchaseQty - item.ClosingQty
		if usage < 0 {
			// Negative raw usage means a count or entry error; policy is
			// zero usage rather than propagating a negative.
			usage = 0
		}
		item.Usage = usage
		item.UsageValue = usage * item.UnitCost

		item.OpeningStockValue = valueOrDerived(row, mapping.OpeningStockValue, item.OpeningQty*item.UnitCost)
		item.ClosingStockValue = valueOrDerived(row, mapping.ClosingStockValue, item.ClosingQty*item.UnitCost)
		item.PurchaseValue = purchaseValue(row, mapping, item)
		item.StockLevel = valueOrDerived(row, mapping.StockLevel, item.ClosingQty)

		items = append(items, item)
	}

	return items
}

// reconcileUnitCost derives a unit cost from whichever of the opening and
// closing quantity/value pairs are usable. A pair counts only when both
// members are positive. The result is the mean of the usable pair costs.
func reconcileUnitCost(item *domain.StockItem) {
	var costs []float64
	if item.OpeningQty > 0 && item.OpeningValue > 0 {
		costs = append(costs, item.OpeningValue/item.OpeningQty)
	}
	if item.ClosingQty > 0 && item.ClosingValue > 0 {
		costs = append(costs, item.ClosingValue/item.ClosingQty)
	}

	if len(costs) == 0 {
		item.UnitCost = 0
		item.UnitCostMethod = domain.UnitCostMissing
		item.HasMissingUnitCost = true
		item.NeedsAttention = true
		return
	}

	var sum float64
	for _, c := range costs {
		sum += c
	}
	item.UnitCost = sum / float64(len(costs))
	item.UnitCostMethod = domain.UnitCostDerived

	// A derived cost at or below the floor is a data-quality signal for
	// manual review, never a processing error.
	if item.UnitCost <= domain.MinReasonableUnitCost {
		item.HasNegativeUnitCost = true
		item.NeedsAttention = true
	}
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func textOrDefault(row []string, idx int, fallback string) string {
	if v := cell(row, idx); v != "" {
		return v
	}
	return fallback
}

func normalizeCostCenter(v string) string {
	if v == "" {
		return defaultCostCenter
	}
	if strings.EqualFold(v, "food") {
		return foodCostCenter
	}
	return v
}

// numeric parses a cell through the permissive extractor: everything except
// digits, '.' and '-' is stripped before parsing, and anything unparsable
// coerces to zero.
func numeric(row []string, idx int) float64 {
	return parseNumeric(cell(row, idx))
}

func parseNumeric(v string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, v)
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f
}

// valueOrDerived prefers the mapped column when it holds a value, falling
// back to the derived figure.
func valueOrDerived(row []string, idx int, derived float64) float64 {
	if v := cell(row, idx); v != "" {
		return parseNumeric(v)
	}
	return derived
}

// purchaseValue prefers an explicit purchase-value column, then the purchase
// spend column, then derives from quantity and unit cost.
func purchaseValue(row []string, mapping FieldMapping, item domain.StockItem) float64 {
	if v := cell(row, mapping.PurchaseValue); v != "" {
		return parseNumeric(v)
	}
	if v := cell(row, mapping.Purchases); v != "" {
		return parseNumeric(v)
	}
	return item.PurchaseQty * item.UnitCost
}
