package importer

import (
	"regexp"
	"strings"
)

// Unmapped marks a semantic field with no source column.
const Unmapped = -1

// FieldMapping maps each semantic field of a stock usage export to a column
// index in the tokenized table, or Unmapped. It is a plain value type: pass
// it by value and callee mutations stay local, so no defensive deep copies
// are needed anywhere in the pipeline.
type FieldMapping struct {
	ItemCode          int `json:"item_code"`
	Description       int `json:"description"`
	Category          int `json:"category"`
	Unit              int `json:"unit"`
	CostCenter        int `json:"cost_center"`
	OpeningQty        int `json:"opening_qty"`
	OpeningValue      int `json:"opening_value"`
	PurchaseQty       int `json:"purchase_qty"`
	Purchases         int `json:"purchases"`
	ClosingQty        int `json:"closing_qty"`
	ClosingValue      int `json:"closing_value"`
	UnitCost          int `json:"unit_cost"`
	SupplierName      int `json:"supplier_name"`
	StockLevel        int `json:"stock_level"`
	TotalCost         int `json:"total_cost"`
	OpeningStockValue int `json:"opening_stock_value"`
	ClosingStockValue int `json:"closing_stock_value"`
	PurchaseValue     int `json:"purchase_value"`
}

// NewFieldMapping returns a mapping with every field unmapped.
func NewFieldMapping() FieldMapping {
	return FieldMapping{
		ItemCode:          Unmapped,
		Description:       Unmapped,
		Category:          Unmapped,
		Unit:              Unmapped,
		CostCenter:        Unmapped,
		OpeningQty:        Unmapped,
		OpeningValue:      Unmapped,
		PurchaseQty:       Unmapped,
		Purchases:         Unmapped,
		ClosingQty:        Unmapped,
		ClosingValue:      Unmapped,
		UnitCost:          Unmapped,
		SupplierName:      Unmapped,
		StockLevel:        Unmapped,
		TotalCost:         Unmapped,
		OpeningStockValue: Unmapped,
		ClosingStockValue: Unmapped,
		PurchaseValue:     Unmapped,
	}
}

// exactMatches resolves a handful of literal headers seen in real supplier
// exports before any heuristic runs. Keys are normalized (lower-case,
// trimmed) header text.
var exactMatches = map[string]func(*FieldMapping) *int{
	"item":         func(m *FieldMapping) *int { return &m.ItemCode },
	"item code":    func(m *FieldMapping) *int { return &m.ItemCode },
	"itemcode":     func(m *FieldMapping) *int { return &m.ItemCode },
	"item_code":    func(m *FieldMapping) *int { return &m.ItemCode },
	"code":         func(m *FieldMapping) *int { return &m.ItemCode },
	"purchase":     func(m *FieldMapping) *int { return &m.PurchaseQty },
	"purchase qty": func(m *FieldMapping) *int { return &m.PurchaseQty },
	"purchaseqty":  func(m *FieldMapping) *int { return &m.PurchaseQty },
	"purchase_qty": func(m *FieldMapping) *int { return &m.PurchaseQty },
	"purchased":    func(m *FieldMapping) *int { return &m.PurchaseQty },
	"purchases":    func(m *FieldMapping) *int { return &m.PurchaseQty },
	"food":         func(m *FieldMapping) *int { return &m.CostCenter },
	"cost center":  func(m *FieldMapping) *int { return &m.CostCenter },
	"costcenter":   func(m *FieldMapping) *int { return &m.CostCenter },
	"cost_center":  func(m *FieldMapping) *int { return &m.CostCenter },
	"department":   func(m *FieldMapping) *int { return &m.CostCenter },
}

// fieldRule pairs a semantic field with its header heuristic. Rules are
// declared most-specific first and applied in declaration order; once a field
// or a column is claimed it stays claimed, so compound value fields outrank
// their shorter cousins.
type fieldRule struct {
	pattern *regexp.Regexp
	slot    func(*FieldMapping) *int
}

var fieldRules = []fieldRule{
	{regexp.MustCompile(`\bopening\s*stock\s*value\b`), func(m *FieldMapping) *int { return &m.OpeningStockValue }},
	{regexp.MustCompile(`\bclosing\s*stock\s*value\b`), func(m *FieldMapping) *int { return &m.ClosingStockValue }},
	{regexp.MustCompile(`\bpurchases?\s*(value|val|amount|cost)\b`), func(m *FieldMapping) *int { return &m.PurchaseValue }},
	{regexp.MustCompile(`\bopening\s*(value|val|amount)\b`), func(m *FieldMapping) *int { return &m.OpeningValue }},
	{regexp.MustCompile(`\b(closing|ending)\s*(value|val|amount)\b`), func(m *FieldMapping) *int { return &m.ClosingValue }},
	{regexp.MustCompile(`^opening$|\b(opening|beginning)\s*(qty|quantity|units|stock|balance)\b`), func(m *FieldMapping) *int { return &m.OpeningQty }},
	{regexp.MustCompile(`^closing$|\b(closing|ending)\s*(qty|quantity|units|stock|balance)\b|\bcounted\s*qty\b`), func(m *FieldMapping) *int { return &m.ClosingQty }},
	{regexp.MustCompile(`^purchases?$|\bpurchase[sd]?\s*(qty|quantity|units)\b|\breceived\b|\bdeliveries\b`), func(m *FieldMapping) *int { return &m.PurchaseQty }},
	{regexp.MustCompile(`\b(total\s*purchases?|purchases?\s*(total|spend))\b`), func(m *FieldMapping) *int { return &m.Purchases }},
	{regexp.MustCompile(`\bunit\s*(cost|price)\b|\bcost\s*per\s*unit\b|\bavg\s*cost\b|\bprice\b`), func(m *FieldMapping) *int { return &m.UnitCost }},
	{regexp.MustCompile(`\btotal\s*cost\b|\bcost\s*of\s*usage\b|\busage\s*value\b`), func(m *FieldMapping) *int { return &m.TotalCost }},
	{regexp.MustCompile(`\bsupplier\b|\bvendor\b|\bdistributor\b`), func(m *FieldMapping) *int { return &m.SupplierName }},
	{regexp.MustCompile(`\bdescription\b|\bdesc\b|\b(product|item)\s*name\b|\bname\b|\btitle\b`), func(m *FieldMapping) *int { return &m.Description }},
	{regexp.MustCompile(`\bitem\s*code\b|\bitem\b|\bcode\b|\bsku\b|\bplu\b|\bbarcode\b`), func(m *FieldMapping) *int { return &m.ItemCode }},
	{regexp.MustCompile(`\bcost\s*cent(er|re)\b|\bdepartment\b|\bdept\b|\bdivision\b`), func(m *FieldMapping) *int { return &m.CostCenter }},
	{regexp.MustCompile(`\bcategory\b|\bcat\b|\bgroup\b|\bclass\b|\btype\b`), func(m *FieldMapping) *int { return &m.Category }},
	{regexp.MustCompile(`\bunit\b|\buom\b|\bunit\s*of\s*measure\b|\bpack\s*size\b|\bsize\b`), func(m *FieldMapping) *int { return &m.Unit }},
	{regexp.MustCompile(`\bstock\s*level\b|\bon\s*hand\b|\bsoh\b|\bcurrent\s*stock\b`), func(m *FieldMapping) *int { return &m.StockLevel }},
}

// Classify maps each raw column to at most one semantic field. It applies, in
// order: the exact-match table, the regex heuristics (first-declared field
// wins, claimed columns stay claimed), then fallback scans for the fields
// purchasing cannot live without. It is a pure function of the header row:
// no row data is consulted and the input is not mutated.
//
// After classification ItemCode is always mapped; every other field may stay
// Unmapped.
func Classify(headers []string) FieldMapping {
	mapping := NewFieldMapping()

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	claimed := make([]bool, len(headers))

	// Pass 1: exact literal matches, per column.
	for i, h := range normalized {
		resolve, ok := exactMatches[h]
		if !ok {
			continue
		}
		slot := resolve(&mapping)
		if *slot == Unmapped {
			*slot = i
			claimed[i] = true
		}
	}

	// Pass 2: regex heuristics, most-specific field first.
	for _, rule := range fieldRules {
		slot := rule.slot(&mapping)
		if *slot != Unmapped {
			continue
		}
		for i, h := range normalized {
			if claimed[i] || h == "" {
				continue
			}
			if rule.pattern.MatchString(h) {
				*slot = i
				claimed[i] = true
				break
			}
		}
	}

	// Pass 3: fallback scans for fields that must not stay unmapped.
	if mapping.ItemCode == Unmapped {
		mapping.ItemCode = indexWhere(normalized, func(h string) bool {
			return strings.Contains(h, "item")
		})
	}
	if mapping.ItemCode == Unmapped {
		// Every file gets some item code column.
		mapping.ItemCode = 0
	}
	if mapping.PurchaseQty == Unmapped {
		mapping.PurchaseQty = indexWhere(normalized, func(h string) bool {
			return strings.Contains(h, "purchase")
		})
	}
	if mapping.CostCenter == Unmapped {
		mapping.CostCenter = indexWhere(normalized, func(h string) bool {
			return h == "food" || strings.Contains(h, "dept")
		})
	}

	return mapping
}

func indexWhere(headers []string, match func(string) bool) int {
	for i, h := range headers {
		if match(h) {
			return i
		}
	}
	return Unmapped
}
