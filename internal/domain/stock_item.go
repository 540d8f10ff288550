package domain

// UnitCostMethod records how an item's unit cost was obtained.
type UnitCostMethod string

const (
	// UnitCostDerived means the unit cost was computed from opening and/or
	// closing quantity-value pairs.
	UnitCostDerived UnitCostMethod = "derived"
	// UnitCostMissing means no valid basis existed and the unit cost is zero.
	UnitCostMissing UnitCostMethod = "missing"
)

// MinReasonableUnitCost is the threshold below which a derived unit cost is
// flagged for manual review. Costs at or below this value usually indicate a
// data-entry problem in the source export.
const MinReasonableUnitCost = 0.01

// StockItem is the canonical per-row record produced from one CSV data row.
// ItemCode is the identity but is not guaranteed unique within a file;
// duplicate codes are kept as separate items and never merged.
//
// Category and CostCenter hold exactly one canonical casing. Components that
// need a different external representation must project at their own
// boundary instead of adding aliases here.
type StockItem struct {
	ItemCode     string `json:"item_code"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Unit         string `json:"unit"`
	CostCenter   string `json:"cost_center"`
	SupplierName string `json:"supplier_name,omitempty"`

	OpeningQty    float64 `json:"opening_qty"`
	OpeningValue  float64 `json:"opening_value"`
	PurchaseQty   float64 `json:"purchase_qty"`
	ClosingQty    float64 `json:"closing_qty"`
	ClosingValue  float64 `json:"closing_value"`
	PurchaseValue float64 `json:"purchase_value"`

	OpeningStockValue float64 `json:"opening_stock_value"`
	ClosingStockValue float64 `json:"closing_stock_value"`
	StockLevel        float64 `json:"stock_level"`

	UnitCost     float64 `json:"unit_cost"`
	Usage        float64 `json:"usage"`
	UsageValue   float64 `json:"usage_value"`
	UsagePerDay  float64 `json:"usage_per_day"`
	ReorderPoint float64 `json:"reorder_point"`

	BelowReorderPoint bool `json:"below_reorder_point"`

	UnitCostMethod      UnitCostMethod `json:"unit_cost_method"`
	HasMissingUnitCost  bool           `json:"has_missing_unit_cost"`
	HasNegativeUnitCost bool           `json:"has_negative_unit_cost"`
	NeedsAttention      bool           `json:"needs_attention"`
}

// CalculationParameters drive the metrics engine for one calculation pass.
// They are supplied by the caller and never persisted on a StockItem.
type CalculationParameters struct {
	StockPeriodDays       int     `json:"stock_period_days"`
	DaysToNextDelivery    int     `json:"days_to_next_delivery"`
	SafetyStockPercentage float64 `json:"safety_stock_percentage"`
	CriticalItemBuffer    float64 `json:"critical_item_buffer"`
	OrderCycle            int     `json:"order_cycle"`

	// IsCritical forces the critical classification when set. When nil the
	// classification is derived from Criticality, when that is present.
	IsCritical  *bool             `json:"is_critical,omitempty"`
	Criticality *CriticalityScore `json:"criticality,omitempty"`
}

// CriticalityScore is the composite used to derive critical-item status when
// the caller does not supply it explicitly. Each component is scored 0-100.
type CriticalityScore struct {
	Volatility          float64 `json:"volatility"`
	StockLevel          float64 `json:"stock_level"`
	SupplierReliability float64 `json:"supplier_reliability"`
}

// Score weights the components 40/30/30 out of 100.
func (c CriticalityScore) Score() float64 {
	return 0.4*c.Volatility + 0.3*c.StockLevel + 0.3*c.SupplierReliability
}

// Critical reports whether the composite score crosses the critical line.
func (c CriticalityScore) Critical() bool {
	return c.Score() >= 70
}

// OrderForecast is the purchase recommendation for a single item.
type OrderForecast struct {
	ReorderPoint        float64 `json:"reorder_point"`
	ForecastedDemand    float64 `json:"forecasted_demand"`
	RecommendedOrderQty float64 `json:"recommended_order_qty"`
	NeedsReordering     bool    `json:"needs_reordering"`
}

// FilterCriteria selects a view subset of a stock item collection. Empty
// Categories/CostCenters mean no restriction, not "match nothing".
type FilterCriteria struct {
	Categories   []string `json:"categories"`
	CostCenters  []string `json:"cost_centers"`
	SearchTerm   string   `json:"search_term"`
	LowStockOnly bool     `json:"low_stock_only"`
}

// UsageSummary holds collection-level totals for a stock period.
type UsageSummary struct {
	TotalOpeningValue float64 `json:"total_opening_value"`
	TotalPurchases    float64 `json:"total_purchases"`
	TotalClosingValue float64 `json:"total_closing_value"`
	TotalUsage        float64 `json:"total_usage"`
	TotalCostOfUsage  float64 `json:"total_cost_of_usage"`
	CostPercentage    float64 `json:"cost_percentage"`
}

// CategoryCost is one label/cost pair in an aggregation result.
type CategoryCost struct {
	Label          string  `json:"label"`
	TotalUsageCost float64 `json:"total_usage_cost"`
}
