package importer

import (
	"strconv"
	"strings"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/domain"
)

// exportHeaders is the fixed column set of the flat export. One row per item,
// in input order.
var exportHeaders = []string{
	"Item Code",
	"Description",
	"Category",
	"Cost Center",
	"Opening Qty",
	"Closing Qty",
	"Usage",
	"Usage Value",
	"Reorder Point",
}

// ExportCSV renders the items as a flat CSV. Quoting mirrors the tokenizer's
// escaping rules so an export round-trips through Tokenize unchanged.
func ExportCSV(items []domain.StockItem) string {
	var b strings.Builder
	writeRow(&b, exportHeaders)

	for _, item := range items {
		writeRow(&b, []string{
			item.ItemCode,
			item.Description,
			item.Category,
			item.CostCenter,
			formatFloat(item.OpeningQty),
			formatFloat(item.ClosingQty),
			formatFloat(item.Usage),
			formatFloat(item.UsageValue),
			formatFloat(item.ReorderPoint),
		})
	}

	return b.String()
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeField(f))
	}
	b.WriteByte('\n')
}

// escapeField wraps a field in quotes only when it contains a delimiter or a
// quote, doubling embedded quotes.
func escapeField(f string) string {
	if !strings.ContainsAny(f, ",\"\n") {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
