package columns

import (
	"fmt"

	"github.com/komsit37/optscreen/pkg/screen/types"
)

// Column pairs a record key with its display label. Order inside a schema is
// both render order and the sort-key universe for that table.
type Column struct {
	Key   string
	Label string
}

// Income returns the column schema for income screener tables (cash-secured
// puts and covered calls). The key set and order are part of the analysis
// service contract and must not change.
func Income() []Column {
	return []Column{
		{Key: "ticker", Label: "Ticker"},
		{Key: "expirationDate", Label: "Expiry"},
		{Key: "DTE", Label: "DTE"},
		{Key: "strike", Label: "Strike"},
		{Key: "currentPrice", Label: "Stock Price"},
		{Key: "premium", Label: "Premium"},
		{Key: "delta", Label: "Delta"},
		{Key: "otmPercent", Label: "OTM %"},
		{Key: "impliedVolatility", Label: "IV"},
		{Key: "weeklyReturn", Label: "Weekly %"},
		{Key: "annualizedReturn", Label: "Annual %"},
		{Key: "collateral", Label: "Collateral"},
	}
}

// Buy returns the column schema for buy screener tables. It carries the
// composite buyScore ranking column that income tables do not have.
func Buy() []Column {
	return []Column{
		{Key: "buyScore", Label: "Buy Score"},
		{Key: "ticker", Label: "Ticker"},
		{Key: "expirationDate", Label: "Expiry"},
		{Key: "DTE", Label: "DTE"},
		{Key: "strike", Label: "Strike"},
		{Key: "currentPrice", Label: "Stock Price"},
		{Key: "premium", Label: "Premium"},
		{Key: "delta", Label: "Delta"},
		{Key: "impliedVolatility", Label: "IV"},
		{Key: "volume", Label: "Volume"},
		{Key: "openInterest", Label: "Open Int."},
	}
}

// Keys returns the key list of a schema in order.
func Keys(schema []Column) []string {
	out := make([]string, 0, len(schema))
	for _, c := range schema {
		out = append(out, c.Key)
	}
	return out
}

// Has reports whether key belongs to the schema.
func Has(schema []Column, key string) bool {
	for _, c := range schema {
		if c.Key == key {
			return true
		}
	}
	return false
}

// Textual reports whether a column holds text rather than numbers. Textual
// columns are left-aligned; everything else is numeric and right-aligned.
func Textual(key string) bool {
	switch key {
	case "ticker", "expirationDate", "contractSymbol":
		return true
	}
	return false
}

// FormatValue renders one cell. Numbers get exactly two decimal places,
// strings pass through verbatim, missing values render empty.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.2f", t)
	case float32:
		return fmt.Sprintf("%.2f", t)
	case int:
		return fmt.Sprintf("%.2f", float64(t))
	case int64:
		return fmt.Sprintf("%.2f", float64(t))
	default:
		return fmt.Sprint(t)
	}
}

// FormatCell looks up key in the record and formats it.
func FormatCell(r types.Record, key string) string {
	return FormatValue(r[key])
}
