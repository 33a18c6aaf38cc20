// Package router maps a screener mode and an analysis response to the named
// result tables to display, each with its schema and default sort.
package router

import (
	"github.com/komsit37/optscreen/pkg/screen/columns"
	"github.com/komsit37/optscreen/pkg/screen/table"
	"github.com/komsit37/optscreen/pkg/screen/types"
)

// View describes one result table. A nil List means the service did not
// return that list at all; the renderer skips the section entirely, which
// is distinct from an empty List (zero rows found).
type View struct {
	Name        string
	Title       string
	Tone        types.Tone
	List        []types.Record
	Schema      []columns.Column
	DefaultSort table.SortState
}

// SelectView returns the two views for the given mode in display order.
func SelectView(mode types.Mode, rs types.ResultSet) []View {
	if mode == types.ModeBuy {
		buySort := table.SortState{Key: "buyScore", Direction: table.Descending}
		return []View{
			{
				Name:        "bullish_calls",
				Title:       "Bullish Opportunities (Calls to Buy)",
				Tone:        types.TonePositive,
				List:        rs.BullishCalls,
				Schema:      columns.Buy(),
				DefaultSort: buySort,
			},
			{
				Name:        "bearish_puts",
				Title:       "Bearish Opportunities (Puts to Buy)",
				Tone:        types.ToneNegative,
				List:        rs.BearishPuts,
				Schema:      columns.Buy(),
				DefaultSort: buySort,
			},
		}
	}

	incomeSort := table.SortState{Key: "annualizedReturn", Direction: table.Descending}
	return []View{
		{
			Name:        "puts",
			Title:       "Best Cash-Secured Puts to Sell",
			Tone:        types.TonePositive,
			List:        rs.Puts,
			Schema:      columns.Income(),
			DefaultSort: incomeSort,
		},
		{
			Name:        "calls",
			Title:       "Best Covered Calls to Sell",
			Tone:        types.ToneNegative,
			List:        rs.Calls,
			Schema:      columns.Income(),
			DefaultSort: incomeSort,
		},
	}
}
