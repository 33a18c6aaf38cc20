package router

import (
	"testing"

	"github.com/komsit37/optscreen/pkg/screen/columns"
	"github.com/komsit37/optscreen/pkg/screen/table"
	"github.com/komsit37/optscreen/pkg/screen/types"
)

func TestSelectViewIncome(t *testing.T) {
	rs := types.ResultSet{
		Puts:  []types.Record{{"ticker": "AAPL"}},
		Calls: []types.Record{},
	}
	views := SelectView(types.ModeIncome, rs)
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2", len(views))
	}
	if views[0].Name != "puts" || views[1].Name != "calls" {
		t.Errorf("view order wrong: %s, %s", views[0].Name, views[1].Name)
	}
	for _, v := range views {
		if v.DefaultSort.Key != "annualizedReturn" || v.DefaultSort.Direction != table.Descending {
			t.Errorf("%s: default sort = %+v", v.Name, v.DefaultSort)
		}
		if columns.Has(v.Schema, "buyScore") {
			t.Errorf("%s: income schema must not contain buyScore", v.Name)
		}
		if !columns.Has(v.Schema, "collateral") {
			t.Errorf("%s: income schema missing collateral", v.Name)
		}
	}
	if views[1].List == nil || len(views[1].List) != 0 {
		t.Error("empty calls list must stay empty and non-nil")
	}
}

func TestSelectViewBuy(t *testing.T) {
	rs := types.ResultSet{BullishCalls: []types.Record{{"buyScore": 42.0}}}
	views := SelectView(types.ModeBuy, rs)
	if views[0].Name != "bullish_calls" || views[1].Name != "bearish_puts" {
		t.Fatalf("view order wrong: %s, %s", views[0].Name, views[1].Name)
	}
	for _, v := range views {
		if v.DefaultSort.Key != "buyScore" || v.DefaultSort.Direction != table.Descending {
			t.Errorf("%s: default sort = %+v", v.Name, v.DefaultSort)
		}
		if v.Schema[0].Key != "buyScore" {
			t.Errorf("%s: buy schema must lead with buyScore", v.Name)
		}
	}
	// Missing bearish_puts propagates as nil so the section is skipped.
	if views[1].List != nil {
		t.Error("absent list must remain nil through routing")
	}
}
