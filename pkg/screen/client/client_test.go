package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/komsit37/optscreen/pkg/screen/params"
	"github.com/komsit37/optscreen/pkg/screen/types"
)

func incomeParams() params.Parameters {
	return params.Parameters{
		ScreenerType: types.ModeIncome,
		PutTickers:   "AAPL,MSFT",
		CallTickers:  "GOOG",
		Filters: params.Filters{
			params.DTEMin:    params.Number(0),
			params.DTEMax:    params.Number(30),
			params.MinVolume: params.Number(100),
		},
	}
}

func TestBuildRequestIncomePassthrough(t *testing.T) {
	req := BuildRequest(incomeParams())
	if req.PutTickers != "AAPL,MSFT" || req.CallTickers != "GOOG" {
		t.Errorf("income mode must send ticker lists unchanged: %q %q", req.PutTickers, req.CallTickers)
	}
	if len(req.Filters) != 3 {
		t.Errorf("full filter map must be sent, got %d entries", len(req.Filters))
	}
}

func TestBuildRequestBuyMergesTickers(t *testing.T) {
	p := incomeParams()
	p.SetScreenerType(types.ModeBuy)
	req := BuildRequest(p)
	if req.PutTickers != "AAPL,MSFT,GOOG" {
		t.Errorf("buy mode putTickers = %q, want AAPL,MSFT,GOOG", req.PutTickers)
	}
	if req.CallTickers != "" {
		t.Errorf("buy mode callTickers must be empty, got %q", req.CallTickers)
	}
	// The source parameters are untouched.
	if p.PutTickers != "AAPL,MSFT" || p.CallTickers != "GOOG" {
		t.Error("BuildRequest must not mutate parameters")
	}
}

func TestBuildRequestBuyFiltersEmptyTokens(t *testing.T) {
	p := params.Parameters{
		ScreenerType: types.ModeBuy,
		PutTickers:   "AAPL,,MSFT,",
		CallTickers:  "",
	}
	req := BuildRequest(p)
	if req.PutTickers != "AAPL,MSFT" {
		t.Errorf("empty tokens must be dropped in buy mode: got %q", req.PutTickers)
	}
}

func TestAnalyzeRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/analyze" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ScreenerType != types.ModeIncome {
			t.Errorf("screenerType = %q", req.ScreenerType)
		}
		// puts empty (zero rows), calls populated, buy lists absent.
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"puts":[],"calls":[{"ticker":"GOOG","premium":1.25}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, nil)
	rs, err := c.Analyze(context.Background(), BuildRequest(incomeParams()))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rs.Puts == nil || len(rs.Puts) != 0 {
		t.Error("empty array must decode to an empty, non-nil list")
	}
	if rs.BullishCalls != nil {
		t.Error("absent list must decode to nil")
	}
	if len(rs.Calls) != 1 || rs.Calls[0]["ticker"] != "GOOG" {
		t.Errorf("calls decoded wrong: %v", rs.Calls)
	}
}

func TestAnalyzeNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, nil)
	if _, err := c.Analyze(context.Background(), Request{}); err == nil {
		t.Fatal("non-2xx status must return an error")
	}
}

func TestAnalyzeTransportFailure(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, time.Second, nil)
	if _, err := c.Analyze(context.Background(), Request{}); err == nil {
		t.Fatal("transport failure must return an error")
	}
}
