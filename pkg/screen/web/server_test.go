package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/komsit37/optscreen/pkg/screen/client"
	"github.com/komsit37/optscreen/pkg/screen/config"
)

// newBackend fakes the analysis service and records the request it saw.
func newBackend(t *testing.T, response string, got *client.Request) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			if err := json.NewDecoder(r.Body).Decode(got); err != nil {
				t.Errorf("decode backend request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(response))
	}))
}

func newServer(backendURL string) *Server {
	cfg := config.Default()
	cfg.Service.Endpoint = backendURL
	return NewServer(cfg, client.New(backendURL, cfg.Timeout(), nil), nil)
}

func TestAnalyzeEndpoint(t *testing.T) {
	var seen client.Request
	backend := newBackend(t, `{
		"puts": [
			{"ticker":"AAPL","annualizedReturn":12.5},
			{"ticker":"MSFT","annualizedReturn":40.0}
		],
		"calls": []
	}`, &seen)
	defer backend.Close()

	srv := httptest.NewServer(newServer(backend.URL).Router())
	defer srv.Close()

	body := `{"screenerType":"income","putTickers":"aapl, msft","callTickers":"goog","filters":{"DTE_MAX":45,"PUT_DELTA_MAX":""}}`
	resp, err := http.Post(srv.URL+"/api/analyze", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	// The backend saw normalized tickers and the overlaid filter map.
	if seen.PutTickers != "AAPL,MSFT" || seen.CallTickers != "GOOG" {
		t.Errorf("backend tickers = %q %q", seen.PutTickers, seen.CallTickers)
	}
	if v := seen.Filters["DTE_MAX"]; !v.IsSet() || v.Float() != 45 {
		t.Errorf("DTE_MAX override not sent: %v", v)
	}
	if seen.Filters["PUT_DELTA_MAX"].IsSet() {
		t.Error("cleared filter must travel as the unset sentinel")
	}
	if v := seen.Filters["MIN_VOLUME"]; !v.IsSet() || v.Float() != 100 {
		t.Errorf("untouched default not sent: %v", v)
	}

	var sections []struct {
		Name       string           `json:"name"`
		Rows       []map[string]any `json:"rows"`
		Empty      bool             `json:"empty"`
		TotalPages int              `json:"totalPages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sections); err != nil {
		t.Fatal(err)
	}
	// Income mode and only puts/calls present: both sections returned, the
	// buy lists were absent so no sections for them.
	if len(sections) != 2 || sections[0].Name != "puts" || sections[1].Name != "calls" {
		t.Fatalf("sections = %+v", sections)
	}
	// Default income sort is annualizedReturn descending.
	if sections[0].Rows[0]["ticker"] != "MSFT" {
		t.Errorf("default sort not applied: %v", sections[0].Rows)
	}
	if !sections[1].Empty {
		t.Error("zero-row calls list must be flagged empty")
	}
}

func TestAnalyzeEndpointSortAndPage(t *testing.T) {
	rows := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		rows = append(rows, fmt.Sprintf(`{"ticker":"T%d","buyScore":%d}`, i, i))
	}
	backend := newBackend(t, `{"bullish_calls":[`+strings.Join(rows, ",")+`],"bearish_puts":[]}`, nil)
	defer backend.Close()

	srv := httptest.NewServer(newServer(backend.URL).Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/analyze?sort=buyScore&dir=asc&page=3",
		"application/json", strings.NewReader(`{"screenerType":"buy"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var sections []struct {
		Name       string           `json:"name"`
		Rows       []map[string]any `json:"rows"`
		Page       int              `json:"page"`
		TotalPages int              `json:"totalPages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sections); err != nil {
		t.Fatal(err)
	}
	if sections[0].Name != "bullish_calls" {
		t.Fatalf("sections = %+v", sections)
	}
	if sections[0].TotalPages != 3 || sections[0].Page != 3 {
		t.Errorf("page = %d/%d, want 3/3", sections[0].Page, sections[0].TotalPages)
	}
	if len(sections[0].Rows) != 5 {
		t.Errorf("last page should hold 5 rows, got %d", len(sections[0].Rows))
	}
}

func TestAnalyzeEndpointBackendDown(t *testing.T) {
	backend := newBackend(t, `{}`, nil)
	url := backend.URL
	backend.Close()

	srv := httptest.NewServer(newServer(url).Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/analyze", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestAnalyzeEndpointRejectsBadMode(t *testing.T) {
	backend := newBackend(t, `{}`, nil)
	defer backend.Close()

	srv := httptest.NewServer(newServer(backend.URL).Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/analyze", "application/json",
		strings.NewReader(`{"screenerType":"yolo"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestReportEndpoint(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ANALYSIS.md" {
			w.Write([]byte("# Report"))
			return
		}
		http.NotFound(w, r)
	}))
	defer backend.Close()

	s := newServer(backend.URL)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/report")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	buf := make([]byte, 32)
	n, _ := resp.Body.Read(buf)
	if string(buf[:n]) != "# Report" {
		t.Errorf("body = %q", string(buf[:n]))
	}
}
