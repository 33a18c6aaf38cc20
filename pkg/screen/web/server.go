// Package web exposes the screening pipeline over HTTP. Handlers are
// stateless: every request carries its own parameters and gets back the
// routed, sorted, paginated tables as JSON. No sessions, no auth.
package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/komsit37/optscreen/pkg/screen/client"
	"github.com/komsit37/optscreen/pkg/screen/config"
	"github.com/komsit37/optscreen/pkg/screen/params"
	"github.com/komsit37/optscreen/pkg/screen/pipeline"
	"github.com/komsit37/optscreen/pkg/screen/render"
	"github.com/komsit37/optscreen/pkg/screen/report"
	"github.com/komsit37/optscreen/pkg/screen/router"
	"github.com/komsit37/optscreen/pkg/screen/session"
	"github.com/komsit37/optscreen/pkg/screen/table"
	"github.com/komsit37/optscreen/pkg/screen/types"
)

// Server wires the analyze and report endpoints.
type Server struct {
	cfg      *config.Config
	analyzer client.Analyzer
	log      *slog.Logger
}

func NewServer(cfg *config.Config, analyzer client.Analyzer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{cfg: cfg, analyzer: analyzer, log: log}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/analyze", s.AnalyzeHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/report", s.ReportHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/defaults", s.DefaultsHandler).Methods(http.MethodGet)
	return r
}

// ListenAndServe blocks serving the configured address.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.log.Info("http server starting", "addr", addr)
	return http.ListenAndServe(addr, s.Router())
}

// analyzeBody is the inbound request shape. Ticker fields take raw text and
// are normalized like interactive edits; filters overlay the configured
// defaults per key.
type analyzeBody struct {
	ScreenerType string                        `json:"screenerType"`
	PutTickers   *string                       `json:"putTickers"`
	CallTickers  *string                       `json:"callTickers"`
	Filters      map[string]params.FilterValue `json:"filters"`
}

// AnalyzeHandler runs one screening request end to end and responds with
// the rendered sections. Sort and page apply to every returned table via
// the sort, dir and page query parameters.
func (s *Server) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	var body analyzeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p := s.cfg.Parameters()
	if body.ScreenerType != "" {
		mode := types.Mode(body.ScreenerType)
		if !mode.Valid() {
			s.writeError(w, http.StatusBadRequest, "screenerType must be income or buy")
			return
		}
		p.SetScreenerType(mode)
	}
	if body.PutTickers != nil {
		p.SetTickerField(params.PutTickers, *body.PutTickers)
	}
	if body.CallTickers != nil {
		p.SetTickerField(params.CallTickers, *body.CallTickers)
	}
	for name, val := range body.Filters {
		p.Filters[name] = val
	}

	sess := session.New(p, s.analyzer, s.log)
	if err := sess.Analyze(r.Context()); err != nil {
		s.log.Error("analyze failed", "err", err)
		s.writeError(w, http.StatusBadGateway, session.ServiceErrorMessage)
		return
	}

	views := pipeline.Views(sess, nil)
	tabs := pipeline.NewTables(views)
	applyQueryState(tabs, r)

	s.writeJSON(w, http.StatusOK, render.ToJSON(pipeline.Sections(views, tabs)))
}

// applyQueryState overrides sort and page on every table from the request
// query. Unknown or malformed values are ignored, leaving defaults.
func applyQueryState(tabs []*table.Table, r *http.Request) {
	q := r.URL.Query()
	if key := q.Get("sort"); key != "" {
		dir := table.Descending
		if q.Get("dir") == "asc" || q.Get("dir") == string(table.Ascending) {
			dir = table.Ascending
		}
		for _, t := range tabs {
			t.SetSort(table.SortState{Key: key, Direction: dir})
		}
	}
	if pageStr := q.Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			for _, t := range tabs {
				t.SetPage(page)
			}
		}
	}
}

// ReportHandler proxies the hosted analysis document as plain text.
func (s *Server) ReportHandler(w http.ResponseWriter, r *http.Request) {
	text, err := report.Fetch(r.Context(), s.cfg.ReportURL(), s.cfg.Timeout())
	if err != nil {
		s.log.Error("report fetch failed", "err", err)
		s.writeError(w, http.StatusBadGateway, "report is unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, text)
}

// DefaultsHandler returns the resolved default parameters so a frontend can
// seed its controls.
func (s *Server) DefaultsHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cfg.Parameters())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
