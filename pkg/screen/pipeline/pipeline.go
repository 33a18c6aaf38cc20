// Package pipeline ties a session's results to the renderer: route the
// result set into views, apply sort and page state per table, and render
// the visible slice of each.
package pipeline

import (
	"context"
	"io"

	"github.com/komsit37/optscreen/pkg/screen/filter"
	"github.com/komsit37/optscreen/pkg/screen/render"
	"github.com/komsit37/optscreen/pkg/screen/router"
	"github.com/komsit37/optscreen/pkg/screen/session"
	"github.com/komsit37/optscreen/pkg/screen/table"
)

type Runner struct {
	Session  *session.Session
	Renderer render.Renderer
	Writer   io.Writer
}

type ExecuteOptions struct {
	// Tables selects which result tables to show; nil shows all.
	Tables filter.Filter
	// SortKey overrides every table's default sort when non-empty.
	SortKey    string
	Descending bool
	// Page selects the visible page on every table.
	Page int

	Color       bool
	PrettyJSON  bool
	MaxColWidth int
}

// Execute runs one analysis and renders the routed tables.
func (r *Runner) Execute(ctx context.Context, opts ExecuteOptions) error {
	if err := r.Session.Analyze(ctx); err != nil {
		return err
	}
	return r.Render(opts)
}

// Render presents the session's current results without re-analyzing.
func (r *Runner) Render(opts ExecuteOptions) error {
	views := Views(r.Session, opts.Tables)
	tabs := NewTables(views)
	for _, t := range tabs {
		if opts.SortKey != "" {
			dir := table.Ascending
			if opts.Descending {
				dir = table.Descending
			}
			t.SetSort(table.SortState{Key: opts.SortKey, Direction: dir})
		}
		if opts.Page > 1 {
			t.SetPage(opts.Page)
		}
	}
	return r.Renderer.Render(r.Writer, Sections(views, tabs), render.Options{
		Color:       opts.Color,
		PrettyJSON:  opts.PrettyJSON,
		MaxColWidth: opts.MaxColWidth,
	})
}

// Views routes the session's results for its current mode, keeping only
// tables matched by f.
func Views(s *session.Session, f filter.Filter) []router.View {
	var filt filter.Filter = filter.Always(true)
	if f != nil {
		filt = f
	}
	views := router.SelectView(s.Params().ScreenerType, s.Results())
	out := make([]router.View, 0, len(views))
	for _, v := range views {
		if filt.Match(v.Name) {
			out = append(out, v)
		}
	}
	return out
}

// NewTables creates one table per view, seeded with the view's list and
// mode-specific default sort.
func NewTables(views []router.View) []*table.Table {
	tabs := make([]*table.Table, len(views))
	for i, v := range views {
		tabs[i] = table.New(v.List, v.DefaultSort)
	}
	return tabs
}

// Sections computes the visible slice of every view/table pair.
func Sections(views []router.View, tabs []*table.Table) []render.Section {
	out := make([]render.Section, 0, len(views))
	for i, v := range views {
		sec := render.Section{
			Name:    v.Name,
			Title:   v.Title,
			Tone:    v.Tone,
			Schema:  v.Schema,
			Present: v.List != nil,
			Empty:   v.List != nil && len(v.List) == 0,
		}
		if sec.Present {
			t := tabs[i]
			rows, total := t.View()
			page := t.Page()
			if total == 0 {
				page = 1
			} else if page > total {
				page = total
			}
			sec.Rows = rows
			sec.Sort = t.Sort()
			sec.Page = page
			sec.TotalPages = total
		}
		out = append(out, sec)
	}
	return out
}
