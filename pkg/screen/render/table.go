package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/optscreen/pkg/screen/columns"
	"github.com/komsit37/optscreen/pkg/screen/types"
)

// TableRenderer prints sections as terminal tables.
type TableRenderer struct{}

func NewTableRenderer() *TableRenderer { return &TableRenderer{} }

func (r *TableRenderer) Render(w io.Writer, sections []Section, opts Options) error {
	first := true
	for _, s := range sections {
		if !s.Present {
			continue
		}
		if !first {
			// blank line between tables
			fmt.Fprintln(w)
		}
		first = false

		title := s.Title
		if opts.Color {
			title = toneColor(s.Tone).Sprint(text.Bold.Sprint(title))
		}
		fmt.Fprintln(w, title)

		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.SetStyle(table.StyleColoredDark)
		tw.Style().Options.DrawBorder = false
		tw.Style().Options.SeparateRows = false
		tw.Style().Options.SeparateColumns = false

		hdr := make(table.Row, len(s.Schema))
		for i, c := range s.Schema {
			hdr[i] = strings.ToUpper(c.Label)
		}
		tw.AppendHeader(hdr)

		// Column configs: cap width (default 40), numeric columns to the right.
		maxWidth := opts.MaxColWidth
		if maxWidth <= 0 {
			maxWidth = 40
		}
		cfgs := make([]table.ColumnConfig, 0, len(s.Schema))
		for i, c := range s.Schema {
			cfg := table.ColumnConfig{Number: i + 1, WidthMax: maxWidth}
			if !columns.Textual(c.Key) {
				cfg.Align = text.AlignRight
				cfg.AlignHeader = text.AlignRight
			}
			cfgs = append(cfgs, cfg)
		}
		tw.SetColumnConfigs(cfgs)

		for _, rec := range s.Rows {
			row := make(table.Row, len(s.Schema))
			for i, c := range s.Schema {
				row[i] = columns.FormatCell(rec, c.Key)
			}
			tw.AppendRow(row)
		}

		tw.Render()

		if s.Empty {
			fmt.Fprintln(w, EmptyMessage)
		}
		if s.TotalPages > 1 {
			fmt.Fprintf(w, "Page %d of %d\n", s.Page, s.TotalPages)
		}
	}
	return nil
}

func toneColor(t types.Tone) text.Colors {
	switch t {
	case types.TonePositive:
		return text.Colors{text.FgGreen}
	case types.ToneNegative:
		return text.Colors{text.FgRed}
	default:
		return text.Colors{}
	}
}
