package render

import (
	"encoding/json"
	"io"

	"github.com/komsit37/optscreen/pkg/screen/columns"
	"github.com/komsit37/optscreen/pkg/screen/table"
	"github.com/komsit37/optscreen/pkg/screen/types"
)

// JSONSection is the wire shape of one rendered table, shared by the JSON
// renderer and serve mode.
type JSONSection struct {
	Name       string          `json:"name"`
	Title      string          `json:"title"`
	Columns    []string        `json:"columns"`
	Rows       []types.Record  `json:"rows"`
	Sort       table.SortState `json:"sort"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	Empty      bool            `json:"empty"`
}

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (r *JSONRenderer) Render(w io.Writer, sections []Section, opts Options) error {
	enc := json.NewEncoder(w)
	if opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(ToJSON(sections))
}

// ToJSON converts present sections to their wire shape. Skipped (absent)
// sections are omitted entirely, preserving the missing-vs-empty
// distinction for API consumers.
func ToJSON(sections []Section) []JSONSection {
	out := make([]JSONSection, 0, len(sections))
	for _, s := range sections {
		if !s.Present {
			continue
		}
		rows := s.Rows
		if rows == nil {
			rows = []types.Record{}
		}
		out = append(out, JSONSection{
			Name:       s.Name,
			Title:      s.Title,
			Columns:    columns.Keys(s.Schema),
			Rows:       rows,
			Sort:       s.Sort,
			Page:       s.Page,
			TotalPages: s.TotalPages,
			Empty:      s.Empty,
		})
	}
	return out
}
