package render

import (
	"io"

	"github.com/komsit37/optscreen/pkg/screen/columns"
	"github.com/komsit37/optscreen/pkg/screen/table"
	"github.com/komsit37/optscreen/pkg/screen/types"
)

// EmptyMessage is shown in place of rows when a list came back with zero
// matches. A list that never came back at all is skipped instead.
const EmptyMessage = "No suitable contracts found with the current criteria."

// Section is one result table prepared for display: the visible page of an
// already-sorted list plus enough state to label it.
type Section struct {
	Name       string
	Title      string
	Tone       types.Tone
	Schema     []columns.Column
	Rows       []types.Record
	Sort       table.SortState
	Page       int
	TotalPages int
	// Present is false when the service returned no list under this name;
	// such sections render nothing at all.
	Present bool
	// Empty is true when the list exists but holds zero rows.
	Empty bool
}

// Renderer renders prepared sections to an output writer.
type Renderer interface {
	Render(w io.Writer, sections []Section, opts Options) error
}

// Options control presentation details shared by renderers.
type Options struct {
	Color       bool
	MaxColWidth int
	PrettyJSON  bool
}
