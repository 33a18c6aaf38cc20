// Package table implements the generic sortable, paginated view over a
// result list. It is a pure state machine: sorting and paging never mutate
// the underlying data.
package table

import (
	"sort"
	"strconv"

	"github.com/komsit37/optscreen/pkg/screen/types"
)

// RowsPerPage is the fixed page size for every result table.
const RowsPerPage = 10

// Direction of a sort.
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// SortState names the active sort column and direction. An empty Key means
// the list is shown in service order.
type SortState struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Table tracks sort and page state for one result list.
type Table struct {
	rows []types.Record
	sort SortState
	page int
}

// New creates a table over rows with its mode-specific default sort,
// positioned on page 1.
func New(rows []types.Record, defaultSort SortState) *Table {
	return &Table{rows: rows, sort: defaultSort, page: 1}
}

// SetData replaces the underlying list. The page resets to 1; the sort key
// and direction are retained.
func (t *Table) SetData(rows []types.Record) {
	t.rows = rows
	t.page = 1
}

// RequestSort handles a sort request on key. Requesting the current key
// while ascending flips to descending; any other request (a different key,
// or the same key while already descending) resets to ascending. The page
// always resets to 1.
func (t *Table) RequestSort(key string) {
	dir := Ascending
	if t.sort.Key == key && t.sort.Direction == Ascending {
		dir = Descending
	}
	t.sort = SortState{Key: key, Direction: dir}
	t.page = 1
}

// SetSort overrides the sort state directly (used by CLI flags). The page
// resets to 1.
func (t *Table) SetSort(s SortState) {
	t.sort = s
	t.page = 1
}

// Sort returns the current sort state.
func (t *Table) Sort() SortState { return t.sort }

// Page returns the current 1-based page number.
func (t *Table) Page() int { return t.page }

// Len returns the number of rows in the underlying list.
func (t *Table) Len() int { return len(t.rows) }

// SetPage moves to page p. Out-of-range values are clamped when the view is
// computed, so callers may pass optimistic numbers.
func (t *Table) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	t.page = p
}

// NextPage advances one page, clamped to the last page.
func (t *Table) NextPage() {
	_, total := t.View()
	if t.page < total {
		t.page++
	}
}

// PrevPage goes back one page, clamped to page 1.
func (t *Table) PrevPage() {
	if t.page > 1 {
		t.page--
	}
}

// View returns the visible rows for the current page along with the total
// page count. The sort is stable: rows with equal keys keep the service
// order. An empty list yields (nil, 0).
func (t *Table) View() ([]types.Record, int) {
	sorted := t.sorted()
	total := (len(sorted) + RowsPerPage - 1) / RowsPerPage

	page := t.page
	if total > 0 && page > total {
		page = total
	}
	if total == 0 {
		return nil, 0
	}

	start := (page - 1) * RowsPerPage
	end := start + RowsPerPage
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[start:end], total
}

// sorted returns a sorted copy of the rows; the original order is never
// disturbed.
func (t *Table) sorted() []types.Record {
	out := make([]types.Record, len(t.rows))
	copy(out, t.rows)
	if t.sort.Key == "" {
		return out
	}
	key := t.sort.Key
	desc := t.sort.Direction == Descending
	sort.SliceStable(out, func(i, j int) bool {
		less := lessValue(out[i][key], out[j][key])
		if desc {
			return lessValue(out[j][key], out[i][key])
		}
		return less
	})
	return out
}

// lessValue compares two cell values. Two non-empty strings compare
// lexically; everything else is coerced to a number with missing or falsy
// values treated as zero.
func lessValue(a, b any) bool {
	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr && bStr && as != "" && bs != "" {
		return as < bs
	}
	return toFloat(a) < toFloat(b)
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		if t == "" {
			return 0
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
