// Package layer holds in-memory geometry layers: an ordered geometry column
// plus an attribute table indexed by ordinal position and, optionally, by a
// unique identifier column.
package layer

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/samber/lo"
)

var (
	// ErrLengthMismatch is returned when a column or ID slice does not have
	// one entry per row.
	ErrLengthMismatch = eris.New("layer: length does not match row count")
	// ErrDuplicateID is returned when an identifier column repeats a value.
	ErrDuplicateID = eris.New("layer: duplicate unique identifier")
	// ErrUnknownID is returned when an identifier cannot be resolved to a row.
	ErrUnknownID = eris.New("layer: unknown unique identifier")
)

// MissingFieldError reports a named attribute column that does not exist.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("layer: missing field %q", e.Field)
}

// Table is the attribute side of a layer. Rows are addressed by ordinal
// position; when an identifier column is set, rows can also be addressed by ID.
type Table struct {
	n       int
	ids     []int64
	rowOf   map[int64]int
	columns map[string][]float64
}

// NewTable returns an empty table with n rows.
func NewTable(n int) *Table {
	return &Table{n: n, columns: make(map[string][]float64)}
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.n }

// SetIDs installs a unique identifier column.
func (t *Table) SetIDs(ids []int64) error {
	if len(ids) != t.n {
		return eris.Wrapf(ErrLengthMismatch, "layer: %d ids for %d rows", len(ids), t.n)
	}
	rowOf := make(map[int64]int, len(ids))
	for i, id := range ids {
		if prev, ok := rowOf[id]; ok {
			return eris.Wrapf(ErrDuplicateID, "layer: id %d at rows %d and %d", id, prev, i)
		}
		rowOf[id] = i
	}
	t.ids = append([]int64(nil), ids...)
	t.rowOf = rowOf
	return nil
}

// HasIDs reports whether an identifier column is set.
func (t *Table) HasIDs() bool { return t.ids != nil }

// IDs returns the identifier column, or nil when none is set.
func (t *Table) IDs() []int64 { return t.ids }

// ID returns the identifier of row i; without an identifier column it is the
// ordinal itself.
func (t *Table) ID(i int) int64 {
	if t.ids == nil {
		return int64(i)
	}
	return t.ids[i]
}

// Row resolves an identifier to its row ordinal.
func (t *Table) Row(id int64) (int, bool) {
	if t.ids == nil {
		if id < 0 || id >= int64(t.n) {
			return 0, false
		}
		return int(id), true
	}
	i, ok := t.rowOf[id]
	return i, ok
}

// SetColumn stores a named numeric column. The slice is retained.
func (t *Table) SetColumn(name string, values []float64) error {
	if len(values) != t.n {
		return eris.Wrapf(ErrLengthMismatch, "layer: column %q has %d values for %d rows", name, len(values), t.n)
	}
	t.columns[name] = values
	return nil
}

// Column returns a named column or a *MissingFieldError.
func (t *Table) Column(name string) ([]float64, error) {
	v, ok := t.columns[name]
	if !ok {
		return nil, &MissingFieldError{Field: name}
	}
	return v, nil
}

// Columns returns the column names in sorted order.
func (t *Table) Columns() []string {
	names := lo.Keys(t.columns)
	sort.Strings(names)
	return names
}
