package layer

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// Field is an attribute source: either a named column of the table being
// analysed or an inline slice aligned with its rows. The set of
// implementations is closed.
type Field interface {
	// Resolve returns one value per row of t.
	Resolve(t *Table) ([]float64, error)
	fmt.Stringer
	field()
}

// Column refers to a named column.
func Column(name string) Field { return column(name) }

// Values supplies precomputed values aligned by row ordinal.
func Values(v []float64) Field { return values(v) }

type column string

func (c column) Resolve(t *Table) ([]float64, error) { return t.Column(string(c)) }
func (c column) String() string                      { return string(c) }
func (column) field()                                {}

type values []float64

func (v values) Resolve(t *Table) ([]float64, error) {
	if len(v) != t.Len() {
		return nil, eris.Wrapf(ErrLengthMismatch, "layer: %d inline values for %d rows", len(v), t.Len())
	}
	return v, nil
}
func (v values) String() string { return fmt.Sprintf("values[%d]", len(v)) }
func (values) field()           {}

// ResolveOr resolves f, or falls back to def when f is nil.
func ResolveOr(f Field, t *Table, def func() []float64) ([]float64, error) {
	if f == nil {
		return def(), nil
	}
	return f.Resolve(t)
}
