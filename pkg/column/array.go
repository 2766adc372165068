package column

import "github.com/ajitpratap0/columna/pkg/errors"

// Array is the per-row value of a nested-array column: an opaque
// handle over a backing Column whose length equals the declared
// depth. The handle does not point back at the column that owns it;
// ownership resolution always goes through the owning column.
type Array struct {
	col   *Column
	depth int
}

// NewArray wraps a column into an array handle with the declared
// depth. The backing column's length must equal the depth.
func NewArray(col *Column, depth int) (*Array, error) {
	if col == nil {
		return nil, errors.New(errors.ErrorTypeNullInput, "nil backing column")
	}
	if depth < 0 {
		return nil, errors.Newf(errors.ErrorTypeIllegalInput, "negative depth %d", depth)
	}
	if col.Len() != depth {
		return nil, errors.Newf(errors.ErrorTypeIncompatibleInput,
			"backing column length %d does not match depth %d", col.Len(), depth)
	}
	if col.Type().IsArray() {
		return nil, errors.New(errors.ErrorTypeInvalidType, "array of arrays is not supported")
	}
	return &Array{col: col, depth: depth}, nil
}

// Column returns the backing column. The caller borrows it; the
// handle keeps ownership.
func (a *Array) Column() *Column {
	return a.col
}

// Depth returns the declared element count.
func (a *Array) Depth() int {
	return a.depth
}

// Type returns the element kind of the backing column.
func (a *Array) Type() Type {
	return a.col.Type()
}

// Duplicate returns an independent deep copy of the handle and its
// backing column.
func (a *Array) Duplicate() *Array {
	return &Array{col: a.col.Duplicate(), depth: a.depth}
}
