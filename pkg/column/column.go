package column

import (
	"github.com/ajitpratap0/columna/pkg/errors"
	stringpool "github.com/ajitpratap0/columna/pkg/strings"
)

// Column is a homogeneous, resizable, null-aware vector plus display
// metadata. Exactly one storage arm is in use, selected by the type
// at construction and never changed afterwards.
//
// A Column is an exclusively-owned value: one owner at a time holds
// the storage, and mutation is only safe with exclusive access.
type Column struct {
	name   string
	unit   string
	format string

	typ      Type
	saveType Type
	length   int

	// depth is the per-row element count of nested-array columns,
	// 0 for every other kind.
	depth int
	// dims, when present, has at least two axes and its product
	// equals depth. Absent means 1-D of size depth.
	dims []int

	// foreign marks storage adopted from the caller through a Wrap
	// constructor. The column does not own a foreign buffer.
	foreign bool

	// Storage arms. Exactly one is non-nil for a non-empty column.
	i32  []int32
	lng  []int
	i64  []int64
	sz   []int
	f32  []float32
	f64  []float64
	c64  []complex64
	c128 []complex128
	str  []*string
	arr  []*Array

	// nulls tracks invalidity for the fixed-width kinds. String and
	// array columns represent invalidity as a nil element instead.
	nulls nullmap
}

// New creates a column of a storage kind with the given length. All
// elements start invalid. A zero length is legal and allocates no
// storage; a negative length is an error. Array kinds need
// NewArrayColumn.
func New(typ Type, length int) (*Column, error) {
	if typ.IsArray() {
		return nil, errors.New(errors.ErrorTypeInvalidType,
			"array kinds require NewArrayColumn")
	}
	if !typ.storable() {
		return nil, errors.Newf(errors.ErrorTypeInvalidType, "type %s is not a storage kind", typ)
	}
	if length < 0 {
		return nil, errors.Newf(errors.ErrorTypeIllegalInput, "negative length %d", length)
	}

	c := &Column{
		typ:      typ,
		saveType: typ,
		length:   length,
		format:   defaultFormat(typ),
	}
	c.alloc(length)
	if typ != String {
		c.nulls.count = length
	}
	return c, nil
}

// NewArrayColumn creates a nested-array column whose rows each hold
// an array of depth elements of the given base kind. All rows start
// invalid (nil handles).
func NewArrayColumn(elem Type, length, depth int) (*Column, error) {
	if elem.IsArray() {
		return nil, errors.New(errors.ErrorTypeInvalidType, "array of arrays is not supported")
	}
	if !elem.storable() {
		return nil, errors.Newf(errors.ErrorTypeInvalidType, "type %s is not a storage kind", elem)
	}
	if length < 0 {
		return nil, errors.Newf(errors.ErrorTypeIllegalInput, "negative length %d", length)
	}
	if depth < 0 {
		return nil, errors.Newf(errors.ErrorTypeIllegalInput, "negative depth %d", depth)
	}

	c := &Column{
		typ:      elem | ArrayOf,
		saveType: elem | ArrayOf,
		length:   length,
		depth:    depth,
		format:   defaultFormat(elem),
	}
	if length > 0 {
		c.arr = make([]*Array, length)
	}
	return c, nil
}

// alloc allocates the storage arm for the column's type. Fixed-width
// kinds are zero-initialized; together with the all-invalid nullmap
// this yields zeros that are marked meaningless.
func (c *Column) alloc(length int) {
	if length == 0 {
		return
	}
	if c.typ.IsArray() {
		c.arr = make([]*Array, length)
		return
	}
	switch c.typ.Base() {
	case Int:
		c.i32 = make([]int32, length)
	case Long:
		c.lng = make([]int, length)
	case Long64:
		c.i64 = make([]int64, length)
	case Size:
		c.sz = make([]int, length)
	case Float:
		c.f32 = make([]float32, length)
	case Double:
		c.f64 = make([]float64, length)
	case ComplexFloat:
		c.c64 = make([]complex64, length)
	case ComplexDouble:
		c.c128 = make([]complex128, length)
	case String:
		c.str = make([]*string, length)
	}
}

// Type returns the column's logical element kind.
func (c *Column) Type() Type { return c.typ }

// Len returns the element count.
func (c *Column) Len() int { return c.length }

// Depth returns the per-row array size, 0 for non-array columns.
func (c *Column) Depth() int { return c.depth }

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// SetName sets the column name.
func (c *Column) SetName(name string) { c.name = name }

// Unit returns the unit string.
func (c *Column) Unit() string { return c.unit }

// SetUnit sets the unit string.
func (c *Column) SetUnit(unit string) { c.unit = unit }

// Format returns the display format.
func (c *Column) Format() string { return c.format }

// SetFormat sets the display format. It has no semantic effect on
// storage.
func (c *Column) SetFormat(format string) { c.format = format }

// Dimensions returns the per-axis sizes of a multi-dimensional array
// column, or nil when the column is 1-D of size Depth. The caller
// borrows the slice.
func (c *Column) Dimensions() []int { return c.dims }

// SetDimensions declares per-axis sizes for an array column. At
// least two axes are required and their product must equal the
// depth.
func (c *Column) SetDimensions(dims []int) error {
	if !c.typ.IsArray() {
		return errors.Newf(errors.ErrorTypeInvalidType, "type %s has no dimensions", c.typ)
	}
	if len(dims) < 2 {
		return errors.Newf(errors.ErrorTypeIllegalInput, "need at least 2 axes, got %d", len(dims))
	}
	product := 1
	for _, d := range dims {
		if d <= 0 {
			return errors.Newf(errors.ErrorTypeIllegalInput, "non-positive axis size %d", d)
		}
		product *= d
	}
	if product != c.depth {
		return errors.Newf(errors.ErrorTypeIncompatibleInput,
			"axis product %d does not match depth %d", product, c.depth)
	}
	c.dims = make([]int, len(dims))
	copy(c.dims, dims)
	return nil
}

// SaveType returns the type the column is serialized as.
func (c *Column) SaveType() Type { return c.saveType }

// SetSaveType declares the narrower type used by serializers. The
// request is validated against the per-type legal-downcast table;
// storage is never altered.
func (c *Column) SetSaveType(t Type) error {
	if c.typ.IsArray() != t.IsArray() {
		return errors.Newf(errors.ErrorTypeIllegalInput,
			"cannot save %s as %s", c.typ, t)
	}
	for _, legal := range saveTypes[c.typ.Base()] {
		if t.Base() == legal {
			c.saveType = t
			return nil
		}
	}
	return errors.Newf(errors.ErrorTypeIllegalInput, "cannot save %s as %s", c.typ, t)
}

// checkRow validates a row index.
func (c *Column) checkRow(i int) error {
	if i < 0 || i >= c.length {
		return errors.Newf(errors.ErrorTypeAccessOutOfRange,
			"row %d outside [0, %d)", i, c.length)
	}
	return nil
}

// checkSegment validates a [start, start+count) row range, clipping
// count against the column end.
func (c *Column) checkSegment(start int, count *int) error {
	if start < 0 || start >= c.length {
		return errors.Newf(errors.ErrorTypeAccessOutOfRange,
			"segment start %d outside [0, %d)", start, c.length)
	}
	if *count < 0 {
		return errors.Newf(errors.ErrorTypeIllegalInput, "negative count %d", *count)
	}
	if start+*count > c.length {
		*count = c.length - start
	}
	return nil
}

// IsInvalid reports whether row i holds no interpretable value.
func (c *Column) IsInvalid(i int) (bool, error) {
	if err := c.checkRow(i); err != nil {
		return false, err
	}
	switch c.typ.Base() {
	case String:
		if c.typ.IsArray() {
			return c.arr[i] == nil, nil
		}
		return c.str[i] == nil, nil
	default:
		if c.typ.IsArray() {
			return c.arr[i] == nil, nil
		}
		return c.nulls.isInvalid(i, c.length), nil
	}
}

// SetInvalid marks row i invalid. For string and array columns the
// element itself is released.
func (c *Column) SetInvalid(i int) error {
	if err := c.checkRow(i); err != nil {
		return err
	}
	switch {
	case c.typ.IsArray():
		c.arr[i] = nil
	case c.typ.Base() == String:
		c.str[i] = nil
	default:
		c.nulls.invalidate(i, c.length)
	}
	return nil
}

// SetInvalidSegment marks [start, start+count) invalid.
func (c *Column) SetInvalidSegment(start, count int) error {
	if err := c.checkSegment(start, &count); err != nil {
		return err
	}
	switch {
	case c.typ.IsArray():
		for i := start; i < start+count; i++ {
			c.arr[i] = nil
		}
	case c.typ.Base() == String:
		for i := start; i < start+count; i++ {
			c.str[i] = nil
		}
	default:
		c.nulls.invalidateRange(start, count, c.length)
	}
	return nil
}

// SetValidSegment marks [start, start+count) valid without writing
// values; the underlying zeros become interpretable. String and array
// columns cannot be validated without a value.
func (c *Column) SetValidSegment(start, count int) error {
	if c.structural() {
		return errors.Newf(errors.ErrorTypeInvalidType,
			"cannot mark %s rows valid without a value", c.typ)
	}
	if err := c.checkSegment(start, &count); err != nil {
		return err
	}
	c.nulls.validateRange(start, count, c.length)
	return nil
}

// CountInvalid returns the number of invalid rows. String and array
// columns recompute by scanning for nil entries; fixed-width kinds
// return the cached counter.
func (c *Column) CountInvalid() int {
	switch {
	case c.typ.IsArray():
		n := 0
		for _, a := range c.arr {
			if a == nil {
				n++
			}
		}
		return n
	case c.typ.Base() == String:
		n := 0
		for _, s := range c.str {
			if s == nil {
				n++
			}
		}
		return n
	default:
		return c.nulls.count
	}
}

// HasInvalid reports whether any row is invalid.
func (c *Column) HasInvalid() bool {
	return c.CountInvalid() > 0
}

// Recount forces a rescan of the invalid flags. Required after bulk
// edits through a borrowed storage slice bypass the normal setters.
func (c *Column) Recount() {
	c.nulls.recount(c.length)
}

// GetString returns the value at row i of a string column. ok is
// false for an invalid row.
func (c *Column) GetString(i int) (value string, ok bool, err error) {
	if c.typ != String {
		return "", false, errors.Newf(errors.ErrorTypeTypeMismatch, "column type is %s, not string", c.typ)
	}
	if err := c.checkRow(i); err != nil {
		return "", false, err
	}
	if c.str[i] == nil {
		return "", false, nil
	}
	return *c.str[i], true, nil
}

// SetString stores a copy of value at row i of a string column and
// marks the row valid.
func (c *Column) SetString(i int, value string) error {
	if c.typ != String {
		return errors.Newf(errors.ErrorTypeTypeMismatch, "column type is %s, not string", c.typ)
	}
	if err := c.checkRow(i); err != nil {
		return err
	}
	owned := stringpool.Clone(value)
	c.str[i] = &owned
	return nil
}

// GetArray returns the array handle at row i, or nil for an invalid
// row. The caller borrows the handle; the column keeps ownership.
func (c *Column) GetArray(i int) (*Array, error) {
	if !c.typ.IsArray() {
		return nil, errors.Newf(errors.ErrorTypeTypeMismatch, "column type is %s, not an array kind", c.typ)
	}
	if err := c.checkRow(i); err != nil {
		return nil, err
	}
	return c.arr[i], nil
}

// SetArray stores an array handle at row i, taking ownership. The
// handle's element kind and depth must match the column's.
func (c *Column) SetArray(i int, a *Array) error {
	if !c.typ.IsArray() {
		return errors.Newf(errors.ErrorTypeTypeMismatch, "column type is %s, not an array kind", c.typ)
	}
	if err := c.checkRow(i); err != nil {
		return err
	}
	if a == nil {
		c.arr[i] = nil
		return nil
	}
	if a.Type() != c.typ.Base() {
		return errors.Newf(errors.ErrorTypeTypeMismatch,
			"array element type %s does not match column %s", a.Type(), c.typ)
	}
	if a.Depth() != c.depth {
		return errors.Newf(errors.ErrorTypeIncompatibleInput,
			"array depth %d does not match column depth %d", a.Depth(), c.depth)
	}
	c.arr[i] = a
	return nil
}

// FormatValue renders row i through the column's display format.
// Invalid rows render as "-".
func (c *Column) FormatValue(i int) (string, error) {
	if err := c.checkRow(i); err != nil {
		return "", err
	}
	invalid, _ := c.IsInvalid(i)
	if invalid {
		return "-", nil
	}
	switch {
	case c.typ.IsArray():
		return stringpool.Sprintf("<%s array of %d>", c.typ.Base(), c.depth), nil
	case c.typ == String:
		return stringpool.Sprintf(c.format, *c.str[i]), nil
	case c.typ.IsComplex():
		v := c.getComplex(i)
		return stringpool.Concat(
			"(", stringpool.Sprintf(c.format, real(v)),
			",", stringpool.Sprintf(c.format, imag(v)), ")"), nil
	case c.typ.IsInteger():
		return stringpool.Sprintf(c.format, c.getInt(i)), nil
	default:
		return stringpool.Sprintf(c.format, c.getFloat(i)), nil
	}
}
