package column

import (
	"github.com/ajitpratap0/columna/pkg/errors"
)

// Value constrains the fixed-width element types a column can store.
type Value interface {
	~int32 | ~int | ~int64 | ~float32 | ~float64 | ~complex64 | ~complex128
}

// Get returns the value at row i converted to T. ok is false for an
// invalid row; the returned value is then unspecified. Reading a
// complex column through a non-complex T is a type error.
func Get[T Value](c *Column, i int) (value T, ok bool, err error) {
	var zero T
	if c == nil {
		return zero, false, errors.New(errors.ErrorTypeNullInput, "nil column")
	}
	if err := c.checkRow(i); err != nil {
		return zero, false, err
	}
	if !c.typ.IsNumeric() || c.typ.IsArray() {
		return zero, false, errors.Newf(errors.ErrorTypeInvalidType,
			"cannot read %s elements as a number", c.typ)
	}
	if c.typ.IsComplex() && !isComplexTarget[T]() {
		return zero, false, errors.Newf(errors.ErrorTypeTypeMismatch,
			"%s elements require a complex target", c.typ)
	}
	if c.nulls.isInvalid(i, c.length) {
		return zero, false, nil
	}
	if c.typ.IsComplex() {
		return fromComplex[T](c.getComplex(i)), true, nil
	}
	if c.typ.IsInteger() {
		return fromInt[T](c.getInt(i)), true, nil
	}
	return fromFloat[T](c.getFloat(i)), true, nil
}

// Set stores v at row i, narrowing with the standard conversion for
// the column's kind, and marks the row valid. Storing a complex
// value into a non-complex column is a type error.
func Set[T Value](c *Column, i int, v T) error {
	if c == nil {
		return errors.New(errors.ErrorTypeNullInput, "nil column")
	}
	if err := c.checkRow(i); err != nil {
		return err
	}
	if !c.typ.IsNumeric() || c.typ.IsArray() {
		return errors.Newf(errors.ErrorTypeInvalidType, "cannot store a number in a %s column", c.typ)
	}
	switch vv := any(v).(type) {
	case complex64:
		if !c.typ.IsComplex() {
			return errors.Newf(errors.ErrorTypeTypeMismatch,
				"cannot store a complex value in a %s column", c.typ)
		}
		c.setFromComplex(i, complex128(vv))
	case complex128:
		if !c.typ.IsComplex() {
			return errors.Newf(errors.ErrorTypeTypeMismatch,
				"cannot store a complex value in a %s column", c.typ)
		}
		c.setFromComplex(i, vv)
	case float32:
		c.setFromFloat(i, float64(vv))
	case float64:
		c.setFromFloat(i, vv)
	case int32:
		c.setFromInt(i, int64(vv))
	case int:
		c.setFromInt(i, int64(vv))
	case int64:
		c.setFromInt(i, vv)
	}
	c.nulls.validate(i, c.length)
	return nil
}

// Fill stores v in every row of [start, start+count), marking them
// valid. The count is clipped against the column end.
func Fill[T Value](c *Column, start, count int, v T) error {
	if c == nil {
		return errors.New(errors.ErrorTypeNullInput, "nil column")
	}
	if err := c.checkSegment(start, &count); err != nil {
		return err
	}
	for i := start; i < start+count; i++ {
		if err := Set(c, i, v); err != nil {
			return err
		}
	}
	return nil
}

// isComplexTarget reports whether T is a complex type.
func isComplexTarget[T Value]() bool {
	var zero T
	switch any(zero).(type) {
	case complex64, complex128:
		return true
	}
	return false
}

func fromInt[T Value](v int64) T {
	var out T
	switch p := any(&out).(type) {
	case *int32:
		*p = int32(v)
	case *int:
		*p = int(v)
	case *int64:
		*p = v
	case *float32:
		*p = float32(v)
	case *float64:
		*p = float64(v)
	case *complex64:
		*p = complex(float32(v), 0)
	case *complex128:
		*p = complex(float64(v), 0)
	}
	return out
}

func fromFloat[T Value](v float64) T {
	var out T
	switch p := any(&out).(type) {
	case *int32:
		*p = int32(v)
	case *int:
		*p = int(v)
	case *int64:
		*p = int64(v)
	case *float32:
		*p = float32(v)
	case *float64:
		*p = v
	case *complex64:
		*p = complex(float32(v), 0)
	case *complex128:
		*p = complex(v, 0)
	}
	return out
}

func fromComplex[T Value](v complex128) T {
	var out T
	switch p := any(&out).(type) {
	case *complex64:
		*p = complex64(v)
	case *complex128:
		*p = v
	}
	return out
}

// getInt reads row i of an integer column as int64.
func (c *Column) getInt(i int) int64 {
	switch c.typ.Base() {
	case Int:
		return int64(c.i32[i])
	case Long:
		return int64(c.lng[i])
	case Long64:
		return c.i64[i]
	case Size:
		return int64(c.sz[i])
	}
	return 0
}

// getFloat reads row i of a non-complex numeric column as float64.
func (c *Column) getFloat(i int) float64 {
	switch c.typ.Base() {
	case Int:
		return float64(c.i32[i])
	case Long:
		return float64(c.lng[i])
	case Long64:
		return float64(c.i64[i])
	case Size:
		return float64(c.sz[i])
	case Float:
		return float64(c.f32[i])
	case Double:
		return c.f64[i]
	}
	return 0
}

// getComplex reads row i of a numeric column as complex128.
func (c *Column) getComplex(i int) complex128 {
	switch c.typ.Base() {
	case ComplexFloat:
		return complex128(c.c64[i])
	case ComplexDouble:
		return c.c128[i]
	default:
		return complex(c.getFloat(i), 0)
	}
}

// setFromInt stores an int64 at row i with the standard narrowing
// conversion for the column's kind.
func (c *Column) setFromInt(i int, v int64) {
	switch c.typ.Base() {
	case Int:
		c.i32[i] = int32(v)
	case Long:
		c.lng[i] = int(v)
	case Long64:
		c.i64[i] = v
	case Size:
		c.sz[i] = int(v)
	case Float:
		c.f32[i] = float32(v)
	case Double:
		c.f64[i] = float64(v)
	case ComplexFloat:
		c.c64[i] = complex(float32(v), 0)
	case ComplexDouble:
		c.c128[i] = complex(float64(v), 0)
	}
}

// setFromFloat stores a float64 at row i. Integer kinds truncate
// toward zero, matching the standard conversion.
func (c *Column) setFromFloat(i int, v float64) {
	switch c.typ.Base() {
	case Int:
		c.i32[i] = int32(v)
	case Long:
		c.lng[i] = int(v)
	case Long64:
		c.i64[i] = int64(v)
	case Size:
		c.sz[i] = int(v)
	case Float:
		c.f32[i] = float32(v)
	case Double:
		c.f64[i] = v
	case ComplexFloat:
		c.c64[i] = complex(float32(v), 0)
	case ComplexDouble:
		c.c128[i] = complex(v, 0)
	}
}

// setFromComplex stores a complex128 at row i of a complex column.
func (c *Column) setFromComplex(i int, v complex128) {
	switch c.typ.Base() {
	case ComplexFloat:
		c.c64[i] = complex64(v)
	case ComplexDouble:
		c.c128[i] = v
	}
}

// wrap builds a column over caller-supplied storage. The storage is
// adopted as-is, treated as all valid, and never reallocated until
// the first resizing call, at which point the column takes over with
// its own buffer.
func wrap(typ Type, length int) (*Column, error) {
	if length <= 0 {
		return nil, errors.Newf(errors.ErrorTypeIllegalInput,
			"wrapped storage needs positive length, got %d", length)
	}
	return &Column{
		typ:      typ,
		saveType: typ,
		length:   length,
		format:   defaultFormat(typ),
		foreign:  true,
	}, nil
}

// WrapInt32 adopts data as an Int column. The caller must not use
// the slice afterwards except through Unwrap.
func WrapInt32(data []int32) (*Column, error) {
	c, err := wrap(Int, len(data))
	if err != nil {
		return nil, err
	}
	c.i32 = data
	return c, nil
}

// WrapLong adopts data as a Long column.
func WrapLong(data []int) (*Column, error) {
	c, err := wrap(Long, len(data))
	if err != nil {
		return nil, err
	}
	c.lng = data
	return c, nil
}

// WrapLong64 adopts data as a Long64 column.
func WrapLong64(data []int64) (*Column, error) {
	c, err := wrap(Long64, len(data))
	if err != nil {
		return nil, err
	}
	c.i64 = data
	return c, nil
}

// WrapSize adopts data as a Size column.
func WrapSize(data []int) (*Column, error) {
	c, err := wrap(Size, len(data))
	if err != nil {
		return nil, err
	}
	c.sz = data
	return c, nil
}

// WrapFloat adopts data as a Float column.
func WrapFloat(data []float32) (*Column, error) {
	c, err := wrap(Float, len(data))
	if err != nil {
		return nil, err
	}
	c.f32 = data
	return c, nil
}

// WrapDouble adopts data as a Double column.
func WrapDouble(data []float64) (*Column, error) {
	c, err := wrap(Double, len(data))
	if err != nil {
		return nil, err
	}
	c.f64 = data
	return c, nil
}

// WrapComplexFloat adopts data as a ComplexFloat column.
func WrapComplexFloat(data []complex64) (*Column, error) {
	c, err := wrap(ComplexFloat, len(data))
	if err != nil {
		return nil, err
	}
	c.c64 = data
	return c, nil
}

// WrapComplexDouble adopts data as a ComplexDouble column.
func WrapComplexDouble(data []complex128) (*Column, error) {
	c, err := wrap(ComplexDouble, len(data))
	if err != nil {
		return nil, err
	}
	c.c128 = data
	return c, nil
}

// WrapStrings adopts data as a String column. Nil entries are
// invalid rows; the strings themselves are adopted, not copied.
func WrapStrings(data []*string) (*Column, error) {
	c, err := wrap(String, len(data))
	if err != nil {
		return nil, err
	}
	c.str = data
	return c, nil
}

// Unwrap returns ownership of the storage arm to the caller and
// empties the column without touching the elements: strings and
// nested arrays stay alive inside the returned slice. The concrete
// type is the slice matching the column's kind ([]int32, []float64,
// []*string, []*Array, ...), or nil for an empty column.
func (c *Column) Unwrap() interface{} {
	var out interface{}
	switch {
	case c.typ.IsArray():
		if c.arr != nil {
			out = c.arr
		}
	case c.typ.Base() == String:
		if c.str != nil {
			out = c.str
		}
	case c.i32 != nil:
		out = c.i32
	case c.lng != nil:
		out = c.lng
	case c.i64 != nil:
		out = c.i64
	case c.sz != nil:
		out = c.sz
	case c.f32 != nil:
		out = c.f32
	case c.f64 != nil:
		out = c.f64
	case c.c64 != nil:
		out = c.c64
	case c.c128 != nil:
		out = c.c128
	}
	c.i32, c.lng, c.i64, c.sz = nil, nil, nil, nil
	c.f32, c.f64, c.c64, c.c128 = nil, nil, nil, nil
	c.str, c.arr = nil, nil
	c.length = 0
	c.foreign = false
	c.nulls = nullmap{}
	return out
}

func (c *Column) armError(want Type) error {
	return errors.Newf(errors.ErrorTypeTypeMismatch, "column type is %s, not %s", c.typ, want)
}

// Int32s borrows the storage of an Int column. The borrow is valid
// only until the next mutating call; edits through it bypass the
// invalid bookkeeping, so finish with Recount.
func (c *Column) Int32s() ([]int32, error) {
	if c.typ != Int {
		return nil, c.armError(Int)
	}
	return c.i32, nil
}

// Longs borrows the storage of a Long column.
func (c *Column) Longs() ([]int, error) {
	if c.typ != Long {
		return nil, c.armError(Long)
	}
	return c.lng, nil
}

// Long64s borrows the storage of a Long64 column.
func (c *Column) Long64s() ([]int64, error) {
	if c.typ != Long64 {
		return nil, c.armError(Long64)
	}
	return c.i64, nil
}

// Sizes borrows the storage of a Size column.
func (c *Column) Sizes() ([]int, error) {
	if c.typ != Size {
		return nil, c.armError(Size)
	}
	return c.sz, nil
}

// Floats borrows the storage of a Float column.
func (c *Column) Floats() ([]float32, error) {
	if c.typ != Float {
		return nil, c.armError(Float)
	}
	return c.f32, nil
}

// Doubles borrows the storage of a Double column.
func (c *Column) Doubles() ([]float64, error) {
	if c.typ != Double {
		return nil, c.armError(Double)
	}
	return c.f64, nil
}

// ComplexFloats borrows the storage of a ComplexFloat column.
func (c *Column) ComplexFloats() ([]complex64, error) {
	if c.typ != ComplexFloat {
		return nil, c.armError(ComplexFloat)
	}
	return c.c64, nil
}

// ComplexDoubles borrows the storage of a ComplexDouble column.
func (c *Column) ComplexDoubles() ([]complex128, error) {
	if c.typ != ComplexDouble {
		return nil, c.armError(ComplexDouble)
	}
	return c.c128, nil
}

// Strings borrows the storage of a String column. Nil entries are
// invalid rows.
func (c *Column) Strings() ([]*string, error) {
	if c.typ != String {
		return nil, c.armError(String)
	}
	return c.str, nil
}

// Arrays borrows the storage of an array column. Nil entries are
// invalid rows.
func (c *Column) Arrays() ([]*Array, error) {
	if !c.typ.IsArray() {
		return nil, errors.Newf(errors.ErrorTypeTypeMismatch, "column type is %s, not an array kind", c.typ)
	}
	return c.arr, nil
}
