package column

import (
	"math"

	"github.com/ajitpratap0/columna/pkg/errors"
	stringpool "github.com/ajitpratap0/columna/pkg/strings"
)

// Duplicate returns a full, independent deep copy of the column,
// including name, unit, format and the invalid flags.
func (c *Column) Duplicate() *Column {
	out := &Column{
		name:     c.name,
		unit:     c.unit,
		format:   c.format,
		typ:      c.typ,
		saveType: c.saveType,
		length:   c.length,
		depth:    c.depth,
	}
	if c.dims != nil {
		out.dims = make([]int, len(c.dims))
		copy(out.dims, c.dims)
	}
	if c.length == 0 {
		return out
	}

	switch {
	case c.typ.IsArray():
		out.arr = make([]*Array, c.length)
		for i, a := range c.arr {
			if a != nil {
				out.arr[i] = a.Duplicate()
			}
		}
	case c.typ.Base() == String:
		out.str = make([]*string, c.length)
		for i, s := range c.str {
			if s != nil {
				owned := stringpool.Clone(*s)
				out.str[i] = &owned
			}
		}
	default:
		c.eachArm(
			func(s *[]int32) { out.i32 = resized(*s, c.length) },
			func(s *[]int) { out.lng = resized(*s, c.length) },
			func(s *[]int64) { out.i64 = resized(*s, c.length) },
			func(s *[]int) { out.sz = resized(*s, c.length) },
			func(s *[]float32) { out.f32 = resized(*s, c.length) },
			func(s *[]float64) { out.f64 = resized(*s, c.length) },
			func(s *[]complex64) { out.c64 = resized(*s, c.length) },
			func(s *[]complex128) { out.c128 = resized(*s, c.length) },
			func(s *[]*string) {},
			func(s *[]*Array) {},
		)
		out.nulls = c.nulls.dup()
	}
	return out
}

// checkCastTarget validates a cast's target and source kinds.
func (c *Column) checkCastTarget(target Type) error {
	if target.IsArray() || !target.IsNumeric() || !target.storable() {
		return errors.Newf(errors.ErrorTypeInvalidType, "cannot cast to %s", target)
	}
	if c.typ.Base() == String {
		return errors.New(errors.ErrorTypeInvalidType, "cannot cast a string column to a numeric kind")
	}
	if c.typ.IsComplex() && !target.IsComplex() {
		return errors.Newf(errors.ErrorTypeInvalidType,
			"cannot cast %s to non-complex %s", c.typ, target)
	}
	return nil
}

// castElem converts the valid element at src row i into dst row j
// using the standard conversion for the kind pair. Floating point
// narrows into integer kinds by rounding to nearest, ties away from
// zero.
func castElem(dst *Column, j int, src *Column, i int) {
	switch {
	case src.typ.IsComplex():
		dst.setFromComplex(j, src.getComplex(i))
	case src.typ.IsInteger():
		dst.setFromInt(j, src.getInt(i))
	case dst.typ.IsInteger():
		dst.setFromInt(j, int64(math.Round(src.getFloat(i))))
	default:
		dst.setFromFloat(j, src.getFloat(i))
	}
}

// Cast produces a new column of the target numeric kind. Casting a
// column to its own kind degenerates to a duplicate with the name
// cleared; casting an array column casts every row's array and
// yields an array column of the target kind. Invalid rows stay
// invalid at the destination's default value.
func (c *Column) Cast(target Type) (*Column, error) {
	if err := c.checkCastTarget(target); err != nil {
		return nil, err
	}

	if c.typ.IsArray() {
		out, err := NewArrayColumn(target, c.length, c.depth)
		if err != nil {
			return nil, err
		}
		out.unit = c.unit
		if c.dims != nil {
			out.dims = make([]int, len(c.dims))
			copy(out.dims, c.dims)
		}
		for i, a := range c.arr {
			if a == nil {
				continue
			}
			inner, err := a.Column().Cast(target)
			if err != nil {
				return nil, err
			}
			wrapped, err := NewArray(inner, c.depth)
			if err != nil {
				return nil, err
			}
			out.arr[i] = wrapped
		}
		return out, nil
	}

	if c.typ == target {
		out := c.Duplicate()
		out.name = ""
		return out, nil
	}

	out, err := New(target, c.length)
	if err != nil {
		return nil, err
	}
	out.unit = c.unit
	for i := 0; i < c.length; i++ {
		if c.nulls.isInvalid(i, c.length) {
			continue
		}
		castElem(out, i, c, i)
	}
	// same invalid positions, same count
	out.nulls = c.nulls.dup()
	return out, nil
}

// CastToArray broadcasts a scalar column to an array column of the
// target kind with depth 1: each valid row becomes a one-element
// array, each invalid row a nil handle. An array source degenerates
// to a plain Cast.
func (c *Column) CastToArray(target Type) (*Column, error) {
	if err := c.checkCastTarget(target); err != nil {
		return nil, err
	}
	if c.typ.IsArray() {
		return c.Cast(target)
	}

	out, err := NewArrayColumn(target, c.length, 1)
	if err != nil {
		return nil, err
	}
	out.unit = c.unit
	for i := 0; i < c.length; i++ {
		if c.nulls.isInvalid(i, c.length) {
			continue
		}
		inner, err := New(target, 1)
		if err != nil {
			return nil, err
		}
		castElem(inner, 0, c, i)
		inner.nulls = nullmap{}
		wrapped, err := NewArray(inner, 1)
		if err != nil {
			return nil, err
		}
		out.arr[i] = wrapped
	}
	return out, nil
}

// CastFlat flattens an array column to a scalar column of the target
// kind by extracting element 0 of each row's array; rows whose array
// is missing, empty, or invalid at element 0 stay invalid. A
// non-array source degenerates to a plain Cast.
func (c *Column) CastFlat(target Type) (*Column, error) {
	if err := c.checkCastTarget(target); err != nil {
		return nil, err
	}
	if !c.typ.IsArray() {
		return c.Cast(target)
	}

	out, err := New(target, c.length)
	if err != nil {
		return nil, err
	}
	out.unit = c.unit
	for i, a := range c.arr {
		if a == nil || a.Depth() == 0 {
			continue
		}
		inner := a.Column()
		if invalid, _ := inner.IsInvalid(0); invalid {
			continue
		}
		castElem(out, i, inner, 0)
		out.nulls.validate(i, out.length)
	}
	return out, nil
}
