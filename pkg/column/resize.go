package column

import (
	"github.com/ajitpratap0/columna/pkg/errors"
	stringpool "github.com/ajitpratap0/columna/pkg/strings"
)

// resized returns a fresh buffer of length n holding the shared
// prefix of s. Dropped string and array elements become garbage with
// the old buffer.
func resized[T any](s []T, n int) []T {
	if n == 0 {
		return nil
	}
	out := make([]T, n)
	copy(out, s)
	return out
}

// withGap returns a fresh buffer of length oldLen+count with the
// rows of s shifted to leave zero-valued rows at [start, start+count).
func withGap[T any](s []T, start, count int) []T {
	out := make([]T, len(s)+count)
	copy(out, s[:start])
	copy(out[start+count:], s[start:])
	return out
}

// withoutRange returns a fresh buffer with [start, start+count)
// removed.
func withoutRange[T any](s []T, start, count int) []T {
	if len(s)-count == 0 {
		return nil
	}
	out := make([]T, len(s)-count)
	copy(out, s[:start])
	copy(out[start:], s[start+count:])
	return out
}

// compacted returns a fresh buffer retaining only rows whose drop
// flag is false.
func compacted[T any](s []T, drop []bool, kept int) []T {
	if kept == 0 {
		return nil
	}
	out := make([]T, 0, kept)
	for i, v := range s {
		if !drop[i] {
			out = append(out, v)
		}
	}
	return out
}

// eachArm applies f to the column's storage arm through a pointer,
// one call per possible arm kind. Only the arm matching the column's
// type is non-nil.
func (c *Column) eachArm(
	fi32 func(*[]int32), flng func(*[]int), fi64 func(*[]int64), fsz func(*[]int),
	ff32 func(*[]float32), ff64 func(*[]float64),
	fc64 func(*[]complex64), fc128 func(*[]complex128),
	fstr func(*[]*string), farr func(*[]*Array),
) {
	if c.typ.IsArray() {
		farr(&c.arr)
		return
	}
	switch c.typ.Base() {
	case Int:
		fi32(&c.i32)
	case Long:
		flng(&c.lng)
	case Long64:
		fi64(&c.i64)
	case Size:
		fsz(&c.sz)
	case Float:
		ff32(&c.f32)
	case Double:
		ff64(&c.f64)
	case ComplexFloat:
		fc64(&c.c64)
	case ComplexDouble:
		fc128(&c.c128)
	case String:
		fstr(&c.str)
	}
}

// structural reports whether invalidity lives in the elements
// themselves rather than the nullmap.
func (c *Column) structural() bool {
	return c.typ.IsArray() || c.typ.Base() == String
}

// SetSize resizes the column in place. Shrinking truncates; growing
// leaves the new trailing rows invalid. Any previously borrowed
// storage slice is stale after this call. Resizing a wrapped column
// moves it onto storage the column owns.
func (c *Column) SetSize(n int) error {
	if n < 0 {
		return errors.Newf(errors.ErrorTypeIllegalInput, "negative length %d", n)
	}
	if n == c.length {
		return nil
	}

	resize := func(to int) {
		c.eachArm(
			func(s *[]int32) { *s = resized(*s, to) },
			func(s *[]int) { *s = resized(*s, to) },
			func(s *[]int64) { *s = resized(*s, to) },
			func(s *[]int) { *s = resized(*s, to) },
			func(s *[]float32) { *s = resized(*s, to) },
			func(s *[]float64) { *s = resized(*s, to) },
			func(s *[]complex64) { *s = resized(*s, to) },
			func(s *[]complex128) { *s = resized(*s, to) },
			func(s *[]*string) { *s = resized(*s, to) },
			func(s *[]*Array) { *s = resized(*s, to) },
		)
	}

	old := c.length
	resize(n)
	if !c.structural() {
		c.nulls.resize(old, n)
	}
	c.length = n
	c.foreign = false
	return nil
}

// InsertSegment opens count invalid rows at start, shifting every
// row at or after start forward. A start at or beyond the current
// length degenerates to a pure append.
func (c *Column) InsertSegment(start, count int) error {
	if start < 0 {
		return errors.Newf(errors.ErrorTypeAccessOutOfRange, "negative segment start %d", start)
	}
	if count < 0 {
		return errors.Newf(errors.ErrorTypeIllegalInput, "negative count %d", count)
	}
	if count == 0 {
		return nil
	}
	if start > c.length {
		start = c.length
	}

	old := c.length
	c.eachArm(
		func(s *[]int32) { *s = withGap(*s, start, count) },
		func(s *[]int) { *s = withGap(*s, start, count) },
		func(s *[]int64) { *s = withGap(*s, start, count) },
		func(s *[]int) { *s = withGap(*s, start, count) },
		func(s *[]float32) { *s = withGap(*s, start, count) },
		func(s *[]float64) { *s = withGap(*s, start, count) },
		func(s *[]complex64) { *s = withGap(*s, start, count) },
		func(s *[]complex128) { *s = withGap(*s, start, count) },
		func(s *[]*string) { *s = withGap(*s, start, count) },
		func(s *[]*Array) { *s = withGap(*s, start, count) },
	)
	if !c.structural() {
		c.nulls.insertGap(start, count, old)
	}
	c.length = old + count
	c.foreign = false
	return nil
}

// EraseSegment removes the rows in [start, start+count), closing the
// gap. A count reaching the column end degenerates to a truncation.
func (c *Column) EraseSegment(start, count int) error {
	if err := c.checkSegment(start, &count); err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	if start+count == c.length {
		return c.SetSize(start)
	}

	old := c.length
	c.eachArm(
		func(s *[]int32) { *s = withoutRange(*s, start, count) },
		func(s *[]int) { *s = withoutRange(*s, start, count) },
		func(s *[]int64) { *s = withoutRange(*s, start, count) },
		func(s *[]int) { *s = withoutRange(*s, start, count) },
		func(s *[]float32) { *s = withoutRange(*s, start, count) },
		func(s *[]float64) { *s = withoutRange(*s, start, count) },
		func(s *[]complex64) { *s = withoutRange(*s, start, count) },
		func(s *[]complex128) { *s = withoutRange(*s, start, count) },
		func(s *[]*string) { *s = withoutRange(*s, start, count) },
		func(s *[]*Array) { *s = withoutRange(*s, start, count) },
	)
	if !c.structural() {
		c.nulls.eraseRange(start, count, old)
	}
	c.length = old - count
	c.foreign = false
	return nil
}

// ErasePattern removes every row whose drop flag is true, in one
// linear pass. The pattern length must equal the column length.
func (c *Column) ErasePattern(drop []bool) error {
	if drop == nil {
		return errors.New(errors.ErrorTypeNullInput, "nil pattern")
	}
	if len(drop) != c.length {
		return errors.Newf(errors.ErrorTypeIncompatibleInput,
			"pattern length %d does not match column length %d", len(drop), c.length)
	}

	kept := 0
	for _, d := range drop {
		if !d {
			kept++
		}
	}
	if kept == c.length {
		return nil
	}

	if !c.structural() {
		// rebuild the invalid map over the surviving rows
		var m nullmap
		switch {
		case c.nulls.count == 0:
		case c.nulls.flags == nil:
			m.count = kept
		default:
			m.flags = compacted(c.nulls.flags, drop, kept)
			m.recount(kept)
		}
		c.nulls = m
	}
	c.eachArm(
		func(s *[]int32) { *s = compacted(*s, drop, kept) },
		func(s *[]int) { *s = compacted(*s, drop, kept) },
		func(s *[]int64) { *s = compacted(*s, drop, kept) },
		func(s *[]int) { *s = compacted(*s, drop, kept) },
		func(s *[]float32) { *s = compacted(*s, drop, kept) },
		func(s *[]float64) { *s = compacted(*s, drop, kept) },
		func(s *[]complex64) { *s = compacted(*s, drop, kept) },
		func(s *[]complex128) { *s = compacted(*s, drop, kept) },
		func(s *[]*string) { *s = compacted(*s, drop, kept) },
		func(s *[]*Array) { *s = compacted(*s, drop, kept) },
	)
	c.length = kept
	c.foreign = false
	return nil
}

// Extract returns a new, independent column holding a deep copy of
// [start, start+count), inheriting unit and format but not the name.
func (c *Column) Extract(start, count int) (*Column, error) {
	if err := c.checkSegment(start, &count); err != nil {
		return nil, err
	}

	out := &Column{
		typ:      c.typ,
		saveType: c.saveType,
		length:   count,
		depth:    c.depth,
		unit:     c.unit,
		format:   c.format,
	}
	if c.dims != nil {
		out.dims = make([]int, len(c.dims))
		copy(out.dims, c.dims)
	}
	if count == 0 {
		if !c.structural() {
			out.nulls = nullmap{}
		}
		return out, nil
	}

	switch {
	case c.typ.IsArray():
		out.arr = make([]*Array, count)
		for i := 0; i < count; i++ {
			if a := c.arr[start+i]; a != nil {
				out.arr[i] = a.Duplicate()
			}
		}
	case c.typ.Base() == String:
		out.str = make([]*string, count)
		for i := 0; i < count; i++ {
			if s := c.str[start+i]; s != nil {
				owned := stringpool.Clone(*s)
				out.str[i] = &owned
			}
		}
	default:
		c.eachArm(
			func(s *[]int32) { out.i32 = resized((*s)[start:start+count], count) },
			func(s *[]int) { out.lng = resized((*s)[start:start+count], count) },
			func(s *[]int64) { out.i64 = resized((*s)[start:start+count], count) },
			func(s *[]int) { out.sz = resized((*s)[start:start+count], count) },
			func(s *[]float32) { out.f32 = resized((*s)[start:start+count], count) },
			func(s *[]float64) { out.f64 = resized((*s)[start:start+count], count) },
			func(s *[]complex64) { out.c64 = resized((*s)[start:start+count], count) },
			func(s *[]complex128) { out.c128 = resized((*s)[start:start+count], count) },
			func(s *[]*string) {},
			func(s *[]*Array) {},
		)
		out.nulls = c.nulls.slice(start, count, c.length)
	}
	return out, nil
}

// Merge grows the column by src.Len() rows at position and deep
// copies src's elements and invalid flags into the gap. Both columns
// must share the same type, and for array kinds the same depth.
func (c *Column) Merge(src *Column, position int) error {
	if src == nil {
		return errors.New(errors.ErrorTypeNullInput, "nil source column")
	}
	if src.typ != c.typ {
		return errors.Newf(errors.ErrorTypeTypeMismatch,
			"source type %s does not match %s", src.typ, c.typ)
	}
	if c.typ.IsArray() && src.depth != c.depth {
		return errors.Newf(errors.ErrorTypeIncompatibleInput,
			"source depth %d does not match %d", src.depth, c.depth)
	}
	if position < 0 {
		return errors.Newf(errors.ErrorTypeAccessOutOfRange, "negative position %d", position)
	}
	if src.length == 0 {
		return nil
	}
	if position > c.length {
		position = c.length
	}

	if err := c.InsertSegment(position, src.length); err != nil {
		return err
	}

	switch {
	case c.typ.IsArray():
		for i := 0; i < src.length; i++ {
			if a := src.arr[i]; a != nil {
				c.arr[position+i] = a.Duplicate()
			}
		}
	case c.typ.Base() == String:
		for i := 0; i < src.length; i++ {
			if s := src.str[i]; s != nil {
				owned := stringpool.Clone(*s)
				c.str[position+i] = &owned
			}
		}
	default:
		src.eachArm(
			func(s *[]int32) { copy(c.i32[position:], *s) },
			func(s *[]int) { copy(c.lng[position:], *s) },
			func(s *[]int64) { copy(c.i64[position:], *s) },
			func(s *[]int) { copy(c.sz[position:], *s) },
			func(s *[]float32) { copy(c.f32[position:], *s) },
			func(s *[]float64) { copy(c.f64[position:], *s) },
			func(s *[]complex64) { copy(c.c64[position:], *s) },
			func(s *[]complex128) { copy(c.c128[position:], *s) },
			func(s *[]*string) {},
			func(s *[]*Array) {},
		)
		for i := 0; i < src.length; i++ {
			if !src.nulls.isInvalid(i, src.length) {
				c.nulls.validate(position+i, c.length)
			}
		}
	}
	return nil
}

// Shift moves every row by offset slots without wraparound, leaving
// the vacated boundary rows invalid. Not defined for string or array
// kinds; |offset| must be smaller than the length.
func (c *Column) Shift(offset int) error {
	if c.structural() {
		return errors.Newf(errors.ErrorTypeInvalidType, "cannot shift a %s column", c.typ)
	}
	abs := offset
	if abs < 0 {
		abs = -abs
	}
	if abs >= c.length {
		return errors.Newf(errors.ErrorTypeIllegalInput,
			"shift %d exceeds column length %d", offset, c.length)
	}
	if offset == 0 {
		return nil
	}

	wasInvalid := c.nulls.dup()
	n := c.length

	move := func(dst, src int) {
		c.eachArm(
			func(s *[]int32) { (*s)[dst] = (*s)[src] },
			func(s *[]int) { (*s)[dst] = (*s)[src] },
			func(s *[]int64) { (*s)[dst] = (*s)[src] },
			func(s *[]int) { (*s)[dst] = (*s)[src] },
			func(s *[]float32) { (*s)[dst] = (*s)[src] },
			func(s *[]float64) { (*s)[dst] = (*s)[src] },
			func(s *[]complex64) { (*s)[dst] = (*s)[src] },
			func(s *[]complex128) { (*s)[dst] = (*s)[src] },
			func(s *[]*string) {},
			func(s *[]*Array) {},
		)
	}

	var m nullmap
	m.flags = make([]bool, n)
	if offset > 0 {
		for i := n - 1; i >= offset; i-- {
			move(i, i-offset)
			m.flags[i] = wasInvalid.isInvalid(i-offset, n)
		}
		for i := 0; i < offset; i++ {
			m.flags[i] = true
		}
	} else {
		for i := 0; i < n+offset; i++ {
			move(i, i-offset)
			m.flags[i] = wasInvalid.isInvalid(i-offset, n)
		}
		for i := n + offset; i < n; i++ {
			m.flags[i] = true
		}
	}
	m.recount(n)
	c.nulls = m
	return nil
}
