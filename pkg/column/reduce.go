package column

import (
	"math"
	"sort"

	"github.com/ajitpratap0/columna/pkg/errors"
	"github.com/ajitpratap0/columna/pkg/pool"
)

// checkReduction rejects kinds and states no reduction can work on.
func (c *Column) checkReduction() error {
	if c.typ.Base() == String || c.typ.IsArray() {
		return errors.Newf(errors.ErrorTypeInvalidType, "reduction on %s column", c.typ)
	}
	if c.typ.IsComplex() {
		return errors.Newf(errors.ErrorTypeInvalidType,
			"real reduction on %s column, use the complex variant", c.typ)
	}
	if c.length == 0 || c.nulls.count == c.length {
		return errors.New(errors.ErrorTypeDataNotFound, "no valid elements")
	}
	return nil
}

// Mean returns the arithmetic mean of the valid elements.
func (c *Column) Mean() (float64, error) {
	if err := c.checkReduction(); err != nil {
		return 0, err
	}
	n := c.length
	sum := 0.0
	count := 0
	for i := 0; i < n; i++ {
		if c.nulls.isInvalid(i, n) {
			continue
		}
		sum += c.getFloat(i)
		count++
	}
	return sum / float64(count), nil
}

// MeanComplex returns the mean of the valid elements of a complex
// column.
func (c *Column) MeanComplex() (complex128, error) {
	if !c.typ.IsComplex() || c.typ.IsArray() {
		return 0, errors.Newf(errors.ErrorTypeInvalidType, "complex mean on %s column", c.typ)
	}
	if c.length == 0 || c.nulls.count == c.length {
		return 0, errors.New(errors.ErrorTypeDataNotFound, "no valid elements")
	}
	n := c.length
	sum := complex128(0)
	count := 0
	for i := 0; i < n; i++ {
		if c.nulls.isInvalid(i, n) {
			continue
		}
		sum += c.getComplex(i)
		count++
	}
	return sum / complex(float64(count), 0), nil
}

// Stdev returns the population-corrected standard deviation of the
// valid elements, computed with Welford's streaming formula so a
// single pass suffices even with interleaved invalid rows. A single
// valid element has a standard deviation of 0.
func (c *Column) Stdev() (float64, error) {
	if err := c.checkReduction(); err != nil {
		return 0, err
	}
	n := c.length
	count := 0
	mean := 0.0
	m2 := 0.0
	for i := 0; i < n; i++ {
		if c.nulls.isInvalid(i, n) {
			continue
		}
		x := c.getFloat(i)
		count++
		delta := x - mean
		mean += delta / float64(count)
		m2 += delta * (x - mean)
	}
	if count < 2 {
		return 0, nil
	}
	return math.Sqrt(m2 / float64(count-1)), nil
}

// Median returns the median of the valid elements. Even counts
// average the two central values.
func (c *Column) Median() (float64, error) {
	if err := c.checkReduction(); err != nil {
		return 0, err
	}
	n := c.length
	scratch := pool.GetFloat64Slice(n)
	defer pool.PutFloat64Slice(scratch)

	buf := *scratch
	for i := 0; i < n; i++ {
		if c.nulls.isInvalid(i, n) {
			continue
		}
		buf = append(buf, c.getFloat(i))
	}
	*scratch = buf

	sort.Float64s(buf)
	mid := len(buf) / 2
	if len(buf)%2 == 1 {
		return buf[mid], nil
	}
	return (buf[mid-1] + buf[mid]) / 2, nil
}

// extremum scans the valid elements, keeping the lowest index
// attaining the extremum selected by better.
func (c *Column) extremum(better func(candidate, best float64) bool) (float64, int, error) {
	if err := c.checkReduction(); err != nil {
		return 0, -1, err
	}
	n := c.length
	best := 0.0
	pos := -1
	for i := 0; i < n; i++ {
		if c.nulls.isInvalid(i, n) {
			continue
		}
		x := c.getFloat(i)
		if pos < 0 || better(x, best) {
			best = x
			pos = i
		}
	}
	return best, pos, nil
}

// Min returns the smallest valid element.
func (c *Column) Min() (float64, error) {
	v, _, err := c.extremum(func(candidate, best float64) bool { return candidate < best })
	return v, err
}

// Max returns the largest valid element.
func (c *Column) Max() (float64, error) {
	v, _, err := c.extremum(func(candidate, best float64) bool { return candidate > best })
	return v, err
}

// MinPos returns the lowest index attaining the minimum.
func (c *Column) MinPos() (int, error) {
	_, pos, err := c.extremum(func(candidate, best float64) bool { return candidate < best })
	return pos, err
}

// MaxPos returns the lowest index attaining the maximum.
func (c *Column) MaxPos() (int, error) {
	_, pos, err := c.extremum(func(candidate, best float64) bool { return candidate > best })
	return pos, err
}
