package column

import (
	"math"
	"math/cmplx"

	"github.com/ajitpratap0/columna/pkg/errors"
)

// checkNumericKernel rejects kinds the in-place math kernels cannot
// operate on.
func (c *Column) checkNumericKernel() error {
	if !c.typ.IsNumeric() || c.typ.IsArray() {
		return errors.Newf(errors.ErrorTypeInvalidType, "math kernel on %s column", c.typ)
	}
	return nil
}

func (c *Column) checkComplexKernel() error {
	if !c.typ.IsComplex() || c.typ.IsArray() {
		return errors.Newf(errors.ErrorTypeInvalidType, "complex kernel on %s column", c.typ)
	}
	return nil
}

// badFloat reports a value no finite computation should have
// produced: an overflow or domain error surfaced by the math
// primitive.
func badFloat(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

func badComplex(v complex128) bool {
	return badFloat(real(v)) || badFloat(imag(v))
}

// mapFloat applies f to every valid row. f reports ok=false to
// convert a domain error into marking that row invalid.
func (c *Column) mapFloat(f func(float64) (float64, bool)) {
	n := c.length
	for i := 0; i < n; i++ {
		if c.nulls.isInvalid(i, n) {
			continue
		}
		v, ok := f(c.getFloat(i))
		if !ok || badFloat(v) {
			c.nulls.invalidate(i, n)
			continue
		}
		c.setFromFloat(i, v)
	}
}

// mapComplex is the complex counterpart of mapFloat.
func (c *Column) mapComplex(f func(complex128) (complex128, bool)) {
	n := c.length
	for i := 0; i < n; i++ {
		if c.nulls.isInvalid(i, n) {
			continue
		}
		v, ok := f(c.getComplex(i))
		if !ok || badComplex(v) {
			c.nulls.invalidate(i, n)
			continue
		}
		c.setFromComplex(i, v)
	}
}

// Power raises every valid element to the given exponent, in place.
// Exponents of exactly 0.5 and -0.5 use a dedicated square-root
// path. Domain errors (negative base with fractional exponent, zero
// base with negative exponent, overflow) invalidate the row.
func (c *Column) Power(exponent float64) error {
	if err := c.checkNumericKernel(); err != nil {
		return err
	}

	if c.typ.IsComplex() {
		c.mapComplex(func(z complex128) (complex128, bool) {
			switch {
			case exponent == 0.5:
				return cmplx.Sqrt(z), true
			case exponent == -0.5:
				if z == 0 {
					return 0, false
				}
				return 1 / cmplx.Sqrt(z), true
			default:
				if z == 0 && exponent < 0 {
					return 0, false
				}
				return cmplx.Pow(z, complex(exponent, 0)), true
			}
		})
		return nil
	}

	c.mapFloat(func(x float64) (float64, bool) {
		switch {
		case exponent == 0.5:
			if x < 0 {
				return 0, false
			}
			return math.Sqrt(x), true
		case exponent == -0.5:
			if x <= 0 {
				return 0, false
			}
			return 1 / math.Sqrt(x), true
		default:
			if x == 0 && exponent < 0 {
				return 0, false
			}
			if x < 0 && exponent != math.Trunc(exponent) {
				return 0, false
			}
			return math.Pow(x, exponent), true
		}
	})
	return nil
}

// PowerComplex raises every valid element of a complex column to a
// complex exponent, in place. Exponents of exactly 0.5 and -0.5 use
// the square-root path.
func (c *Column) PowerComplex(exponent complex128) error {
	if err := c.checkComplexKernel(); err != nil {
		return err
	}
	c.mapComplex(func(z complex128) (complex128, bool) {
		switch {
		case exponent == 0.5:
			return cmplx.Sqrt(z), true
		case exponent == -0.5:
			if z == 0 {
				return 0, false
			}
			return 1 / cmplx.Sqrt(z), true
		default:
			if z == 0 && real(exponent) < 0 {
				return 0, false
			}
			return cmplx.Pow(z, exponent), true
		}
	})
	return nil
}

// Exponential replaces every valid element x with base**x, in place.
// The base must be positive.
func (c *Column) Exponential(base float64) error {
	if err := c.checkNumericKernel(); err != nil {
		return err
	}
	if base <= 0 {
		return errors.Newf(errors.ErrorTypeIllegalInput, "non-positive base %g", base)
	}
	if c.typ.IsComplex() {
		c.mapComplex(func(z complex128) (complex128, bool) {
			return cmplx.Pow(complex(base, 0), z), true
		})
		return nil
	}
	c.mapFloat(func(x float64) (float64, bool) {
		return math.Pow(base, x), true
	})
	return nil
}

// Logarithm replaces every valid element with its logarithm in the
// given base, in place. The base must be positive and not 1; a
// non-positive element invalidates its row rather than failing the
// call.
func (c *Column) Logarithm(base float64) error {
	if err := c.checkNumericKernel(); err != nil {
		return err
	}
	if base <= 0 || base == 1 {
		return errors.Newf(errors.ErrorTypeIllegalInput, "illegal logarithm base %g", base)
	}
	logBase := math.Log(base)
	if c.typ.IsComplex() {
		c.mapComplex(func(z complex128) (complex128, bool) {
			if z == 0 {
				return 0, false
			}
			return cmplx.Log(z) / complex(logBase, 0), true
		})
		return nil
	}
	c.mapFloat(func(x float64) (float64, bool) {
		if x <= 0 {
			return 0, false
		}
		return math.Log(x) / logBase, true
	})
	return nil
}

// Absolute replaces every valid element with its absolute value, in
// place. Complex columns use AbsoluteComplex instead.
func (c *Column) Absolute() error {
	if err := c.checkNumericKernel(); err != nil {
		return err
	}
	if c.typ.IsComplex() {
		return errors.Newf(errors.ErrorTypeInvalidType,
			"in-place absolute on %s column, use AbsoluteComplex", c.typ)
	}
	n := c.length
	if c.typ.IsInteger() {
		for i := 0; i < n; i++ {
			if c.nulls.isInvalid(i, n) {
				continue
			}
			if v := c.getInt(i); v < 0 {
				c.setFromInt(i, -v)
			}
		}
		return nil
	}
	c.mapFloat(func(x float64) (float64, bool) {
		return math.Abs(x), true
	})
	return nil
}

// newDerived allocates the real-valued column the complex projection
// kernels write into: Float for a ComplexFloat source, Double for a
// ComplexDouble source, with the source's invalid flags carried
// over.
func (c *Column) newDerived() *Column {
	target := Float
	if c.typ == ComplexDouble {
		target = Double
	}
	out, _ := New(target, c.length)
	out.unit = c.unit
	out.nulls = c.nulls.dup()
	return out
}

// project builds a new real column by applying f to every valid
// element of a complex column.
func (c *Column) project(f func(complex128) float64) (*Column, error) {
	if err := c.checkComplexKernel(); err != nil {
		return nil, err
	}
	out := c.newDerived()
	n := c.length
	for i := 0; i < n; i++ {
		if c.nulls.isInvalid(i, n) {
			continue
		}
		out.setFromFloat(i, f(c.getComplex(i)))
	}
	return out, nil
}

// AbsoluteComplex returns a new real column holding the modulus of
// every element.
func (c *Column) AbsoluteComplex() (*Column, error) {
	return c.project(cmplx.Abs)
}

// PhaseComplex returns a new real column holding the phase of every
// element, in radians.
func (c *Column) PhaseComplex() (*Column, error) {
	return c.project(cmplx.Phase)
}

// ExtractReal returns a new real column holding the real part of
// every element.
func (c *Column) ExtractReal() (*Column, error) {
	return c.project(func(z complex128) float64 { return real(z) })
}

// ExtractImag returns a new real column holding the imaginary part
// of every element.
func (c *Column) ExtractImag() (*Column, error) {
	return c.project(func(z complex128) float64 { return imag(z) })
}

// Conjugate replaces every valid element of a complex column with
// its complex conjugate, in place.
func (c *Column) Conjugate() error {
	if err := c.checkComplexKernel(); err != nil {
		return err
	}
	c.mapComplex(func(z complex128) (complex128, bool) {
		return cmplx.Conj(z), true
	})
	return nil
}
