package column

import (
	"github.com/ajitpratap0/columna/pkg/errors"
)

type binOp int

const (
	opAdd binOp = iota
	opSub
	opMul
	opDiv
)

func (c *Column) checkArithOperand(other *Column) error {
	if other == nil {
		return errors.New(errors.ErrorTypeNullInput, "nil operand column")
	}
	if !c.typ.IsNumeric() || c.typ.IsArray() {
		return errors.Newf(errors.ErrorTypeInvalidType, "arithmetic on %s column", c.typ)
	}
	if !other.typ.IsNumeric() || other.typ.IsArray() {
		return errors.Newf(errors.ErrorTypeInvalidType, "arithmetic with %s operand", other.typ)
	}
	if other.length != c.length {
		return errors.Newf(errors.ErrorTypeIncompatibleInput,
			"operand length %d does not match %d", other.length, c.length)
	}
	return nil
}

// binary applies op elementwise in place, promoting both operands to
// their common kind and narrowing the result back to the column's
// stored kind. A row comes out invalid iff it was invalid in either
// operand; Divide additionally invalidates rows whose divisor is an
// exact zero, before anything else is looked at.
func (c *Column) binary(other *Column, op binOp) error {
	if err := c.checkArithOperand(other); err != nil {
		return err
	}
	n := c.length

	if op == opDiv {
		// dedicated zero-divisor pre-pass, regardless of kind
		for i := 0; i < n; i++ {
			if other.getComplex(i) == 0 {
				c.nulls.invalidate(i, n)
			}
		}
	}
	if other.nulls.count > 0 {
		for i := 0; i < n; i++ {
			if other.nulls.isInvalid(i, n) {
				c.nulls.invalidate(i, n)
			}
		}
	}

	promoted := promote(c.typ.Base(), other.typ.Base())
	for i := 0; i < n; i++ {
		if c.nulls.isInvalid(i, n) {
			continue
		}
		switch {
		case promoted.IsComplex():
			z := applyComplex(op, c.getComplex(i), other.getComplex(i))
			if c.typ.IsComplex() {
				c.setFromComplex(i, z)
			} else {
				c.setFromFloat(i, real(z))
			}
		case promoted.IsInteger():
			c.setFromInt(i, applyInt(op, c.getInt(i), other.getInt(i)))
		default:
			c.setFromFloat(i, applyFloat(op, c.getFloat(i), other.getFloat(i)))
		}
	}
	return nil
}

func applyInt(op binOp, a, b int64) int64 {
	switch op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	default:
		return a / b
	}
}

func applyFloat(op binOp, a, b float64) float64 {
	switch op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	default:
		return a / b
	}
}

func applyComplex(op binOp, a, b complex128) complex128 {
	switch op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	default:
		return a / b
	}
}

// Add adds other to the column elementwise, in place.
func (c *Column) Add(other *Column) error { return c.binary(other, opAdd) }

// Subtract subtracts other from the column elementwise, in place.
func (c *Column) Subtract(other *Column) error { return c.binary(other, opSub) }

// Multiply multiplies the column by other elementwise, in place.
func (c *Column) Multiply(other *Column) error { return c.binary(other, opMul) }

// Divide divides the column by other elementwise, in place. Rows
// where the divisor is exactly zero come out invalid regardless of
// their prior state.
func (c *Column) Divide(other *Column) error { return c.binary(other, opDiv) }

// scalar applies op with a real constant to every valid row, in
// double precision, narrowing back to the stored kind. The invalid
// flags are never altered.
func (c *Column) scalar(v float64, op binOp) error {
	if !c.typ.IsNumeric() || c.typ.IsArray() {
		return errors.Newf(errors.ErrorTypeInvalidType, "arithmetic on %s column", c.typ)
	}
	if op == opDiv && v == 0 {
		return errors.New(errors.ErrorTypeDivisionByZero, "scalar divisor is zero")
	}
	n := c.length
	for i := 0; i < n; i++ {
		if c.nulls.isInvalid(i, n) {
			continue
		}
		if c.typ.IsComplex() {
			c.setFromComplex(i, applyComplex(op, c.getComplex(i), complex(v, 0)))
		} else {
			c.setFromFloat(i, applyFloat(op, c.getFloat(i), v))
		}
	}
	return nil
}

// scalarComplex applies op with a complex constant to every valid
// row of a complex column.
func (c *Column) scalarComplex(v complex128, op binOp) error {
	if !c.typ.IsComplex() || c.typ.IsArray() {
		return errors.Newf(errors.ErrorTypeInvalidType, "complex arithmetic on %s column", c.typ)
	}
	if op == opDiv && v == 0 {
		return errors.New(errors.ErrorTypeDivisionByZero, "scalar divisor is zero")
	}
	n := c.length
	for i := 0; i < n; i++ {
		if c.nulls.isInvalid(i, n) {
			continue
		}
		c.setFromComplex(i, applyComplex(op, c.getComplex(i), v))
	}
	return nil
}

// AddScalar adds a constant to every valid element.
func (c *Column) AddScalar(v float64) error { return c.scalar(v, opAdd) }

// SubtractScalar subtracts a constant from every valid element.
func (c *Column) SubtractScalar(v float64) error { return c.scalar(v, opSub) }

// MultiplyScalar multiplies every valid element by a constant.
func (c *Column) MultiplyScalar(v float64) error { return c.scalar(v, opMul) }

// DivideScalar divides every valid element by a constant. An exact
// zero divisor is a hard input error and leaves the column
// unchanged.
func (c *Column) DivideScalar(v float64) error { return c.scalar(v, opDiv) }

// AddScalarComplex adds a complex constant to every valid element of
// a complex column.
func (c *Column) AddScalarComplex(v complex128) error { return c.scalarComplex(v, opAdd) }

// SubtractScalarComplex subtracts a complex constant from every
// valid element of a complex column.
func (c *Column) SubtractScalarComplex(v complex128) error { return c.scalarComplex(v, opSub) }

// MultiplyScalarComplex multiplies every valid element of a complex
// column by a complex constant.
func (c *Column) MultiplyScalarComplex(v complex128) error { return c.scalarComplex(v, opMul) }

// DivideScalarComplex divides every valid element of a complex
// column by a complex constant. An exact zero divisor is a hard
// input error.
func (c *Column) DivideScalarComplex(v complex128) error { return c.scalarComplex(v, opDiv) }
