package column

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/columna/pkg/errors"
)

func TestAddNullPropagation(t *testing.T) {
	kinds := []Type{Int, Long, Long64, Size, Float, Double}
	for _, ka := range kinds {
		for _, kb := range kinds {
			a := mustNew(t, ka, 3)
			b := mustNew(t, kb, 3)
			for i := 0; i < 3; i++ {
				require.NoError(t, Set(a, i, float64(i+1)))
				require.NoError(t, Set(b, i, 10.0))
			}
			require.NoError(t, a.SetInvalid(0))
			require.NoError(t, b.SetInvalid(1))

			require.NoError(t, a.Add(b))

			for i := 0; i < 3; i++ {
				invalid, err := a.IsInvalid(i)
				require.NoError(t, err)
				assert.Equal(t, i != 2, invalid,
					"%s + %s row %d invalid iff either operand was", ka, kb, i)
			}
			v, ok, err := Get[float64](a, 2)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, 13.0, v, "%s + %s", ka, kb)
		}
	}
}

func TestArithPromotion(t *testing.T) {
	// int target with a double operand: computed in double, narrowed
	// back by truncation
	a := mustNew(t, Int, 1)
	require.NoError(t, Set(a, 0, int32(3)))
	b := mustNew(t, Double, 1)
	require.NoError(t, Set(b, 0, 0.5))

	require.NoError(t, a.Multiply(b))
	v, ok, err := Get[int32](a, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(1), v)

	// pure integer operands stay exact at 64 bits
	x := mustNew(t, Long64, 1)
	require.NoError(t, Set(x, 0, int64(1)<<60))
	y := mustNew(t, Long64, 1)
	require.NoError(t, Set(y, 0, int64(1)))
	require.NoError(t, x.Add(y))
	got, ok, err := Get[int64](x, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1)<<60+1, got)
}

func TestDivideByZeroInvalidates(t *testing.T) {
	a := mustNew(t, Double, 3)
	require.NoError(t, Fill(a, 0, 3, 6.0))
	b := mustNew(t, Double, 3)
	require.NoError(t, Set(b, 0, 2.0))
	require.NoError(t, Set(b, 1, 0.0))
	require.NoError(t, Set(b, 2, 3.0))

	require.NoError(t, a.Divide(b))

	v, ok, err := Get[float64](a, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
	invalid, err := a.IsInvalid(1)
	require.NoError(t, err)
	assert.True(t, invalid, "zero divisor invalidates the row")
	v, ok, err = Get[float64](a, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestIntegerDivideByZero(t *testing.T) {
	a := mustNew(t, Int, 2)
	fillInts(t, a, 8, 9)
	b := mustNew(t, Int, 2)
	fillInts(t, b, 2, 0)

	require.NoError(t, a.Divide(b))
	v, ok, err := Get[int32](a, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(4), v)
	invalid, err := a.IsInvalid(1)
	require.NoError(t, err)
	assert.True(t, invalid)
}

func TestArithErrors(t *testing.T) {
	a := mustNew(t, Double, 2)
	short := mustNew(t, Double, 1)
	err := a.Add(short)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIncompatibleInput))

	s := mustNew(t, String, 2)
	err = a.Add(s)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidType))
	err = s.Add(a)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidType))

	err = a.Add(nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNullInput))
}

func TestScalarOps(t *testing.T) {
	c := mustNew(t, Float, 3)
	require.NoError(t, Set(c, 0, float32(1)))
	require.NoError(t, Set(c, 2, float32(3)))
	// row 1 invalid

	require.NoError(t, c.MultiplyScalar(2.0))
	v, ok, err := Get[float32](c, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, float32(2), v)
	v, ok, err = Get[float32](c, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, float32(6), v)
	invalid, err := c.IsInvalid(1)
	require.NoError(t, err)
	assert.True(t, invalid, "scalar ops never touch the invalid flags")

	require.NoError(t, c.AddScalar(1.0))
	require.NoError(t, c.SubtractScalar(1.0))
	require.NoError(t, c.DivideScalar(2.0))
	v, _, _ = Get[float32](c, 0)
	assert.Equal(t, float32(1), v)
}

func TestDivideScalarZeroIsHardError(t *testing.T) {
	c := mustNew(t, Int, 2)
	fillInts(t, c, 1, 4)

	err := c.DivideScalar(0)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDivisionByZero))

	// the column is unchanged
	v, ok, getErr := Get[int32](c, 1)
	require.NoError(t, getErr)
	assert.True(t, ok)
	assert.Equal(t, int32(4), v)
	assert.Equal(t, 0, c.CountInvalid())
}

func TestComplexScalarOps(t *testing.T) {
	c := mustNew(t, ComplexDouble, 2)
	require.NoError(t, Set(c, 0, complex128(1+1i)))
	require.NoError(t, Set(c, 1, complex128(2-1i)))

	require.NoError(t, c.MultiplyScalarComplex(2i))
	v, ok, err := Get[complex128](c, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, complex128(-2+2i), v)

	err = c.DivideScalarComplex(0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDivisionByZero))

	r := mustNew(t, Double, 2)
	err = r.AddScalarComplex(1i)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidType))
}

func TestMixedComplexBinary(t *testing.T) {
	a := mustNew(t, ComplexDouble, 2)
	require.NoError(t, Set(a, 0, complex128(1+2i)))
	require.NoError(t, Set(a, 1, complex128(3+0i)))
	b := mustNew(t, Int, 2)
	fillInts(t, b, 2, 3)

	require.NoError(t, a.Multiply(b))
	v, ok, err := Get[complex128](a, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, complex128(2+4i), v)
}

// Concrete end-to-end scenario: erase, scalar-divide error, cast.
func TestIntColumnScenario(t *testing.T) {
	c := mustNew(t, Int, 4)
	fillInts(t, c, 1, 2, 3, 4)

	require.NoError(t, c.EraseSegment(1, 2))
	assert.Equal(t, 2, c.Len())

	err := c.DivideScalar(0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDivisionByZero))
	v, _, _ := Get[int32](c, 0)
	assert.Equal(t, int32(1), v)

	out, err := c.Cast(Double)
	require.NoError(t, err)
	d0, ok, err := Get[float64](out, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1.0, d0)
	d1, ok, err := Get[float64](out, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4.0, d1)
}
