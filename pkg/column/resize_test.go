package column

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/columna/pkg/errors"
)

func TestSetSizeRoundTrip(t *testing.T) {
	c := mustNew(t, Int, 4)
	fillInts(t, c, 1, 2, 3, 4)

	require.NoError(t, c.SetSize(7))
	assert.Equal(t, 7, c.Len())
	assert.Equal(t, 3, c.CountInvalid(), "grown rows start invalid")

	require.NoError(t, c.SetSize(4))
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, 0, c.CountInvalid())
	for i, want := range []int32{1, 2, 3, 4} {
		v, ok, err := Get[int32](c, i)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, want, v)
	}
}

func TestSetSizeAllInvalidStaysDegenerate(t *testing.T) {
	c := mustNew(t, Double, 3)
	require.NoError(t, c.SetSize(10))
	assert.Equal(t, 10, c.CountInvalid())
	assert.Nil(t, c.nulls.flags, "all-invalid growth must not allocate a flag buffer")
}

func TestSetSizeZeroTransitions(t *testing.T) {
	c := mustNew(t, Double, 5)
	require.NoError(t, Fill(c, 0, 5, 1.0))

	require.NoError(t, c.SetSize(0))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.CountInvalid())

	require.NoError(t, c.SetSize(3))
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 3, c.CountInvalid())

	err := c.SetSize(-1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIllegalInput))
}

func TestInsertEraseInverse(t *testing.T) {
	for _, p := range []int{0, 1, 3, 4} {
		c := mustNew(t, Int, 4)
		fillInts(t, c, 10, 20, 30, 40)
		require.NoError(t, c.SetInvalid(2))

		require.NoError(t, c.InsertSegment(p, 2))
		assert.Equal(t, 6, c.Len())
		invalid, err := c.IsInvalid(p)
		require.NoError(t, err)
		assert.True(t, invalid, "vacated slots start invalid")

		require.NoError(t, c.EraseSegment(p, 2))
		assert.Equal(t, 4, c.Len())
		assert.Equal(t, 1, c.CountInvalid())

		for i, want := range []int32{10, 20, 30, 40} {
			if i == 2 {
				invalid, err := c.IsInvalid(i)
				require.NoError(t, err)
				assert.True(t, invalid)
				continue
			}
			v, ok, err := Get[int32](c, i)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, want, v, "insert position %d", p)
		}
	}
}

func TestInsertBeyondLengthAppends(t *testing.T) {
	c := mustNew(t, Int, 2)
	fillInts(t, c, 1, 2)
	require.NoError(t, c.InsertSegment(100, 3))
	assert.Equal(t, 5, c.Len())
	v, ok, err := Get[int32](c, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(2), v)
	assert.Equal(t, 3, c.CountInvalid())
}

func TestEraseSegment(t *testing.T) {
	c := mustNew(t, Int, 4)
	fillInts(t, c, 1, 2, 3, 4)

	require.NoError(t, c.EraseSegment(1, 2))
	assert.Equal(t, 2, c.Len())
	v, _, _ := Get[int32](c, 0)
	assert.Equal(t, int32(1), v)
	v, _, _ = Get[int32](c, 1)
	assert.Equal(t, int32(4), v)

	// reaching the end degenerates to a truncation
	require.NoError(t, c.EraseSegment(1, 100))
	assert.Equal(t, 1, c.Len())

	err := c.EraseSegment(5, 1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAccessOutOfRange))
}

func TestErasePattern(t *testing.T) {
	c := mustNew(t, Double, 5)
	require.NoError(t, Fill(c, 0, 5, 0))
	for i := 0; i < 5; i++ {
		require.NoError(t, Set(c, i, float64(i)))
	}
	require.NoError(t, c.SetInvalid(3))

	require.NoError(t, c.ErasePattern([]bool{true, false, true, false, false}))
	assert.Equal(t, 3, c.Len())
	v, ok, err := Get[float64](c, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
	invalid, err := c.IsInvalid(1)
	require.NoError(t, err)
	assert.True(t, invalid, "invalid rows survive compaction as invalid")

	err = c.ErasePattern([]bool{true})
	assert.True(t, errors.IsType(err, errors.ErrorTypeIncompatibleInput))
	err = c.ErasePattern(nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNullInput))
}

func TestExtract(t *testing.T) {
	c := mustNew(t, Int, 5)
	fillInts(t, c, 1, 2, 3, 4, 5)
	require.NoError(t, c.SetInvalid(3))
	c.SetName("orig")
	c.SetUnit("adu")

	sub, err := c.Extract(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, sub.Len())
	assert.Equal(t, "", sub.Name(), "extract does not inherit the name")
	assert.Equal(t, "adu", sub.Unit())
	v, ok, err := Get[int32](sub, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(3), v)
	invalid, err := sub.IsInvalid(1)
	require.NoError(t, err)
	assert.True(t, invalid)

	// the copy is independent
	require.NoError(t, Set(sub, 0, int32(99)))
	v, _, _ = Get[int32](c, 2)
	assert.Equal(t, int32(3), v)
}

func TestMerge(t *testing.T) {
	dst := mustNew(t, Int, 3)
	fillInts(t, dst, 1, 2, 3)
	src := mustNew(t, Int, 2)
	fillInts(t, src, 8, 9)
	require.NoError(t, src.SetInvalid(1))

	require.NoError(t, dst.Merge(src, 1))
	assert.Equal(t, 5, dst.Len())
	want := []int32{1, 8, 0, 2, 3}
	for i, w := range want {
		v, ok, err := Get[int32](dst, i)
		require.NoError(t, err)
		if i == 2 {
			assert.False(t, ok, "invalid source row stays invalid")
			continue
		}
		assert.True(t, ok)
		assert.Equal(t, w, v)
	}

	other := mustNew(t, Double, 2)
	err := dst.Merge(other, 0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
	err = dst.Merge(nil, 0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNullInput))
}

func TestShift(t *testing.T) {
	c := mustNew(t, Int, 4)
	fillInts(t, c, 1, 2, 3, 4)

	require.NoError(t, c.Shift(2))
	assert.Equal(t, 2, c.CountInvalid(), "vacated boundary rows are invalid")
	v, ok, err := Get[int32](c, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(1), v)
	v, ok, err = Get[int32](c, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(2), v)

	require.NoError(t, c.Shift(-2))
	v, ok, err = Get[int32](c, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(1), v)
	assert.Equal(t, 2, c.CountInvalid())

	err = c.Shift(4)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIllegalInput))

	s := mustNew(t, String, 3)
	err = s.Shift(1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidType))
}

func TestArrayColumnResize(t *testing.T) {
	c, err := NewArrayColumn(Double, 2, 2)
	require.NoError(t, err)
	inner := mustNew(t, Double, 2)
	require.NoError(t, Fill(inner, 0, 2, 5.0))
	a, err := NewArray(inner, 2)
	require.NoError(t, err)
	require.NoError(t, c.SetArray(0, a))

	require.NoError(t, c.SetSize(4))
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, 3, c.CountInvalid())
	got, err := c.GetArray(0)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, c.SetSize(1))
	assert.Equal(t, 0, c.CountInvalid())
}
