package column

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// canonical checks the three-state invariant: the flag buffer exists
// iff the column is mixed.
func canonical(t *testing.T, m *nullmap, n int) {
	t.Helper()
	if m.count == 0 || m.count == n {
		assert.Nil(t, m.flags, "degenerate state must have no buffer")
	} else {
		require.NotNil(t, m.flags, "mixed state must have a buffer")
		count := 0
		for _, f := range m.flags {
			if f {
				count++
			}
		}
		assert.Equal(t, count, m.count, "cached count must match the flags")
	}
}

func TestNullmapLazyMaterialization(t *testing.T) {
	const n = 8
	m := nullmap{count: n} // all invalid, no buffer

	m.validate(3, n)
	assert.Equal(t, n-1, m.count)
	canonical(t, &m, n)

	for i := 0; i < n; i++ {
		assert.Equal(t, i != 3, m.isInvalid(i, n))
	}

	// validating the rest collapses the buffer away
	for i := 0; i < n; i++ {
		m.validate(i, n)
	}
	assert.Equal(t, 0, m.count)
	assert.Nil(t, m.flags)
}

func TestNullmapInvalidateCollapses(t *testing.T) {
	const n = 4
	m := nullmap{} // all valid

	m.invalidate(0, n)
	canonical(t, &m, n)
	m.invalidate(1, n)
	m.invalidate(2, n)
	canonical(t, &m, n)
	m.invalidate(3, n)
	assert.Equal(t, n, m.count)
	assert.Nil(t, m.flags, "all-invalid must collapse the buffer")

	// idempotent on degenerate state
	m.invalidate(2, n)
	assert.Equal(t, n, m.count)
	assert.Nil(t, m.flags)
}

func TestNullmapRangeOps(t *testing.T) {
	const n = 10
	m := nullmap{}

	m.invalidateRange(2, 5, n)
	assert.Equal(t, 5, m.count)
	canonical(t, &m, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, i >= 2 && i < 7, m.isInvalid(i, n))
	}

	m.validateRange(0, n, n)
	assert.Equal(t, 0, m.count)
	assert.Nil(t, m.flags)

	m.invalidateRange(0, n, n)
	assert.Equal(t, n, m.count)
	assert.Nil(t, m.flags, "whole-column range must stay degenerate")
}

func TestNullmapResize(t *testing.T) {
	t.Run("all invalid stays all invalid without a buffer", func(t *testing.T) {
		m := nullmap{count: 3}
		m.resize(3, 7)
		assert.Equal(t, 7, m.count)
		assert.Nil(t, m.flags)
	})

	t.Run("all valid grows a mixed tail", func(t *testing.T) {
		m := nullmap{}
		m.resize(3, 5)
		assert.Equal(t, 2, m.count)
		canonical(t, &m, 5)
		assert.False(t, m.isInvalid(0, 5))
		assert.True(t, m.isInvalid(4, 5))
	})

	t.Run("shrink recounts and collapses", func(t *testing.T) {
		m := nullmap{}
		m.invalidateRange(3, 2, 5)
		m.resize(5, 3)
		assert.Equal(t, 0, m.count)
		assert.Nil(t, m.flags)
	})

	t.Run("shrink to zero resets", func(t *testing.T) {
		m := nullmap{count: 4}
		m.resize(4, 0)
		assert.Equal(t, 0, m.count)
		assert.Nil(t, m.flags)
	})
}

func TestNullmapInsertGapAndErase(t *testing.T) {
	const n = 6
	m := nullmap{}
	m.invalidate(2, n)

	m.insertGap(1, 2, n)
	assert.Equal(t, 3, m.count)
	canonical(t, &m, n+2)
	assert.True(t, m.isInvalid(1, n+2))
	assert.True(t, m.isInvalid(2, n+2))
	assert.True(t, m.isInvalid(4, n+2), "old row 2 moved to row 4")

	m.eraseRange(1, 2, n+2)
	assert.Equal(t, 1, m.count)
	canonical(t, &m, n)
	assert.True(t, m.isInvalid(2, n))
}

func TestNullmapSlice(t *testing.T) {
	const n = 6
	m := nullmap{}
	m.invalidateRange(0, 3, n)

	head := m.slice(0, 3, n)
	assert.Equal(t, 3, head.count)
	assert.Nil(t, head.flags, "uniform slice must collapse")

	span := m.slice(2, 2, n)
	assert.Equal(t, 1, span.count)
	canonical(t, &span, 2)
}
