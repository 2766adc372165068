package column

// nullmap tracks the invalid elements of a fixed-width column. It has
// exactly three canonical states:
//
//	all valid:   flags == nil, count == 0
//	all invalid: flags == nil, count == length
//	mixed:       flags owned, count == popcount(flags), 0 < count < length
//
// The flag buffer is materialized lazily on the first transition into
// the mixed state and collapsed away whenever a mutation makes it
// degenerate again. String and array columns never use a nullmap;
// their invalidity is the nil element itself.
//
// Every method takes the column length explicitly: the nullmap does
// not know it on its own, and the degenerate states depend on it.
type nullmap struct {
	flags []bool
	count int
}

// isInvalid reports whether row i is invalid.
func (m *nullmap) isInvalid(i, n int) bool {
	if m.flags == nil {
		return m.count == n && n > 0
	}
	return m.flags[i]
}

// validate marks row i valid.
func (m *nullmap) validate(i, n int) {
	if m.count == 0 {
		return
	}
	if m.flags == nil {
		// all invalid: materialize before clearing one flag
		m.materialize(n, true)
	}
	if !m.flags[i] {
		return
	}
	m.flags[i] = false
	m.count--
	if m.count == 0 {
		m.flags = nil
	}
}

// invalidate marks row i invalid.
func (m *nullmap) invalidate(i, n int) {
	if m.count == n {
		return
	}
	if m.flags == nil {
		// all valid: materialize before setting one flag
		m.materialize(n, false)
	}
	if m.flags[i] {
		return
	}
	m.flags[i] = true
	m.count++
	if m.count == n {
		m.flags = nil
	}
}

// validateRange marks [start, start+count) valid.
func (m *nullmap) validateRange(start, count, n int) {
	if count <= 0 || m.count == 0 {
		return
	}
	if start == 0 && count == n {
		m.flags = nil
		m.count = 0
		return
	}
	if m.flags == nil {
		m.materialize(n, true)
	}
	for i := start; i < start+count; i++ {
		if m.flags[i] {
			m.flags[i] = false
			m.count--
		}
	}
	if m.count == 0 {
		m.flags = nil
	}
}

// invalidateRange marks [start, start+count) invalid.
func (m *nullmap) invalidateRange(start, count, n int) {
	if count <= 0 || m.count == n {
		return
	}
	if start == 0 && count == n {
		m.flags = nil
		m.count = n
		return
	}
	if m.flags == nil {
		m.materialize(n, false)
	}
	for i := start; i < start+count; i++ {
		if !m.flags[i] {
			m.flags[i] = true
			m.count++
		}
	}
	if m.count == n {
		m.flags = nil
	}
}

// materialize allocates the flag buffer in a uniform state.
func (m *nullmap) materialize(n int, invalid bool) {
	m.flags = make([]bool, n)
	if invalid {
		for i := range m.flags {
			m.flags[i] = true
		}
	}
}

// recount rescans the flag buffer and restores the canonical state.
// Used after bulk edits that bypass the setters.
func (m *nullmap) recount(n int) {
	if m.flags == nil {
		return
	}
	count := 0
	for _, f := range m.flags {
		if f {
			count++
		}
	}
	m.count = count
	if count == 0 || count == n {
		m.flags = nil
	}
}

// resize adjusts the map from oldN to newN rows. New trailing rows
// start invalid. The degenerate states survive without allocating:
// an all-invalid map stays all-invalid at the new length.
func (m *nullmap) resize(oldN, newN int) {
	switch {
	case newN == oldN:
		return
	case newN == 0:
		m.flags = nil
		m.count = 0
		return
	case newN < oldN:
		if m.flags == nil {
			if m.count == oldN {
				m.count = newN
			}
			return
		}
		m.flags = m.flags[:newN]
		m.recount(newN)
		return
	}

	// growing
	if m.flags == nil {
		if m.count == oldN {
			// all invalid stays all invalid, no buffer needed
			m.count = newN
			return
		}
		if oldN == 0 {
			m.count = newN
			return
		}
		// all valid gains invalid tail rows: now mixed
		m.materialize(oldN, false)
	}
	grown := make([]bool, newN)
	copy(grown, m.flags)
	for i := oldN; i < newN; i++ {
		grown[i] = true
	}
	m.flags = grown
	m.count += newN - oldN
	if m.count == newN {
		m.flags = nil
	}
}

// insertGap opens count invalid rows at start, growing oldN to
// oldN+count.
func (m *nullmap) insertGap(start, count, oldN int) {
	if count <= 0 {
		return
	}
	newN := oldN + count
	if m.flags == nil && m.count == oldN {
		m.count = newN
		return
	}
	if m.flags == nil && oldN == 0 {
		m.count = newN
		return
	}
	if m.flags == nil {
		m.materialize(oldN, m.count == oldN)
	}
	grown := make([]bool, newN)
	copy(grown, m.flags[:start])
	for i := start; i < start+count; i++ {
		grown[i] = true
	}
	copy(grown[start+count:], m.flags[start:])
	m.flags = grown
	m.count += count
	if m.count == newN {
		m.flags = nil
	}
}

// eraseRange removes [start, start+count) rows, shrinking oldN to
// oldN-count.
func (m *nullmap) eraseRange(start, count, oldN int) {
	if count <= 0 {
		return
	}
	newN := oldN - count
	if m.flags == nil {
		if m.count == oldN {
			m.count = newN
		}
		return
	}
	shrunk := make([]bool, newN)
	copy(shrunk, m.flags[:start])
	copy(shrunk[start:], m.flags[start+count:])
	m.flags = shrunk
	m.recount(newN)
}

// dup returns an independent copy.
func (m *nullmap) dup() nullmap {
	out := nullmap{count: m.count}
	if m.flags != nil {
		out.flags = make([]bool, len(m.flags))
		copy(out.flags, m.flags)
	}
	return out
}

// slice returns the map restricted to [start, start+count) rows of a
// column of length n, in canonical state.
func (m *nullmap) slice(start, count, n int) nullmap {
	if m.flags == nil {
		if m.count == n {
			return nullmap{count: count}
		}
		return nullmap{}
	}
	out := nullmap{flags: make([]bool, count)}
	copy(out.flags, m.flags[start:start+count])
	out.recount(count)
	return out
}
