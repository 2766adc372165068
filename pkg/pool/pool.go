// Package pool provides object pooling for columna's scratch buffers.
//
// Sort-based reductions (median) need transient slices sized to the
// column length; pooling them keeps repeated reductions over large
// columns from hammering the garbage collector.
//
// Example usage:
//
//	buf := pool.GetFloat64Slice(n)
//	defer pool.PutFloat64Slice(buf)
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool represents a generic object pool with type safety.
// It wraps sync.Pool with statistics tracking and automatic reset.
// The pool is safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	new   func() T
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
		hits      int64
	}
}

// New creates a new typed pool with custom allocation and reset functions.
// The reset function, if non-nil, is called before an object is returned
// to the pool.
func New[T any](new func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{
		new:   new,
		reset: reset,
	}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return new()
	}
	return p
}

// Get retrieves an object from the pool, creating one if the pool is empty.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	obj := p.pool.Get().(T)
	atomic.AddInt64(&p.stats.hits, 1)
	return obj
}

// Put returns an object to the pool for reuse.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns current pool statistics.
func (p *Pool[T]) Stats() (allocated, inUse, hits int64) {
	return atomic.LoadInt64(&p.stats.allocated),
		atomic.LoadInt64(&p.stats.inUse),
		atomic.LoadInt64(&p.stats.hits)
}

// Global scratch pool shared by the reduction code.
var float64SlicePool = New(
	func() *[]float64 {
		s := make([]float64, 0, 1024)
		return &s
	},
	func(s *[]float64) {
		*s = (*s)[:0]
	},
)

// GetFloat64Slice returns a zero-length float64 scratch slice with at
// least the requested capacity.
func GetFloat64Slice(capacity int) *[]float64 {
	s := float64SlicePool.Get()
	if cap(*s) < capacity {
		*s = make([]float64, 0, capacity)
	}
	return s
}

// PutFloat64Slice returns a scratch slice to the pool.
func PutFloat64Slice(s *[]float64) {
	if s == nil {
		return
	}
	float64SlicePool.Put(s)
}
