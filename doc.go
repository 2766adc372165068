// Package columna provides a typed, resizable, null-aware columnar
// array engine with a table layer, Arrow interchange and a small CLI.
//
// The core of the module is pkg/column: a homogeneous vector of
// numeric, complex, string or nested-array elements with a
// per-element invalid marker. Columns resize in place, support
// segment insertion and erasure, cast across the numeric kinds with
// automatic upcasting, and offer null-propagating arithmetic and
// null-excluding reductions.
//
// # Quick Start
//
// Build a column, edit it, and reduce it:
//
//	c, _ := column.New(column.Double, 4)
//	for i := 0; i < 4; i++ {
//	    _ = column.Set(c, i, float64(i)*1.5)
//	}
//	_ = c.SetInvalid(2)          // excluded from every statistic
//	mean, _ := c.Mean()
//	_ = c.MultiplyScalar(2)      // invalid rows stay invalid
//	d, _ := c.Cast(column.Float) // upcast/downcast with rounding
//	_ = d
//
// Group columns into a table and exchange it with other systems:
//
//	t, _ := table.ReadCSV(f, nil)       // empty cells load invalid
//	_ = arrowconv.WriteIPC(out, t)      // invalid rows become nulls
//
// # Key Packages
//
//	pkg/column    - the columnar engine: storage, nulls, resize, cast,
//	                arithmetic, math kernels, reductions
//	pkg/table     - named columns over a shared row count, CSV loading,
//	                JSON export
//	pkg/formats/arrowconv - Arrow array/record conversion and IPC files
//	pkg/errors    - structured error handling with typed error kinds
//	pkg/logger    - structured logging
//	pkg/pool      - object pooling for scratch buffers
//	pkg/strings   - zero-copy string conversions and pooled builders
//
// # Null Semantics
//
// Every column tracks invalid elements in a lazily materialized flag
// buffer that collapses away when all rows are valid or all rows are
// invalid. New numeric columns start fully invalid; rows become valid
// when written. Binary arithmetic marks a result row invalid when
// either operand row was, division marks rows with a zero divisor
// invalid, and the math kernels convert domain errors into per-row
// invalidation instead of failing the whole call.
package columna
