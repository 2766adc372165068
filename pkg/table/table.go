// Package table provides a named collection of columns sharing one
// row count, with row-window editing and JSON export on top of the
// column engine.
package table

import (
	"sync"

	json "github.com/goccy/go-json"

	"github.com/ajitpratap0/columna/pkg/column"
	"github.com/ajitpratap0/columna/pkg/errors"
)

// Table holds named columns of equal length. All mutating methods
// keep every column at the shared row count.
type Table struct {
	mu    sync.RWMutex
	names []string
	cols  map[string]*column.Column
	rows  int
}

// New creates an empty table with the given row count. Columns added
// later are sized to match.
func New(rows int) (*Table, error) {
	if rows < 0 {
		return nil, errors.Newf(errors.ErrorTypeIllegalInput, "negative row count %d", rows)
	}
	return &Table{
		cols: make(map[string]*column.Column),
		rows: rows,
	}, nil
}

// RowCount returns the shared row count.
func (t *Table) RowCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rows
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.cols)
}

// Names returns the column names in insertion order. The caller owns
// the slice.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Has reports whether a column with the given name exists.
func (t *Table) Has(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.cols[name]
	return ok
}

// Column returns the column with the given name. The table retains
// ownership; resizing it directly breaks the shared row count.
func (t *Table) Column(name string) (*column.Column, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.cols[name]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeDataNotFound, "no column %q", name)
	}
	return c, nil
}

// NewColumn creates a column of the given kind sized to the table and
// attaches it under name. Its rows start invalid until set.
func (t *Table) NewColumn(name string, typ column.Type) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.cols[name]; exists {
		return errors.Newf(errors.ErrorTypeIllegalInput, "column %q already exists", name)
	}
	c, err := column.New(typ, t.rows)
	if err != nil {
		return err
	}
	c.SetName(name)
	t.attach(name, c)
	return nil
}

// AddColumn attaches an existing column under name. The column's
// length must equal the table's row count; the table takes ownership.
func (t *Table) AddColumn(name string, c *column.Column) error {
	if c == nil {
		return errors.New(errors.ErrorTypeNullInput, "nil column")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.cols[name]; exists {
		return errors.Newf(errors.ErrorTypeIllegalInput, "column %q already exists", name)
	}
	if c.Len() != t.rows {
		return errors.Newf(errors.ErrorTypeIncompatibleInput,
			"column length %d does not match table row count %d", c.Len(), t.rows)
	}
	c.SetName(name)
	t.attach(name, c)
	return nil
}

func (t *Table) attach(name string, c *column.Column) {
	t.cols[name] = c
	t.names = append(t.names, name)
}

// RemoveColumn detaches and returns the named column. Ownership moves
// to the caller.
func (t *Table) RemoveColumn(name string) (*column.Column, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.cols[name]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeDataNotFound, "no column %q", name)
	}
	delete(t.cols, name)
	for i, n := range t.names {
		if n == name {
			t.names = append(t.names[:i], t.names[i+1:]...)
			break
		}
	}
	return c, nil
}

// InsertRows opens a window of count invalid rows at start in every
// column. A start at or past the row count appends.
func (t *Table) InsertRows(start, count int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if start < 0 {
		return errors.Newf(errors.ErrorTypeAccessOutOfRange, "negative start %d", start)
	}
	if count < 0 {
		return errors.Newf(errors.ErrorTypeIllegalInput, "negative count %d", count)
	}
	for _, name := range t.names {
		if err := t.cols[name].InsertSegment(start, count); err != nil {
			return err
		}
	}
	t.rows += count
	return nil
}

// EraseRows removes the row window [start, start+count) from every
// column. A window reaching past the end truncates at start.
func (t *Table) EraseRows(start, count int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if start < 0 || start >= t.rows {
		return errors.Newf(errors.ErrorTypeAccessOutOfRange, "start %d of %d rows", start, t.rows)
	}
	if count < 0 {
		return errors.Newf(errors.ErrorTypeIllegalInput, "negative count %d", count)
	}
	removed := count
	if start+removed > t.rows {
		removed = t.rows - start
	}
	for _, name := range t.names {
		if err := t.cols[name].EraseSegment(start, count); err != nil {
			return err
		}
	}
	t.rows -= removed
	return nil
}

// SetRowCount grows or shrinks every column to n rows. Grown rows
// start invalid.
func (t *Table) SetRowCount(n int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n < 0 {
		return errors.Newf(errors.ErrorTypeIllegalInput, "negative row count %d", n)
	}
	for _, name := range t.names {
		if err := t.cols[name].SetSize(n); err != nil {
			return err
		}
	}
	t.rows = n
	return nil
}

// ExtractRows deep-copies the row window [start, start+count) into a
// new table.
func (t *Table) ExtractRows(start, count int) (*Table, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if start < 0 || start >= t.rows {
		return nil, errors.Newf(errors.ErrorTypeAccessOutOfRange, "start %d of %d rows", start, t.rows)
	}
	if count < 0 {
		return nil, errors.Newf(errors.ErrorTypeIllegalInput, "negative count %d", count)
	}
	if start+count > t.rows {
		count = t.rows - start
	}
	out := &Table{
		cols: make(map[string]*column.Column, len(t.cols)),
		rows: count,
	}
	for _, name := range t.names {
		c, err := t.cols[name].Extract(start, count)
		if err != nil {
			return nil, err
		}
		c.SetName(name)
		out.attach(name, c)
	}
	return out, nil
}

// Row returns one row as name-to-value pairs. Invalid cells map to
// nil; array cells map to the element slice of their row array.
func (t *Table) Row(i int) (map[string]interface{}, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i < 0 || i >= t.rows {
		return nil, errors.Newf(errors.ErrorTypeAccessOutOfRange, "row %d of %d", i, t.rows)
	}
	row := make(map[string]interface{}, len(t.cols))
	for _, name := range t.names {
		v, err := cellValue(t.cols[name], i)
		if err != nil {
			return nil, err
		}
		row[name] = v
	}
	return row, nil
}

// cellValue reads element i of a column as a plain Go value, nil when
// the cell is invalid.
func cellValue(c *column.Column, i int) (interface{}, error) {
	if c.Type().IsArray() {
		a, err := c.GetArray(i)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, nil
		}
		return arrayValues(a)
	}
	switch c.Type() {
	case column.String:
		v, ok, err := c.GetString(i)
		if err != nil || !ok {
			return nil, err
		}
		return v, nil
	case column.Int:
		return scalarCell[int32](c, i)
	case column.Long, column.Size:
		return scalarCell[int](c, i)
	case column.Long64:
		return scalarCell[int64](c, i)
	case column.Float:
		return scalarCell[float32](c, i)
	case column.Double:
		return scalarCell[float64](c, i)
	case column.ComplexFloat, column.ComplexDouble:
		return complexCell(c, i)
	default:
		return nil, errors.Newf(errors.ErrorTypeInvalidType, "cell of %s column", c.Type())
	}
}

func scalarCell[T column.Value](c *column.Column, i int) (interface{}, error) {
	v, ok, err := column.Get[T](c, i)
	if err != nil || !ok {
		return nil, err
	}
	return v, nil
}

// complexCell renders a complex element as {"re": x, "im": y} so the
// JSON export stays lossless.
func complexCell(c *column.Column, i int) (interface{}, error) {
	v, ok, err := column.Get[complex128](c, i)
	if err != nil || !ok {
		return nil, err
	}
	return map[string]float64{"re": real(v), "im": imag(v)}, nil
}

func arrayValues(a *column.Array) (interface{}, error) {
	inner := a.Column()
	out := make([]interface{}, inner.Len())
	for i := range out {
		v, err := cellValue(inner, i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// columnJSON is the export shape of one column.
type columnJSON struct {
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	Unit   string        `json:"unit,omitempty"`
	Format string        `json:"format,omitempty"`
	Rows   []interface{} `json:"rows"`
}

type tableJSON struct {
	RowCount int          `json:"row_count"`
	Columns  []columnJSON `json:"columns"`
}

// MarshalJSON exports the table column-wise. Invalid cells export as
// null.
func (t *Table) MarshalJSON() ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	doc := tableJSON{
		RowCount: t.rows,
		Columns:  make([]columnJSON, 0, len(t.cols)),
	}
	for _, name := range t.names {
		c := t.cols[name]
		rows := make([]interface{}, t.rows)
		for i := 0; i < t.rows; i++ {
			v, err := cellValue(c, i)
			if err != nil {
				return nil, err
			}
			rows[i] = v
		}
		doc.Columns = append(doc.Columns, columnJSON{
			Name:   name,
			Type:   c.Type().String(),
			Unit:   c.Unit(),
			Format: c.Format(),
			Rows:   rows,
		})
	}
	return json.Marshal(doc)
}
