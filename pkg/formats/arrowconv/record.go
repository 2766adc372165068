package arrowconv

import (
	"bytes"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/columna/pkg/column"
	"github.com/ajitpratap0/columna/pkg/errors"
	"github.com/ajitpratap0/columna/pkg/table"
)

// TableToRecord builds an Arrow record batch from a table. The caller
// releases the record.
func TableToRecord(t *table.Table, mem memory.Allocator) (arrow.Record, error) {
	if t == nil {
		return nil, errors.New(errors.ErrorTypeNullInput, "nil table")
	}
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	names := t.Names()
	fields := make([]arrow.Field, 0, len(names))
	arrays := make([]arrow.Array, 0, len(names))
	release := func() {
		for _, a := range arrays {
			a.Release()
		}
	}
	for _, name := range names {
		c, err := t.Column(name)
		if err != nil {
			release()
			return nil, err
		}
		field, err := Field(c)
		if err != nil {
			release()
			return nil, err
		}
		field.Name = name
		arr, err := ColumnToArrow(c, mem)
		if err != nil {
			release()
			return nil, err
		}
		fields = append(fields, field)
		arrays = append(arrays, arr)
	}

	schema := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(schema, arrays, int64(t.RowCount()))
	release()
	return rec, nil
}

// TableFromRecord rebuilds a table from an Arrow record batch.
func TableFromRecord(rec arrow.Record) (*table.Table, error) {
	if rec == nil {
		return nil, errors.New(errors.ErrorTypeNullInput, "nil record")
	}
	t, err := table.New(int(rec.NumRows()))
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(rec.NumCols()); i++ {
		field := rec.Schema().Field(i)
		c, err := ColumnFromArrow(rec.Column(i), field)
		if err != nil {
			return nil, err
		}
		if err := t.AddColumn(field.Name, c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ColumnFromArrow rebuilds a column from an Arrow array. The field's
// metadata, when present, restores the exact element kind, unit and
// format; otherwise the kind is inferred from the Arrow type.
func ColumnFromArrow(arr arrow.Array, field arrow.Field) (*column.Column, error) {
	if arr == nil {
		return nil, errors.New(errors.ErrorTypeNullInput, "nil array")
	}
	typ, err := columnType(arr.DataType(), field.Metadata)
	if err != nil {
		return nil, err
	}

	var c *column.Column
	if typ.IsArray() {
		list, ok := arr.(*array.List)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeIncompatibleInput,
				"array kind %s needs a list array, got %T", typ, arr)
		}
		c, err = columnFromList(list, typ)
	} else {
		c, err = flatColumnFromArrow(arr, typ)
	}
	if err != nil {
		return nil, err
	}

	c.SetName(field.Name)
	if unit, ok := field.Metadata.GetValue(unitKey); ok {
		c.SetUnit(unit)
	}
	if format, ok := field.Metadata.GetValue(formatKey); ok {
		c.SetFormat(format)
	}
	return c, nil
}

// columnType picks the element kind for an Arrow type, preferring the
// kind recorded in field metadata.
func columnType(dt arrow.DataType, md arrow.Metadata) (column.Type, error) {
	if kind, ok := md.GetValue(kindKey); ok {
		if typ, ok := column.TypeFromString(kind); ok {
			return typ, nil
		}
	}
	switch dt.ID() {
	case arrow.INT32:
		return column.Int, nil
	case arrow.INT64:
		return column.Long64, nil
	case arrow.FLOAT32:
		return column.Float, nil
	case arrow.FLOAT64:
		return column.Double, nil
	case arrow.STRING:
		return column.String, nil
	case arrow.FIXED_SIZE_LIST:
		fl := dt.(*arrow.FixedSizeListType)
		if fl.Len() == 2 && fl.Elem().ID() == arrow.FLOAT32 {
			return column.ComplexFloat, nil
		}
		if fl.Len() == 2 && fl.Elem().ID() == arrow.FLOAT64 {
			return column.ComplexDouble, nil
		}
		return 0, errors.Newf(errors.ErrorTypeInvalidType, "no element kind for %s", dt)
	case arrow.LIST:
		elem, err := columnType(dt.(*arrow.ListType).Elem(), arrow.Metadata{})
		if err != nil {
			return 0, err
		}
		return elem | column.ArrayOf, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeInvalidType, "no element kind for Arrow type %s", dt)
	}
}

func flatColumnFromArrow(arr arrow.Array, typ column.Type) (*column.Column, error) {
	n := arr.Len()
	c, err := column.New(typ, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if arr.IsNull(i) {
			continue
		}
		if err := setFromArrow(c, i, arr, i); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// setFromArrow stores element src of an Arrow array at row dst.
func setFromArrow(c *column.Column, dst int, arr arrow.Array, src int) error {
	switch a := arr.(type) {
	case *array.Int32:
		return column.Set(c, dst, a.Value(src))
	case *array.Int64:
		return column.Set(c, dst, a.Value(src))
	case *array.Float32:
		return column.Set(c, dst, a.Value(src))
	case *array.Float64:
		return column.Set(c, dst, a.Value(src))
	case *array.String:
		return c.SetString(dst, a.Value(src))
	case *array.FixedSizeList:
		return setComplexFromList(c, dst, a, src)
	default:
		return errors.Newf(errors.ErrorTypeIncompatibleInput, "unsupported Arrow array %T", arr)
	}
}

func setComplexFromList(c *column.Column, dst int, a *array.FixedSizeList, src int) error {
	base := src * 2
	switch vals := a.ListValues().(type) {
	case *array.Float32:
		return column.Set(c, dst, complex(vals.Value(base), vals.Value(base+1)))
	case *array.Float64:
		return column.Set(c, dst, complex(vals.Value(base), vals.Value(base+1)))
	default:
		return errors.Newf(errors.ErrorTypeIncompatibleInput,
			"unsupported complex list element %T", vals)
	}
}

// columnFromList rebuilds a nested-array column from an Arrow list
// array. Every non-null row must have exactly the depth announced by
// the first one.
func columnFromList(list *array.List, typ column.Type) (*column.Column, error) {
	n := list.Len()
	depth := 0
	for i := 0; i < n; i++ {
		if !list.IsNull(i) {
			start, end := list.ValueOffsets(i)
			depth = int(end - start)
			break
		}
	}
	c, err := column.NewArrayColumn(typ.Base(), n, depth)
	if err != nil {
		return nil, err
	}
	values := list.ListValues()
	for i := 0; i < n; i++ {
		if list.IsNull(i) {
			continue
		}
		start, end := list.ValueOffsets(i)
		if int(end-start) != depth {
			return nil, errors.Newf(errors.ErrorTypeIncompatibleInput,
				"row %d has %d elements, want %d", i, end-start, depth)
		}
		backing, err := column.New(typ.Base(), depth)
		if err != nil {
			return nil, err
		}
		for j := 0; j < depth; j++ {
			if values.IsNull(int(start) + j) {
				continue
			}
			if err := setFromArrow(backing, j, values, int(start)+j); err != nil {
				return nil, err
			}
		}
		a, err := column.NewArray(backing, depth)
		if err != nil {
			return nil, err
		}
		if err := c.SetArray(i, a); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WriteIPC writes a table as a single-batch Arrow IPC file.
func WriteIPC(w io.Writer, t *table.Table) error {
	if w == nil {
		return errors.New(errors.ErrorTypeNullInput, "nil writer")
	}
	mem := memory.NewGoAllocator()
	rec, err := TableToRecord(t, mem)
	if err != nil {
		return err
	}
	defer rec.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeUnspecified, "creating Arrow writer")
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return errors.Wrap(err, errors.ErrorTypeUnspecified, "writing record batch")
	}
	return fw.Close()
}

// ReadIPC reads an Arrow IPC file into a table, concatenating all
// record batches.
func ReadIPC(r io.Reader) (*table.Table, error) {
	if r == nil {
		return nil, errors.New(errors.ErrorTypeNullInput, "nil reader")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeUnspecified, "reading Arrow data")
	}
	fr, err := ipc.NewFileReader(bytes.NewReader(data), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIllegalInput, "opening Arrow file")
	}
	defer fr.Close()

	var out *table.Table
	for i := 0; i < fr.NumRecords(); i++ {
		rec, err := fr.Record(i)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeUnspecified, "reading record batch")
		}
		t, err := TableFromRecord(rec)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = t
			continue
		}
		if err := appendRows(out, t); err != nil {
			return nil, err
		}
	}
	if out == nil {
		return table.New(0)
	}
	return out, nil
}

// appendRows merges src's rows onto the end of dst, column by column.
func appendRows(dst, src *table.Table) error {
	base := dst.RowCount()
	for _, name := range dst.Names() {
		dc, err := dst.Column(name)
		if err != nil {
			return err
		}
		sc, err := src.Column(name)
		if err != nil {
			return err
		}
		if err := dc.Merge(sc, base); err != nil {
			return err
		}
	}
	return dst.SetRowCount(base + src.RowCount())
}
