// Package arrowconv converts columns and tables to and from Apache
// Arrow arrays and record batches, including Arrow IPC file I/O.
//
// Invalid rows map to Arrow validity-bitmap nulls in both directions.
// Complex kinds, which Arrow has no primitive for, travel as
// fixed-size lists of two floats tagged with field metadata so a
// round trip restores the exact kind.
package arrowconv

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/columna/pkg/column"
	"github.com/ajitpratap0/columna/pkg/errors"
)

// kindKey is the field-metadata key carrying the original element
// kind across a round trip.
const kindKey = "columna.kind"

const (
	unitKey   = "columna.unit"
	formatKey = "columna.format"
)

// ArrowType returns the Arrow type a column of the given kind
// converts to.
func ArrowType(t column.Type) (arrow.DataType, error) {
	if t.IsArray() {
		elem, err := ArrowType(t.Base())
		if err != nil {
			return nil, err
		}
		return arrow.ListOf(elem), nil
	}
	switch t {
	case column.Int:
		return arrow.PrimitiveTypes.Int32, nil
	case column.Long, column.Long64, column.Size:
		return arrow.PrimitiveTypes.Int64, nil
	case column.Float:
		return arrow.PrimitiveTypes.Float32, nil
	case column.Double:
		return arrow.PrimitiveTypes.Float64, nil
	case column.ComplexFloat:
		return arrow.FixedSizeListOf(2, arrow.PrimitiveTypes.Float32), nil
	case column.ComplexDouble:
		return arrow.FixedSizeListOf(2, arrow.PrimitiveTypes.Float64), nil
	case column.String:
		return arrow.BinaryTypes.String, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeInvalidType, "no Arrow mapping for %s", t)
	}
}

// Field returns the Arrow field describing a column, with the kind,
// unit and format carried in field metadata.
func Field(c *column.Column) (arrow.Field, error) {
	dt, err := ArrowType(c.Type())
	if err != nil {
		return arrow.Field{}, err
	}
	keys := []string{kindKey}
	values := []string{c.Type().String()}
	if c.Unit() != "" {
		keys = append(keys, unitKey)
		values = append(values, c.Unit())
	}
	if c.Format() != "" {
		keys = append(keys, formatKey)
		values = append(values, c.Format())
	}
	return arrow.Field{
		Name:     c.Name(),
		Type:     dt,
		Nullable: true,
		Metadata: arrow.NewMetadata(keys, values),
	}, nil
}

// ColumnToArrow builds an Arrow array holding the column's data, with
// invalid rows as nulls. The caller releases the returned array.
func ColumnToArrow(c *column.Column, mem memory.Allocator) (arrow.Array, error) {
	if c == nil {
		return nil, errors.New(errors.ErrorTypeNullInput, "nil column")
	}
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	dt, err := ArrowType(c.Type())
	if err != nil {
		return nil, err
	}
	builder := array.NewBuilder(mem, dt)
	defer builder.Release()
	if err := appendColumn(builder, c); err != nil {
		return nil, err
	}
	return builder.NewArray(), nil
}

func appendColumn(builder array.Builder, c *column.Column) error {
	n := c.Len()
	if c.Type().IsArray() {
		lb, ok := builder.(*array.ListBuilder)
		if !ok {
			return errors.Newf(errors.ErrorTypeUnspecified, "unexpected builder %T for %s", builder, c.Type())
		}
		for i := 0; i < n; i++ {
			a, err := c.GetArray(i)
			if err != nil {
				return err
			}
			if a == nil {
				lb.AppendNull()
				continue
			}
			lb.Append(true)
			if err := appendColumn(lb.ValueBuilder(), a.Column()); err != nil {
				return err
			}
		}
		return nil
	}

	switch b := builder.(type) {
	case *array.Int32Builder:
		for i := 0; i < n; i++ {
			v, ok, err := column.Get[int32](c, i)
			if err != nil {
				return err
			}
			appendOr(b, b.Append, v, ok)
		}
	case *array.Int64Builder:
		for i := 0; i < n; i++ {
			v, ok, err := column.Get[int64](c, i)
			if err != nil {
				return err
			}
			appendOr(b, b.Append, v, ok)
		}
	case *array.Float32Builder:
		for i := 0; i < n; i++ {
			v, ok, err := column.Get[float32](c, i)
			if err != nil {
				return err
			}
			appendOr(b, b.Append, v, ok)
		}
	case *array.Float64Builder:
		for i := 0; i < n; i++ {
			v, ok, err := column.Get[float64](c, i)
			if err != nil {
				return err
			}
			appendOr(b, b.Append, v, ok)
		}
	case *array.StringBuilder:
		for i := 0; i < n; i++ {
			v, ok, err := c.GetString(i)
			if err != nil {
				return err
			}
			appendOr(b, b.Append, v, ok)
		}
	case *array.FixedSizeListBuilder:
		return appendComplex(b, c)
	default:
		return errors.Newf(errors.ErrorTypeUnspecified, "unexpected builder %T for %s", builder, c.Type())
	}
	return nil
}

func appendOr[T any](b interface{ AppendNull() }, appendValue func(T), v T, ok bool) {
	if !ok {
		b.AppendNull()
		return
	}
	appendValue(v)
}

// appendComplex writes a complex column as two-element lists of its
// real and imaginary parts.
func appendComplex(b *array.FixedSizeListBuilder, c *column.Column) error {
	n := c.Len()
	switch vb := b.ValueBuilder().(type) {
	case *array.Float32Builder:
		for i := 0; i < n; i++ {
			v, ok, err := column.Get[complex64](c, i)
			if err != nil {
				return err
			}
			if !ok {
				b.AppendNull()
				continue
			}
			b.Append(true)
			vb.Append(real(v))
			vb.Append(imag(v))
		}
	case *array.Float64Builder:
		for i := 0; i < n; i++ {
			v, ok, err := column.Get[complex128](c, i)
			if err != nil {
				return err
			}
			if !ok {
				b.AppendNull()
				continue
			}
			b.Append(true)
			vb.Append(real(v))
			vb.Append(imag(v))
		}
	default:
		return errors.Newf(errors.ErrorTypeUnspecified, "unexpected list element builder %T", vb)
	}
	return nil
}
