package table

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/columna/pkg/column"
	"github.com/ajitpratap0/columna/pkg/errors"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(3)
	require.NoError(t, err)

	require.NoError(t, tbl.NewColumn("id", column.Long))
	require.NoError(t, tbl.NewColumn("value", column.Double))
	require.NoError(t, tbl.NewColumn("label", column.String))

	id, _ := tbl.Column("id")
	val, _ := tbl.Column("value")
	label, _ := tbl.Column("label")
	for i := 0; i < 3; i++ {
		require.NoError(t, column.Set(id, i, i+1))
		require.NoError(t, column.Set(val, i, float64(i)*1.5))
	}
	require.NoError(t, label.SetString(0, "a"))
	require.NoError(t, label.SetString(2, "c"))
	return tbl
}

func TestNewTable(t *testing.T) {
	tbl, err := New(5)
	require.NoError(t, err)
	assert.Equal(t, 5, tbl.RowCount())
	assert.Equal(t, 0, tbl.ColumnCount())

	_, err = New(-1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIllegalInput))
}

func TestAddColumn(t *testing.T) {
	tbl, err := New(2)
	require.NoError(t, err)

	c, err := column.New(column.Int, 2)
	require.NoError(t, err)
	require.NoError(t, tbl.AddColumn("x", c))
	assert.Equal(t, "x", c.Name())
	assert.True(t, tbl.Has("x"))

	err = tbl.AddColumn("x", c)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIllegalInput))

	short, err := column.New(column.Int, 1)
	require.NoError(t, err)
	err = tbl.AddColumn("y", short)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIncompatibleInput))

	err = tbl.AddColumn("z", nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNullInput))
}

func TestColumnLookup(t *testing.T) {
	tbl := newTestTable(t)
	assert.Equal(t, []string{"id", "value", "label"}, tbl.Names())

	c, err := tbl.Column("id")
	require.NoError(t, err)
	assert.Equal(t, column.Long, c.Type())

	_, err = tbl.Column("missing")
	assert.True(t, errors.IsType(err, errors.ErrorTypeDataNotFound))
}

func TestRemoveColumn(t *testing.T) {
	tbl := newTestTable(t)
	c, err := tbl.RemoveColumn("value")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
	assert.False(t, tbl.Has("value"))
	assert.Equal(t, []string{"id", "label"}, tbl.Names())

	_, err = tbl.RemoveColumn("value")
	assert.True(t, errors.IsType(err, errors.ErrorTypeDataNotFound))
}

func TestInsertAndEraseRows(t *testing.T) {
	tbl := newTestTable(t)

	require.NoError(t, tbl.InsertRows(1, 2))
	assert.Equal(t, 5, tbl.RowCount())
	id, _ := tbl.Column("id")
	assert.Equal(t, 5, id.Len())
	invalid, err := id.IsInvalid(1)
	require.NoError(t, err)
	assert.True(t, invalid, "inserted rows start invalid")
	v, ok, err := column.Get[int](id, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, v, "old row shifted past the window")

	require.NoError(t, tbl.EraseRows(1, 2))
	assert.Equal(t, 3, tbl.RowCount())
	v, ok, _ = column.Get[int](id, 1)
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	err = tbl.EraseRows(9, 1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAccessOutOfRange))
	err = tbl.InsertRows(0, -1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIllegalInput))
}

func TestEraseRowsClipsAtEnd(t *testing.T) {
	tbl := newTestTable(t)
	require.NoError(t, tbl.EraseRows(2, 10))
	assert.Equal(t, 2, tbl.RowCount())
	id, _ := tbl.Column("id")
	assert.Equal(t, 2, id.Len())
}

func TestSetRowCount(t *testing.T) {
	tbl := newTestTable(t)
	require.NoError(t, tbl.SetRowCount(6))
	assert.Equal(t, 6, tbl.RowCount())
	val, _ := tbl.Column("value")
	assert.Equal(t, 6, val.Len())
	assert.Equal(t, 3, val.CountInvalid())

	require.NoError(t, tbl.SetRowCount(1))
	assert.Equal(t, 1, tbl.RowCount())

	err := tbl.SetRowCount(-1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIllegalInput))
}

func TestExtractRows(t *testing.T) {
	tbl := newTestTable(t)
	sub, err := tbl.ExtractRows(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, sub.RowCount())
	assert.Equal(t, tbl.Names(), sub.Names())

	label, _ := sub.Column("label")
	_, ok, err := label.GetString(0)
	require.NoError(t, err)
	assert.False(t, ok, "row 1 of the source had no label")
	v, ok, err := label.GetString(1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "c", v)

	// the extracted table is independent
	id, _ := sub.Column("id")
	require.NoError(t, column.Set(id, 0, 99))
	orig, _ := tbl.Column("id")
	v2, _, _ := column.Get[int](orig, 1)
	assert.Equal(t, 2, v2)

	// window past the end clips
	tail, err := tbl.ExtractRows(2, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, tail.RowCount())
}

func TestRow(t *testing.T) {
	tbl := newTestTable(t)
	row, err := tbl.Row(0)
	require.NoError(t, err)
	assert.Equal(t, 1, row["id"])
	assert.Equal(t, 0.0, row["value"])
	assert.Equal(t, "a", row["label"])

	row, err = tbl.Row(1)
	require.NoError(t, err)
	assert.Nil(t, row["label"], "invalid cells read as nil")

	_, err = tbl.Row(3)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAccessOutOfRange))
}

func TestMarshalJSON(t *testing.T) {
	tbl := newTestTable(t)
	raw, err := json.Marshal(tbl)
	require.NoError(t, err)

	var doc struct {
		RowCount int `json:"row_count"`
		Columns  []struct {
			Name string        `json:"name"`
			Type string        `json:"type"`
			Rows []interface{} `json:"rows"`
		} `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, 3, doc.RowCount)
	require.Len(t, doc.Columns, 3)
	assert.Equal(t, "id", doc.Columns[0].Name)
	assert.Equal(t, []interface{}{"a", nil, "c"}, doc.Columns[2].Rows)
}

func TestRowWithComplexColumn(t *testing.T) {
	tbl, err := New(1)
	require.NoError(t, err)
	require.NoError(t, tbl.NewColumn("z", column.ComplexDouble))
	z, _ := tbl.Column("z")
	require.NoError(t, column.Set(z, 0, complex128(1+2i)))

	row, err := tbl.Row(0)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"re": 1, "im": 2}, row["z"])
}
