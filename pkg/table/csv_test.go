package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/columna/pkg/column"
	"github.com/ajitpratap0/columna/pkg/errors"
)

func TestReadCSV(t *testing.T) {
	data := `id,value,label
1,1.5,a
2,,b
3,3.25,
`
	tbl, err := ReadCSV(strings.NewReader(data), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.RowCount())
	assert.Equal(t, []string{"id", "value", "label"}, tbl.Names())

	id, _ := tbl.Column("id")
	assert.Equal(t, column.Long, id.Type())
	v, ok, err := column.Get[int](id, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	val, _ := tbl.Column("value")
	assert.Equal(t, column.Double, val.Type())
	assert.Equal(t, 1, val.CountInvalid(), "empty cell loads invalid")
	f, ok, _ := column.Get[float64](val, 2)
	assert.True(t, ok)
	assert.Equal(t, 3.25, f)

	label, _ := tbl.Column("label")
	assert.Equal(t, column.String, label.Type())
	assert.Equal(t, 1, label.CountInvalid())
}

func TestReadCSVNoHeader(t *testing.T) {
	cfg := DefaultCSVConfig()
	cfg.HasHeader = false
	tbl, err := ReadCSV(strings.NewReader("10,x\n20,y\n"), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"column_0", "column_1"}, tbl.Names())
	assert.Equal(t, 2, tbl.RowCount())
}

func TestReadCSVMaxRows(t *testing.T) {
	cfg := DefaultCSVConfig()
	cfg.MaxRows = 2
	tbl, err := ReadCSV(strings.NewReader("n\n1\n2\n3\n4\n"), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.RowCount())
}

func TestReadCSVComments(t *testing.T) {
	data := "# generated file\nn\n7\n"
	tbl, err := ReadCSV(strings.NewReader(data), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.RowCount())
	n, _ := tbl.Column("n")
	v, ok, _ := column.Get[int](n, 0)
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestReadCSVMixedNumericFallsBackToDouble(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("x\n1\n2.5\n"), nil)
	require.NoError(t, err)
	x, _ := tbl.Column("x")
	assert.Equal(t, column.Double, x.Type())
	v, ok, _ := column.Get[float64](x, 0)
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(nil, nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNullInput))

	_, err = ReadCSV(strings.NewReader("a,b\n1\n"), nil)
	assert.Error(t, err, "ragged rows fail the csv reader")
}

func TestReadCSVEmpty(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(""), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.RowCount())
	assert.Equal(t, 0, tbl.ColumnCount())
}
