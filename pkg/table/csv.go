package table

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ajitpratap0/columna/pkg/column"
	"github.com/ajitpratap0/columna/pkg/errors"
	"github.com/ajitpratap0/columna/pkg/logger"
	stringpool "github.com/ajitpratap0/columna/pkg/strings"
	"go.uber.org/zap"
)

// CSVConfig configures CSV loading behavior.
type CSVConfig struct {
	Delimiter rune `json:"delimiter"`
	Comment   rune `json:"comment"`
	HasHeader bool `json:"has_header"`
	// MaxRows caps the number of data rows read; 0 means no limit.
	MaxRows int `json:"max_rows"`
}

// DefaultCSVConfig returns the default CSV loading configuration.
func DefaultCSVConfig() *CSVConfig {
	return &CSVConfig{
		Delimiter: ',',
		Comment:   '#',
		HasHeader: true,
	}
}

// ReadCSV loads CSV data into a new table. Each field's kind is
// inferred over the whole file: a column where every non-empty cell
// parses as an integer loads as Long, otherwise as Double if every
// cell parses as a float, otherwise as String. Empty cells become
// invalid rows.
func ReadCSV(r io.Reader, cfg *CSVConfig) (*Table, error) {
	if r == nil {
		return nil, errors.New(errors.ErrorTypeNullInput, "nil reader")
	}
	if cfg == nil {
		cfg = DefaultCSVConfig()
	}

	cr := csv.NewReader(r)
	cr.Comma = cfg.Delimiter
	cr.Comment = cfg.Comment
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIllegalInput, "reading csv")
	}
	if len(records) == 0 {
		return New(0)
	}

	var headers []string
	if cfg.HasHeader {
		headers = records[0]
		records = records[1:]
	} else {
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = "column_" + strconv.Itoa(i)
		}
	}
	if cfg.MaxRows > 0 && len(records) > cfg.MaxRows {
		records = records[:cfg.MaxRows]
	}

	t, err := New(len(records))
	if err != nil {
		return nil, err
	}
	for fi, name := range headers {
		cells := make([]string, len(records))
		for ri, rec := range records {
			if fi < len(rec) {
				cells[ri] = rec[fi]
			}
		}
		c, err := buildColumn(cells)
		if err != nil {
			return nil, err
		}
		if err := t.AddColumn(name, c); err != nil {
			return nil, err
		}
	}

	logger.Debug("loaded csv",
		zap.Int("rows", t.RowCount()),
		zap.Int("columns", t.ColumnCount()))
	return t, nil
}

// buildColumn infers the kind of one field from its cells and
// materializes the column. Empty cells stay invalid. String values
// are interned so repeated categorical cells share backing storage.
func buildColumn(cells []string) (*column.Column, error) {
	typ := inferKind(cells)
	c, err := column.New(typ, len(cells))
	if err != nil {
		return nil, err
	}
	if typ == column.String {
		strs, err := c.Strings()
		if err != nil {
			return nil, err
		}
		intern := stringpool.NewIntern()
		for i, cell := range cells {
			if cell == "" {
				continue
			}
			v := intern.Get(cell)
			strs[i] = &v
		}
		return c, nil
	}
	for i, cell := range cells {
		if cell == "" {
			continue
		}
		switch typ {
		case column.Long:
			v, _ := strconv.Atoi(cell)
			err = column.Set(c, i, v)
		default:
			v, _ := strconv.ParseFloat(cell, 64)
			err = column.Set(c, i, v)
		}
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// inferKind picks the narrowest kind every non-empty cell fits.
func inferKind(cells []string) column.Type {
	isInt := true
	isFloat := true
	empty := true
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		empty = false
		if isInt {
			if _, err := strconv.Atoi(cell); err != nil {
				isInt = false
			}
		}
		if !isInt && isFloat {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				isFloat = false
			}
		}
	}
	switch {
	case empty:
		return column.String
	case isInt:
		return column.Long
	case isFloat:
		return column.Double
	default:
		return column.String
	}
}
