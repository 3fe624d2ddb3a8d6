// Package dataset loads tabular input data for scene building.
//
// A [Dataset] is a column-oriented table backed by a go-gg table. Every
// column is either numeric ([]float64, missing values are NaN) or
// categorical ([]string). Datasets are read from CSV or JSON and are
// immutable once built.
//
//	ds, err := dataset.Load("mtcars.csv")
//	mpg, err := ds.Numeric("mpg")
//	cyl, err := ds.Strings("cyl")
package dataset

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/aclements/go-gg/table"

	"github.com/matzehuels/vrplot/pkg/errors"
)

// Kind classifies a column.
type Kind int

const (
	// Numeric columns hold float64 values; NaN marks a missing value.
	Numeric Kind = iota + 1
	// Categorical columns hold string values.
	Categorical
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// RowNamesColumn is the name given to an unnamed leading CSV column, which
// is how R writes row names.
const RowNamesColumn = "rownames"

// Column is a named column used to construct a Dataset.
// Values must be a []float64 or a []string.
type Column struct {
	Name   string
	Values any
}

// Dataset is an immutable column-oriented table.
type Dataset struct {
	name string
	tab  *table.Table
}

// New builds a dataset from columns. All columns must have the same length
// and distinct, valid names.
func New(name string, cols ...Column) (*Dataset, error) {
	b := new(table.Builder)
	seen := make(map[string]bool, len(cols))
	n := -1
	for _, c := range cols {
		if err := errors.ValidateColumnName(c.Name); err != nil {
			return nil, err
		}
		if seen[c.Name] {
			return nil, errors.New(errors.ErrCodeInvalidDataset, "duplicate column %q", c.Name)
		}
		seen[c.Name] = true

		var length int
		switch v := c.Values.(type) {
		case []float64:
			length = len(v)
		case []string:
			length = len(v)
		default:
			return nil, errors.New(errors.ErrCodeColumnType, "column %q: unsupported type %T", c.Name, c.Values)
		}
		if n >= 0 && length != n {
			return nil, errors.New(errors.ErrCodeInvalidDataset, "column %q has %d rows, want %d", c.Name, length, n)
		}
		n = length
		b.Add(c.Name, c.Values)
	}
	return &Dataset{name: name, tab: b.Done()}, nil
}

// Name returns the dataset name (usually the file name without extension).
func (d *Dataset) Name() string { return d.name }

// Table returns the underlying go-gg table.
func (d *Dataset) Table() *table.Table { return d.tab }

// Len returns the number of rows.
func (d *Dataset) Len() int { return d.tab.Len() }

// Columns returns the column names in input order.
func (d *Dataset) Columns() []string { return d.tab.Columns() }

// Has reports whether the dataset has a column with the given name.
func (d *Dataset) Has(name string) bool { return d.tab.Column(name) != nil }

// Kind returns the kind of the named column, or 0 if it does not exist.
func (d *Dataset) Kind(name string) Kind {
	switch d.tab.Column(name).(type) {
	case []float64:
		return Numeric
	case []string:
		return Categorical
	default:
		return 0
	}
}

// Numeric returns a copy of a numeric column.
func (d *Dataset) Numeric(name string) ([]float64, error) {
	col := d.tab.Column(name)
	if col == nil {
		return nil, d.notFound(name)
	}
	v, ok := col.([]float64)
	if !ok {
		return nil, errors.New(errors.ErrCodeColumnType, "column %q is %s, want numeric", name, d.Kind(name))
	}
	return append([]float64(nil), v...), nil
}

// Strings returns a column as strings. Numeric columns are formatted with
// the shortest representation; missing values become "NA".
func (d *Dataset) Strings(name string) ([]string, error) {
	col := d.tab.Column(name)
	if col == nil {
		return nil, d.notFound(name)
	}
	switch v := col.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []float64:
		out := make([]string, len(v))
		for i, f := range v {
			out[i] = formatValue(f)
		}
		return out, nil
	default:
		return nil, errors.New(errors.ErrCodeColumnType, "column %q has unsupported type %T", name, col)
	}
}

// Records returns the rows as maps from column name to value. Missing
// numeric values are nil.
func (d *Dataset) Records() []map[string]any {
	cols := d.Columns()
	out := make([]map[string]any, d.Len())
	for i := range out {
		out[i] = make(map[string]any, len(cols))
	}
	for _, name := range cols {
		switch v := d.tab.Column(name).(type) {
		case []float64:
			for i, f := range v {
				if math.IsNaN(f) {
					out[i][name] = nil
				} else {
					out[i][name] = f
				}
			}
		case []string:
			for i, s := range v {
				out[i][name] = s
			}
		}
	}
	return out
}

// MarshalJSON encodes the dataset as an array of records.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Records())
}

func (d *Dataset) notFound(name string) error {
	return errors.New(errors.ErrCodeColumnNotFound, "column %q not found (have %v)", name, d.Columns())
}

func formatValue(f float64) string {
	if math.IsNaN(f) {
		return "NA"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
