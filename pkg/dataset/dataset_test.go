package dataset

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/vrplot/pkg/errors"
)

const carsCSV = `"","mpg","cyl","wt"
"Mazda RX4",21,6,2.62
"Datsun 710",22.8,4,2.32
"Valiant",NA,6,3.46
`

func TestReadCSV(t *testing.T) {
	ds, err := ReadCSV("cars", strings.NewReader(carsCSV))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	if ds.Name() != "cars" {
		t.Errorf("Name() = %q", ds.Name())
	}
	if ds.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ds.Len())
	}
	wantCols := []string{RowNamesColumn, "mpg", "cyl", "wt"}
	if got := ds.Columns(); strings.Join(got, ",") != strings.Join(wantCols, ",") {
		t.Errorf("Columns() = %v, want %v", got, wantCols)
	}

	if k := ds.Kind(RowNamesColumn); k != Categorical {
		t.Errorf("Kind(rownames) = %v, want categorical", k)
	}
	if k := ds.Kind("mpg"); k != Numeric {
		t.Errorf("Kind(mpg) = %v, want numeric", k)
	}

	mpg, err := ds.Numeric("mpg")
	if err != nil {
		t.Fatal(err)
	}
	if mpg[0] != 21 || mpg[1] != 22.8 || !math.IsNaN(mpg[2]) {
		t.Errorf("mpg = %v", mpg)
	}

	cyl, err := ds.Strings("cyl")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(cyl, ",") != "6,4,6" {
		t.Errorf("Strings(cyl) = %v", cyl)
	}
	mpgStr, _ := ds.Strings("mpg")
	if mpgStr[2] != "NA" {
		t.Errorf("missing value formatted as %q, want NA", mpgStr[2])
	}
}

func TestNumericCopies(t *testing.T) {
	ds, _ := ReadCSV("cars", strings.NewReader(carsCSV))
	a, _ := ds.Numeric("wt")
	a[0] = 100
	b, _ := ds.Numeric("wt")
	if b[0] == 100 {
		t.Error("Numeric should return a copy")
	}
}

func TestColumnErrors(t *testing.T) {
	ds, _ := ReadCSV("cars", strings.NewReader(carsCSV))

	if _, err := ds.Numeric("hp"); !errors.Is(err, errors.ErrCodeColumnNotFound) {
		t.Errorf("Numeric(hp) error = %v, want COLUMN_NOT_FOUND", err)
	}
	if _, err := ds.Numeric(RowNamesColumn); !errors.Is(err, errors.ErrCodeColumnType) {
		t.Errorf("Numeric(rownames) error = %v, want COLUMN_TYPE", err)
	}
	if ds.Has("hp") || !ds.Has("wt") {
		t.Error("Has reports wrong membership")
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cols []Column
		code errors.Code
	}{
		{"length mismatch", []Column{{"a", []float64{1, 2}}, {"b", []float64{1}}}, errors.ErrCodeInvalidDataset},
		{"duplicate", []Column{{"a", []float64{1}}, {"a", []float64{2}}}, errors.ErrCodeInvalidDataset},
		{"bad type", []Column{{"a", []int{1}}}, errors.ErrCodeColumnType},
		{"bad name", []Column{{"a;b", []float64{1}}}, errors.ErrCodeInvalidDataset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("t", tt.cols...)
			if !errors.Is(err, tt.code) {
				t.Errorf("New() error = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestReadJSON(t *testing.T) {
	input := `[
		{"species": "setosa", "petal": 1.4, "sepal": 5.1},
		{"species": "virginica", "petal": null, "sepal": 6.3},
		{"species": "versicolor", "sepal": 7.0, "petal": 4.7}
	]`
	ds, err := ReadJSON("iris", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if got := strings.Join(ds.Columns(), ","); got != "species,petal,sepal" {
		t.Errorf("Columns() = %s", got)
	}
	petal, err := ds.Numeric("petal")
	if err != nil {
		t.Fatal(err)
	}
	if petal[0] != 1.4 || !math.IsNaN(petal[1]) || petal[2] != 4.7 {
		t.Errorf("petal = %v", petal)
	}
	if ds.Kind("species") != Categorical {
		t.Errorf("species should be categorical")
	}
}

func TestReadJSONMixedColumn(t *testing.T) {
	ds, err := ReadJSON("m", strings.NewReader(`[{"v": 1}, {"v": "x"}, {}]`))
	if err != nil {
		t.Fatal(err)
	}
	v, err := ds.Strings("v")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(v, ",") != "1,x,NA" {
		t.Errorf("v = %v", v)
	}
}

func TestReadJSONInvalid(t *testing.T) {
	for _, input := range []string{`{"a": 1}`, `[1, 2]`, `[{"a": 1}`} {
		if _, err := ReadJSON("bad", strings.NewReader(input)); !errors.Is(err, errors.ErrCodeInvalidDataset) {
			t.Errorf("ReadJSON(%s) error = %v, want INVALID_DATASET", input, err)
		}
	}
}

func TestRecordsJSON(t *testing.T) {
	ds, _ := ReadCSV("cars", strings.NewReader(carsCSV))
	data, err := json.Marshal(ds)
	if err != nil {
		t.Fatal(err)
	}
	var recs []map[string]any
	if err := json.Unmarshal(data, &recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records", len(recs))
	}
	if recs[0][RowNamesColumn] != "Mazda RX4" || recs[0]["mpg"] != 21.0 {
		t.Errorf("record 0 = %v", recs[0])
	}
	if v, ok := recs[2]["mpg"]; !ok || v != nil {
		t.Errorf("missing mpg should encode as null, got %v", v)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cars.csv")
	if err := os.WriteFile(path, []byte(carsCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Name() != "cars" || ds.Len() != 3 {
		t.Errorf("Load = %s/%d", ds.Name(), ds.Len())
	}

	if _, err := Load(filepath.Join(dir, "missing.csv")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := Parse("x", ".xlsx", nil); !errors.Is(err, errors.ErrCodeInvalidDataset) {
		t.Errorf("Parse(.xlsx) error = %v, want INVALID_DATASET", err)
	}
}
