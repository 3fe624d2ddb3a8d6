package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/vrplot/pkg/errors"
)

// missingTokens are cell values treated as missing in numeric columns.
var missingTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"NaN":  true,
	"nan":  true,
	"null": true,
}

// Load reads a dataset from a .csv or .json file. The dataset is named
// after the file without its extension.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "read %s", path)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(name, filepath.Ext(path), data)
}

// Parse decodes data according to ext (".csv" or ".json").
func Parse(name, ext string, data []byte) (*Dataset, error) {
	switch strings.ToLower(ext) {
	case ".csv":
		return ReadCSV(name, bytes.NewReader(data))
	case ".json":
		return ReadJSON(name, bytes.NewReader(data))
	default:
		return nil, errors.New(errors.ErrCodeInvalidDataset, "unsupported dataset format %q (must be .csv or .json)", ext)
	}
}

// ReadCSV reads a CSV document with a header row. A column is numeric when
// every non-missing cell parses as a number; otherwise it is categorical.
// An unnamed first column is named [RowNamesColumn].
func ReadCSV(name string, r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "parse csv")
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "csv has no header row")
	}

	header := rows[0]
	if len(header) > 0 && header[0] == "" {
		header[0] = RowNamesColumn
	}
	cells := make([][]string, len(header))
	for _, row := range rows[1:] {
		for j := range header {
			cells[j] = append(cells[j], row[j])
		}
	}

	cols := make([]Column, len(header))
	for j, h := range header {
		cols[j] = inferColumn(h, cells[j])
	}
	return New(name, cols...)
}

// inferColumn converts raw cells to a numeric column when possible.
func inferColumn(name string, cells []string) Column {
	nums := make([]float64, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		if missingTokens[c] {
			nums[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return Column{Name: name, Values: append([]string{}, cells...)}
		}
		nums[i] = f
	}
	return Column{Name: name, Values: nums}
}

// ReadJSON reads an array of flat JSON objects. Columns appear in order of
// first appearance; keys absent from a record are missing values. Numbers
// and nulls form numeric columns, anything else makes the column
// categorical.
func ReadJSON(name string, r io.Reader) (*Dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "parse json")
	}

	var order []string
	index := make(map[string]int)
	values := make([][]any, 0)
	for i, rec := range raw {
		keys, vals, err := decodeObject(rec)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "record %d", i)
		}
		for k, key := range keys {
			j, ok := index[key]
			if !ok {
				j = len(order)
				index[key] = j
				order = append(order, key)
				values = append(values, make([]any, len(raw)))
			}
			values[j][i] = vals[k]
		}
	}

	cols := make([]Column, len(order))
	for j, key := range order {
		cols[j] = jsonColumn(key, values[j])
	}
	return New(name, cols...)
}

// decodeObject decodes one JSON object preserving key order.
func decodeObject(data []byte) ([]string, []any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, errors.New(errors.ErrCodeInvalidDataset, "expected object")
	}
	var keys []string
	var vals []any
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		vals = append(vals, v)
	}
	return keys, vals, nil
}

func jsonColumn(name string, vals []any) Column {
	nums := make([]float64, len(vals))
	numeric := true
	for i, v := range vals {
		switch v := v.(type) {
		case nil:
			nums[i] = math.NaN()
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				numeric = false
			}
			nums[i] = f
		default:
			numeric = false
		}
		if !numeric {
			break
		}
	}
	if numeric {
		return Column{Name: name, Values: nums}
	}

	strs := make([]string, len(vals))
	for i, v := range vals {
		switch v := v.(type) {
		case nil:
			strs[i] = "NA"
		case string:
			strs[i] = v
		default:
			b, _ := json.Marshal(v)
			strs[i] = string(b)
		}
	}
	return Column{Name: name, Values: strs}
}
