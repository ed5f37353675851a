package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"
)

// #region raw

// Raw is an uncleaned dataset: heterogeneous cells straight from ingestion.
// Vector marks a flat list; Cells then holds one single-cell row per value,
// which Clean turns into an n x 1 column.
type Raw struct {
	Cells  [][]any
	Vector bool
}

// Decode parses a JSON list-of-lists or flat list into raw cells.
// Cells may be numbers, strings, booleans or null.
func Decode(data []byte) (Raw, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var top []any
	if err := dec.Decode(&top); err != nil {
		return Raw{}, invalidf("decode", "dataset must be a JSON array: %v", err)
	}
	if len(top) == 0 {
		return Raw{}, nil
	}

	_, nested := top[0].([]any)
	raw := Raw{Vector: !nested, Cells: make([][]any, 0, len(top))}
	for i, item := range top {
		row, isRow := item.([]any)
		if isRow != nested {
			return Raw{}, invalidf("decode", "element %d mixes rows and scalar values", i)
		}
		if !isRow {
			row = []any{item}
		}
		for j, cell := range row {
			switch cell.(type) {
			case nil, json.Number, string, bool:
			default:
				return Raw{}, invalidf("decode", "cell [%d][%d] has unsupported type %T", i, j, cell)
			}
		}
		raw.Cells = append(raw.Cells, row)
	}
	return raw, nil
}

// #endregion raw

// #region options

// DateMode selects how date cells become numbers.
type DateMode string

const (
	DateTimestamp DateMode = "timestamp" // unix seconds
	DateOrdinal   DateMode = "ordinal"   // proleptic Gregorian day number, 0001-01-01 = 1
)

// CleanOptions tunes preprocessing.
type CleanOptions struct {
	FillValue float64  // replaces missing cells
	DateMode  DateMode // empty means DateTimestamp
}

// DefaultCleanOptions returns zero fill and unix-second dates.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{FillValue: 0, DateMode: DateTimestamp}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ordinal of 1970-01-01 in the proleptic Gregorian calendar
const unixEpochOrdinal = 719163

// #endregion options

// #region clean

// Clean converts raw cells into a fully numeric clean matrix:
// entirely empty rows and columns are dropped, numeric strings become
// numbers, date columns become timestamps, remaining text columns become
// sorted category codes and missing cells take the fill value. The result is
// always two-dimensional: a flat list becomes a single n x 1 column.
func Clean(raw Raw, opts CleanOptions) (mat.Matrix, error) {
	if opts.DateMode == "" {
		opts.DateMode = DateTimestamp
	}
	if opts.DateMode != DateTimestamp && opts.DateMode != DateOrdinal {
		return nil, invalidf("clean", "unknown date mode %q", opts.DateMode)
	}

	width := 0
	for _, r := range raw.Cells {
		if len(r) > width {
			width = len(r)
		}
	}

	// Drop rows with no present cell; pad ragged rows with missing cells.
	var rows [][]any
	for _, r := range raw.Cells {
		if !anyPresent(r) {
			continue
		}
		padded := make([]any, width)
		copy(padded, r)
		rows = append(rows, padded)
	}

	// Drop columns with no present cell.
	var keep []int
	for j := 0; j < width; j++ {
		for _, r := range rows {
			if present(r[j]) {
				keep = append(keep, j)
				break
			}
		}
	}
	if len(rows) == 0 || len(keep) == 0 {
		return &mat.Dense{}, nil
	}

	out := make([][]float64, len(rows))
	for i := range out {
		out[i] = make([]float64, len(keep))
	}
	for k, j := range keep {
		column := make([]any, len(rows))
		for i, r := range rows {
			column[i] = r[j]
		}
		values, err := convertColumn(column, opts)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", j, err)
		}
		for i, v := range values {
			out[i][k] = v
		}
	}

	return FromRows(out)
}

// #endregion clean

// #region columns

// convertColumn picks numeric, date or categorical conversion for a column.
func convertColumn(column []any, opts CleanOptions) ([]float64, error) {
	if values, ok, err := numericColumn(column, opts.FillValue); err != nil || ok {
		return values, err
	}
	if values, ok := dateColumn(column, opts); ok {
		return values, nil
	}
	return categoryColumn(column, opts.FillValue), nil
}

func numericColumn(column []any, fill float64) ([]float64, bool, error) {
	out := make([]float64, len(column))
	for i, cell := range column {
		if !present(cell) {
			out[i] = fill
			continue
		}
		switch c := cell.(type) {
		case json.Number:
			f, err := c.Float64()
			if err != nil {
				return nil, false, invalidf("clean", "number %s out of range", c.String())
			}
			out[i] = f
		case float64:
			out[i] = c
		case bool:
			if c {
				out[i] = 1
			}
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, false, nil
			}
			out[i] = f
		default:
			return nil, false, nil
		}
	}
	return out, true, nil
}

func dateColumn(column []any, opts CleanOptions) ([]float64, bool) {
	out := make([]float64, len(column))
	for i, cell := range column {
		if !present(cell) {
			out[i] = opts.FillValue
			continue
		}
		s, ok := cell.(string)
		if !ok {
			return nil, false
		}
		t, ok := parseDate(strings.TrimSpace(s))
		if !ok {
			return nil, false
		}
		if opts.DateMode == DateOrdinal {
			out[i] = float64(floorDiv(t.Unix(), 86400) + unixEpochOrdinal)
		} else {
			out[i] = float64(t.Unix())
		}
	}
	return out, true
}

func categoryColumn(column []any, fill float64) []float64 {
	labels := make([]string, len(column))
	distinct := make(map[string]struct{})
	for i, cell := range column {
		if !present(cell) {
			continue
		}
		labels[i] = cellString(cell)
		distinct[labels[i]] = struct{}{}
	}
	sorted := make([]string, 0, len(distinct))
	for s := range distinct {
		sorted = append(sorted, s)
	}
	sort.Strings(sorted)
	codes := make(map[string]int, len(sorted))
	for i, s := range sorted {
		codes[s] = i
	}

	out := make([]float64, len(column))
	for i, cell := range column {
		if !present(cell) {
			out[i] = fill
			continue
		}
		out[i] = float64(codes[labels[i]])
	}
	return out
}

// #endregion columns

// #region helpers

func present(cell any) bool {
	switch c := cell.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(c) != ""
	}
	return true
}

func anyPresent(row []any) bool {
	for _, c := range row {
		if present(c) {
			return true
		}
	}
	return false
}

func cellString(cell any) string {
	switch c := cell.(type) {
	case string:
		return strings.TrimSpace(c)
	case json.Number:
		return c.String()
	default:
		return fmt.Sprint(c)
	}
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// #endregion helpers
