package csvtable

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// table is one parsed CSV snapshot with a column index built from the
// header row.
type table struct {
	name string
	cols map[string]int
	rows [][]string
}

// readTable opens and parses a CSV file, validating that every required
// column is present. A missing file or column is a configuration error and
// must surface to the caller rather than degrade into an empty table.
func readTable(path, name string, required []string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("dataset table %q missing at %s: run the offline refresh step first", name, path)
		}
		return nil, fmt.Errorf("open dataset table %q: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse dataset table %q: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset table %q has no header row", name)
	}

	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[strings.TrimSpace(h)] = i
	}
	for _, col := range required {
		if _, ok := cols[col]; !ok {
			return nil, fmt.Errorf("dataset table %q: required column %q absent", name, col)
		}
	}

	return &table{name: name, cols: cols, rows: records[1:]}, nil
}

func (t *table) str(row []string, col string) string {
	idx, ok := t.cols[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// float coerces a numeric cell, treating blanks and malformed values as
// zero the same way the cleaning pipelines do.
func (t *table) float(row []string, col string) float64 {
	s := strings.ReplaceAll(t.str(row, col), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func (t *table) int(row []string, col string) int {
	return int(t.float(row, col))
}

// flag reads 0/1 indicator columns; "true"/"false" are accepted too.
func (t *table) flag(row []string, col string) bool {
	s := strings.ToLower(t.str(row, col))
	return s == "1" || s == "true"
}
