package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// loadCSVMatrix reads a rectangular numeric CSV file into a dense matrix.
// Every record must have the same number of fields and every field must
// parse as a float.
func loadCSVMatrix(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, fmt.Errorf("%s: matrix is empty", path)
	}

	rows, cols := len(records), len(records[0])
	data := make([]float64, 0, rows*cols)
	for i, record := range records {
		if len(record) != cols {
			return nil, fmt.Errorf("%s: row %d has %d fields, want %d", path, i+1, len(record), cols)
		}
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d col %d: %w", path, i+1, j+1, err)
			}
			data = append(data, v)
		}
	}
	return mat.NewDense(rows, cols, data), nil
}
