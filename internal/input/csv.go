package input

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadIDsFromCSV reads the identifier set from a CSV file with a header row
// containing an `id` column. The full set is read into memory before
// dispatch begins. Rows whose id cell is not a positive integer are an
// error: the input file is the contract with the caller, not a best-effort
// feed.
func LoadIDsFromCSV(path string) ([]int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	idCol := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "id") {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("input file %s has no id column", path)
	}

	var ids []int64
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row+1, err)
		}
		row++

		if idCol >= len(record) {
			return nil, fmt.Errorf("csv row %d has no id cell", row)
		}
		cell := strings.TrimSpace(record[idCol])
		id, err := strconv.ParseInt(cell, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("csv row %d: invalid id %q", row, cell)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
