package criteria

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

var headerNames = []string{"criteria", "criterion", "evaluation criteria", "name"}

// ReadRows reads the rubric table from a spreadsheet or delimited text
// file. The format is chosen by the filename extension. A leading header
// row is dropped.
func ReadRows(filename string, r io.Reader) ([][]string, error) {
	var (
		rows [][]string
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		rows, err = readSpreadsheet(r)
	case ".csv":
		rows, err = readDelimited(r, ',')
	case ".tsv":
		rows, err = readDelimited(r, '\t')
	case ".txt":
		rows, err = readText(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	return dropHeader(rows), nil
}

// Load reads and parses a rubric in one step.
func Load(filename string, r io.Reader) (*Model, error) {
	rows, err := ReadRows(filename, r)
	if err != nil {
		return nil, err
	}
	return Parse(rows)
}

func readSpreadsheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %w", ErrMalformedRubric, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedRubric)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %w", ErrMalformedRubric, sheets[0], err)
	}
	return rows, nil
}

func readDelimited(r io.Reader, comma rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRubric, err)
	}
	return rows, nil
}

// readText sniffs the delimiter from the first non-blank line: tab when
// present, comma otherwise.
func readText(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read rubric: %w", err)
	}

	comma := ','
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(line, "\t") {
			comma = '\t'
		}
		break
	}

	return readDelimited(bytes.NewReader(data), comma)
}

func dropHeader(rows [][]string) [][]string {
	for i, row := range rows {
		name, classifier := cell(row, 0), cell(row, 1)
		if name == "" && classifier == "" && cell(row, 2) == "" {
			continue
		}
		if slices.Contains(headerNames, strings.ToLower(name)) {
			if _, numeric := parseWeighting(classifier); !numeric {
				return rows[i+1:]
			}
		}
		return rows
	}
	return rows
}
