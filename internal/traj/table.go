package traj

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Table is an ordered collection of numeric rows with named columns. Missing
// values are stored as NaN. It is the sole ingestion format for trajectory
// construction; reading files into a Table is a caller concern, with ReadCSV
// provided as a convenience.
type Table struct {
	Columns []string
	Rows    [][]float64
}

// NumRows returns the number of rows in the table.
func (tb *Table) NumRows() int {
	return len(tb.Rows)
}

// ColumnRef selects a table column either by name or by zero-based position.
// A non-empty Name takes precedence over Index.
type ColumnRef struct {
	Name  string
	Index int
}

// NamedColumn returns a ColumnRef addressing a column by header name.
func NamedColumn(name string) ColumnRef {
	return ColumnRef{Name: name}
}

// IndexedColumn returns a ColumnRef addressing a column by position.
func IndexedColumn(i int) ColumnRef {
	return ColumnRef{Index: i}
}

// resolve maps the reference to a concrete column index. Resolution happens
// once at construction time; row access afterwards is plain indexing.
func (c ColumnRef) resolve(tb *Table) (int, error) {
	if c.Name != "" {
		for i, name := range tb.Columns {
			if name == c.Name {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%w: no column named %q", ErrInvalidInput, c.Name)
	}
	if c.Index < 0 || (len(tb.Rows) > 0 && c.Index >= len(tb.Rows[0])) {
		return 0, fmt.Errorf("%w: column index %d out of range", ErrInvalidInput, c.Index)
	}
	return c.Index, nil
}

// missingMarkers are the cell values treated as absent coordinates when
// parsing CSV input.
var missingMarkers = map[string]bool{
	"":    true,
	"NA":  true,
	"N/A": true,
	"NaN": true,
	"nan": true,
}

// ReadCSV parses CSV data into a Table. If the first record contains any
// non-numeric cell it is taken as the header row; otherwise columns are named
// positionally ("c0", "c1", ...). Cells matching a missing-value marker parse
// as NaN.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty csv input", ErrInvalidInput)
	}

	tb := &Table{}
	start := 0
	if isHeaderRow(records[0]) {
		tb.Columns = records[0]
		start = 1
	} else {
		for i := range records[0] {
			tb.Columns = append(tb.Columns, fmt.Sprintf("c%d", i))
		}
	}

	for _, record := range records[start:] {
		row := make([]float64, len(record))
		for i, cell := range record {
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %v",
					ErrInvalidInput, len(tb.Rows), i, err)
			}
			row[i] = v
		}
		tb.Rows = append(tb.Rows, row)
	}
	return tb, nil
}

// LoadCSV reads a CSV file from disk into a Table.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

func isHeaderRow(record []string) bool {
	for _, cell := range record {
		cell = strings.TrimSpace(cell)
		if missingMarkers[cell] {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return true
		}
	}
	return false
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if missingMarkers[cell] {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric value %q", cell)
	}
	return v, nil
}

// WriteCSV writes a trajectory as CSV with an x,y,time header, the inverse of
// the ReadCSV/FromTable ingestion path.
func WriteCSV(w io.Writer, t *Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "time"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := 0; i < t.NFrames; i++ {
		record := []string{
			strconv.FormatFloat(t.X[i], 'g', -1, 64),
			strconv.FormatFloat(t.Y[i], 'g', -1, 64),
			strconv.FormatFloat(t.Time[i], 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
