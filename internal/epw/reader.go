package epw

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

const (
	// headerLineCount is the fixed EPW header length skipped before data rows.
	headerLineCount = 8

	// maxRawColumns caps how many positional cells one row can contribute.
	maxRawColumns = 100

	// minTimeColumns is the floor below which parsing cannot proceed:
	// year, month, day, hour, minute.
	minTimeColumns = 5

	// minExpectedColumns is the economic threshold of a standard EPW row;
	// narrower files keep their time fields but lose auxiliary data.
	minExpectedColumns = 23
)

// RawTable is the positional record set decoded from the data section of an
// EPW file. Rows keep their original cell strings; rows shorter than Width
// are treated as padded with missing cells.
type RawTable struct {
	Rows  [][]string
	Width int
}

// Cell returns the cell at (row, column), or "" when the row is too short.
func (t *RawTable) Cell(row, column int) string {
	r := t.Rows[row]
	if column >= len(r) {
		return ""
	}
	return r[column]
}

// ReadRawTable decodes the data section of an EPW byte stream: it skips the
// 8 header lines, then splits each remaining non-blank line into up to 100
// comma-separated cells. Lines with fewer cells are padded with missing
// values, not rejected. Returns ErrEmptyDataset when no data rows exist and
// ErrInsufficientColumns when the widest row cannot hold the five core time
// fields; a width below the full 23-column threshold only degrades with a
// warning.
func ReadRawTable(content []byte, diags *Diagnostics) (*RawTable, error) {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	table := &RawTable{}
	line := 0
	for scanner.Scan() {
		line++
		if line <= headerLineCount {
			continue
		}
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		cells := strings.Split(text, ",")
		if len(cells) > maxRawColumns {
			cells = cells[:maxRawColumns]
		}
		if len(cells) > table.Width {
			table.Width = len(cells)
		}
		table.Rows = append(table.Rows, cells)
	}
	if err := scanner.Err(); err != nil {
		diags.Errorf("Fatal error reading EPW data: %v", err)
		return nil, fmt.Errorf("scan EPW data: %w", err)
	}

	if len(table.Rows) == 0 {
		diags.Errorf("EPW file appears to have no data rows after the header.")
		return nil, ErrEmptyDataset
	}
	if table.Width < minExpectedColumns {
		diags.Warningf("EPW data has only %d columns, expected at least %d. Some data may be missing.",
			table.Width, minExpectedColumns)
		if table.Width < minTimeColumns {
			diags.Errorf("Core time columns (0-4) missing. Cannot proceed.")
			return nil, ErrInsufficientColumns
		}
	}
	return table, nil
}
