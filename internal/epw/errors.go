package epw

import "errors"

// Fatal parse errors. Each corresponds to an input that leaves zero usable
// rows; everything less severe degrades into diagnostics instead.
var (
	// ErrEmptyDataset means the file has no data rows past the 8 header lines.
	ErrEmptyDataset = errors.New("epw: no data rows after header")

	// ErrInsufficientColumns means the widest data row has fewer than the 5
	// columns needed for year/month/day/hour/minute.
	ErrInsufficientColumns = errors.New("epw: fewer than 5 raw columns")

	// ErrNoValidTimeRows means every row was dropped for missing time fields.
	ErrNoValidTimeRows = errors.New("epw: no rows with complete time information")

	// ErrNoValidCalendarRows means every row was dropped because its time
	// components do not form a valid calendar instant.
	ErrNoValidCalendarRows = errors.New("epw: no rows with a valid calendar timestamp")
)
