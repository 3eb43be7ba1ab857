package epw

import "time"

// NormalizeTimes converts EPW's 1-24 hour / minute-60 rollover convention
// into valid calendar timestamps, row by row:
//
//  1. shift the raw hour down by 1;
//  2. fold minute overflow into the hour (minute 60 becomes +1 hour, minute 0);
//  3. fold hour overflow into a day increment, with floor semantics so the
//     increment compounds for values past a single extra day;
//  4. apply the day increment calendar-aware (month, year, and leap
//     boundaries respected); rows whose provisional date cannot be
//     constructed keep their original date and are flagged, not dropped;
//  5. build the final timestamp; rows whose components still do not form a
//     valid instant are dropped with a single info message.
//
// No ordering is imposed: rows keep file order and monotonicity is not
// required. Returns ErrNoValidCalendarRows when no rows survive.
func NormalizeTimes(rows []MappedRow, diags *Diagnostics) ([]Record, error) {
	records := make([]Record, 0, len(rows))
	unshiftable := 0
	invalid := 0

	for _, row := range rows {
		hour := row.Hour - 1
		hour += floorDiv(row.Minute, 60)
		minute := floorMod(row.Minute, 60)
		dayIncrement := floorDiv(hour, 24)
		hour = floorMod(hour, 24)

		year, month, day := row.Year, row.Month, row.Day
		if dayIncrement > 0 {
			base, ok := calendarDate(year, month, day)
			if !ok {
				unshiftable++
			} else {
				shifted := base.AddDate(0, 0, dayIncrement)
				year, month, day = shifted.Year(), int(shifted.Month()), shifted.Day()
			}
		}

		ts, ok := calendarInstant(year, month, day, hour, minute)
		if !ok {
			invalid++
			continue
		}
		records = append(records, Record{Timestamp: ts, Values: row.Values})
	}

	if unshiftable > 0 {
		diags.Warningf("Could not apply day rollover to %d rows with invalid dates.", unshiftable)
	}
	if invalid > 0 {
		diags.Infof("Removed %d rows with invalid date/time combinations.", invalid)
	}
	if len(records) == 0 {
		diags.Errorf("No valid date/time rows found after validation.")
		return nil, ErrNoValidCalendarRows
	}
	return records, nil
}

// calendarDate builds a date and reports whether (year, month, day) name a
// real calendar day. time.Date normalizes out-of-range components (Feb 30
// becomes Mar 2), so validity is checked by round-tripping them.
func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// calendarInstant builds a timestamp and reports whether all five components
// name a valid calendar instant.
func calendarInstant(year, month, day, hour, minute int) (time.Time, bool) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, false
	}
	d, ok := calendarDate(year, month, day)
	if !ok {
		return time.Time{}, false
	}
	return d.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), true
}

// floorDiv is integer division rounding toward negative infinity. The hour
// arithmetic relies on floor semantics: a raw hour of 0 shifts to -1, which
// must wrap to 23:00 of the same day rather than roll the date forward.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod is the modulus companion of floorDiv; the result has b's sign.
func floorMod(a, b int) int {
	m := a % b
	if m != 0 && (a < 0) != (b < 0) {
		m += b
	}
	return m
}
