package epw

// DefaultUnifiedYear is the reference year timestamps are rewritten to when
// the configuration does not override it. 2000 is a leap year, so Feb 29
// source rows survive unification.
const DefaultUnifiedYear = 2000

// UnifyYear rewrites the year of every timestamp to the given reference year,
// leaving month, day, hour, and minute untouched, so multi-year or year-less
// data align on one time axis. Rows whose month/day do not exist in the
// reference year (Feb 29 against a non-leap year) are dropped with an info
// message. Timestamps are naive Local Standard Time throughout; the header's
// timezone offset is never applied, and a diagnostic states so explicitly.
// Returns ErrNoValidCalendarRows if no rows survive.
func UnifyYear(records []Record, year int, diags *Diagnostics) ([]Record, error) {
	diags.Infof("Timezone from EPW header ignored. Timestamps are naive local standard time.")

	unified := make([]Record, 0, len(records))
	dropped := 0
	for _, rec := range records {
		ts := rec.Timestamp
		u, ok := calendarInstant(year, int(ts.Month()), ts.Day(), ts.Hour(), ts.Minute())
		if !ok {
			dropped++
			continue
		}
		rec.Timestamp = u
		unified = append(unified, rec)
	}

	if dropped > 0 {
		diags.Infof("Removed %d rows that do not exist in year %d.", dropped, year)
	}
	if len(unified) == 0 {
		diags.Errorf("No valid rows remaining after unifying to year %d.", year)
		return nil, ErrNoValidCalendarRows
	}
	diags.Infof("Unified all data points to year %d.", year)
	return unified, nil
}
