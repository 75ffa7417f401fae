package simulation

import "time"

// AddMonths returns the date n calendar months after start, clamping the
// day-of-month to the length of the target month (Jan 31 + 1 month is
// Feb 28/29, never an overflow into March).
func AddMonths(start time.Time, months int) time.Time {
	total := start.Year()*12 + int(start.Month()) - 1 + months
	year := total / 12
	month := time.Month(total%12 + 1)

	day := start.Day()
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}

	return time.Date(year, month, day, 0, 0, 0, 0, start.Location())
}

// lastDayOfMonth uses the day-zero normalisation of time.Date: day 0 of the
// following month is the last day of this one.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// monthLabel renders a human-readable month, e.g. "Jan 2024".
func monthLabel(date time.Time) string {
	return date.Format("Jan 2006")
}
