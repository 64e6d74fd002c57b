package dateutil

import (
	"fmt"
	"time"
)

const (
	// CompactLayout is the YYYYMMDD layout used by the calendar feed
	CompactLayout = "20060102"
	// ISODateLayout is the YYYY-MM-DD layout used in API responses
	ISODateLayout = "2006-01-02"
)

// AddMonths returns the (year, month) reached by moving n months forward from
// the month of date. n must be non-negative.
func AddMonths(date time.Time, n int) (int, time.Month) {
	// Split n first so the month index never overflows
	year := date.Year() + n/12
	month := int(date.Month()) - 1 + n%12

	year += month / 12
	return year, time.Month(month%12 + 1)
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseCompact parses a YYYYMMDD date string (UTC midnight)
func ParseCompact(dateStr string) (time.Time, error) {
	if len(dateStr) != len(CompactLayout) {
		return time.Time{}, fmt.Errorf("date %q is not in YYYYMMDD format", dateStr)
	}
	return time.Parse(CompactLayout, dateStr)
}

// FormatISODate formats date as YYYY-MM-DD
func FormatISODate(date time.Time) string {
	return date.Format(ISODateLayout)
}

// MonthPrefix returns the YYYYMM prefix shared by every compact date of the month
func MonthPrefix(year int, month time.Month) string {
	return fmt.Sprintf("%04d%02d", year, int(month))
}
