package holiday

import (
	"fmt"
	"strings"

	"github.com/username/holiday-windows/internal/calendar"
	"github.com/username/holiday-windows/pkg/dateutil"
)

// reservedBand is a day-of-month range left to the fixed-day window feature
type reservedBand struct {
	monthsFromNow int
	firstDay      int
	lastDay       int
}

// Reserved bands overlap the fixed travel windows computed separately
var reservedBands = []reservedBand{
	{monthsFromNow: 2, firstDay: 5, lastDay: 10},
	{monthsFromNow: 6, firstDay: 24, lastDay: 28},
}

// Filter excludes holidays that are not single-holiday travel candidates
type Filter struct {
	skipMarkers []string
}

// NewFilter creates a Filter skipping the Lunar New Year season
func NewFilter() *Filter {
	return &Filter{
		skipMarkers: []string{SpringFestivalMarker, LunarNewYearsEveMarker},
	}
}

// ShouldSkip reports whether the holiday must be left out
func (f *Filter) ShouldSkip(record calendar.HolidayRecord, monthsFromNow int) (bool, error) {
	// Lunar New Year is planned as its own multi-day season
	for _, marker := range f.skipMarkers {
		if strings.Contains(record.Description, marker) {
			return true, nil
		}
	}

	date, err := dateutil.ParseCompact(record.Date)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrInvalidDateFormat, record.Date)
	}

	day := date.Day()
	for _, band := range reservedBands {
		if monthsFromNow == band.monthsFromNow && day >= band.firstDay && day <= band.lastDay {
			return true, nil
		}
	}

	return false, nil
}
