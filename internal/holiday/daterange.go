package holiday

import (
	"fmt"
	"strings"

	"github.com/username/holiday-windows/internal/calendar"
	"github.com/username/holiday-windows/pkg/dateutil"
)

// offset is added to the holiday date: before is <= 0, after is >= 0
type offset struct {
	before int
	after  int
}

// Bridge-holiday policy for ordinary holidays
var generalOffsets = map[string]offset{
	calendar.LabelMonday:    {-4, 0},
	calendar.LabelTuesday:   {-4, 0},
	calendar.LabelWednesday: {0, 3},
	calendar.LabelThursday:  {-1, 3},
	calendar.LabelFriday:    {-2, 2},
	calendar.LabelSaturday:  {-3, 1},
	calendar.LabelSunday:    {-4, 0},
}

// Bridge-holiday policy anchored on Minor New Year's Eve
var lunarNewYearOffsets = map[string]offset{
	calendar.LabelMonday:    {-2, 4},
	calendar.LabelTuesday:   {-3, 3},
	calendar.LabelWednesday: {-4, 2},
	calendar.LabelThursday:  {-2, 4},
	calendar.LabelFriday:    {-2, 4},
	calendar.LabelSaturday:  {-2, 3},
	calendar.LabelSunday:    {-2, 3},
}

var (
	generalDefault      = offset{-4, 0}
	lunarNewYearDefault = offset{-2, 4}
	foundingDayOffset   = offset{-4, 0}
)

// RangeCalculator computes departure and return dates from the weekday of a holiday
type RangeCalculator struct{}

// NewRangeCalculator creates a RangeCalculator
func NewRangeCalculator() *RangeCalculator {
	return &RangeCalculator{}
}

// ComputeRange returns the travel window of the holiday
func (rc *RangeCalculator) ComputeRange(record calendar.HolidayRecord) (DateRange, error) {
	date, err := dateutil.ParseCompact(record.Date)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, record.Date)
	}

	var off offset
	switch {
	case strings.Contains(record.Description, FoundingDayMarker) && record.Weekday == calendar.LabelWednesday:
		// Founding Day on a Wednesday bridges the weekend before it instead
		off = foundingDayOffset
	case strings.Contains(record.Description, MinorNewYearsEveMarker):
		off = lookupOffset(lunarNewYearOffsets, record.Weekday, lunarNewYearDefault)
	default:
		off = lookupOffset(generalOffsets, record.Weekday, generalDefault)
	}

	return DateRange{
		Holiday:   date,
		Departure: date.AddDate(0, 0, off.before),
		Return:    date.AddDate(0, 0, off.after),
	}, nil
}

func lookupOffset(table map[string]offset, weekday string, fallback offset) offset {
	if off, ok := table[weekday]; ok {
		return off
	}
	return fallback
}
