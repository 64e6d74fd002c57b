package calendar

import (
	"context"
	"errors"
	"time"
)

// ErrSourceUnavailable is returned when calendar data cannot be obtained
var ErrSourceUnavailable = errors.New("calendar source unavailable")

// CompensatoryMarker marks a holiday granted in exchange for a moved workday
const CompensatoryMarker = "補"

// Weekday labels used by the calendar feed
const (
	LabelMonday    = "一"
	LabelTuesday   = "二"
	LabelWednesday = "三"
	LabelThursday  = "四"
	LabelFriday    = "五"
	LabelSaturday  = "六"
	LabelSunday    = "日"
)

var weekdayLabels = map[time.Weekday]string{
	time.Monday:    LabelMonday,
	time.Tuesday:   LabelTuesday,
	time.Wednesday: LabelWednesday,
	time.Thursday:  LabelThursday,
	time.Friday:    LabelFriday,
	time.Saturday:  LabelSaturday,
	time.Sunday:    LabelSunday,
}

// WeekdayLabel returns the feed label for the given weekday
func WeekdayLabel(day time.Weekday) string {
	return weekdayLabels[day]
}

// HolidayRecord represents a single day entry of the calendar feed
type HolidayRecord struct {
	Date        string `json:"date"` // YYYYMMDD
	Weekday     string `json:"week"`
	Description string `json:"description"`
	IsHoliday   bool   `json:"isHoliday"`
}

// Source provides the calendar dataset of a whole year
type Source interface {
	// FetchYear returns every day record published for the year
	FetchYear(ctx context.Context, year int) ([]HolidayRecord, error)
}
