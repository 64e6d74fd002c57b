// Package holiday turns public holidays into travel windows: a departure and
// a return date bracketing each holiday, chosen by the weekday it falls on.
package holiday

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/username/holiday-windows/internal/calendar"
)

var (
	// ErrInvalidArgument is returned for bad caller input
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidDateFormat is returned for a record whose date is not YYYYMMDD
	ErrInvalidDateFormat = errors.New("invalid date format")
)

// MaxMonthsFromNow bounds the month offset accepted by the calculators
const MaxMonthsFromNow = 1200

// Description markers used by the calendar feed
const (
	SpringFestivalMarker   = "春節"
	LunarNewYearsEveMarker = "農曆除夕"
	FoundingDayMarker      = "開國紀念日"
	MinorNewYearsEveMarker = "小年夜"
)

// TravelWindow is a departure/return pair around a single holiday
type TravelWindow struct {
	HolidayName   string `json:"holiday_name"`
	HolidayDate   string `json:"holiday_date"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date"`
	Weekday       string `json:"weekday"`
}

// Result is the outcome of a holiday window computation
type Result struct {
	TargetYear  int            `json:"target_year"`
	TargetMonth int            `json:"target_month"`
	Holidays    []TravelWindow `json:"holidays"`
}

// HolidayFetcher returns the holidays of a month
type HolidayFetcher interface {
	Fetch(ctx context.Context, year int, month time.Month) ([]calendar.HolidayRecord, error)
}

// SkipRule decides whether a holiday is excluded from the output
type SkipRule interface {
	ShouldSkip(record calendar.HolidayRecord, monthsFromNow int) (bool, error)
}

// DateRange is a holiday date with its departure and return dates
type DateRange struct {
	Holiday   time.Time
	Departure time.Time
	Return    time.Time
}

// RangeRule computes the travel window dates of a holiday
type RangeRule interface {
	ComputeRange(record calendar.HolidayRecord) (DateRange, error)
}

// WindowCalculator computes travel windows for the month N months from now
type WindowCalculator interface {
	Calculate(ctx context.Context, monthsFromNow int) (*Result, error)
}

func validateMonthsFromNow(monthsFromNow int) error {
	if monthsFromNow < 0 {
		return fmt.Errorf("%w: month offset must be non-negative, got %d", ErrInvalidArgument, monthsFromNow)
	}
	if monthsFromNow > MaxMonthsFromNow {
		return fmt.Errorf("%w: month offset must not exceed %d, got %d", ErrInvalidArgument, MaxMonthsFromNow, monthsFromNow)
	}
	return nil
}
