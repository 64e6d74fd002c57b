package holiday

import (
	"fmt"
	"time"

	"github.com/username/holiday-windows/pkg/dateutil"
)

// FixedWindow is a travel window on fixed days of the target month
type FixedWindow struct {
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date"`
	TargetYear    int    `json:"target_year"`
	TargetMonth   int    `json:"target_month"`
}

// FixedWindowCalculator places a window on given days of the month N months ahead
type FixedWindowCalculator struct {
	location *time.Location
	now      func() time.Time
}

// NewFixedWindowCalculator creates a FixedWindowCalculator
func NewFixedWindowCalculator(location *time.Location) *FixedWindowCalculator {
	if location == nil {
		location = time.UTC
	}
	return &FixedWindowCalculator{
		location: location,
		now:      time.Now,
	}
}

// Calculate returns the window. Days beyond the end of the month are clamped
// to its last day.
func (fc *FixedWindowCalculator) Calculate(monthsFromNow, depDay, returnDay int) (*FixedWindow, error) {
	if err := validateMonthsFromNow(monthsFromNow); err != nil {
		return nil, err
	}
	if depDay < 1 || depDay > 31 {
		return nil, fmt.Errorf("%w: departure day must be between 1 and 31, got %d", ErrInvalidArgument, depDay)
	}
	if returnDay < 1 || returnDay > 31 {
		return nil, fmt.Errorf("%w: return day must be between 1 and 31, got %d", ErrInvalidArgument, returnDay)
	}

	year, month := dateutil.AddMonths(fc.now().In(fc.location), monthsFromNow)
	lastDay := dateutil.DaysInMonth(year, month)

	departure := time.Date(year, month, min(depDay, lastDay), 0, 0, 0, 0, time.UTC)
	ret := time.Date(year, month, min(returnDay, lastDay), 0, 0, 0, 0, time.UTC)

	return &FixedWindow{
		DepartureDate: dateutil.FormatISODate(departure),
		ReturnDate:    dateutil.FormatISODate(ret),
		TargetYear:    year,
		TargetMonth:   int(month),
	}, nil
}
