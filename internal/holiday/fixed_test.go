package holiday

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestFixedWindowCalculator_Calculate(t *testing.T) {
	tests := []struct {
		name          string
		now           time.Time
		monthsFromNow int
		depDay        int
		returnDay     int
		want          FixedWindow
	}{
		{
			name:          "Basic",
			now:           time.Date(2025, 10, 19, 12, 0, 0, 0, taipei),
			monthsFromNow: 2, depDay: 5, returnDay: 10,
			want: FixedWindow{DepartureDate: "2025-12-05", ReturnDate: "2025-12-10", TargetYear: 2025, TargetMonth: 12},
		},
		{
			name:          "Cross year",
			now:           time.Date(2025, 11, 3, 12, 0, 0, 0, taipei),
			monthsFromNow: 3, depDay: 1, returnDay: 4,
			want: FixedWindow{DepartureDate: "2026-02-01", ReturnDate: "2026-02-04", TargetYear: 2026, TargetMonth: 2},
		},
		{
			name:          "Clamped to month length",
			now:           time.Date(2025, 12, 15, 12, 0, 0, 0, taipei),
			monthsFromNow: 2, depDay: 24, returnDay: 31,
			want: FixedWindow{DepartureDate: "2026-02-24", ReturnDate: "2026-02-28", TargetYear: 2026, TargetMonth: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := NewFixedWindowCalculator(taipei)
			fc.now = func() time.Time { return tt.now }

			got, err := fc.Calculate(tt.monthsFromNow, tt.depDay, tt.returnDay)
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			if *got != tt.want {
				t.Errorf("Calculate() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestFixedWindowCalculator_InvalidArguments(t *testing.T) {
	tests := []struct {
		name          string
		monthsFromNow int
		depDay        int
		returnDay     int
	}{
		{"Negative offset", -1, 5, 10},
		{"Offset beyond limit", MaxMonthsFromNow + 1, 5, 10},
		{"Max int offset", math.MaxInt, 5, 10},
		{"Departure day zero", 2, 0, 10},
		{"Departure day 32", 2, 32, 10},
		{"Return day zero", 2, 5, 0},
		{"Return day 32", 2, 5, 32},
	}

	fc := NewFixedWindowCalculator(taipei)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fc.Calculate(tt.monthsFromNow, tt.depDay, tt.returnDay)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Calculate() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}
