package holiday

import (
	"context"
	"time"

	"github.com/username/holiday-windows/internal/calendar"
	"github.com/username/holiday-windows/pkg/dateutil"
	"go.uber.org/zap"
)

// Calculator computes travel windows for every eligible holiday of a target month
type Calculator struct {
	fetcher  HolidayFetcher
	filter   SkipRule
	ranges   RangeRule
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewCalculator creates a new Calculator. The target month is derived from
// the current date in location.
func NewCalculator(fetcher HolidayFetcher, filter SkipRule, ranges RangeRule, location *time.Location, logger *zap.Logger) *Calculator {
	if location == nil {
		location = time.UTC
	}

	return &Calculator{
		fetcher:  fetcher,
		filter:   filter,
		ranges:   ranges,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// Calculate returns the travel windows of the month monthsFromNow months ahead
func (c *Calculator) Calculate(ctx context.Context, monthsFromNow int) (*Result, error) {
	if err := validateMonthsFromNow(monthsFromNow); err != nil {
		return nil, err
	}

	targetYear, targetMonth := dateutil.AddMonths(c.now().In(c.location), monthsFromNow)

	records, err := c.fetcher.Fetch(ctx, targetYear, targetMonth)
	if err != nil {
		return nil, err
	}

	windows := make([]TravelWindow, 0, len(records))
	for _, record := range records {
		if record.Description == "" {
			continue
		}

		window, ok := c.windowFor(record, monthsFromNow)
		if !ok {
			continue
		}
		windows = append(windows, window)
	}

	c.logger.Info("Holiday windows calculated",
		zap.Int("months_from_now", monthsFromNow),
		zap.Int("target_year", targetYear),
		zap.Int("target_month", int(targetMonth)),
		zap.Int("holidays", len(records)),
		zap.Int("windows", len(windows)))

	return &Result{
		TargetYear:  targetYear,
		TargetMonth: int(targetMonth),
		Holidays:    windows,
	}, nil
}

// windowFor builds the window of one record; malformed records are dropped
func (c *Calculator) windowFor(record calendar.HolidayRecord, monthsFromNow int) (TravelWindow, bool) {
	skip, err := c.filter.ShouldSkip(record, monthsFromNow)
	if err != nil {
		c.logger.Warn("Dropping holiday with malformed record",
			zap.String("date", record.Date),
			zap.String("description", record.Description),
			zap.Error(err))
		return TravelWindow{}, false
	}
	if skip {
		c.logger.Debug("Skipping holiday",
			zap.String("date", record.Date),
			zap.String("description", record.Description))
		return TravelWindow{}, false
	}

	dates, err := c.ranges.ComputeRange(record)
	if err != nil {
		c.logger.Warn("Dropping holiday with malformed record",
			zap.String("date", record.Date),
			zap.String("description", record.Description),
			zap.Error(err))
		return TravelWindow{}, false
	}

	return TravelWindow{
		HolidayName:   record.Description,
		HolidayDate:   dateutil.FormatISODate(dates.Holiday),
		DepartureDate: dateutil.FormatISODate(dates.Departure),
		ReturnDate:    dateutil.FormatISODate(dates.Return),
		Weekday:       record.Weekday,
	}, true
}
