package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/username/holiday-windows/pkg/dateutil"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Fetcher returns the holidays of a month, downloading the year dataset only
// when the month is not cached yet
type Fetcher struct {
	source      Source
	cache       *Cache
	prefillYear bool
	group       singleflight.Group
	logger      *zap.Logger
}

// NewFetcher creates a new Fetcher. With prefillYear set, one download
// populates every month of the year instead of just the requested one.
func NewFetcher(source Source, cache *Cache, prefillYear bool, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		source:      source,
		cache:       cache,
		prefillYear: prefillYear,
		logger:      logger,
	}
}

// Fetch returns holiday records of the month in feed order. Concurrent misses
// for the same month share a single download, which is detached from the
// caller's cancellation: a caller giving up early returns ctx.Err() while the
// download completes for the others and fills the cache.
func (f *Fetcher) Fetch(ctx context.Context, year int, month time.Month) ([]HolidayRecord, error) {
	if records, ok := f.cache.Get(year, month); ok {
		f.logger.Debug("Using cached holidays",
			zap.Int("year", year),
			zap.Int("month", int(month)),
			zap.Int("count", len(records)))
		return records, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	key := dateutil.MonthPrefix(year, month)
	ch := f.group.DoChan(key, func() (interface{}, error) {
		// A concurrent caller may have filled the cache meanwhile
		if records, ok := f.cache.Get(year, month); ok {
			return records, nil
		}
		return f.load(loadCtx, year, month)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, fmt.Errorf("failed to fetch holidays for %d-%02d: %w", year, int(month), res.Err)
	}

	records := res.Val.([]HolidayRecord)
	if res.Shared {
		// Shared result slices must not be handed out twice
		out := make([]HolidayRecord, len(records))
		copy(out, records)
		records = out
	}

	return records, nil
}

func (f *Fetcher) load(ctx context.Context, year int, month time.Month) ([]HolidayRecord, error) {
	yearData, err := f.source.FetchYear(ctx, year)
	if err != nil {
		return nil, err
	}

	if f.prefillYear {
		for m := time.January; m <= time.December; m++ {
			if f.cache.Has(year, m) {
				continue
			}
			f.cache.Set(year, m, SelectMonth(yearData, year, m))
		}
	} else {
		f.cache.Set(year, month, SelectMonth(yearData, year, month))
	}

	records, _ := f.cache.Get(year, month)

	f.logger.Info("Holidays fetched and cached",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("count", len(records)),
		zap.Bool("prefill_year", f.prefillYear),
		zap.Int("cached_months", f.cache.Len()))

	return records, nil
}

// SelectMonth keeps named holidays of the month, minus compensatory ones.
// The result is never nil.
func SelectMonth(yearData []HolidayRecord, year int, month time.Month) []HolidayRecord {
	prefix := dateutil.MonthPrefix(year, month)

	selected := make([]HolidayRecord, 0)
	for _, record := range yearData {
		if !record.IsHoliday || record.Description == "" {
			continue
		}
		if !strings.HasPrefix(record.Date, prefix) {
			continue
		}
		selected = append(selected, record)
	}

	return RemoveCompensatory(selected)
}

// RemoveCompensatory drops records whose description carries the compensatory marker
func RemoveCompensatory(records []HolidayRecord) []HolidayRecord {
	kept := make([]HolidayRecord, 0, len(records))
	for _, record := range records {
		if strings.Contains(record.Description, CompensatoryMarker) {
			continue
		}
		kept = append(kept, record)
	}
	return kept
}
