package calendar

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CompositeSource implements Source with fallback strategy
// Primary: HTTPSource (API)
// Fallback: FileSource (local files)
type CompositeSource struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewCompositeSource creates a new CompositeSource
func NewCompositeSource(primary, fallback Source, logger *zap.Logger) *CompositeSource {
	return &CompositeSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// FetchYear tries the primary source first, then the fallback
func (cs *CompositeSource) FetchYear(ctx context.Context, year int) ([]HolidayRecord, error) {
	records, err := cs.primary.FetchYear(ctx, year)
	if err == nil {
		return records, nil
	}

	cs.logger.Warn("Primary calendar source failed, trying fallback",
		zap.Int("year", year),
		zap.Error(err))

	records, fallbackErr := cs.fallback.FetchYear(ctx, year)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fallbackErr)
	}

	cs.logger.Info("Using fallback calendar data", zap.Int("year", year))
	return records, nil
}
