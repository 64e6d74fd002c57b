package calendar

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
)

// FileSource reads yearly datasets from a local directory of {year}.json
// files in the same format the HTTP source serves.
type FileSource struct {
	dir    string
	logger *zap.Logger
}

// NewFileSource creates a new FileSource instance
func NewFileSource(dir string, logger *zap.Logger) *FileSource {
	return &FileSource{
		dir:    dir,
		logger: logger,
	}
}

// FetchYear loads the dataset file for the year
func (fs *FileSource) FetchYear(_ context.Context, year int) ([]HolidayRecord, error) {
	path := filepath.Join(fs.dir, strconv.Itoa(year)+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open calendar file: %v", ErrSourceUnavailable, err)
	}

	records, err := decodeYear(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}

	fs.logger.Info("Calendar file loaded",
		zap.String("file", path),
		zap.Int("days", len(records)))

	return records, nil
}
