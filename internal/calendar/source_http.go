package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultSourceURL is the Taiwan government calendar mirror, one file per year
	DefaultSourceURL   = "https://cdn.jsdelivr.net/gh/ruyut/TaiwanCalendar/data/{year}.json"
	defaultHTTPTimeout = 10 * time.Second
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// HTTPSource downloads yearly calendar datasets over HTTP
type HTTPSource struct {
	urlTemplate string
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// NewHTTPSource creates a new HTTPSource. urlTemplate must contain "{year}".
// requestsPerMinute <= 0 disables outbound throttling.
func NewHTTPSource(urlTemplate string, timeout time.Duration, requestsPerMinute int, logger *zap.Logger) *HTTPSource {
	if urlTemplate == "" {
		urlTemplate = DefaultSourceURL
	}
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}

	return &HTTPSource{
		urlTemplate: urlTemplate,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
		logger:  logger,
	}
}

// FetchYear downloads the whole-year dataset
func (s *HTTPSource) FetchYear(ctx context.Context, year int) ([]HolidayRecord, error) {
	url := strings.ReplaceAll(s.urlTemplate, "{year}", strconv.Itoa(year))

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", ErrSourceUnavailable, err)
	}

	s.logger.Debug("Downloading calendar data",
		zap.String("url", url),
		zap.Int("year", year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", ErrSourceUnavailable, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch calendar data: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: calendar API returned status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrSourceUnavailable, err)
	}

	records, err := decodeYear(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	s.logger.Info("Calendar data downloaded",
		zap.Int("year", year),
		zap.Int("days", len(records)))

	return records, nil
}

// decodeYear parses a yearly dataset; the upstream files carry a UTF-8 BOM
func decodeYear(data []byte) ([]HolidayRecord, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var records []HolidayRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse calendar JSON: %w", err)
	}
	return records, nil
}
