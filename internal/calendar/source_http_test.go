package calendar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

const sampleJSON = `[
  {"date":"20250101","week":"三","isHoliday":true,"description":"開國紀念日"},
  {"date":"20250102","week":"四","isHoliday":false,"description":""}
]`

func TestHTTPSource_FetchYear(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		// Upstream files start with a UTF-8 BOM
		w.Write(append([]byte{0xEF, 0xBB, 0xBF}, sampleJSON...))
	}))
	defer server.Close()

	logger, _ := zap.NewDevelopment()
	source := NewHTTPSource(server.URL+"/data/{year}.json", time.Second, 0, logger)

	records, err := source.FetchYear(context.Background(), 2025)
	if err != nil {
		t.Fatalf("FetchYear() error = %v", err)
	}

	if gotPath != "/data/2025.json" {
		t.Errorf("request path = %q, want /data/2025.json", gotPath)
	}
	if len(records) != 2 {
		t.Fatalf("FetchYear() returned %d records, want 2", len(records))
	}

	want := HolidayRecord{Date: "20250101", Weekday: LabelWednesday, Description: "開國紀念日", IsHoliday: true}
	if records[0] != want {
		t.Errorf("records[0] = %+v, want %+v", records[0], want)
	}
}

func TestHTTPSource_FetchYear_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "Not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
		},
		{
			name: "Server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "Malformed JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"not":"a list"`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			source := NewHTTPSource(server.URL+"/{year}.json", time.Second, 0, zap.NewNop())
			_, err := source.FetchYear(context.Background(), 2025)
			if !errors.Is(err, ErrSourceUnavailable) {
				t.Errorf("FetchYear() error = %v, want ErrSourceUnavailable", err)
			}
		})
	}
}

func TestHTTPSource_FetchYear_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	source := NewHTTPSource(url+"/{year}.json", time.Second, 0, zap.NewNop())
	_, err := source.FetchYear(context.Background(), 2025)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("FetchYear() error = %v, want ErrSourceUnavailable", err)
	}
}

func TestHTTPSource_RateLimitHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleJSON))
	}))
	defer server.Close()

	// One request per minute: the second call cannot get a token in time
	source := NewHTTPSource(server.URL+"/{year}.json", time.Second, 1, zap.NewNop())
	if _, err := source.FetchYear(context.Background(), 2025); err != nil {
		t.Fatalf("first FetchYear() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := source.FetchYear(ctx, 2026)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("second FetchYear() error = %v, want ErrSourceUnavailable", err)
	}
}

func TestFileSource_FetchYear(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "2025.json"), []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	source := NewFileSource(dir, zap.NewNop())

	records, err := source.FetchYear(context.Background(), 2025)
	if err != nil {
		t.Fatalf("FetchYear() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("FetchYear() returned %d records, want 2", len(records))
	}

	_, err = source.FetchYear(context.Background(), 2030)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("FetchYear(missing) error = %v, want ErrSourceUnavailable", err)
	}
}

func TestCompositeSource_FallsBack(t *testing.T) {
	primary := &stubSource{err: errors.New("network down")}
	fallback := &stubSource{records: sampleYear()}
	source := NewCompositeSource(primary, fallback, zap.NewNop())

	records, err := source.FetchYear(context.Background(), 2025)
	if err != nil {
		t.Fatalf("FetchYear() error = %v", err)
	}
	if len(records) != len(sampleYear()) {
		t.Errorf("FetchYear() returned %d records, want %d", len(records), len(sampleYear()))
	}
	if primary.calls.Load() != 1 || fallback.calls.Load() != 1 {
		t.Errorf("calls primary=%d fallback=%d, want 1/1", primary.calls.Load(), fallback.calls.Load())
	}
}

func TestCompositeSource_PrimaryWins(t *testing.T) {
	primary := &stubSource{records: sampleYear()}
	fallback := &stubSource{records: nil}
	source := NewCompositeSource(primary, fallback, zap.NewNop())

	if _, err := source.FetchYear(context.Background(), 2025); err != nil {
		t.Fatalf("FetchYear() error = %v", err)
	}
	if fallback.calls.Load() != 0 {
		t.Error("fallback called although primary succeeded")
	}
}

func TestCompositeSource_BothFail(t *testing.T) {
	primary := &stubSource{err: ErrSourceUnavailable}
	fallback := &stubSource{err: errors.New("no file")}
	source := NewCompositeSource(primary, fallback, zap.NewNop())

	_, err := source.FetchYear(context.Background(), 2025)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("FetchYear() error = %v, want ErrSourceUnavailable", err)
	}
	if !strings.Contains(err.Error(), "no file") {
		t.Errorf("error %q does not mention fallback failure", err)
	}
}

func TestWeekdayLabel(t *testing.T) {
	// 2026-01-07 is a Wednesday
	date := time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)
	if got := WeekdayLabel(date.Weekday()); got != LabelWednesday {
		t.Errorf("WeekdayLabel(%v) = %q, want %q", date.Weekday(), got, LabelWednesday)
	}
}
