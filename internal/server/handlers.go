package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/username/holiday-windows/internal/calendar"
	"github.com/username/holiday-windows/internal/holiday"
	"github.com/username/holiday-windows/internal/taskqueue"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 16

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the HTTP routes of the service
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/calculate_holiday_dates", s.handleHolidayDates)
	mux.HandleFunc("/calculate_dates", s.handleFixedDates)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

func (s *Server) handleHolidayDates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := decodeBody(w, r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	monthOffset, err := intField(body, "month_offset")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := checkMonthOffset(monthOffset); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.holidays.Calculate(r.Context(), monthOffset)
	if err != nil {
		status := statusFor(err)
		s.logger.Warn("Holiday window calculation failed",
			zap.Int("month_offset", monthOffset),
			zap.Int("status", status),
			zap.Error(err))
		s.writeError(w, status, messageFor(err))
		return
	}

	s.writeJSON(w, http.StatusOK, successResponse{Success: true, Data: result})
}

func (s *Server) handleFixedDates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := decodeBody(w, r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var missing []string
	for _, name := range []string{"month_offset", "dep_day", "return_day"} {
		if _, ok := body[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		s.writeError(w, http.StatusBadRequest, "missing required parameters: "+strings.Join(missing, ", "))
		return
	}

	values := make([]int, 3)
	for i, name := range []string{"month_offset", "dep_day", "return_day"} {
		if values[i], err = intField(body, name); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := checkMonthOffset(values[0]); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	window, err := s.fixed.Calculate(values[0], values[1], values[2])
	if err != nil {
		s.writeError(w, statusFor(err), messageFor(err))
		return
	}

	s.writeJSON(w, http.StatusOK, successResponse{Success: true, Data: window})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

// decodeBody reads a JSON object body keyed by field name
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, error) {
	var body map[string]json.RawMessage
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil || body == nil {
		return nil, errors.New("request body must be a JSON object")
	}
	return body, nil
}

// intField reads an integer given either as a JSON number or a numeric string
func intField(body map[string]json.RawMessage, name string) (int, error) {
	raw, ok := body[name]
	if !ok {
		return 0, fmt.Errorf("missing required parameter: %s", name)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, fmt.Errorf("%s must be an integer", name)
		}
		raw = []byte(strings.TrimSpace(text))
	}

	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}

func checkMonthOffset(n int) error {
	if n < 0 || n > holiday.MaxMonthsFromNow {
		return fmt.Errorf("month_offset must be an integer between 0 and %d", holiday.MaxMonthsFromNow)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, holiday.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, calendar.ErrSourceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, taskqueue.ErrBusy),
		errors.Is(err, taskqueue.ErrTimeout),
		errors.Is(err, taskqueue.ErrClosed),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	switch statusFor(err) {
	case http.StatusBadGateway:
		return "unable to fetch holiday data: " + err.Error()
	case http.StatusInternalServerError:
		return "internal error"
	default:
		return err.Error()
	}
}
