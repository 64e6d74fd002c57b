package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/username/holiday-windows/internal/holiday"
	"go.uber.org/zap"
)

// FixedCalculator computes a window on fixed days of a future month
type FixedCalculator interface {
	Calculate(monthsFromNow, depDay, returnDay int) (*holiday.FixedWindow, error)
}

// Server exposes the window calculators over HTTP
type Server struct {
	addr            string
	holidays        holiday.WindowCalculator
	fixed           FixedCalculator
	shutdownTimeout time.Duration
	logger          *zap.Logger
	httpServer      *http.Server
	ctx             context.Context
	cancel          context.CancelFunc
}

// NewServer creates a new server instance
func NewServer(addr string, holidays holiday.WindowCalculator, fixed FixedCalculator, shutdownTimeout time.Duration, logger *zap.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr:            addr,
		holidays:        holidays,
		fixed:           fixed,
		shutdownTimeout: shutdownTimeout,
		logger:          logger,
		ctx:             ctx,
		cancel:          cancel,
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Start serves requests until Stop is called or SIGINT/SIGTERM is received
func (s *Server) Start() error {
	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Server started", zap.String("addr", s.addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil

	case sig := <-sigChan:
		s.logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))

	case <-s.ctx.Done():
		s.logger.Info("Server stop requested")
	}

	return s.shutdown()
}

// Stop stops the server
func (s *Server) Stop() {
	s.cancel()
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.logger.Info("Server stopped")
	return nil
}
