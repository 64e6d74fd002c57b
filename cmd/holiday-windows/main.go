package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"github.com/username/holiday-windows/internal/calendar"
	"github.com/username/holiday-windows/internal/config"
	"github.com/username/holiday-windows/internal/holiday"
	"github.com/username/holiday-windows/internal/server"
	"github.com/username/holiday-windows/internal/taskqueue"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	appConfig  *config.Config
	logger     *zap.Logger = zap.NewNop()
	output     io.Writer   = os.Stdout
)

func main() {
	rootCmd := newRootCmd()

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "holiday-windows",
		Short:         "Holiday travel window calculator",
		Long:          "Compute suggested departure and return dates around public holidays of a future month",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			appConfig = cfg

			if cfg.Log.File != "" {
				logger = initFileLogger(cfg.Log.File, cfg.Log.Level)
			} else {
				logger = initLogger(cfg.Log.Level)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./config.yaml if present)")

	rootCmd.AddCommand(holidaysCmd())
	rootCmd.AddCommand(fixedCmd())
	rootCmd.AddCommand(serveCmd())

	return rootCmd
}

func holidaysCmd() *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Print travel windows for the holidays of the month N months ahead",
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, queue, err := buildHolidayCalculator(appConfig)
			if err != nil {
				return err
			}
			defer queue.Close()

			result, err := calc.Calculate(cmd.Context(), months)
			if err != nil {
				return err
			}

			logger.Info("Holiday windows calculated",
				zap.Int("target_year", result.TargetYear),
				zap.Int("target_month", result.TargetMonth),
				zap.Int("windows", len(result.Holidays)))

			return printJSON(result)
		},
	}

	cmd.Flags().IntVarP(&months, "months", "m", 1, "Months from the current month")

	return cmd
}

func fixedCmd() *cobra.Command {
	var months, depDay, returnDay int

	cmd := &cobra.Command{
		Use:   "fixed",
		Short: "Print a window on fixed days of the month N months ahead",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := appConfig.Calendar.GetLocation()
			if err != nil {
				return err
			}

			window, err := holiday.NewFixedWindowCalculator(loc).Calculate(months, depDay, returnDay)
			if err != nil {
				return err
			}
			return printJSON(window)
		},
	}

	cmd.Flags().IntVarP(&months, "months", "m", 1, "Months from the current month")
	cmd.Flags().IntVar(&depDay, "dep-day", 0, "Departure day of month")
	cmd.Flags().IntVar(&returnDay, "return-day", 0, "Return day of month")
	_ = cmd.MarkFlagRequired("dep-day")
	_ = cmd.MarkFlagRequired("return-day")

	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				appConfig.Server.Addr = addr
			}

			calc, queue, err := buildHolidayCalculator(appConfig)
			if err != nil {
				return err
			}
			defer queue.Close()

			loc, err := appConfig.Calendar.GetLocation()
			if err != nil {
				return err
			}

			srv := server.NewServer(
				appConfig.Server.Addr,
				calc,
				holiday.NewFixedWindowCalculator(loc),
				appConfig.Server.GetShutdownTimeout(),
				logger,
			)
			return srv.Start()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}

// buildHolidayCalculator wires source, cache, fetcher and calculator behind
// the request queue. The caller owns the returned queue.
func buildHolidayCalculator(cfg *config.Config) (*holiday.QueuedCalculator, *taskqueue.Queue, error) {
	loc, err := cfg.Calendar.GetLocation()
	if err != nil {
		return nil, nil, err
	}

	var source calendar.Source = calendar.NewHTTPSource(
		cfg.Calendar.SourceURL,
		cfg.Calendar.GetHTTPTimeout(),
		cfg.Calendar.RequestsPerMinute,
		logger,
	)
	if cfg.Calendar.FallbackDir != "" {
		logger.Info("Using local calendar fallback",
			zap.String("dir", cfg.Calendar.FallbackDir))
		source = calendar.NewCompositeSource(source, calendar.NewFileSource(cfg.Calendar.FallbackDir, logger), logger)
	}

	fetcher := calendar.NewFetcher(source, calendar.NewCache(), cfg.Calendar.PrefillYear, logger)
	calc := holiday.NewCalculator(fetcher, holiday.NewFilter(), holiday.NewRangeCalculator(), loc, logger)

	queue := taskqueue.New(taskqueue.Config{
		Name:              "holiday",
		Capacity:          cfg.Queue.Capacity,
		EnqueueTimeout:    cfg.Queue.GetEnqueueTimeout(),
		CompletionTimeout: cfg.Queue.GetCompletionTimeout(),
	}, logger)

	return holiday.NewQueuedCalculator(calc, queue), queue, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(output)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	return zapLevel
}

func initLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	return l
}

func initFileLogger(logFile string, level string) *zap.Logger {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		parseLevel(level),
	)

	return zap.New(core)
}
