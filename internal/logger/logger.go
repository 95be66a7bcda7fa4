package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the application-wide logger type, aliased to zerolog.Logger.
type Logger = zerolog.Logger

// Event is an alias for zerolog.Event to allow building log entries without importing zerolog.
type Event = zerolog.Event

const consoleTimeFormat = "2006-01-02 15:04:05"

// Options selects where and how log lines are written.
type Options struct {
	Level    string
	Format   string // console or json
	Output   string // stdout, file or both
	FilePath string
}

// OptionsFromEnv reads LOG_FORMAT, LOG_OUTPUT and LOG_FILE_PATH.
func OptionsFromEnv(level string) Options {
	return Options{
		Level:    level,
		Format:   os.Getenv("LOG_FORMAT"),
		Output:   os.Getenv("LOG_OUTPUT"),
		FilePath: os.Getenv("LOG_FILE_PATH"),
	}
}

// Init configures the global logger at level using the LOG_* environment.
func Init(level string) {
	Configure(OptionsFromEnv(level))
}

// Configure installs the global logger described by opts.
func Configure(opts Options) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	outputMode := normalize(opts.Output, "stdout")
	format := normalize(opts.Format, "console")
	filePath := strings.TrimSpace(opts.FilePath)

	writers, warnings := buildWriters(outputMode, format, filePath)
	if len(writers) == 0 {
		writers = append(writers, consoleWriter(os.Stdout))
		warnings = append(warnings, "No valid log output configured, falling back to stdout console")
		outputMode = "stdout"
		filePath = ""
	}

	var output io.Writer = writers[0]
	if len(writers) > 1 {
		output = zerolog.MultiLevelWriter(writers...)
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || opts.Level == "" {
		lvl = zerolog.InfoLevel
		warnings = append(warnings, fmt.Sprintf("Invalid log level %q, defaulting to 'info'", opts.Level))
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(output).Level(lvl).With().Timestamp().Logger()

	for _, msg := range warnings {
		log.Warn().Msg(msg)
	}
	log.Info().
		Str("level", lvl.String()).
		Str("output_mode", outputMode).
		Str("format", format).
		Str("log_file_path", filePath).
		Msg("Logger initialized")
}

func buildWriters(outputMode, format, filePath string) ([]io.Writer, []string) {
	writers := make([]io.Writer, 0, 2)
	warnings := make([]string, 0, 1)

	if outputMode == "stdout" || outputMode == "both" {
		writers = append(writers, formatWriter(os.Stdout, format))
	}
	if outputMode != "file" && outputMode != "both" {
		return writers, warnings
	}
	if filePath == "" {
		warnings = append(warnings, "LOG_OUTPUT requires a file but LOG_FILE_PATH is not set; disabling file logging")
		return writers, warnings
	}
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("Failed to open log file '%s', disabling file logging: %v", filePath, err))
		return writers, warnings
	}
	return append(writers, formatWriter(file, format)), warnings
}

func formatWriter(w io.Writer, format string) io.Writer {
	if format == "json" {
		return w
	}
	return consoleWriter(w)
}

func consoleWriter(w io.Writer) io.Writer {
	return zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
}

func normalize(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return value
}

// Get returns a pointer to the configured logger instance.
func Get() *zerolog.Logger {
	return &log.Logger
}

// SetOutput redirects log output, mostly for tests.
func SetOutput(w io.Writer) {
	log.Logger = log.Output(w)
}

// HTTPEvent logs HTTP request events with standardized fields.
func HTTPEvent(method, path string, status int, durationMs float64) *zerolog.Event {
	return log.Info().
		Str("event_category", "http").
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Float64("duration_ms", durationMs)
}

// HTTPError logs HTTP error events.
func HTTPError(method, path string, status int, err error) *zerolog.Event {
	return log.Error().
		Str("event_category", "http").
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Err(err)
}

// PanicEvent logs panic recovery events.
func PanicEvent(err interface{}, stack string) *zerolog.Event {
	return log.Error().
		Str("event_category", "panic").
		Interface("error", err).
		Str("stack", stack)
}

// BackendEvent logs one call to the content backend at debug level.
func BackendEvent(operation, method, url string, status int, durationMs float64) *zerolog.Event {
	return log.Debug().
		Str("event_category", "backend").
		Str("operation", operation).
		Str("method", method).
		Str("url", url).
		Int("status", status).
		Float64("duration_ms", durationMs)
}

// AnalyticsError logs a failed visit or download record. These never fail a request.
func AnalyticsError(kind string, err error) *zerolog.Event {
	return log.Warn().
		Str("event_category", "analytics").
		Str("kind", kind).
		Err(err)
}
