// Package applog builds a *zap.SugaredLogger for each cmd/ entry point.
// Unlike the sibling daemon's internal/log, nothing here is a package-level
// global: every cmd/ main constructs its own logger and passes it down to
// vantage.NewStation explicitly.
package applog

import (
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures one process's logger.
type Options struct {
	// Level sets the minimum level this logger emits. The zero value is
	// zapcore.InfoLevel.
	Level zapcore.Level

	// LogFile, if set, tees output through a rotating file sink in
	// addition to stdout. Empty means stdout only.
	LogFile string

	// MaxSizeMB, MaxBackups, and MaxAgeDays bound the rotating file sink.
	// Zero values fall back to lumberjack's own defaults (100MB, no cap,
	// no age cap) except MaxSizeMB, which defaults to 10 here.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// CorrelationID, if non-empty, is attached to every line this logger
	// emits under the "run_id" field.
	CorrelationID string
}

// New builds a logger per opts. Stdout is encoded console-style when it's a
// TTY and JSON otherwise, so interactive use stays readable while piped or
// redirected output stays machine-parseable; the optional file sink is
// always JSON.
func New(opts Options) *zap.SugaredLogger {
	level := opts.Level

	consoleEncoderConfig := zap.NewProductionEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	jsonEncoderConfig := zap.NewProductionEncoderConfig()
	jsonEncoderConfig.TimeKey = "timestamp"
	jsonEncoderConfig.LevelKey = "level"
	jsonEncoderConfig.MessageKey = "message"
	jsonEncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	jsonEncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	var stdoutEncoder zapcore.Encoder
	if isatty.IsTerminal(os.Stdout.Fd()) {
		stdoutEncoder = zapcore.NewConsoleEncoder(consoleEncoderConfig)
	} else {
		stdoutEncoder = zapcore.NewJSONEncoder(jsonEncoderConfig)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(stdoutEncoder, zapcore.AddSync(os.Stdout), level),
	}

	if opts.LogFile != "" {
		maxSize := opts.MaxSizeMB
		if maxSize == 0 {
			maxSize = 10
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    maxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		fileEncoder := zapcore.NewJSONEncoder(jsonEncoderConfig)
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(rotator), level))
	}

	core := zapcore.NewTee(cores...)
	logger := zap.New(core, zap.AddCaller()).Sugar()
	if opts.CorrelationID != "" {
		logger = logger.With("run_id", opts.CorrelationID)
	}
	return logger
}

// ParseLevel maps a station-logger configuration value (one of ERROR,
// WARNING, INFO, DEBUG) to the zapcore.Level Options.Level should be set
// to, returning an error for anything else.
func ParseLevel(s string) (zapcore.Level, error) {
	switch s {
	case "DEBUG":
		return zapcore.DebugLevel, nil
	case "INFO":
		return zapcore.InfoLevel, nil
	case "WARNING":
		return zapcore.WarnLevel, nil
	case "ERROR":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, &levelError{s}
	}
}

type levelError struct{ value string }

func (e *levelError) Error() string {
	return "applog: unknown log level " + e.value + " (want ERROR, WARNING, INFO, or DEBUG)"
}
