// Package logging builds the zap loggers used by the CLI and adapts them to
// the executor's logging hook.
package logging

import (
	"errors"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-jsontemplate/pkg/exec"
)

// Config describes a console logger.
type Config struct {
	Level  string
	Output io.Writer
	Name   string
}

// ParseLevel maps a level name to zap. Unknown names default to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a console logger writing to cfg.Output, or stderr.
func New(cfg Config) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}

	var writer zapcore.WriteSyncer
	if cfg.Output != nil {
		writer = zapcore.AddSync(cfg.Output)
	} else {
		writer = zapcore.AddSync(os.Stderr)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), writer, ParseLevel(cfg.Level))
	logger := zap.New(core)
	if cfg.Name != "" {
		logger = logger.Named(cfg.Name)
	}
	return logger
}

// Hook reports execution failures to a zap logger.
type Hook struct {
	logger *zap.Logger
}

var _ exec.LoggingHook = (*Hook)(nil)

// NewHook returns a hook logging at warn level. A nil logger discards.
func NewHook(logger *zap.Logger) *Hook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hook{logger: logger}
}

func (h *Hook) Log(err error) {
	if err == nil {
		return
	}
	fields := []zap.Field{zap.Error(err)}

	var execErr *exec.ExecuteError
	if errors.As(err, &execErr) {
		info := execErr.Info
		fields = append(fields,
			zap.String("kind", string(info.Kind)),
			zap.Int("line", info.Line),
			zap.Int("column", info.Column),
		)
		if info.Name != "" {
			fields = append(fields, zap.String("name", info.Name))
		}
		if info.Repr != "" {
			fields = append(fields, zap.String("instruction", info.Repr))
		}
	}
	h.logger.Warn("template execution failure", fields...)
}

// Errors logs collected diagnostics of a safe-mode render.
func Errors(logger *zap.Logger, errs []exec.ErrorInfo) {
	for _, info := range errs {
		logger.Warn(info.Message(),
			zap.String("kind", string(info.Kind)),
			zap.Int("line", info.Line),
			zap.Int("column", info.Column),
			zap.Int("children", len(info.Children)),
		)
	}
}
