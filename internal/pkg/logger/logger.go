package logger

import (
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// New builds the process-wide zap logger from the logging configuration.
// An unknown level falls back to info. When file is non-empty the log is
// written there in addition to stdout.
func New(level, file string) (*zap.Logger, error) {
	parsed := zapcore.InfoLevel
	if level != "" {
		if err := parsed.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			parsed = zapcore.InfoLevel
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	if file != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, file)
	}

	return cfg.Build()
}

// BridgeSlog installs zl as the default slog logger so code using the
// standard structured logger shares the same sink.
func BridgeSlog(zl *zap.Logger) {
	handler := zapslog.NewHandler(zl.Core())
	slog.SetDefault(slog.New(handler))
}
