package logger

import (
	"go.uber.org/zap"

	"w3batch/internal/app/port"
)

// zapAdapter реализует интерфейс port.Logger поверх zap.
// Это позволяет передавать один логгер в компоненты, ожидающие port.Logger.
type zapAdapter struct {
	sugar *zap.SugaredLogger
}

// NewAdapter wraps zl for components that take port.Logger. Arguments are
// alternating key/value pairs, slog style.
func NewAdapter(zl *zap.Logger) port.Logger {
	return &zapAdapter{sugar: zl.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (a *zapAdapter) Info(msg string, args ...any) {
	a.sugar.Infow(msg, args...)
}

func (a *zapAdapter) Debug(msg string, args ...any) {
	a.sugar.Debugw(msg, args...)
}

func (a *zapAdapter) Warn(msg string, args ...any) {
	a.sugar.Warnw(msg, args...)
}

func (a *zapAdapter) Error(msg string, args ...any) {
	a.sugar.Errorw(msg, args...)
}
