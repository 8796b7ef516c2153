package services

import (
	"context"
	"log/slog"

	"github.com/caixasimples/caixa_simples_app/internal/middleware"
)

// BaseService carries the logging helpers every service embeds.
type BaseService struct{}

// GetLogger returns the request-scoped logger, falling back to the process
// default when the context carries none (startup paths, tests).
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	if logger := middleware.GetLoggerFromCtx(ctx); logger != nil {
		return logger
	}
	return slog.Default()
}

// LogError logs an error with the error message as a structured attribute.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := append([]any{slog.String("error", err.Error())}, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}
