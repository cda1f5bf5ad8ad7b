// Package services contains the application services driving the ledger's
// command and query operations.
package services

import (
	"context"
	"log/slog"

	"github.com/finledger/ledger-core/internal/platform/identity"
	"github.com/finledger/ledger-core/internal/platform/logging"
)

// BaseService provides common functionality shared by all services.
type BaseService struct{}

// GetLogger retrieves the operation-scoped logger from the context.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return logging.GetLoggerFromCtx(ctx)
}

// LogError logs an error with the operation-scoped logger.
func (s *BaseService) LogError(ctx context.Context, msg string, args ...any) {
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an informational message with the operation-scoped logger.
func (s *BaseService) LogInfo(ctx context.Context, msg string, args ...any) {
	s.GetLogger(ctx).Info(msg, args...)
}

// LogDebug logs a debug message with the operation-scoped logger.
func (s *BaseService) LogDebug(ctx context.Context, msg string, args ...any) {
	s.GetLogger(ctx).Debug(msg, args...)
}

// LogWarn logs a warning with the operation-scoped logger.
func (s *BaseService) LogWarn(ctx context.Context, msg string, args ...any) {
	s.GetLogger(ctx).Warn(msg, args...)
}

// actingUser resolves who a command is attributed to: the explicit userID
// when given, otherwise the identity carried by the context. Empty means
// anonymous.
func actingUser(ctx context.Context, userID string) string {
	if userID != "" {
		return userID
	}
	return identity.CurrentUser(ctx)
}
