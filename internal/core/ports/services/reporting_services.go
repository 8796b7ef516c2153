package services

import (
	"context"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
)

// ReportingSvcFacade exposes read-only aggregate reporting.
type ReportingSvcFacade interface {
	GetCashflowSummary(ctx context.Context, from time.Time, to time.Time, userID string) (*domain.CashflowSummary, error)
}
