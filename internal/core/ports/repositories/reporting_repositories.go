package repositories

import (
	"context"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
)

// ReportingRepositoryFacade runs the read-only aggregate queries behind the
// cashflow summary.
type ReportingRepositoryFacade interface {
	CashflowSummary(ctx context.Context, from time.Time, to time.Time) (*domain.CashflowSummary, error)
}
