package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	portsrepo "github.com/caixasimples/caixa_simples_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for reporting aggregates.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepositoryFacade = (*PgxReportingRepository)(nil)

// CashflowSummary aggregates the three money flows over [from, to], both
// bounds inclusive.
func (r *PgxReportingRepository) CashflowSummary(ctx context.Context, from time.Time, to time.Time) (*domain.CashflowSummary, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(amount) FROM entries WHERE entry_date BETWEEN $1 AND $2), 0) AS entries_total,
			COALESCE((SELECT SUM(amount) FROM expenses WHERE status = 'PAID' AND paid_date BETWEEN $1 AND $2), 0) AS expenses_paid_total,
			COALESCE((SELECT SUM(amount) FROM payments WHERE payment_date BETWEEN $1 AND $2), 0) AS supplier_payments_total;
	`
	var entriesTotal, expensesPaidTotal, supplierPaymentsTotal decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, from, to).Scan(&entriesTotal, &expensesPaidTotal, &supplierPaymentsTotal); err != nil {
		return nil, fmt.Errorf("failed to build cashflow summary: %w", err)
	}

	return &domain.CashflowSummary{
		From:                  from,
		To:                    to,
		EntriesTotal:          entriesTotal,
		ExpensesPaidTotal:     expensesPaidTotal,
		SupplierPaymentsTotal: supplierPaymentsTotal,
		NetMovement:           entriesTotal.Sub(expensesPaidTotal).Sub(supplierPaymentsTotal),
	}, nil
}
