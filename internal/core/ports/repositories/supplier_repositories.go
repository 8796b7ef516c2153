package repositories

import (
	"context"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SupplierRepositoryFacade defines persistence operations for suppliers and
// their balance overrides. Override writes are atomic: the supplier row is
// locked, the prior effective balance captured, the override flag flipped and
// the BalanceHistoryRecord appended in one transaction.
type SupplierRepositoryFacade interface {
	SaveSupplier(ctx context.Context, supplier domain.Supplier) error
	FindSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, limit int, offset int) ([]domain.Supplier, error)
	UpdateSupplier(ctx context.Context, supplier domain.Supplier) error

	// ComputedBalance is sum(purchase totals) - sum(payments) over the
	// supplier's purchases, ignoring any manual override.
	ComputedBalance(ctx context.Context, supplierID string) (decimal.Decimal, error)
	SetManualOverride(ctx context.Context, supplierID string, newValue decimal.Decimal, note string, userID string, now time.Time) (*domain.BalanceHistoryRecord, error)
	ClearManualOverride(ctx context.Context, supplierID string, note string, userID string, now time.Time) (*domain.BalanceHistoryRecord, error)
}
