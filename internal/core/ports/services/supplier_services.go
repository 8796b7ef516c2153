package services

import (
	"context"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/caixasimples/caixa_simples_app/internal/dto"
	"github.com/shopspring/decimal"
)

// SupplierSvcFacade exposes supplier management and the supplier balance
// ledger (computed balance vs manual override with audited transitions).
type SupplierSvcFacade interface {
	CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest, userID string) (*domain.Supplier, error)
	GetSupplierByID(ctx context.Context, supplierID string, userID string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, limit int, offset int, userID string) ([]domain.Supplier, error)
	UpdateSupplier(ctx context.Context, supplierID string, req dto.UpdateSupplierRequest, userID string) (*domain.Supplier, error)

	// GetEffectiveBalance returns the manual override when one is active,
	// otherwise the computed balance.
	GetEffectiveBalance(ctx context.Context, supplierID string, userID string) (decimal.Decimal, error)
	AdjustSupplierBalance(ctx context.Context, supplierID string, req dto.AdjustSupplierBalanceRequest, userID string) (*domain.BalanceHistoryRecord, error)
	ClearSupplierBalanceOverride(ctx context.Context, supplierID string, note string, userID string) (*domain.BalanceHistoryRecord, error)
	GetSupplierBalanceHistory(ctx context.Context, supplierID string, userID string) ([]domain.BalanceHistoryRecord, error)
}
