package repositories

import (
	"context"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApplyPaymentParams carries everything the atomic payment unit needs.
type ApplyPaymentParams struct {
	PurchaseID  string
	AccountID   string
	Amount      decimal.Decimal
	PaymentDate time.Time
	Note        string
	UserID      string
	Now         time.Time
}

// PurchaseRepositoryFacade defines persistence operations for purchases and
// their payments.
//
// ApplyPayment is the reconciliation unit: inside one transaction it locks the
// purchase and the paying account, re-derives the open balance, rejects
// settled/overpaying/underfunded requests (ErrAlreadySettled, ErrOverpayment,
// ErrInsufficientFunds), then debits the account, inserts the payment row with
// the balance snapshot, recomputes the purchase status and appends the audit
// record. Either all effects become visible or none do. Two concurrent calls
// against the same purchase serialize on the row lock; the second observes the
// first's effect.
type PurchaseRepositoryFacade interface {
	SavePurchase(ctx context.Context, purchase domain.Purchase) error
	FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error)
	ListPurchases(ctx context.Context, supplierID *string, status *domain.PurchaseStatus, limit int, offset int) ([]domain.Purchase, error)
	// DeletePurchase removes the purchase from aggregate computation. Posted
	// payments are append-only and survive the delete.
	DeletePurchase(ctx context.Context, purchaseID string) error

	SumPayments(ctx context.Context, purchaseID string) (decimal.Decimal, error)
	ListPayments(ctx context.Context, purchaseID string) ([]domain.Payment, error)
	ApplyPayment(ctx context.Context, params ApplyPaymentParams) (*domain.Payment, domain.PurchaseStatus, error)
}
