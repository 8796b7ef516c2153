package services

import (
	"context"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/caixasimples/caixa_simples_app/internal/dto"
)

// PurchaseSvcFacade exposes purchases and the payment reconciler.
type PurchaseSvcFacade interface {
	CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest, userID string) (*domain.Purchase, error)
	// GetPurchaseByID returns the purchase together with its payments and open
	// balance; this is the read-back path callers use after an unknown outcome.
	GetPurchaseByID(ctx context.Context, purchaseID string, userID string) (*domain.Purchase, []domain.Payment, error)
	ListPurchases(ctx context.Context, params dto.ListPurchasesParams, userID string) ([]domain.Purchase, error)
	DeletePurchase(ctx context.Context, purchaseID string, userID string) error

	ApplyPayment(ctx context.Context, purchaseID string, req dto.ApplyPaymentRequest, userID string) (*domain.Payment, error)
}
