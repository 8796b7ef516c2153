package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/apperrors"
	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	portsrepo "github.com/caixasimples/caixa_simples_app/internal/core/ports/repositories"
	portssvc "github.com/caixasimples/caixa_simples_app/internal/core/ports/services"
	"github.com/caixasimples/caixa_simples_app/internal/dto"
	"github.com/caixasimples/caixa_simples_app/internal/utils/moneybr"
	"github.com/google/uuid"
)

// purchaseServiceImpl implements the PurchaseSvcFacade interface
type purchaseServiceImpl struct {
	BaseService
	purchaseRepo portsrepo.PurchaseRepositoryFacade
	supplierRepo portsrepo.SupplierRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(purchaseRepo portsrepo.PurchaseRepositoryFacade, supplierRepo portsrepo.SupplierRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.PurchaseSvcFacade {
	return &purchaseServiceImpl{
		purchaseRepo: purchaseRepo,
		supplierRepo: supplierRepo,
		accountRepo:  accountRepo,
	}
}

var _ portssvc.PurchaseSvcFacade = (*purchaseServiceImpl)(nil)

func (s *purchaseServiceImpl) CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest, userID string) (*domain.Purchase, error) {
	total, err := moneybr.Parse(req.TotalAmount)
	if err != nil {
		s.LogError(ctx, err, "Invalid purchase total", slog.String("total", req.TotalAmount))
		return nil, err
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("purchase total must be positive: %w", apperrors.ErrValidation)
	}

	purchaseDate, err := dto.ParseDate(req.PurchaseDate)
	if err != nil {
		return nil, err
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		d, err := dto.ParseDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		dueDate = &d
	}
	if domain.PaymentMode(req.Mode) == domain.PaymentCredit && dueDate == nil {
		return nil, fmt.Errorf("credit purchase requires a due date: %w", apperrors.ErrValidation)
	}

	supplier, err := s.supplierRepo.FindSupplierByID(ctx, req.SupplierID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find supplier for purchase",
			slog.String("supplier_id", req.SupplierID))
		return nil, fmt.Errorf("invalid supplier: %w", err)
	}
	if supplier.Status != domain.SupplierActive {
		return nil, fmt.Errorf("supplier is inactive: %w", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	purchase := domain.Purchase{
		PurchaseID:   uuid.NewString(),
		SupplierID:   req.SupplierID,
		PurchaseDate: purchaseDate,
		Description:  req.Description,
		Category:     req.Category,
		TotalAmount:  total,
		Mode:         domain.PaymentMode(req.Mode),
		DueDate:      dueDate,
		Status:       domain.PurchaseOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.purchaseRepo.SavePurchase(ctx, purchase); err != nil {
		s.LogError(ctx, err, "Failed to save purchase",
			slog.String("purchase_id", purchase.PurchaseID))
		return nil, err
	}

	s.LogInfo(ctx, "Purchase created successfully",
		slog.String("purchase_id", purchase.PurchaseID),
		slog.String("supplier_id", purchase.SupplierID))
	return &purchase, nil
}

func (s *purchaseServiceImpl) GetPurchaseByID(ctx context.Context, purchaseID string, userID string) (*domain.Purchase, []domain.Payment, error) {
	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find purchase by ID",
				slog.String("purchase_id", purchaseID))
		}
		return nil, nil, err
	}

	payments, err := s.purchaseRepo.ListPayments(ctx, purchaseID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list purchase payments",
			slog.String("purchase_id", purchaseID))
		return nil, nil, err
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	return purchase, payments, nil
}

func (s *purchaseServiceImpl) ListPurchases(ctx context.Context, params dto.ListPurchasesParams, userID string) ([]domain.Purchase, error) {
	var status *domain.PurchaseStatus
	if params.Status != nil {
		st := domain.PurchaseStatus(*params.Status)
		status = &st
	}

	purchases, err := s.purchaseRepo.ListPurchases(ctx, params.SupplierID, status, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list purchases")
		return nil, err
	}
	if purchases == nil {
		return []domain.Purchase{}, nil
	}
	return purchases, nil
}

func (s *purchaseServiceImpl) DeletePurchase(ctx context.Context, purchaseID string, userID string) error {
	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
	if err != nil {
		return err
	}
	if purchase.CreatedBy != userID {
		err := fmt.Errorf("purchase belongs to another user: %w", apperrors.ErrForbidden)
		s.LogError(ctx, err, "Rejected purchase delete by non-owner",
			slog.String("purchase_id", purchaseID),
			slog.String("user_id", userID))
		return err
	}

	if err := s.purchaseRepo.DeletePurchase(ctx, purchaseID); err != nil {
		s.LogError(ctx, err, "Failed to delete purchase",
			slog.String("purchase_id", purchaseID))
		return err
	}

	s.LogInfo(ctx, "Purchase deleted",
		slog.String("purchase_id", purchaseID))
	return nil
}

// ApplyPayment settles part or all of a purchase. The pre-checks here give
// callers an early error without touching any row; the repository re-derives
// them under the row lock, so a concurrent payment cannot slip past.
func (s *purchaseServiceImpl) ApplyPayment(ctx context.Context, purchaseID string, req dto.ApplyPaymentRequest, userID string) (*domain.Payment, error) {
	amount, err := moneybr.Parse(req.Amount)
	if err != nil {
		s.LogError(ctx, err, "Invalid payment amount", slog.String("amount", req.Amount))
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive: %w", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	paymentDate := now
	if req.PaymentDate != "" {
		paymentDate, err = dto.ParseDate(req.PaymentDate)
		if err != nil {
			return nil, err
		}
	}

	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find purchase for payment",
				slog.String("purchase_id", purchaseID))
		}
		return nil, err
	}
	if purchase.Status == domain.PurchaseSettled {
		return nil, fmt.Errorf("purchase %s: %w", purchaseID, apperrors.ErrAlreadySettled)
	}

	paid, err := s.purchaseRepo.SumPayments(ctx, purchaseID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum purchase payments",
			slog.String("purchase_id", purchaseID))
		return nil, err
	}
	if open := domain.OpenBalance(purchase.TotalAmount, paid); amount.GreaterThan(open) {
		return nil, fmt.Errorf("payment of %s against open balance %s: %w",
			amount.StringFixed(2), open.StringFixed(2), apperrors.ErrOverpayment)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find paying account",
			slog.String("account_id", req.AccountID))
		return nil, fmt.Errorf("invalid account: %w", err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("account is inactive: %w", apperrors.ErrValidation)
	}

	payment, status, err := s.purchaseRepo.ApplyPayment(ctx, portsrepo.ApplyPaymentParams{
		PurchaseID:  purchaseID,
		AccountID:   req.AccountID,
		Amount:      amount,
		PaymentDate: paymentDate,
		Note:        req.Note,
		UserID:      userID,
		Now:         now,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to apply payment",
			slog.String("purchase_id", purchaseID),
			slog.String("account_id", req.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Payment applied",
		slog.String("payment_id", payment.PaymentID),
		slog.String("purchase_id", purchaseID),
		slog.String("status", string(status)))
	return payment, nil
}
