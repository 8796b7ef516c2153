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
	"github.com/shopspring/decimal"
)

// supplierServiceImpl implements the SupplierSvcFacade interface
type supplierServiceImpl struct {
	BaseService
	supplierRepo portsrepo.SupplierRepositoryFacade
	historyRepo  portsrepo.HistoryRepositoryFacade
}

// NewSupplierService creates a new supplier service
func NewSupplierService(supplierRepo portsrepo.SupplierRepositoryFacade, historyRepo portsrepo.HistoryRepositoryFacade) portssvc.SupplierSvcFacade {
	return &supplierServiceImpl{
		supplierRepo: supplierRepo,
		historyRepo:  historyRepo,
	}
}

var _ portssvc.SupplierSvcFacade = (*supplierServiceImpl)(nil)

func (s *supplierServiceImpl) CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest, userID string) (*domain.Supplier, error) {
	now := time.Now().UTC()
	supplier := domain.Supplier{
		SupplierID: uuid.NewString(),
		Name:       req.Name,
		Category:   req.Category,
		Status:     domain.SupplierActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.supplierRepo.SaveSupplier(ctx, supplier); err != nil {
		s.LogError(ctx, err, "Failed to save supplier",
			slog.String("supplier_id", supplier.SupplierID))
		return nil, err
	}

	s.LogInfo(ctx, "Supplier created successfully",
		slog.String("supplier_id", supplier.SupplierID))
	return &supplier, nil
}

func (s *supplierServiceImpl) GetSupplierByID(ctx context.Context, supplierID string, userID string) (*domain.Supplier, error) {
	supplier, err := s.supplierRepo.FindSupplierByID(ctx, supplierID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find supplier by ID",
				slog.String("supplier_id", supplierID))
		}
		return nil, err
	}
	return supplier, nil
}

func (s *supplierServiceImpl) ListSuppliers(ctx context.Context, limit int, offset int, userID string) ([]domain.Supplier, error) {
	suppliers, err := s.supplierRepo.ListSuppliers(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list suppliers")
		return nil, err
	}
	if suppliers == nil {
		return []domain.Supplier{}, nil
	}
	return suppliers, nil
}

func (s *supplierServiceImpl) UpdateSupplier(ctx context.Context, supplierID string, req dto.UpdateSupplierRequest, userID string) (*domain.Supplier, error) {
	supplier, err := s.GetSupplierByID(ctx, supplierID, userID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		supplier.Name = *req.Name
		updated = true
	}
	if req.Category != nil {
		supplier.Category = *req.Category
		updated = true
	}
	if req.Status != nil {
		supplier.Status = domain.SupplierStatus(*req.Status)
		updated = true
	}
	if !updated {
		return supplier, nil
	}

	now := time.Now().UTC()
	supplier.LastUpdatedAt = now
	supplier.LastUpdatedBy = userID

	if err := s.supplierRepo.UpdateSupplier(ctx, *supplier); err != nil {
		s.LogError(ctx, err, "Failed to update supplier",
			slog.String("supplier_id", supplierID))
		return nil, err
	}

	s.LogInfo(ctx, "Supplier updated successfully",
		slog.String("supplier_id", supplierID))
	return supplier, nil
}

func (s *supplierServiceImpl) GetEffectiveBalance(ctx context.Context, supplierID string, userID string) (decimal.Decimal, error) {
	supplier, err := s.GetSupplierByID(ctx, supplierID, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if supplier.ManualBalanceSet {
		return supplier.ManualBalance, nil
	}

	balance, err := s.supplierRepo.ComputedBalance(ctx, supplierID)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute supplier balance",
			slog.String("supplier_id", supplierID))
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *supplierServiceImpl) AdjustSupplierBalance(ctx context.Context, supplierID string, req dto.AdjustSupplierBalanceRequest, userID string) (*domain.BalanceHistoryRecord, error) {
	newValue, err := moneybr.Parse(req.NewValue)
	if err != nil {
		s.LogError(ctx, err, "Invalid override value", slog.String("value", req.NewValue))
		return nil, err
	}
	if newValue.IsNegative() {
		return nil, fmt.Errorf("override value cannot be negative: %w", apperrors.ErrValidation)
	}

	if _, err := s.GetSupplierByID(ctx, supplierID, userID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record, err := s.supplierRepo.SetManualOverride(ctx, supplierID, newValue, req.Note, userID, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to set supplier balance override",
			slog.String("supplier_id", supplierID))
		return nil, err
	}

	s.LogInfo(ctx, "Supplier balance override set",
		slog.String("supplier_id", supplierID),
		slog.String("new_value", newValue.StringFixed(2)))
	return record, nil
}

func (s *supplierServiceImpl) ClearSupplierBalanceOverride(ctx context.Context, supplierID string, note string, userID string) (*domain.BalanceHistoryRecord, error) {
	supplier, err := s.GetSupplierByID(ctx, supplierID, userID)
	if err != nil {
		return nil, err
	}
	if !supplier.ManualBalanceSet {
		s.LogDebug(ctx, "No override to clear",
			slog.String("supplier_id", supplierID))
		return nil, nil
	}

	now := time.Now().UTC()
	record, err := s.supplierRepo.ClearManualOverride(ctx, supplierID, note, userID, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to clear supplier balance override",
			slog.String("supplier_id", supplierID))
		return nil, err
	}

	s.LogInfo(ctx, "Supplier balance override cleared",
		slog.String("supplier_id", supplierID))
	return record, nil
}

func (s *supplierServiceImpl) GetSupplierBalanceHistory(ctx context.Context, supplierID string, userID string) ([]domain.BalanceHistoryRecord, error) {
	if _, err := s.GetSupplierByID(ctx, supplierID, userID); err != nil {
		return nil, err
	}

	records, err := s.historyRepo.ListHistory(ctx, supplierID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list supplier balance history",
			slog.String("supplier_id", supplierID))
		return nil, err
	}
	if records == nil {
		return []domain.BalanceHistoryRecord{}, nil
	}
	return records, nil
}
