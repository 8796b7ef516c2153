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

// entryServiceImpl implements the EntrySvcFacade interface
type entryServiceImpl struct {
	BaseService
	entryRepo       portsrepo.EntryRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
	marketplaceRepo portsrepo.MarketplaceRepositoryFacade
}

// NewEntryService creates a new entry service
func NewEntryService(entryRepo portsrepo.EntryRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, marketplaceRepo portsrepo.MarketplaceRepositoryFacade) portssvc.EntrySvcFacade {
	return &entryServiceImpl{
		entryRepo:       entryRepo,
		accountRepo:     accountRepo,
		marketplaceRepo: marketplaceRepo,
	}
}

var _ portssvc.EntrySvcFacade = (*entryServiceImpl)(nil)

func (s *entryServiceImpl) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, userID string) (*domain.Entry, error) {
	amount, err := moneybr.Parse(req.Amount)
	if err != nil {
		s.LogError(ctx, err, "Invalid entry amount", slog.String("amount", req.Amount))
		return nil, err
	}
	if !amount.IsPositive() {
		err := fmt.Errorf("entry amount must be positive: %w", apperrors.ErrValidation)
		s.LogError(ctx, err, "Rejected non-positive entry amount")
		return nil, err
	}

	entryDate, err := dto.ParseDate(req.EntryDate)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find account for entry",
			slog.String("account_id", req.AccountID))
		return nil, fmt.Errorf("invalid account: %w", err)
	}
	if !account.IsActive {
		err := fmt.Errorf("account is inactive: %w", apperrors.ErrValidation)
		s.LogError(ctx, err, "Rejected entry against inactive account",
			slog.String("account_id", req.AccountID))
		return nil, err
	}

	if _, err := s.marketplaceRepo.FindMarketplaceByID(ctx, req.MarketplaceID); err != nil {
		s.LogError(ctx, err, "Failed to find marketplace for entry",
			slog.String("marketplace_id", req.MarketplaceID))
		return nil, fmt.Errorf("invalid marketplace: %w", err)
	}

	now := time.Now().UTC()
	entry := domain.Entry{
		EntryID:        uuid.NewString(),
		AccountID:      req.AccountID,
		MarketplaceID:  req.MarketplaceID,
		Amount:         amount,
		EntryDate:      entryDate,
		CommissionPaid: req.CommissionPaid,
		Notes:          req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// SaveEntry credits the account and appends the audit record in the same
	// transaction as the insert.
	if _, err := s.entryRepo.SaveEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save entry",
			slog.String("entry_id", entry.EntryID),
			slog.String("account_id", entry.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Entry created successfully",
		slog.String("entry_id", entry.EntryID),
		slog.String("account_id", entry.AccountID))
	return &entry, nil
}

func (s *entryServiceImpl) GetEntryByID(ctx context.Context, entryID string, userID string) (*domain.Entry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find entry by ID",
				slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *entryServiceImpl) ListEntries(ctx context.Context, params dto.ListEntriesParams, userID string) ([]domain.Entry, error) {
	filter, err := s.buildFilter(params)
	if err != nil {
		s.LogError(ctx, err, "Invalid entry list filter")
		return nil, err
	}

	entries, err := s.entryRepo.ListEntries(ctx, *filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries")
		return nil, err
	}
	if entries == nil {
		return []domain.Entry{}, nil
	}
	return entries, nil
}

func (s *entryServiceImpl) buildFilter(params dto.ListEntriesParams) (*portsrepo.EntryFilter, error) {
	filter := portsrepo.EntryFilter{
		AccountID:     params.AccountID,
		MarketplaceID: params.MarketplaceID,
		Text:          params.Text,
		Limit:         params.Limit,
		Offset:        params.Offset,
	}
	if params.DateFrom != nil {
		from, err := dto.ParseDate(*params.DateFrom)
		if err != nil {
			return nil, err
		}
		filter.DateFrom = &from
	}
	if params.DateTo != nil {
		to, err := dto.ParseDate(*params.DateTo)
		if err != nil {
			return nil, err
		}
		filter.DateTo = &to
	}
	if params.AmountMin != nil {
		min, err := moneybr.Parse(*params.AmountMin)
		if err != nil {
			return nil, err
		}
		filter.AmountMin = &min
	}
	if params.AmountMax != nil {
		max, err := moneybr.Parse(*params.AmountMax)
		if err != nil {
			return nil, err
		}
		filter.AmountMax = &max
	}
	return &filter, nil
}

func (s *entryServiceImpl) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.Entry, error) {
	entry, err := s.GetEntryByID(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}
	if entry.CreatedBy != userID {
		err := fmt.Errorf("entry belongs to another user: %w", apperrors.ErrForbidden)
		s.LogError(ctx, err, "Rejected entry update by non-owner",
			slog.String("entry_id", entryID),
			slog.String("user_id", userID))
		return nil, err
	}

	updated := false
	if req.Amount != nil {
		amount, err := moneybr.Parse(*req.Amount)
		if err != nil {
			return nil, err
		}
		if !amount.IsPositive() {
			return nil, fmt.Errorf("entry amount must be positive: %w", apperrors.ErrValidation)
		}
		entry.Amount = amount
		updated = true
	}
	if req.EntryDate != nil {
		entryDate, err := dto.ParseDate(*req.EntryDate)
		if err != nil {
			return nil, err
		}
		entry.EntryDate = entryDate
		updated = true
	}
	if req.CommissionPaid != nil {
		entry.CommissionPaid = *req.CommissionPaid
		updated = true
	}
	if req.Notes != nil {
		entry.Notes = *req.Notes
		updated = true
	}
	if !updated {
		return entry, nil
	}

	now := time.Now().UTC()
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	// UpdateEntry applies the amount delta to the account balance atomically.
	if _, err := s.entryRepo.UpdateEntry(ctx, *entry); err != nil {
		s.LogError(ctx, err, "Failed to update entry",
			slog.String("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Entry updated successfully",
		slog.String("entry_id", entryID))
	return entry, nil
}

func (s *entryServiceImpl) DeleteEntry(ctx context.Context, entryID string, userID string) error {
	entry, err := s.GetEntryByID(ctx, entryID, userID)
	if err != nil {
		return err
	}
	if entry.CreatedBy != userID {
		err := fmt.Errorf("entry belongs to another user: %w", apperrors.ErrForbidden)
		s.LogError(ctx, err, "Rejected entry delete by non-owner",
			slog.String("entry_id", entryID),
			slog.String("user_id", userID))
		return err
	}

	now := time.Now().UTC()
	if err := s.entryRepo.DeleteEntry(ctx, entryID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to delete entry",
			slog.String("entry_id", entryID))
		return err
	}

	s.LogInfo(ctx, "Entry deleted successfully",
		slog.String("entry_id", entryID))
	return nil
}

// marketplaceServiceImpl implements the MarketplaceSvcFacade interface
type marketplaceServiceImpl struct {
	BaseService
	marketplaceRepo portsrepo.MarketplaceRepositoryFacade
}

// NewMarketplaceService creates a new marketplace service
func NewMarketplaceService(marketplaceRepo portsrepo.MarketplaceRepositoryFacade) portssvc.MarketplaceSvcFacade {
	return &marketplaceServiceImpl{marketplaceRepo: marketplaceRepo}
}

var _ portssvc.MarketplaceSvcFacade = (*marketplaceServiceImpl)(nil)

func (s *marketplaceServiceImpl) CreateMarketplace(ctx context.Context, req dto.CreateMarketplaceRequest, userID string) (*domain.Marketplace, error) {
	marketplace := domain.Marketplace{
		MarketplaceID: uuid.NewString(),
		Name:          req.Name,
		IsActive:      true,
	}
	if err := s.marketplaceRepo.SaveMarketplace(ctx, marketplace); err != nil {
		s.LogError(ctx, err, "Failed to save marketplace",
			slog.String("name", req.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Marketplace created successfully",
		slog.String("marketplace_id", marketplace.MarketplaceID))
	return &marketplace, nil
}

func (s *marketplaceServiceImpl) ListMarketplaces(ctx context.Context) ([]domain.Marketplace, error) {
	marketplaces, err := s.marketplaceRepo.ListMarketplaces(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list marketplaces")
		return nil, err
	}
	if marketplaces == nil {
		return []domain.Marketplace{}, nil
	}
	return marketplaces, nil
}
