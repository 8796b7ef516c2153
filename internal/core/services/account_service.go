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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountServiceImpl implements the AccountSvcFacade interface
type accountServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	historyRepo portsrepo.HistoryRepositoryFacade
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, historyRepo portsrepo.HistoryRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountServiceImpl{
		accountRepo: accountRepo,
		historyRepo: historyRepo,
	}
}

// Ensure accountServiceImpl implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountServiceImpl)(nil)

func (s *accountServiceImpl) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	now := time.Now().UTC()
	account := domain.Account{
		AccountID: uuid.NewString(),
		Name:      req.Name,
		IsActive:  true,
		IsPrimary: false,
		Balance:   decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID))
		return nil, err
	}

	// The primary flag goes through the atomic swap so the at-most-one
	// invariant holds even when two accounts are created concurrently.
	if req.IsPrimary {
		if err := s.accountRepo.SetPrimaryAccount(ctx, account.AccountID, userID, now); err != nil {
			s.LogError(ctx, err, "Failed to set new account as primary",
				slog.String("account_id", account.AccountID))
			return nil, err
		}
		account.IsPrimary = true
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID))
	return &account, nil
}

func (s *accountServiceImpl) GetAccountByID(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err
	}

	s.LogDebug(ctx, "Account retrieved successfully",
		slog.String("account_id", account.AccountID))
	return account, nil
}

func (s *accountServiceImpl) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.Int("limit", limit),
			slog.Int("offset", offset))
		return nil, err
	}

	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountServiceImpl) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for account update",
			slog.String("account_id", accountID))
		return account, nil
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account",
			slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully",
		slog.String("account_id", account.AccountID))
	return account, nil
}

func (s *accountServiceImpl) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	if _, err := s.GetAccountByID(ctx, accountID, userID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account",
			slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated successfully",
		slog.String("account_id", accountID))
	return nil
}

func (s *accountServiceImpl) SetPrimaryAccount(ctx context.Context, accountID string, userID string) error {
	account, err := s.GetAccountByID(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		err := fmt.Errorf("an inactive account cannot be primary: %w", apperrors.ErrValidation)
		s.LogError(ctx, err, "Refusing to promote inactive account",
			slog.String("account_id", accountID))
		return err
	}

	now := time.Now().UTC()
	if err := s.accountRepo.SetPrimaryAccount(ctx, accountID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to set primary account",
			slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Primary account changed",
		slog.String("account_id", accountID))
	return nil
}

func (s *accountServiceImpl) GetBalance(ctx context.Context, accountID string, userID string) (decimal.Decimal, error) {
	account, err := s.GetAccountByID(ctx, accountID, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

func (s *accountServiceImpl) GetBalanceHistory(ctx context.Context, accountID string, userID string) ([]domain.BalanceHistoryRecord, error) {
	if _, err := s.GetAccountByID(ctx, accountID, userID); err != nil {
		return nil, err
	}

	records, err := s.historyRepo.ListHistory(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account balance history",
			slog.String("account_id", accountID))
		return nil, err
	}
	if records == nil {
		return []domain.BalanceHistoryRecord{}, nil
	}
	return records, nil
}
