package services

import (
	"context"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/caixasimples/caixa_simples_app/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for account data.
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, accountID string, userID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
	// GetBalance returns the account's current balance.
	GetBalance(ctx context.Context, accountID string, userID string) (decimal.Decimal, error)
	// GetBalanceHistory returns the account's audit records, oldest first.
	GetBalanceHistory(ctx context.Context, accountID string, userID string) ([]domain.BalanceHistoryRecord, error)
}

// AccountWriterSvc defines write operations for account data.
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
	// SetPrimaryAccount designates the account as the single primary one.
	SetPrimaryAccount(ctx context.Context, accountID string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
