package repositories

import (
	"context"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountRepositoryFacade defines persistence operations for accounts.
//
// Credit and Debit are the only primitive balance mutations. Both run as a
// single database transaction: the account row is locked, the balance applied,
// and a BalanceHistoryRecord appended with the before/after snapshot. Debit
// returns apperrors.ErrInsufficientFunds if it would drive the balance
// negative, leaving everything untouched.
type AccountRepositoryFacade interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account domain.Account) error
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error

	FindPrimaryAccount(ctx context.Context) (*domain.Account, error)
	// SetPrimaryAccount atomically clears any previous primary flag and sets the
	// new one, keeping the at-most-one-primary invariant under concurrency.
	SetPrimaryAccount(ctx context.Context, accountID string, userID string, now time.Time) error

	Credit(ctx context.Context, accountID string, amount decimal.Decimal, note string, userID string, now time.Time) (*domain.BalanceHistoryRecord, error)
	Debit(ctx context.Context, accountID string, amount decimal.Decimal, note string, userID string, now time.Time) (*domain.BalanceHistoryRecord, error)
}
