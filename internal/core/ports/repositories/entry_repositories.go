package repositories

import (
	"context"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryFilter is an independently-composable predicate set for listing entries.
// A nil field means "no constraint".
type EntryFilter struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	AccountID     *string
	MarketplaceID *string
	AmountMin     *decimal.Decimal
	AmountMax     *decimal.Decimal
	Text          *string
	Limit         int
	Offset        int
}

// EntryRepositoryFacade defines persistence operations for marketplace entries.
// Save, amount updates and Delete keep the owning account's cached balance in
// step inside one transaction, appending the audit record alongside.
type EntryRepositoryFacade interface {
	// SaveEntry inserts the entry and credits its account atomically.
	SaveEntry(ctx context.Context, entry domain.Entry) (*domain.BalanceHistoryRecord, error)
	FindEntryByID(ctx context.Context, entryID string) (*domain.Entry, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]domain.Entry, error)
	// UpdateEntry rewrites the mutable fields and applies the amount delta to
	// the account balance atomically. A negative delta that would drive the
	// balance negative fails with apperrors.ErrInsufficientFunds.
	UpdateEntry(ctx context.Context, entry domain.Entry) (*domain.BalanceHistoryRecord, error)
	// DeleteEntry removes the entry and debits its amount back off the account.
	DeleteEntry(ctx context.Context, entryID string, userID string, now time.Time) error
}

// MarketplaceRepositoryFacade defines persistence for the marketplace
// reference table backing Entry.MarketplaceID.
type MarketplaceRepositoryFacade interface {
	SaveMarketplace(ctx context.Context, marketplace domain.Marketplace) error
	FindMarketplaceByID(ctx context.Context, marketplaceID string) (*domain.Marketplace, error)
	ListMarketplaces(ctx context.Context) ([]domain.Marketplace, error)
}
