package services

import (
	"context"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/caixasimples/caixa_simples_app/internal/dto"
)

// EntrySvcFacade exposes marketplace entry operations. Mutations are
// ownership-scoped: only the creating actor may edit or delete an entry.
type EntrySvcFacade interface {
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, userID string) (*domain.Entry, error)
	GetEntryByID(ctx context.Context, entryID string, userID string) (*domain.Entry, error)
	ListEntries(ctx context.Context, params dto.ListEntriesParams, userID string) ([]domain.Entry, error)
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.Entry, error)
	DeleteEntry(ctx context.Context, entryID string, userID string) error
}

// MarketplaceSvcFacade exposes the marketplace reference data.
type MarketplaceSvcFacade interface {
	CreateMarketplace(ctx context.Context, req dto.CreateMarketplaceRequest, userID string) (*domain.Marketplace, error)
	ListMarketplaces(ctx context.Context) ([]domain.Marketplace, error)
}
