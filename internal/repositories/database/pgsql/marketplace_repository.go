package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/caixasimples/caixa_simples_app/internal/apperrors"
	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	portsrepo "github.com/caixasimples/caixa_simples_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxMarketplaceRepository struct {
	BaseRepository
}

// newPgxMarketplaceRepository creates a new repository for marketplace reference data.
func newPgxMarketplaceRepository(pool *pgxpool.Pool) portsrepo.MarketplaceRepositoryFacade {
	return &PgxMarketplaceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MarketplaceRepositoryFacade = (*PgxMarketplaceRepository)(nil)

func (r *PgxMarketplaceRepository) SaveMarketplace(ctx context.Context, marketplace domain.Marketplace) error {
	query := `
		INSERT INTO marketplaces (marketplace_id, name, is_active)
		VALUES ($1, $2, $3);
	`
	_, err := r.Pool.Exec(ctx, query, marketplace.MarketplaceID, marketplace.Name, marketplace.IsActive)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: marketplace %q already exists", apperrors.ErrDuplicate, marketplace.Name)
		}
		return fmt.Errorf("failed to save marketplace %s: %w", marketplace.MarketplaceID, err)
	}
	return nil
}

func (r *PgxMarketplaceRepository) FindMarketplaceByID(ctx context.Context, marketplaceID string) (*domain.Marketplace, error) {
	query := `
		SELECT marketplace_id, name, is_active
		FROM marketplaces
		WHERE marketplace_id = $1;
	`
	var m domain.Marketplace
	err := r.Pool.QueryRow(ctx, query, marketplaceID).Scan(&m.MarketplaceID, &m.Name, &m.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find marketplace by ID %s: %w", marketplaceID, err)
	}
	return &m, nil
}

func (r *PgxMarketplaceRepository) ListMarketplaces(ctx context.Context) ([]domain.Marketplace, error) {
	query := `
		SELECT marketplace_id, name, is_active
		FROM marketplaces
		ORDER BY name ASC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list marketplaces: %w", err)
	}
	defer rows.Close()

	var marketplaces []domain.Marketplace
	for rows.Next() {
		var m domain.Marketplace
		if err := rows.Scan(&m.MarketplaceID, &m.Name, &m.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan marketplace: %w", err)
		}
		marketplaces = append(marketplaces, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating marketplaces: %w", err)
	}
	return marketplaces, nil
}
