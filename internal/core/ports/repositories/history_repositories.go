package repositories

import (
	"context"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// HistoryRepositoryFacade is the append-only audit trail store.
//
// Append is write-once: a second record for the same (entity, timestamp) key
// fails with apperrors.ErrConflict. Monotonic timestamps per entity are the
// writer's responsibility, not enforced here.
type HistoryRepositoryFacade interface {
	Append(ctx context.Context, record domain.BalanceHistoryRecord) error
	// AppendInTx joins an atomic unit owned by another repository.
	AppendInTx(ctx context.Context, tx pgx.Tx, record domain.BalanceHistoryRecord) error
	// ListHistory returns an entity's records oldest first.
	ListHistory(ctx context.Context, entityID string) ([]domain.BalanceHistoryRecord, error)
}
