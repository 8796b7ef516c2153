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

type PgxHistoryRepository struct {
	BaseRepository
}

// newPgxHistoryRepository creates a new repository for balance history records.
func newPgxHistoryRepository(pool *pgxpool.Pool) portsrepo.HistoryRepositoryFacade {
	return &PgxHistoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.HistoryRepositoryFacade = (*PgxHistoryRepository)(nil)

const insertHistoryQuery = `
	INSERT INTO balance_history (record_id, entity_id, value_before, value_after, note, recorded_at, recorded_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
`

// insertHistoryInTx appends a record inside an atomic unit owned by another
// repository. A second record for the same (entity, timestamp) key trips the
// unique index and maps to ErrConflict.
func insertHistoryInTx(ctx context.Context, tx pgx.Tx, record domain.BalanceHistoryRecord) error {
	_, err := tx.Exec(ctx, insertHistoryQuery,
		record.RecordID,
		record.EntityID,
		record.ValueBefore,
		record.ValueAfter,
		record.Note,
		record.RecordedAt,
		record.RecordedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: history record for entity %s at %s already exists", apperrors.ErrConflict, record.EntityID, record.RecordedAt)
		}
		return fmt.Errorf("failed to append history record for entity %s: %w", record.EntityID, err)
	}
	return nil
}

func (r *PgxHistoryRepository) Append(ctx context.Context, record domain.BalanceHistoryRecord) error {
	_, err := r.Pool.Exec(ctx, insertHistoryQuery,
		record.RecordID,
		record.EntityID,
		record.ValueBefore,
		record.ValueAfter,
		record.Note,
		record.RecordedAt,
		record.RecordedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: history record for entity %s at %s already exists", apperrors.ErrConflict, record.EntityID, record.RecordedAt)
		}
		return fmt.Errorf("failed to append history record for entity %s: %w", record.EntityID, err)
	}
	return nil
}

func (r *PgxHistoryRepository) AppendInTx(ctx context.Context, tx pgx.Tx, record domain.BalanceHistoryRecord) error {
	return insertHistoryInTx(ctx, tx, record)
}

func (r *PgxHistoryRepository) ListHistory(ctx context.Context, entityID string) ([]domain.BalanceHistoryRecord, error) {
	query := `
		SELECT record_id, entity_id, value_before, value_after, note, recorded_at, recorded_by
		FROM balance_history
		WHERE entity_id = $1
		ORDER BY recorded_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for entity %s: %w", entityID, err)
	}
	defer rows.Close()

	var records []domain.BalanceHistoryRecord
	for rows.Next() {
		var rec domain.BalanceHistoryRecord
		if err := rows.Scan(
			&rec.RecordID,
			&rec.EntityID,
			&rec.ValueBefore,
			&rec.ValueAfter,
			&rec.Note,
			&rec.RecordedAt,
			&rec.RecordedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history records: %w", err)
	}
	return records, nil
}
