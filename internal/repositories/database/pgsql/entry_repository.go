package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/apperrors"
	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	portsrepo "github.com/caixasimples/caixa_simples_app/internal/core/ports/repositories"
	"github.com/caixasimples/caixa_simples_app/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for marketplace entries.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

func toDomainEntry(m models.Entry) domain.Entry {
	return domain.Entry{
		EntryID:        m.EntryID,
		AccountID:      m.AccountID,
		MarketplaceID:  m.MarketplaceID,
		Amount:         m.Amount,
		EntryDate:      m.EntryDate,
		CommissionPaid: m.CommissionPaid,
		Notes:          m.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const selectEntryColumns = `entry_id, account_id, marketplace_id, amount, entry_date, commission_paid, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (models.Entry, error) {
	var m models.Entry
	err := row.Scan(
		&m.EntryID,
		&m.AccountID,
		&m.MarketplaceID,
		&m.Amount,
		&m.EntryDate,
		&m.CommissionPaid,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveEntry inserts the entry and credits its account in one transaction.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.Entry) (*domain.BalanceHistoryRecord, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	insertQuery := `
		INSERT INTO entries (entry_id, account_id, marketplace_id, amount, entry_date, commission_paid, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, insertQuery,
		entry.EntryID,
		entry.AccountID,
		entry.MarketplaceID,
		entry.Amount,
		entry.EntryDate,
		entry.CommissionPaid,
		entry.Notes,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert entry %s: %w", entry.EntryID, err)
	}

	locked, err := lockAccountForUpdate(ctx, tx, entry.AccountID)
	if err != nil {
		return nil, err
	}
	newBalance := locked.Balance.Add(entry.Amount)
	if err := applyBalanceInTx(ctx, tx, entry.AccountID, newBalance, entry.CreatedBy, entry.CreatedAt); err != nil {
		return nil, err
	}

	record := domain.BalanceHistoryRecord{
		RecordID:    uuid.NewString(),
		EntityID:    entry.AccountID,
		ValueBefore: locked.Balance,
		ValueAfter:  newBalance,
		Note:        "entry " + entry.EntryID,
		RecordedAt:  entry.CreatedAt,
		RecordedBy:  entry.CreatedBy,
	}
	if err := insertHistoryInTx(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.Entry, error) {
	query := `
		SELECT ` + selectEntryColumns + `
		FROM entries
		WHERE entry_id = $1;
	`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}
	e := toDomainEntry(m)
	return &e, nil
}

func (r *PgxEntryRepository) ListEntries(ctx context.Context, filter portsrepo.EntryFilter) ([]domain.Entry, error) {
	query := `
		SELECT ` + selectEntryColumns + `
		FROM entries
		WHERE 1=1`
	args := []any{}

	appendArg := func(clause string, value any) {
		args = append(args, value)
		query += " AND " + clause + "$" + strconv.Itoa(len(args))
	}

	if filter.DateFrom != nil {
		appendArg("entry_date >= ", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		appendArg("entry_date <= ", *filter.DateTo)
	}
	if filter.AccountID != nil {
		appendArg("account_id = ", *filter.AccountID)
	}
	if filter.MarketplaceID != nil {
		appendArg("marketplace_id = ", *filter.MarketplaceID)
	}
	if filter.AmountMin != nil {
		appendArg("amount >= ", *filter.AmountMin)
	}
	if filter.AmountMax != nil {
		appendArg("amount <= ", *filter.AmountMax)
	}
	if filter.Text != nil {
		appendArg("notes ILIKE ", "%"+*filter.Text+"%")
	}

	args = append(args, filter.Limit)
	limitPos := strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	offsetPos := strconv.Itoa(len(args))
	query += " ORDER BY entry_date DESC, created_at DESC LIMIT $" + limitPos + " OFFSET $" + offsetPos + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, toDomainEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}
	return entries, nil
}

// UpdateEntry rewrites the mutable fields and applies the amount delta to the
// account balance in one transaction.
func (r *PgxEntryRepository) UpdateEntry(ctx context.Context, entry domain.Entry) (*domain.BalanceHistoryRecord, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Read the persisted amount under lock so the delta is exact.
	var oldAmount models.Entry
	selectQuery := `
		SELECT ` + selectEntryColumns + `
		FROM entries
		WHERE entry_id = $1
		FOR UPDATE;
	`
	oldAmount, err = scanEntry(tx.QueryRow(ctx, selectQuery, entry.EntryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock entry %s: %w", entry.EntryID, err)
	}

	updateQuery := `
		UPDATE entries
		SET amount = $2, entry_date = $3, commission_paid = $4, notes = $5, last_updated_at = $6, last_updated_by = $7
		WHERE entry_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery,
		entry.EntryID,
		entry.Amount,
		entry.EntryDate,
		entry.CommissionPaid,
		entry.Notes,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	); err != nil {
		return nil, fmt.Errorf("failed to update entry %s: %w", entry.EntryID, err)
	}

	delta := entry.Amount.Sub(oldAmount.Amount)
	var record *domain.BalanceHistoryRecord
	if !delta.IsZero() {
		locked, err := lockAccountForUpdate(ctx, tx, entry.AccountID)
		if err != nil {
			return nil, err
		}
		newBalance := locked.Balance.Add(delta)
		if newBalance.IsNegative() {
			return nil, fmt.Errorf("entry amount change would overdraw account %s: %w", entry.AccountID, apperrors.ErrInsufficientFunds)
		}
		if err := applyBalanceInTx(ctx, tx, entry.AccountID, newBalance, entry.LastUpdatedBy, entry.LastUpdatedAt); err != nil {
			return nil, err
		}

		record = &domain.BalanceHistoryRecord{
			RecordID:    uuid.NewString(),
			EntityID:    entry.AccountID,
			ValueBefore: locked.Balance,
			ValueAfter:  newBalance,
			Note:        "entry " + entry.EntryID + " amount changed",
			RecordedAt:  entry.LastUpdatedAt,
			RecordedBy:  entry.LastUpdatedBy,
		}
		if err := insertHistoryInTx(ctx, tx, *record); err != nil {
			return nil, err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteEntry removes the entry and debits its amount back off the account.
func (r *PgxEntryRepository) DeleteEntry(ctx context.Context, entryID string, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	selectQuery := `
		SELECT ` + selectEntryColumns + `
		FROM entries
		WHERE entry_id = $1
		FOR UPDATE;
	`
	m, err := scanEntry(tx.QueryRow(ctx, selectQuery, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock entry %s: %w", entryID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM entries WHERE entry_id = $1;`, entryID); err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}

	locked, err := lockAccountForUpdate(ctx, tx, m.AccountID)
	if err != nil {
		return err
	}
	newBalance := locked.Balance.Sub(m.Amount)
	if newBalance.IsNegative() {
		return fmt.Errorf("deleting entry %s would overdraw account %s: %w", entryID, m.AccountID, apperrors.ErrInsufficientFunds)
	}
	if err := applyBalanceInTx(ctx, tx, m.AccountID, newBalance, userID, now); err != nil {
		return err
	}

	record := domain.BalanceHistoryRecord{
		RecordID:    uuid.NewString(),
		EntityID:    m.AccountID,
		ValueBefore: locked.Balance,
		ValueAfter:  newBalance,
		Note:        "entry " + entryID + " deleted",
		RecordedAt:  now,
		RecordedBy:  userID,
	}
	if err := insertHistoryInTx(ctx, tx, record); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
