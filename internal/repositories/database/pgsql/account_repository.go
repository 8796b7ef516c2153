package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/apperrors"
	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	portsrepo "github.com/caixasimples/caixa_simples_app/internal/core/ports/repositories"
	"github.com/caixasimples/caixa_simples_app/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID: m.AccountID,
		Name:      m.Name,
		IsActive:  m.IsActive,
		IsPrimary: m.IsPrimary,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
		Balance: m.Balance,
	}
}

const selectAccountColumns = `account_id, name, is_active, is_primary, created_at, created_by, last_updated_at, last_updated_by, balance`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Name,
		&m.IsActive,
		&m.IsPrimary,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Balance,
	)
	return m, err
}

// lockAccountForUpdate selects the account row FOR UPDATE inside tx, blocking
// concurrent balance writers until the transaction finishes.
func lockAccountForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (models.Account, error) {
	query := `
		SELECT ` + selectAccountColumns + `
		FROM accounts
		WHERE account_id = $1
		FOR UPDATE;
	`
	m, err := scanAccount(tx.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
		}
		return models.Account{}, fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}
	return m, nil
}

// applyBalanceInTx writes the new balance and audit stamp onto a row that the
// caller has already locked.
func applyBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, newBalance decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	tag, err := tx.Exec(ctx, query, accountID, newBalance, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance of account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (account_id, name, is_active, is_primary, created_at, created_by, last_updated_at, last_updated_by, balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.IsActive,
		account.IsPrimary,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
		account.Balance,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT ` + selectAccountColumns + `
		FROM accounts
		WHERE account_id = $1;
	`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	query := `
		SELECT ` + selectAccountColumns + `
		FROM accounts
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
		WHERE account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, is_primary = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxAccountRepository) FindPrimaryAccount(ctx context.Context) (*domain.Account, error) {
	query := `
		SELECT ` + selectAccountColumns + `
		FROM accounts
		WHERE is_primary = TRUE;
	`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find primary account: %w", err)
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

// SetPrimaryAccount clears the old flag and sets the new one in a single
// transaction, so two concurrent promotions cannot leave two primaries.
func (r *PgxAccountRepository) SetPrimaryAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := lockAccountForUpdate(ctx, tx, accountID); err != nil {
		return err
	}

	clearQuery := `
		UPDATE accounts
		SET is_primary = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE is_primary = TRUE AND account_id <> $3;
	`
	if _, err := tx.Exec(ctx, clearQuery, now, userID, accountID); err != nil {
		return fmt.Errorf("failed to clear previous primary account: %w", err)
	}

	setQuery := `
		UPDATE accounts
		SET is_primary = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1;
	`
	tag, err := tx.Exec(ctx, setQuery, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to set primary account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// Credit locks the account, adds amount to its balance and appends the audit
// record, all in one transaction.
func (r *PgxAccountRepository) Credit(ctx context.Context, accountID string, amount decimal.Decimal, note string, userID string, now time.Time) (*domain.BalanceHistoryRecord, error) {
	return r.applyDelta(ctx, accountID, amount, note, userID, now)
}

// Debit is Credit with a negated amount plus the non-negative balance check.
func (r *PgxAccountRepository) Debit(ctx context.Context, accountID string, amount decimal.Decimal, note string, userID string, now time.Time) (*domain.BalanceHistoryRecord, error) {
	return r.applyDelta(ctx, accountID, amount.Neg(), note, userID, now)
}

func (r *PgxAccountRepository) applyDelta(ctx context.Context, accountID string, delta decimal.Decimal, note string, userID string, now time.Time) (*domain.BalanceHistoryRecord, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	locked, err := lockAccountForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}

	newBalance := locked.Balance.Add(delta)
	if newBalance.IsNegative() {
		return nil, fmt.Errorf("account %s balance %s with delta %s: %w",
			accountID, locked.Balance.StringFixed(2), delta.StringFixed(2), apperrors.ErrInsufficientFunds)
	}

	if err := applyBalanceInTx(ctx, tx, accountID, newBalance, userID, now); err != nil {
		return nil, err
	}

	record := domain.BalanceHistoryRecord{
		RecordID:    uuid.NewString(),
		EntityID:    accountID,
		ValueBefore: locked.Balance,
		ValueAfter:  newBalance,
		Note:        note,
		RecordedAt:  now,
		RecordedBy:  userID,
	}
	if err := insertHistoryInTx(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &record, nil
}
