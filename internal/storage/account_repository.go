package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finance-dashboard/internal/models"
	"github.com/finance-dashboard/internal/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccountRepository handles account data persistence. Every read and mutation
// is parameterized by the owning user id, so cross-user access surfaces as
// not-found rather than requiring per-handler ownership checks.
type AccountRepository struct {
	db *PostgresDB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *PostgresDB) *AccountRepository {
	return &AccountRepository{db: db}
}

func accountNotFound(id string) error {
	return &types.ServiceError{Code: "ACCOUNT_NOT_FOUND", Message: fmt.Sprintf("account not found: %s", id)}
}

// Create creates a new account for a user
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	account.CreatedAt = time.Now()

	query := `
		INSERT INTO accounts (id, user_id, type, institution_name, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		account.ID,
		account.UserID,
		account.Type,
		account.InstitutionName,
		account.Balance,
		account.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByIDAndUser retrieves an account by ID scoped to its owner
func (r *AccountRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*models.Account, error) {
	query := `
		SELECT id, user_id, type, institution_name, balance, created_at
		FROM accounts
		WHERE id = $1 AND user_id = $2
	`

	var account models.Account
	err := r.db.Pool().QueryRow(ctx, query, id, userID).Scan(
		&account.ID,
		&account.UserID,
		&account.Type,
		&account.InstitutionName,
		&account.Balance,
		&account.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, accountNotFound(id)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}

// ListByUser retrieves all accounts owned by a user
func (r *AccountRepository) ListByUser(ctx context.Context, userID string) ([]*models.Account, error) {
	query := `
		SELECT id, user_id, type, institution_name, balance, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var account models.Account
		err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.Type,
			&account.InstitutionName,
			&account.Balance,
			&account.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// GetFirstByUser retrieves the oldest account owned by a user. Used by CSV
// ingestion when no target account is specified.
func (r *AccountRepository) GetFirstByUser(ctx context.Context, userID string) (*models.Account, error) {
	query := `
		SELECT id, user_id, type, institution_name, balance, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at ASC
		LIMIT 1
	`

	var account models.Account
	err := r.db.Pool().QueryRow(ctx, query, userID).Scan(
		&account.ID,
		&account.UserID,
		&account.Type,
		&account.InstitutionName,
		&account.Balance,
		&account.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &types.ServiceError{Code: "ACCOUNT_NOT_FOUND", Message: "no account found for user"}
		}
		return nil, fmt.Errorf("failed to get first account: %w", err)
	}

	return &account, nil
}

// Update updates an account's mutable fields, scoped to its owner
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET institution_name = $3, balance = $4
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.Pool().Exec(ctx, query,
		account.ID,
		account.UserID,
		account.InstitutionName,
		account.Balance,
	)

	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return accountNotFound(account.ID)
	}

	return nil
}

// DeleteByIDAndUser deletes an account scoped to its owner. Transactions
// cascade at the database level.
func (r *AccountRepository) DeleteByIDAndUser(ctx context.Context, id, userID string) error {
	query := `DELETE FROM accounts WHERE id = $1 AND user_id = $2`

	result, err := r.db.Pool().Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return accountNotFound(id)
	}

	return nil
}

// ExistsByIDAndUser checks if an account exists and is owned by the user
func (r *AccountRepository) ExistsByIDAndUser(ctx context.Context, id, userID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1 AND user_id = $2)`

	err := r.db.Pool().QueryRow(ctx, query, id, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}

	return exists, nil
}

// ApplyBalanceDeltaTx applies a signed delta to the cached account balance
// within a transaction. The single UPDATE is atomic at the database, which
// keeps the cached balance consistent under concurrent writers.
func (r *AccountRepository) ApplyBalanceDeltaTx(ctx context.Context, tx pgx.Tx, accountID string, delta float64) error {
	query := `UPDATE accounts SET balance = balance + $2 WHERE id = $1`

	result, err := tx.Exec(ctx, query, accountID, delta)
	if err != nil {
		return fmt.Errorf("failed to apply balance delta: %w", err)
	}

	if result.RowsAffected() == 0 {
		return accountNotFound(accountID)
	}

	return nil
}
