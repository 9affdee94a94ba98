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

// TransactionRepository handles transaction data persistence. Transactions do
// not reference their owner directly, so ownership scoping walks the
// transaction -> account -> user chain with a join.
type TransactionRepository struct {
	db *PostgresDB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *PostgresDB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func transactionNotFound(id string) error {
	return &types.ServiceError{Code: "TRANSACTION_NOT_FOUND", Message: fmt.Sprintf("transaction not found: %s", id)}
}

const transactionColumns = `t.id, t.account_id, t.amount, t.category, t.description, t.timestamp, t.created_at`

// CreateTx inserts a transaction within a database transaction
func (r *TransactionRepository) CreateTx(ctx context.Context, tx pgx.Tx, txn *models.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.Timestamp.IsZero() {
		txn.Timestamp = time.Now()
	}
	txn.CreatedAt = time.Now()

	query := `
		INSERT INTO transactions (id, account_id, amount, category, description, timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(ctx, query,
		txn.ID,
		txn.AccountID,
		txn.Amount,
		txn.Category,
		txn.Description,
		txn.Timestamp,
		txn.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByIDAndUser retrieves a transaction by ID scoped to its transitive owner
func (r *TransactionRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*models.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE t.id = $1 AND a.user_id = $2
	`, transactionColumns)

	var txn models.Transaction
	err := r.db.Pool().QueryRow(ctx, query, id, userID).Scan(
		&txn.ID,
		&txn.AccountID,
		&txn.Amount,
		&txn.Category,
		&txn.Description,
		&txn.Timestamp,
		&txn.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transactionNotFound(id)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &txn, nil
}

// ListByUser retrieves a user's transactions across all accounts, newest
// first, with pagination
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1
		ORDER BY t.timestamp DESC
		LIMIT $2 OFFSET $3
	`, transactionColumns)

	rows, err := r.db.Pool().Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListByUserSince retrieves all of a user's transactions with a timestamp at
// or after the cutoff. Used by the dashboard reporting window.
func (r *TransactionRepository) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*models.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1 AND t.timestamp >= $2
		ORDER BY t.timestamp ASC
	`, transactionColumns)

	rows, err := r.db.Pool().Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions since cutoff: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// DeleteTx deletes a transaction within a database transaction
func (r *TransactionRepository) DeleteTx(ctx context.Context, tx pgx.Tx, id string) error {
	query := `DELETE FROM transactions WHERE id = $1`

	result, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return transactionNotFound(id)
	}

	return nil
}

// scanTransactions collects rows into transaction models
func scanTransactions(rows pgx.Rows) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	for rows.Next() {
		var txn models.Transaction
		err := rows.Scan(
			&txn.ID,
			&txn.AccountID,
			&txn.Amount,
			&txn.Category,
			&txn.Description,
			&txn.Timestamp,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}
