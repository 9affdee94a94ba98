package service

import (
	"context"
	"fmt"
	"time"

	"github.com/finance-dashboard/internal/models"
	"github.com/finance-dashboard/internal/types"
	"github.com/jackc/pgx/v5"
)

const (
	defaultTransactionLimit = 100
	maxTransactionLimit     = 500
)

// TxRunner runs a function inside a database transaction
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// AccountReader exposes the account lookups the transaction flow needs
type AccountReader interface {
	ExistsByIDAndUser(ctx context.Context, id, userID string) (bool, error)
	GetFirstByUser(ctx context.Context, userID string) (*models.Account, error)
}

// BalanceWriter applies balance deltas within a database transaction
type BalanceWriter interface {
	ApplyBalanceDeltaTx(ctx context.Context, tx pgx.Tx, accountID string, delta float64) error
}

// TransactionRepository handles transaction persistence
type TransactionRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, txn *models.Transaction) error
	GetByIDAndUser(ctx context.Context, id, userID string) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Transaction, error)
	DeleteTx(ctx context.Context, tx pgx.Tx, id string) error
}

// TransactionService manages transactions and keeps the cached account
// balance in step with them. Every mutation pairs the transaction row change
// with the matching balance delta inside one database transaction.
type TransactionService struct {
	runner          TxRunner
	transactionRepo TransactionRepository
	accountRepo     AccountReader
	balances        BalanceWriter
}

// NewTransactionService creates a new transaction service
func NewTransactionService(runner TxRunner, transactionRepo TransactionRepository, accountRepo AccountReader, balances BalanceWriter) *TransactionService {
	return &TransactionService{
		runner:          runner,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		balances:        balances,
	}
}

// CreateTransactionInput carries the fields for a new transaction
type CreateTransactionInput struct {
	AccountID   string    `json:"account_id"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description *string   `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp,omitempty"`
}

// Create records a transaction against an account the user owns and applies
// its amount to the cached account balance
func (s *TransactionService) Create(ctx context.Context, userID string, input CreateTransactionInput) (*models.Transaction, error) {
	if input.AccountID == "" {
		return nil, &types.ServiceError{Code: "INVALID_INPUT", Message: "account_id is required"}
	}

	category := types.TransactionCategory(input.Category)
	if !types.ValidCategory(category) {
		return nil, &types.ServiceError{
			Code:    "INVALID_CATEGORY",
			Message: fmt.Sprintf("unknown category: %s", input.Category),
		}
	}

	owned, err := s.accountRepo.ExistsByIDAndUser(ctx, input.AccountID, userID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, &types.ServiceError{Code: "ACCOUNT_NOT_FOUND", Message: fmt.Sprintf("account not found: %s", input.AccountID)}
	}

	txn := &models.Transaction{
		AccountID:   input.AccountID,
		Amount:      input.Amount,
		Category:    category,
		Description: input.Description,
		Timestamp:   input.Timestamp,
	}

	err = s.runner.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := s.transactionRepo.CreateTx(ctx, tx, txn); err != nil {
			return err
		}
		return s.balances.ApplyBalanceDeltaTx(ctx, tx, txn.AccountID, txn.Amount)
	})
	if err != nil {
		return nil, err
	}

	return txn, nil
}

// List retrieves a user's transactions across all accounts, newest first
func (s *TransactionService) List(ctx context.Context, userID string, limit, offset int) ([]*models.Transaction, error) {
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	if limit > maxTransactionLimit {
		limit = maxTransactionLimit
	}
	if offset < 0 {
		offset = 0
	}

	transactions, err := s.transactionRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []*models.Transaction{}
	}
	return transactions, nil
}

// Delete removes a transaction the user owns and reverses its effect on the
// cached account balance
func (s *TransactionService) Delete(ctx context.Context, id, userID string) error {
	txn, err := s.transactionRepo.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		return err
	}

	return s.runner.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := s.transactionRepo.DeleteTx(ctx, tx, id); err != nil {
			return err
		}
		return s.balances.ApplyBalanceDeltaTx(ctx, tx, txn.AccountID, -txn.Amount)
	})
}
