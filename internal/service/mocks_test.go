package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/finance-dashboard/internal/logging"
	"github.com/finance-dashboard/internal/models"
	"github.com/finance-dashboard/internal/types"
	"github.com/jackc/pgx/v5"
)

// Mock repositories for testing

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.LevelFatal, logging.FormatText)
}

// mockTxRunner runs the callback directly; mock repositories ignore the tx
// argument
type mockTxRunner struct {
	beginErr error
	calls    int
}

func (m *mockTxRunner) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	m.calls++
	return fn(nil)
}

type mockAccountRepo struct {
	accounts map[string]*models.Account
	// balance deltas recorded by ApplyBalanceDeltaTx, per account
	deltas map[string][]float64
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{
		accounts: make(map[string]*models.Account),
		deltas:   make(map[string][]float64),
	}
}

func (m *mockAccountRepo) Create(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = fmt.Sprintf("test-account-id-%d", len(m.accounts)+1)
	}
	account.CreatedAt = time.Now()
	m.accounts[account.ID] = account
	return nil
}

func (m *mockAccountRepo) GetByIDAndUser(ctx context.Context, id, userID string) (*models.Account, error) {
	if a, ok := m.accounts[id]; ok && a.UserID == userID {
		return a, nil
	}
	return nil, &types.ServiceError{Code: "ACCOUNT_NOT_FOUND", Message: "account not found"}
}

func (m *mockAccountRepo) ListByUser(ctx context.Context, userID string) ([]*models.Account, error) {
	var result []*models.Account
	for _, a := range m.accounts {
		if a.UserID == userID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockAccountRepo) GetFirstByUser(ctx context.Context, userID string) (*models.Account, error) {
	accounts, _ := m.ListByUser(ctx, userID)
	if len(accounts) == 0 {
		return nil, &types.ServiceError{Code: "ACCOUNT_NOT_FOUND", Message: "no account found for user"}
	}
	return accounts[0], nil
}

func (m *mockAccountRepo) Update(ctx context.Context, account *models.Account) error {
	if a, ok := m.accounts[account.ID]; ok && a.UserID == account.UserID {
		m.accounts[account.ID] = account
		return nil
	}
	return &types.ServiceError{Code: "ACCOUNT_NOT_FOUND", Message: "account not found"}
}

func (m *mockAccountRepo) DeleteByIDAndUser(ctx context.Context, id, userID string) error {
	if a, ok := m.accounts[id]; ok && a.UserID == userID {
		delete(m.accounts, id)
		return nil
	}
	return &types.ServiceError{Code: "ACCOUNT_NOT_FOUND", Message: "account not found"}
}

func (m *mockAccountRepo) ExistsByIDAndUser(ctx context.Context, id, userID string) (bool, error) {
	if a, ok := m.accounts[id]; ok {
		return a.UserID == userID, nil
	}
	return false, nil
}

func (m *mockAccountRepo) ApplyBalanceDeltaTx(ctx context.Context, tx pgx.Tx, accountID string, delta float64) error {
	a, ok := m.accounts[accountID]
	if !ok {
		return &types.ServiceError{Code: "ACCOUNT_NOT_FOUND", Message: "account not found"}
	}
	a.Balance += delta
	m.deltas[accountID] = append(m.deltas[accountID], delta)
	return nil
}

type mockTransactionRepo struct {
	transactions map[string]*models.Transaction
	accounts     *mockAccountRepo
	createErr    error
}

func newMockTransactionRepo(accounts *mockAccountRepo) *mockTransactionRepo {
	return &mockTransactionRepo{
		transactions: make(map[string]*models.Transaction),
		accounts:     accounts,
	}
}

func (m *mockTransactionRepo) CreateTx(ctx context.Context, tx pgx.Tx, txn *models.Transaction) error {
	if m.createErr != nil {
		return m.createErr
	}
	if txn.ID == "" {
		txn.ID = fmt.Sprintf("test-txn-id-%d", len(m.transactions)+1)
	}
	if txn.Timestamp.IsZero() {
		txn.Timestamp = time.Now()
	}
	txn.CreatedAt = time.Now()
	m.transactions[txn.ID] = txn
	return nil
}

func (m *mockTransactionRepo) owner(txn *models.Transaction) string {
	if a, ok := m.accounts.accounts[txn.AccountID]; ok {
		return a.UserID
	}
	return ""
}

func (m *mockTransactionRepo) GetByIDAndUser(ctx context.Context, id, userID string) (*models.Transaction, error) {
	if txn, ok := m.transactions[id]; ok && m.owner(txn) == userID {
		return txn, nil
	}
	return nil, &types.ServiceError{Code: "TRANSACTION_NOT_FOUND", Message: "transaction not found"}
}

func (m *mockTransactionRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Transaction, error) {
	all := m.allForUser(userID)
	sort.Slice(all, func(i, j int) bool { return all[i].Timestamp.After(all[j].Timestamp) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *mockTransactionRepo) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*models.Transaction, error) {
	var result []*models.Transaction
	for _, txn := range m.allForUser(userID) {
		if !txn.Timestamp.Before(since) {
			result = append(result, txn)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Timestamp.Before(result[j].Timestamp) })
	return result, nil
}

func (m *mockTransactionRepo) allForUser(userID string) []*models.Transaction {
	var result []*models.Transaction
	for _, txn := range m.transactions {
		if m.owner(txn) == userID {
			result = append(result, txn)
		}
	}
	return result
}

func (m *mockTransactionRepo) DeleteTx(ctx context.Context, tx pgx.Tx, id string) error {
	if _, ok := m.transactions[id]; ok {
		delete(m.transactions, id)
		return nil
	}
	return &types.ServiceError{Code: "TRANSACTION_NOT_FOUND", Message: "transaction not found"}
}

type mockPortfolioRepo struct {
	positions map[string]*models.Portfolio
	listErr   error
}

func newMockPortfolioRepo() *mockPortfolioRepo {
	return &mockPortfolioRepo{positions: make(map[string]*models.Portfolio)}
}

func (m *mockPortfolioRepo) Create(ctx context.Context, position *models.Portfolio) error {
	if position.ID == "" {
		position.ID = fmt.Sprintf("test-position-id-%d", len(m.positions)+1)
	}
	position.CreatedAt = time.Now()
	m.positions[position.ID] = position
	return nil
}

func (m *mockPortfolioRepo) ListByUser(ctx context.Context, userID string) ([]*models.Portfolio, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*models.Portfolio
	for _, p := range m.positions {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockPortfolioRepo) DeleteByIDAndUser(ctx context.Context, id, userID string) error {
	if p, ok := m.positions[id]; ok && p.UserID == userID {
		delete(m.positions, id)
		return nil
	}
	return &types.ServiceError{Code: "PORTFOLIO_NOT_FOUND", Message: "portfolio not found"}
}

// mockPriceProvider serves fixed prices and fails for tickers outside the map
type mockPriceProvider struct {
	prices map[string]float64
	calls  []string
}

func (m *mockPriceProvider) GetPrice(ctx context.Context, ticker string) (float64, error) {
	m.calls = append(m.calls, ticker)
	if price, ok := m.prices[ticker]; ok {
		return price, nil
	}
	return 0, fmt.Errorf("no price data available for %s", ticker)
}

type mockUserRepo struct {
	users map[string]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("test-user-id-%d", len(m.users)+1)
	}
	if user.CurrencyPreference == "" {
		user.CurrencyPreference = "USD"
	}
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, &types.ServiceError{Code: "USER_NOT_FOUND", Message: "user not found"}
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, &types.ServiceError{Code: "USER_NOT_FOUND", Message: "user not found"}
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.GetByUsername(ctx, username)
	return err == nil, nil
}

func serviceErrorCode(err error) string {
	if se, ok := err.(*types.ServiceError); ok {
		return se.Code
	}
	return ""
}
