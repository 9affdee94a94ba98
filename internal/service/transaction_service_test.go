package service

import (
	"context"
	"testing"

	"github.com/finance-dashboard/internal/models"
	"github.com/finance-dashboard/internal/types"
)

func newTransactionServiceFixture(t *testing.T) (*TransactionService, *mockAccountRepo, *mockTransactionRepo, *models.Account) {
	t.Helper()
	accountRepo := newMockAccountRepo()
	account := &models.Account{UserID: "user-1", Type: types.AccountChecking, InstitutionName: "Test Bank", Balance: 1000}
	if err := accountRepo.Create(context.Background(), account); err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
	transactionRepo := newMockTransactionRepo(accountRepo)
	service := NewTransactionService(&mockTxRunner{}, transactionRepo, accountRepo, accountRepo)
	return service, accountRepo, transactionRepo, account
}

func TestTransactionService_Create(t *testing.T) {
	service, accountRepo, _, account := newTransactionServiceFixture(t)
	ctx := context.Background()

	txn, err := service.Create(ctx, "user-1", CreateTransactionInput{
		AccountID: account.ID,
		Amount:    -250,
		Category:  "rent",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if txn.ID == "" {
		t.Error("expected generated transaction ID")
	}
	if txn.Timestamp.IsZero() {
		t.Error("expected timestamp to default to now")
	}

	// Balance follows the transaction amount
	if !floatEquals(accountRepo.accounts[account.ID].Balance, 750) {
		t.Errorf("expected balance 750, got %f", accountRepo.accounts[account.ID].Balance)
	}
}

func TestTransactionService_Create_InvalidCategory(t *testing.T) {
	service, accountRepo, _, account := newTransactionServiceFixture(t)

	_, err := service.Create(context.Background(), "user-1", CreateTransactionInput{
		AccountID: account.ID,
		Amount:    -10,
		Category:  "gambling",
	})
	if serviceErrorCode(err) != "INVALID_CATEGORY" {
		t.Errorf("expected INVALID_CATEGORY, got %v", err)
	}
	if !floatEquals(accountRepo.accounts[account.ID].Balance, 1000) {
		t.Errorf("balance must not move on rejected input, got %f", accountRepo.accounts[account.ID].Balance)
	}
}

func TestTransactionService_Create_CrossUserAccount(t *testing.T) {
	service, _, _, account := newTransactionServiceFixture(t)

	_, err := service.Create(context.Background(), "user-2", CreateTransactionInput{
		AccountID: account.ID,
		Amount:    -10,
		Category:  "food",
	})
	if serviceErrorCode(err) != "ACCOUNT_NOT_FOUND" {
		t.Errorf("expected ACCOUNT_NOT_FOUND for cross-user account, got %v", err)
	}
}

func TestTransactionService_Delete_ReversesBalance(t *testing.T) {
	service, accountRepo, _, account := newTransactionServiceFixture(t)
	ctx := context.Background()

	txn, err := service.Create(ctx, "user-1", CreateTransactionInput{
		AccountID: account.ID,
		Amount:    -300,
		Category:  "shopping",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := service.Delete(ctx, txn.ID, "user-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if !floatEquals(accountRepo.accounts[account.ID].Balance, 1000) {
		t.Errorf("expected balance restored to 1000, got %f", accountRepo.accounts[account.ID].Balance)
	}
}

func TestTransactionService_Delete_CrossUser(t *testing.T) {
	service, accountRepo, transactionRepo, account := newTransactionServiceFixture(t)
	ctx := context.Background()

	txn, err := service.Create(ctx, "user-1", CreateTransactionInput{
		AccountID: account.ID,
		Amount:    -100,
		Category:  "food",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = service.Delete(ctx, txn.ID, "user-2")
	if serviceErrorCode(err) != "TRANSACTION_NOT_FOUND" {
		t.Errorf("expected TRANSACTION_NOT_FOUND for cross-user delete, got %v", err)
	}
	if _, ok := transactionRepo.transactions[txn.ID]; !ok {
		t.Error("transaction should survive cross-user delete")
	}
	if !floatEquals(accountRepo.accounts[account.ID].Balance, 900) {
		t.Errorf("balance must not move on rejected delete, got %f", accountRepo.accounts[account.ID].Balance)
	}
}

func TestTransactionService_List_Defaults(t *testing.T) {
	service, _, _, account := newTransactionServiceFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := service.Create(ctx, "user-1", CreateTransactionInput{
			AccountID: account.ID,
			Amount:    -10,
			Category:  "food",
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	transactions, err := service.List(ctx, "user-1", 0, -5)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(transactions) != 3 {
		t.Errorf("expected 3 transactions with defaulted paging, got %d", len(transactions))
	}

	// Another user sees nothing
	other, err := service.List(ctx, "user-2", 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected empty list for other user, got %d", len(other))
	}
	if other == nil {
		t.Error("expected empty slice, got nil")
	}
}
