package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/finance-dashboard/internal/models"
	"github.com/finance-dashboard/internal/types"
)

// AccountRepository handles account persistence
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByIDAndUser(ctx context.Context, id, userID string) (*models.Account, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	DeleteByIDAndUser(ctx context.Context, id, userID string) error
}

// AccountService manages a user's financial accounts
type AccountService struct {
	accountRepo AccountRepository
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// CreateAccountInput carries the fields for a new account
type CreateAccountInput struct {
	Type            string  `json:"type"`
	InstitutionName string  `json:"institution_name"`
	Balance         float64 `json:"balance"`
}

// UpdateAccountInput carries the updatable account fields. The account type
// is fixed at creation; changing it would silently flip balances between
// assets and liabilities.
type UpdateAccountInput struct {
	InstitutionName *string  `json:"institution_name,omitempty"`
	Balance         *float64 `json:"balance,omitempty"`
}

// Create validates and persists a new account for a user
func (s *AccountService) Create(ctx context.Context, userID string, input CreateAccountInput) (*models.Account, error) {
	accountType := types.AccountType(input.Type)
	if !types.ValidAccountType(accountType) {
		return nil, &types.ServiceError{
			Code:    "INVALID_ACCOUNT_TYPE",
			Message: fmt.Sprintf("unknown account type: %s", input.Type),
		}
	}

	institution := strings.TrimSpace(input.InstitutionName)
	if institution == "" {
		return nil, &types.ServiceError{Code: "INVALID_INPUT", Message: "institution_name is required"}
	}

	account := &models.Account{
		UserID:          userID,
		Type:            accountType,
		InstitutionName: institution,
		Balance:         input.Balance,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Get retrieves an account scoped to its owner
func (s *AccountService) Get(ctx context.Context, id, userID string) (*models.Account, error) {
	return s.accountRepo.GetByIDAndUser(ctx, id, userID)
}

// List retrieves all accounts owned by a user
func (s *AccountService) List(ctx context.Context, userID string) ([]*models.Account, error) {
	accounts, err := s.accountRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []*models.Account{}
	}
	return accounts, nil
}

// Update applies partial updates to an account scoped to its owner
func (s *AccountService) Update(ctx context.Context, id, userID string, input UpdateAccountInput) (*models.Account, error) {
	account, err := s.accountRepo.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.InstitutionName != nil {
		institution := strings.TrimSpace(*input.InstitutionName)
		if institution == "" {
			return nil, &types.ServiceError{Code: "INVALID_INPUT", Message: "institution_name must not be empty"}
		}
		account.InstitutionName = institution
	}
	if input.Balance != nil {
		account.Balance = *input.Balance
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Delete removes an account scoped to its owner. Its transactions cascade.
func (s *AccountService) Delete(ctx context.Context, id, userID string) error {
	return s.accountRepo.DeleteByIDAndUser(ctx, id, userID)
}
