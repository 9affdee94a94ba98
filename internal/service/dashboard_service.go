// Package service implements the application services: the aggregation
// engine, transaction balance maintenance, CSV ingestion, and portfolio
// valuation.
package service

import (
	"context"
	"sort"
	"time"

	"github.com/finance-dashboard/internal/models"
	"github.com/finance-dashboard/internal/types"
)

// reportingWindowDays is the trailing window for income/expense reporting
const reportingWindowDays = 30

// topCategoryLimit caps the spending breakdown length
const topCategoryLimit = 5

// Repository interfaces for dependency injection

// AccountLister lists a user's accounts
type AccountLister interface {
	ListByUser(ctx context.Context, userID string) ([]*models.Account, error)
}

// TransactionWindowLister lists a user's transactions inside the reporting window
type TransactionWindowLister interface {
	ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*models.Transaction, error)
}

// DashboardService computes a user's dashboard summary from their current
// account and transaction snapshot
type DashboardService struct {
	accountRepo     AccountLister
	transactionRepo TransactionWindowLister
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(accountRepo AccountLister, transactionRepo TransactionWindowLister) *DashboardService {
	return &DashboardService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// GetSummary computes the dashboard summary for a user over the trailing
// 30-day window
func (s *DashboardService) GetSummary(ctx context.Context, userID string) (*types.DashboardSummary, error) {
	accounts, err := s.accountRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -reportingWindowDays)
	window, err := s.transactionRepo.ListByUserSince(ctx, userID, cutoff)
	if err != nil {
		return nil, err
	}

	summary := ComputeSummary(accounts, window)
	return &summary, nil
}

// ComputeSummary derives the dashboard summary from an account snapshot and
// the in-window transactions. Pure function: empty inputs yield zeros, never
// an error.
func ComputeSummary(accounts []*models.Account, window []*models.Transaction) types.DashboardSummary {
	var totalAssets, totalLiabilities float64
	for _, account := range accounts {
		if account.Type.IsAsset() {
			totalAssets += account.Balance
		} else {
			totalLiabilities += account.Balance
		}
	}

	// Income sums salary transactions as an absolute value; the stored sign
	// is not trusted to be positive. Expenses only count negative non-salary
	// amounts, so refunds and transfers-in stay out of the breakdown.
	var income, expenses float64
	categoryTotals := make(map[types.TransactionCategory]float64)
	var categoryOrder []types.TransactionCategory

	for _, txn := range window {
		if txn.Category == types.CategorySalary {
			income += txn.Amount
			continue
		}
		if txn.Amount >= 0 {
			continue
		}
		spent := -txn.Amount
		expenses += spent
		if _, seen := categoryTotals[txn.Category]; !seen {
			categoryOrder = append(categoryOrder, txn.Category)
		}
		categoryTotals[txn.Category] += spent
	}
	if income < 0 {
		income = -income
	}

	savingsRate := 0.0
	if income > 0 {
		savingsRate = 1 - expenses/income
	}

	topCategories := make([]types.CategoryAmount, 0, len(categoryOrder))
	for _, category := range categoryOrder {
		topCategories = append(topCategories, types.CategoryAmount{
			Category: category,
			Amount:   categoryTotals[category],
		})
	}
	// Ties keep first-appearance order from the transaction scan
	sort.SliceStable(topCategories, func(i, j int) bool {
		return topCategories[i].Amount > topCategories[j].Amount
	})
	if len(topCategories) > topCategoryLimit {
		topCategories = topCategories[:topCategoryLimit]
	}

	return types.DashboardSummary{
		NetWorth:              totalAssets - totalLiabilities,
		TotalAssets:           totalAssets,
		TotalLiabilities:      totalLiabilities,
		MonthlyIncome:         income,
		MonthlyExpenses:       expenses,
		SavingsRate:           savingsRate,
		TopSpendingCategories: topCategories,
	}
}
