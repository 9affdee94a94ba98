package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/finance-dashboard/internal/models"
	"github.com/finance-dashboard/internal/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeSummary_NetWorthPartition(t *testing.T) {
	accounts := []*models.Account{
		{ID: "a1", Type: types.AccountChecking, Balance: 1000},
		{ID: "a2", Type: types.AccountLoan, Balance: 200},
	}

	summary := ComputeSummary(accounts, nil)

	if !floatEquals(summary.TotalAssets, 1000) {
		t.Errorf("expected total assets 1000, got %f", summary.TotalAssets)
	}
	if !floatEquals(summary.TotalLiabilities, 200) {
		t.Errorf("expected total liabilities 200, got %f", summary.TotalLiabilities)
	}
	if !floatEquals(summary.NetWorth, 800) {
		t.Errorf("expected net worth 800, got %f", summary.NetWorth)
	}
}

func TestComputeSummary_IncomeExpensesSavingsRate(t *testing.T) {
	window := []*models.Transaction{
		{ID: "t1", Amount: 2000, Category: types.CategorySalary},
		{ID: "t2", Amount: -150, Category: types.CategoryFood},
		{ID: "t3", Amount: -1000, Category: types.CategoryRent},
	}

	summary := ComputeSummary(nil, window)

	if !floatEquals(summary.MonthlyIncome, 2000) {
		t.Errorf("expected income 2000, got %f", summary.MonthlyIncome)
	}
	if !floatEquals(summary.MonthlyExpenses, 1150) {
		t.Errorf("expected expenses 1150, got %f", summary.MonthlyExpenses)
	}
	if !floatEquals(summary.SavingsRate, 0.425) {
		t.Errorf("expected savings rate 0.425, got %f", summary.SavingsRate)
	}
}

func TestComputeSummary_ZeroIncomeGuard(t *testing.T) {
	window := []*models.Transaction{
		{ID: "t1", Amount: -50, Category: types.CategoryFood},
	}

	summary := ComputeSummary(nil, window)

	if summary.SavingsRate != 0 {
		t.Errorf("expected savings rate 0 with no income, got %f", summary.SavingsRate)
	}
	if !floatEquals(summary.MonthlyExpenses, 50) {
		t.Errorf("expected expenses 50, got %f", summary.MonthlyExpenses)
	}
}

func TestComputeSummary_PositiveNonSalaryExcluded(t *testing.T) {
	// A refund must not count as income or expense
	window := []*models.Transaction{
		{ID: "t1", Amount: 75, Category: types.CategoryShopping},
	}

	summary := ComputeSummary(nil, window)

	if summary.MonthlyIncome != 0 {
		t.Errorf("expected income 0, got %f", summary.MonthlyIncome)
	}
	if summary.MonthlyExpenses != 0 {
		t.Errorf("expected expenses 0, got %f", summary.MonthlyExpenses)
	}
	if len(summary.TopSpendingCategories) != 0 {
		t.Errorf("expected empty breakdown, got %v", summary.TopSpendingCategories)
	}
}

func TestComputeSummary_TopCategoriesCappedAndSorted(t *testing.T) {
	window := []*models.Transaction{
		{Amount: -10, Category: types.CategoryFood},
		{Amount: -20, Category: types.CategoryRent},
		{Amount: -30, Category: types.CategoryUtilities},
		{Amount: -40, Category: types.CategoryTransportation},
		{Amount: -50, Category: types.CategoryEntertainment},
		{Amount: -60, Category: types.CategoryShopping},
		{Amount: -70, Category: types.CategoryHealthcare},
	}

	summary := ComputeSummary(nil, window)

	if len(summary.TopSpendingCategories) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(summary.TopSpendingCategories))
	}
	if summary.TopSpendingCategories[0].Category != types.CategoryHealthcare {
		t.Errorf("expected healthcare first, got %s", summary.TopSpendingCategories[0].Category)
	}
	for i := 1; i < len(summary.TopSpendingCategories); i++ {
		if summary.TopSpendingCategories[i].Amount > summary.TopSpendingCategories[i-1].Amount {
			t.Errorf("breakdown not sorted descending at index %d", i)
		}
	}
}

func TestComputeSummary_TieBreakFirstAppearance(t *testing.T) {
	window := []*models.Transaction{
		{Amount: -25, Category: types.CategoryEducation},
		{Amount: -25, Category: types.CategoryFood},
	}

	summary := ComputeSummary(nil, window)

	if len(summary.TopSpendingCategories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(summary.TopSpendingCategories))
	}
	if summary.TopSpendingCategories[0].Category != types.CategoryEducation {
		t.Errorf("expected education first on tie, got %s", summary.TopSpendingCategories[0].Category)
	}
}

func TestComputeSummary_EmptyInputs(t *testing.T) {
	summary := ComputeSummary(nil, nil)

	if summary.NetWorth != 0 || summary.MonthlyIncome != 0 || summary.MonthlyExpenses != 0 || summary.SavingsRate != 0 {
		t.Errorf("expected all-zero summary, got %+v", summary)
	}
}

func TestDashboardService_GetSummary(t *testing.T) {
	accountRepo := newMockAccountRepo()
	account := &models.Account{UserID: "user-1", Type: types.AccountChecking, InstitutionName: "Test Bank", Balance: 500}
	if err := accountRepo.Create(context.Background(), account); err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	transactionRepo := newMockTransactionRepo(accountRepo)
	inWindow := &models.Transaction{
		AccountID: account.ID,
		Amount:    -100,
		Category:  types.CategoryFood,
		Timestamp: time.Now().AddDate(0, 0, -5),
	}
	outOfWindow := &models.Transaction{
		AccountID: account.ID,
		Amount:    -999,
		Category:  types.CategoryRent,
		Timestamp: time.Now().AddDate(0, 0, -45),
	}
	for _, txn := range []*models.Transaction{inWindow, outOfWindow} {
		if err := transactionRepo.CreateTx(context.Background(), nil, txn); err != nil {
			t.Fatalf("failed to create transaction: %v", err)
		}
	}

	service := NewDashboardService(accountRepo, transactionRepo)
	summary, err := service.GetSummary(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}

	if !floatEquals(summary.MonthlyExpenses, 100) {
		t.Errorf("expected expenses 100 with out-of-window row excluded, got %f", summary.MonthlyExpenses)
	}
	if !floatEquals(summary.NetWorth, 500) {
		t.Errorf("expected net worth 500, got %f", summary.NetWorth)
	}
}

// Property-based checks over arbitrary account and transaction sets

func genAccount() gopter.Gen {
	accountTypes := []types.AccountType{
		types.AccountChecking,
		types.AccountSavings,
		types.AccountBrokerage,
		types.AccountLoan,
	}
	return gopter.CombineGens(
		gen.IntRange(0, 3),
		gen.Float64Range(0, 1_000_000),
	).Map(func(values []interface{}) *models.Account {
		return &models.Account{
			Type:    accountTypes[values[0].(int)],
			Balance: values[1].(float64),
		}
	})
}

func genTransaction() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, len(types.Categories)-1),
		gen.Float64Range(-10_000, 10_000),
	).Map(func(values []interface{}) *models.Transaction {
		return &models.Transaction{
			Category: types.Categories[values[0].(int)],
			Amount:   values[1].(float64),
		}
	})
}

func TestComputeSummary_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("net worth equals assets minus liabilities", prop.ForAll(
		func(accounts []*models.Account) bool {
			summary := ComputeSummary(accounts, nil)
			return floatEquals(summary.NetWorth, summary.TotalAssets-summary.TotalLiabilities)
		},
		gen.SliceOf(genAccount()),
	))

	properties.Property("income and expenses are never negative", prop.ForAll(
		func(window []*models.Transaction) bool {
			summary := ComputeSummary(nil, window)
			return summary.MonthlyIncome >= 0 && summary.MonthlyExpenses >= 0
		},
		gen.SliceOf(genTransaction()),
	))

	properties.Property("savings rate is zero without income", prop.ForAll(
		func(window []*models.Transaction) bool {
			for _, txn := range window {
				if txn.Category == types.CategorySalary {
					txn.Category = types.CategoryOther
				}
			}
			summary := ComputeSummary(nil, window)
			return summary.SavingsRate == 0
		},
		gen.SliceOf(genTransaction()),
	))

	properties.Property("breakdown holds at most five categories sorted descending", prop.ForAll(
		func(window []*models.Transaction) bool {
			summary := ComputeSummary(nil, window)
			if len(summary.TopSpendingCategories) > 5 {
				return false
			}
			for i := 1; i < len(summary.TopSpendingCategories); i++ {
				if summary.TopSpendingCategories[i].Amount > summary.TopSpendingCategories[i-1].Amount {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genTransaction()),
	))

	properties.TestingRun(t)
}
