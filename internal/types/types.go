// Package types provides common type definitions for the finance dashboard system.
package types

// AccountType represents the kind of financial account
type AccountType string

const (
	// AccountChecking represents a checking account
	AccountChecking AccountType = "checking"
	// AccountSavings represents a savings account
	AccountSavings AccountType = "savings"
	// AccountBrokerage represents a brokerage account
	AccountBrokerage AccountType = "brokerage"
	// AccountLoan represents a loan account (liability)
	AccountLoan AccountType = "loan"
)

// ValidAccountType reports whether t is one of the known account types
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountChecking, AccountSavings, AccountBrokerage, AccountLoan:
		return true
	}
	return false
}

// IsAsset reports whether balances of this account type count toward assets.
// Loan balances count toward liabilities; everything else counts toward assets.
func (t AccountType) IsAsset() bool {
	return t != AccountLoan
}

// TransactionCategory represents the spending/income category of a transaction
type TransactionCategory string

const (
	CategoryFood           TransactionCategory = "food"
	CategoryRent           TransactionCategory = "rent"
	CategorySalary         TransactionCategory = "salary"
	CategoryUtilities      TransactionCategory = "utilities"
	CategoryTransportation TransactionCategory = "transportation"
	CategoryEntertainment  TransactionCategory = "entertainment"
	CategoryShopping       TransactionCategory = "shopping"
	CategoryHealthcare     TransactionCategory = "healthcare"
	CategoryEducation      TransactionCategory = "education"
	CategoryOther          TransactionCategory = "other"
)

// Categories lists every known transaction category
var Categories = []TransactionCategory{
	CategoryFood,
	CategoryRent,
	CategorySalary,
	CategoryUtilities,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryShopping,
	CategoryHealthcare,
	CategoryEducation,
	CategoryOther,
}

// ValidCategory reports whether c is one of the known categories
func ValidCategory(c TransactionCategory) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// NormalizeCategory coerces an arbitrary category string to a known category.
// Unknown values map to CategoryOther rather than failing.
func NormalizeCategory(raw string) TransactionCategory {
	c := TransactionCategory(raw)
	if ValidCategory(c) {
		return c
	}
	return CategoryOther
}

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// CategoryAmount is a (category, amount) pair in a spending breakdown
type CategoryAmount struct {
	Category TransactionCategory `json:"category"`
	Amount   float64             `json:"amount"`
}

// DashboardSummary aggregates a user's financial position over the
// trailing reporting window
type DashboardSummary struct {
	NetWorth              float64          `json:"netWorth"`
	TotalAssets           float64          `json:"totalAssets"`
	TotalLiabilities      float64          `json:"totalLiabilities"`
	MonthlyIncome         float64          `json:"monthlyIncome"`
	MonthlyExpenses       float64          `json:"monthlyExpenses"`
	SavingsRate           float64          `json:"savingsRate"`
	TopSpendingCategories []CategoryAmount `json:"topSpendingCategories"`
}

// AssetAllocation is a single position's share of a portfolio's value
type AssetAllocation struct {
	Ticker     string  `json:"ticker"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// InvestmentPerformance aggregates portfolio valuation and returns
type InvestmentPerformance struct {
	TotalValue            float64           `json:"totalValue"`
	TotalCostBasis        float64           `json:"totalCostBasis"`
	TotalReturn           float64           `json:"totalReturn"`
	TotalReturnPercentage float64           `json:"totalReturnPercentage"`
	TimeWeightedReturn    float64           `json:"timeWeightedReturn"`
	SharpeRatio           *float64          `json:"sharpeRatio"`
	AssetAllocation       []AssetAllocation `json:"assetAllocation"`
}
