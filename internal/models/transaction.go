package models

import (
	"time"

	"github.com/finance-dashboard/internal/types"
)

// Transaction represents a single inflow (positive amount) or outflow
// (negative amount) against an account
type Transaction struct {
	ID          string                    `json:"id" db:"id"`
	AccountID   string                    `json:"accountId" db:"account_id"`
	Amount      float64                   `json:"amount" db:"amount"`
	Category    types.TransactionCategory `json:"category" db:"category"`
	Description *string                   `json:"description,omitempty" db:"description"`
	Timestamp   time.Time                 `json:"timestamp" db:"timestamp"`
	CreatedAt   time.Time                 `json:"createdAt" db:"created_at"`
}
