package models

import (
	"time"

	"github.com/finance-dashboard/internal/types"
)

// Account represents a financial account owned by a user.
// Balance is a cached derived value, maintained incrementally on every
// transaction insert and delete.
type Account struct {
	ID              string            `json:"id" db:"id"`
	UserID          string            `json:"userId" db:"user_id"`
	Type            types.AccountType `json:"type" db:"type"`
	InstitutionName string            `json:"institutionName" db:"institution_name"`
	Balance         float64           `json:"balance" db:"balance"`
	CreatedAt       time.Time         `json:"createdAt" db:"created_at"`
}
