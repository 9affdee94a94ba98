// Package models provides data models for the finance dashboard system.
package models

import (
	"time"
)

// User represents a registered user
type User struct {
	ID                 string    `json:"id" db:"id"`
	Username           string    `json:"username" db:"username"`
	HashedPassword     string    `json:"-" db:"hashed_password"`
	CurrencyPreference string    `json:"currencyPreference" db:"currency_preference"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
}
