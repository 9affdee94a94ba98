package models

import (
	"time"
)

// Portfolio represents a single investment position held by a user.
// CostBasis is the average price paid per share.
type Portfolio struct {
	ID           string     `json:"id" db:"id"`
	UserID       string     `json:"userId" db:"user_id"`
	TickerSymbol string     `json:"tickerSymbol" db:"ticker_symbol"`
	SharesOwned  float64    `json:"sharesOwned" db:"shares_owned"`
	CostBasis    float64    `json:"costBasis" db:"cost_basis"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}
