package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/finance-dashboard/internal/models"
	"github.com/finance-dashboard/internal/types"
	"github.com/google/uuid"
)

// PortfolioRepository handles portfolio position persistence
type PortfolioRepository struct {
	db *PostgresDB
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db *PostgresDB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

func portfolioNotFound(id string) error {
	return &types.ServiceError{Code: "PORTFOLIO_NOT_FOUND", Message: fmt.Sprintf("portfolio not found: %s", id)}
}

// Create creates a new portfolio position for a user
func (r *PortfolioRepository) Create(ctx context.Context, position *models.Portfolio) error {
	if position.ID == "" {
		position.ID = uuid.New().String()
	}
	position.CreatedAt = time.Now()

	query := `
		INSERT INTO portfolios (id, user_id, ticker_symbol, shares_owned, cost_basis, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		position.ID,
		position.UserID,
		position.TickerSymbol,
		position.SharesOwned,
		position.CostBasis,
		position.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create portfolio position: %w", err)
	}

	return nil
}

// ListByUser retrieves all positions owned by a user
func (r *PortfolioRepository) ListByUser(ctx context.Context, userID string) ([]*models.Portfolio, error) {
	query := `
		SELECT id, user_id, ticker_symbol, shares_owned, cost_basis, created_at, updated_at
		FROM portfolios
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio positions: %w", err)
	}
	defer rows.Close()

	var positions []*models.Portfolio
	for rows.Next() {
		var position models.Portfolio
		err := rows.Scan(
			&position.ID,
			&position.UserID,
			&position.TickerSymbol,
			&position.SharesOwned,
			&position.CostBasis,
			&position.CreatedAt,
			&position.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio position: %w", err)
		}
		positions = append(positions, &position)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio positions: %w", err)
	}

	return positions, nil
}

// DeleteByIDAndUser deletes a position scoped to its owner
func (r *PortfolioRepository) DeleteByIDAndUser(ctx context.Context, id, userID string) error {
	query := `DELETE FROM portfolios WHERE id = $1 AND user_id = $2`

	result, err := r.db.Pool().Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio position: %w", err)
	}

	if result.RowsAffected() == 0 {
		return portfolioNotFound(id)
	}

	return nil
}
