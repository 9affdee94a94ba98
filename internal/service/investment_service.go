package service

import (
	"context"
	"math"
	"strings"

	"github.com/finance-dashboard/internal/logging"
	"github.com/finance-dashboard/internal/market"
	"github.com/finance-dashboard/internal/models"
	"github.com/finance-dashboard/internal/types"
)

// PortfolioRepository handles portfolio position persistence
type PortfolioRepository interface {
	Create(ctx context.Context, position *models.Portfolio) error
	ListByUser(ctx context.Context, userID string) ([]*models.Portfolio, error)
	DeleteByIDAndUser(ctx context.Context, id, userID string) error
}

// InvestmentService manages portfolio positions and computes portfolio
// performance with per-position price resolution
type InvestmentService struct {
	portfolioRepo PortfolioRepository
	prices        market.PriceProvider
	logger        *logging.Logger
}

// NewInvestmentService creates a new investment service
func NewInvestmentService(portfolioRepo PortfolioRepository, prices market.PriceProvider, logger *logging.Logger) *InvestmentService {
	return &InvestmentService{
		portfolioRepo: portfolioRepo,
		prices:        prices,
		logger:        logger,
	}
}

// CreatePositionInput carries the fields for a new portfolio position
type CreatePositionInput struct {
	TickerSymbol string  `json:"ticker_symbol"`
	SharesOwned  float64 `json:"shares_owned"`
	CostBasis    float64 `json:"cost_basis"`
}

// CreatePosition validates and persists a new position for a user
func (s *InvestmentService) CreatePosition(ctx context.Context, userID string, input CreatePositionInput) (*models.Portfolio, error) {
	ticker := strings.ToUpper(strings.TrimSpace(input.TickerSymbol))
	if ticker == "" {
		return nil, &types.ServiceError{Code: "INVALID_INPUT", Message: "ticker_symbol is required"}
	}
	if input.SharesOwned < 0 {
		return nil, &types.ServiceError{Code: "INVALID_INPUT", Message: "shares_owned must not be negative"}
	}
	if input.CostBasis < 0 {
		return nil, &types.ServiceError{Code: "INVALID_INPUT", Message: "cost_basis must not be negative"}
	}

	position := &models.Portfolio{
		UserID:       userID,
		TickerSymbol: ticker,
		SharesOwned:  input.SharesOwned,
		CostBasis:    input.CostBasis,
	}
	if err := s.portfolioRepo.Create(ctx, position); err != nil {
		return nil, err
	}
	return position, nil
}

// ListPositions retrieves all positions owned by a user
func (s *InvestmentService) ListPositions(ctx context.Context, userID string) ([]*models.Portfolio, error) {
	positions, err := s.portfolioRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if positions == nil {
		positions = []*models.Portfolio{}
	}
	return positions, nil
}

// DeletePosition deletes a position scoped to its owner
func (s *InvestmentService) DeletePosition(ctx context.Context, id, userID string) error {
	return s.portfolioRepo.DeleteByIDAndUser(ctx, id, userID)
}

// GetPerformance values a user's portfolio at current prices and computes
// aggregate returns. Individual price lookups that fail degrade to the
// position's cost basis; they never fail the request.
func (s *InvestmentService) GetPerformance(ctx context.Context, userID string) (*types.InvestmentPerformance, error) {
	positions, err := s.portfolioRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resolutions := make([]market.Resolution, len(positions))
	for i, position := range positions {
		resolutions[i] = market.Resolve(ctx, s.prices, position.TickerSymbol, position.CostBasis)
		if resolutions[i].Source == market.SourceCostBasis {
			s.logger.WithFields(map[string]interface{}{
				"ticker": position.TickerSymbol,
				"reason": resolutions[i].Reason,
			}).Warn("price lookup failed, using cost basis")
		}
	}

	performance := ComputePerformance(positions, resolutions)
	return &performance, nil
}

// ComputePerformance aggregates positions and their resolved prices into
// portfolio performance. Pure function; resolutions must be index-aligned
// with positions.
func ComputePerformance(positions []*models.Portfolio, resolutions []market.Resolution) types.InvestmentPerformance {
	var totalValue, totalCostBasis float64
	values := make([]float64, len(positions))
	for i, position := range positions {
		values[i] = resolutions[i].Price * position.SharesOwned
		totalValue += values[i]
		totalCostBasis += position.CostBasis * position.SharesOwned
	}

	allocation := make([]types.AssetAllocation, 0, len(positions))
	for i, position := range positions {
		percentage := 0.0
		if totalValue > 0 {
			percentage = values[i] / totalValue * 100
		}
		allocation = append(allocation, types.AssetAllocation{
			Ticker:     position.TickerSymbol,
			Value:      values[i],
			Percentage: percentage,
		})
	}

	totalReturn := totalValue - totalCostBasis
	returnPercentage := 0.0
	if totalCostBasis > 0 {
		returnPercentage = totalReturn / totalCostBasis * 100
	}

	return types.InvestmentPerformance{
		TotalValue:            totalValue,
		TotalCostBasis:        totalCostBasis,
		TotalReturn:           totalReturn,
		TotalReturnPercentage: returnPercentage,
		// Approximation without intra-period cash-flow weighting
		TimeWeightedReturn: returnPercentage / 100,
		// Requires a historical return series that is not tracked yet
		SharpeRatio:     nil,
		AssetAllocation: allocation,
	}
}

// sharpeRatio computes the risk-adjusted return over a series of return
// observations. Returns 0 when fewer than 2 observations exist or the
// series has zero volatility.
func sharpeRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	stdev := math.Sqrt(variance)
	if stdev == 0 {
		return 0
	}

	return (mean - riskFreeRate) / stdev
}
