package service

import (
	"context"
	"strings"

	"github.com/finance-dashboard/internal/auth"
	"github.com/finance-dashboard/internal/logging"
	"github.com/finance-dashboard/internal/models"
	"github.com/finance-dashboard/internal/types"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	minPasswordLength = 8
)

// UserRepository handles user persistence
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// UserService handles registration, login and profile lookups
type UserService struct {
	userRepo   UserRepository
	tokens     *auth.TokenIssuer
	bcryptCost int
	logger     *logging.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository, tokens *auth.TokenIssuer, bcryptCost int, logger *logging.Logger) *UserService {
	return &UserService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// RegisterInput carries the fields for a new user registration
type RegisterInput struct {
	Username           string `json:"username"`
	Password           string `json:"password"`
	CurrencyPreference string `json:"currency_preference,omitempty"`
}

// LoginInput carries login credentials
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the issued access token envelope
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// registrationFailed is deliberately generic so registration does not leak
// which usernames exist
func registrationFailed() error {
	return &types.ServiceError{Code: "REGISTRATION_FAILED", Message: "registration failed"}
}

func invalidCredentials() error {
	return &types.ServiceError{Code: "INVALID_CREDENTIALS", Message: "invalid username or password"}
}

// Register creates a new user account
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return nil, &types.ServiceError{Code: "INVALID_INPUT", Message: "username must be between 3 and 50 characters"}
	}
	if len(input.Password) < minPasswordLength {
		return nil, &types.ServiceError{Code: "INVALID_INPUT", Message: "password must be at least 8 characters"}
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, registrationFailed()
	}

	hashed, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:           username,
		HashedPassword:     hashed,
		CurrencyPreference: input.CurrencyPreference,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration can win the uniqueness race; keep the
		// response indistinguishable from the early duplicate check
		s.logger.WithError(err).Warn("user insert failed")
		return nil, registrationFailed()
	}

	s.logger.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// Login verifies credentials and issues an access token
func (s *UserService) Login(ctx context.Context, input LoginInput) (*TokenResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		// Collapse unknown-user into the credential failure
		return nil, invalidCredentials()
	}

	if !auth.VerifyPassword(user.HashedPassword, input.Password) {
		return nil, invalidCredentials()
	}

	token, err := s.tokens.Sign(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// GetByID retrieves a user's profile
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
