// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/finance-dashboard/internal/auth"
	"github.com/finance-dashboard/internal/logging"
	"github.com/finance-dashboard/internal/models"
	"github.com/finance-dashboard/internal/service"
	"github.com/finance-dashboard/internal/types"
	"github.com/gorilla/mux"
)

// Service interfaces for dependency injection and testing

// UserServiceInterface defines the interface for user service operations
type UserServiceInterface interface {
	Register(ctx context.Context, input service.RegisterInput) (*models.User, error)
	Login(ctx context.Context, input service.LoginInput) (*service.TokenResponse, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AccountServiceInterface defines the interface for account service operations
type AccountServiceInterface interface {
	Create(ctx context.Context, userID string, input service.CreateAccountInput) (*models.Account, error)
	Get(ctx context.Context, id, userID string) (*models.Account, error)
	List(ctx context.Context, userID string) ([]*models.Account, error)
	Update(ctx context.Context, id, userID string, input service.UpdateAccountInput) (*models.Account, error)
	Delete(ctx context.Context, id, userID string) error
}

// TransactionServiceInterface defines the interface for transaction service operations
type TransactionServiceInterface interface {
	Create(ctx context.Context, userID string, input service.CreateTransactionInput) (*models.Transaction, error)
	List(ctx context.Context, userID string, limit, offset int) ([]*models.Transaction, error)
	Delete(ctx context.Context, id, userID string) error
}

// IngestServiceInterface defines the interface for CSV ingestion
type IngestServiceInterface interface {
	UploadCSV(ctx context.Context, userID, accountID string, r io.Reader) (*service.IngestResult, error)
}

// InvestmentServiceInterface defines the interface for investment operations
type InvestmentServiceInterface interface {
	CreatePosition(ctx context.Context, userID string, input service.CreatePositionInput) (*models.Portfolio, error)
	ListPositions(ctx context.Context, userID string) ([]*models.Portfolio, error)
	DeletePosition(ctx context.Context, id, userID string) error
	GetPerformance(ctx context.Context, userID string) (*types.InvestmentPerformance, error)
}

// DashboardServiceInterface defines the interface for dashboard reporting
type DashboardServiceInterface interface {
	GetSummary(ctx context.Context, userID string) (*types.DashboardSummary, error)
}

// Server represents the HTTP API server.
type Server struct {
	router             *mux.Router
	httpServer         *http.Server
	userService        UserServiceInterface
	accountService     AccountServiceInterface
	transactionService TransactionServiceInterface
	ingestService      IngestServiceInterface
	investmentService  InvestmentServiceInterface
	dashboardService   DashboardServiceInterface
	tokens             *auth.TokenIssuer
	config             *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host                  string
	Port                  string
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	ShutdownTimeout       time.Duration
	AuthRequestsPerMinute int
	AuthBurst             int
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	userService UserServiceInterface,
	accountService AccountServiceInterface,
	transactionService TransactionServiceInterface,
	ingestService IngestServiceInterface,
	investmentService InvestmentServiceInterface,
	dashboardService DashboardServiceInterface,
	tokens *auth.TokenIssuer,
) *Server {
	s := &Server{
		router:             mux.NewRouter(),
		userService:        userService,
		accountService:     accountService,
		transactionService: transactionService,
		ingestService:      ingestService,
		investmentService:  investmentService,
		dashboardService:   dashboardService,
		tokens:             tokens,
		config:             config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	// Set up middleware (order matters!)
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(SecurityHeadersMiddleware)
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Credential endpoints get their own rate limit
	rateLimiter := NewRateLimiter(s.config.AuthRequestsPerMinute, s.config.AuthBurst)
	authRoutes := s.router.PathPrefix("/api/auth").Subrouter()
	authRoutes.Use(RateLimitMiddleware(rateLimiter))
	authRoutes.HandleFunc("/register", s.handleRegister).Methods("POST")
	authRoutes.HandleFunc("/login", s.handleLogin).Methods("POST")

	// Everything else requires a valid token
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(AuthMiddleware(s.tokens))

	api.HandleFunc("/auth/me", s.handleGetMe).Methods("GET")

	// Account endpoints
	api.HandleFunc("/accounts", s.handleCreateAccount).Methods("POST")
	api.HandleFunc("/accounts", s.handleListAccounts).Methods("GET")
	api.HandleFunc("/accounts/{id}", s.handleGetAccount).Methods("GET")
	api.HandleFunc("/accounts/{id}", s.handleUpdateAccount).Methods("PATCH")
	api.HandleFunc("/accounts/{id}", s.handleDeleteAccount).Methods("DELETE")

	// Transaction endpoints
	api.HandleFunc("/transactions", s.handleCreateTransaction).Methods("POST")
	api.HandleFunc("/transactions", s.handleListTransactions).Methods("GET")
	api.HandleFunc("/transactions/upload", s.handleUploadTransactions).Methods("POST")
	api.HandleFunc("/transactions/{id}", s.handleDeleteTransaction).Methods("DELETE")

	// Investment endpoints
	api.HandleFunc("/investments", s.handleCreatePosition).Methods("POST")
	api.HandleFunc("/investments", s.handleListPositions).Methods("GET")
	api.HandleFunc("/investments/performance", s.handleGetPerformance).Methods("GET")
	api.HandleFunc("/investments/{id}", s.handleDeletePosition).Methods("DELETE")

	// Dashboard endpoints
	api.HandleFunc("/dashboard/summary", s.handleGetSummary).Methods("GET")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "finance-dashboard",
	})
}

// Router returns the configured router, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logging.GetGlobalLogger().WithField("addr", s.httpServer.Addr).Info("starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.GetGlobalLogger().Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}
