package app

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pokernight/cashbox/internal/auth"
	"github.com/pokernight/cashbox/internal/handler"
	"github.com/pokernight/cashbox/internal/repository"
	"github.com/pokernight/cashbox/internal/service"
)

// RouterDeps holds all dependencies needed by NewRouter. A nil Pool
// selects the in-memory store (local dev, tests).
type RouterDeps struct {
	Pool               *pgxpool.Pool
	JWTMgr             *auth.JWTManager
	Logger             *slog.Logger
	CORSAllowedOrigins string
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger

	// Storage
	var (
		db       repository.DBTX
		sessions repository.SessionStore
		accounts repository.AccountRepository
		outbox   repository.OutboxRepository
	)
	if deps.Pool != nil {
		db = deps.Pool
		outbox = repository.NewOutboxRepository()
		sessions = repository.NewPgSessionStore(deps.Pool, outbox)
		accounts = repository.NewAccountRepository()
	} else {
		sessions = repository.NewMemoryStore()
		accounts = repository.NewMemoryAccountRepository()
		outbox = repository.NewMemoryOutboxRepository()
	}

	// Services
	sessionSvc := service.NewSessionService(sessions, logger)
	authSvc := service.NewAuthService(db, accounts, outbox, deps.JWTMgr, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS(deps.CORSAllowedOrigins))
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(deps.Pool))

	// Auth routes (no auth)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Authenticated session routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(deps.JWTMgr))

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", sessionHandler.List)

			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Post("/players", sessionHandler.AddPlayer)
				r.Delete("/players/{player}", sessionHandler.RemovePlayer)
				r.Post("/purchases", sessionHandler.DeclarePurchase)
				r.Post("/purchases/{id}/validate", sessionHandler.ValidatePurchase)
				r.Post("/withdrawals", sessionHandler.DeclareWithdrawal)
				r.Get("/settlement", sessionHandler.Settlement)
				r.Get("/report", sessionHandler.Report)
				r.Post("/close", sessionHandler.Close)
			})
		})
	})

	return r
}
