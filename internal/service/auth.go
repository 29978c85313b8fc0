package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pokernight/cashbox/internal/auth"
	"github.com/pokernight/cashbox/internal/domain"
	"github.com/pokernight/cashbox/internal/repository"
)

// AuthService handles account registration and login. Every account
// carries a derived identity token; the token travels inside the JWT so
// purchase validation can tell declarant and validator apart.
type AuthService struct {
	db       repository.DBTX
	accounts repository.AccountRepository
	outbox   repository.OutboxRepository
	jwtMgr   *auth.JWTManager
	logger   *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(db repository.DBTX, accounts repository.AccountRepository, outbox repository.OutboxRepository, jwtMgr *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{db: db, accounts: accounts, outbox: outbox, jwtMgr: jwtMgr, logger: logger}
}

// RegisterParams carries a signup request.
type RegisterParams struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// Register creates an account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*domain.Account, string, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if err := domain.ValidateEmail(email); err != nil {
		return nil, "", domain.ErrValidation(err.Error())
	}
	if err := domain.ValidatePlayerName(params.DisplayName); err != nil {
		return nil, "", domain.ErrValidation(err.Error())
	}
	if len(params.Password) < 8 {
		return nil, "", domain.ErrValidation("password must be at least 8 characters")
	}

	existing, err := s.accounts.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", domain.ErrConflict("an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", domain.ErrInternal("hash password", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  strings.TrimSpace(params.DisplayName),
		PasswordHash: string(hash),
		Identity:     auth.IdentityToken(params.DisplayName, email),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.Create(ctx, s.db, account); err != nil {
		return nil, "", err
	}
	if err := s.outbox.Insert(ctx, s.db, domain.NewAccountRegisteredEvent(account.ID, account.Email)); err != nil {
		s.logger.Warn("outbox insert failed", "event", domain.EventAccountRegistered, "error", err)
	}

	token, err := s.jwtMgr.GenerateToken(account.ID, account.Email, account.DisplayName, account.Identity)
	if err != nil {
		return nil, "", domain.ErrInternal("sign token", err)
	}

	s.logger.Info("account registered", "account_id", account.ID, "email", account.Email)
	return account, token, nil
}

// Login verifies credentials and returns the account with a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.accounts.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, "", err
	}
	if account == nil {
		return nil, "", domain.ErrUnauthorized("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrUnauthorized("invalid email or password")
	}

	token, err := s.jwtMgr.GenerateToken(account.ID, account.Email, account.DisplayName, account.Identity)
	if err != nil {
		return nil, "", domain.ErrInternal("sign token", err)
	}
	return account, token, nil
}
