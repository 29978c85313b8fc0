package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pokernight/cashbox/internal/domain"
)

type accountRepo struct{}

// NewAccountRepository returns a pgx-backed AccountRepository.
func NewAccountRepository() AccountRepository {
	return &accountRepo{}
}

func (r *accountRepo) FindByEmail(ctx context.Context, db DBTX, email string) (*domain.Account, error) {
	row := db.QueryRow(ctx, `
		SELECT id, email, display_name, password_hash, identity, created_at, updated_at
		FROM auth_users WHERE email = $1`, email)

	var a domain.Account
	err := row.Scan(&a.ID, &a.Email, &a.DisplayName, &a.PasswordHash, &a.Identity, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}

func (r *accountRepo) Create(ctx context.Context, db DBTX, account *domain.Account) error {
	_, err := db.Exec(ctx, `
		INSERT INTO auth_users (id, email, display_name, password_hash, identity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`,
		account.ID, account.Email, account.DisplayName, account.PasswordHash, account.Identity)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}
