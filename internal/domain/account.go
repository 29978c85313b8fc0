package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account holds credentials for someone who can submit ledger actions.
// Identity is the opaque token derived from normalized name+email; the
// ledger only ever compares it for equality (self-validation checks).
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	Identity     string    `json:"identity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
