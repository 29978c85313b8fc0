package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pokernight/cashbox/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// UpdateFunc mutates a snapshot in place and returns the outbox events to
// record alongside the save. Returning an error aborts the whole update;
// the stored snapshot stays untouched.
type UpdateFunc func(s *domain.Snapshot) ([]domain.OutboxDraft, error)

// SessionInfo is a listing row for a stored session.
type SessionInfo struct {
	Name      string    `json:"name"`
	Closed    bool      `json:"closed"`
	Players   int       `json:"players"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionStore is the durable keyed storage for session snapshots: one
// snapshot per session name, full overwrite on save, default-initialized
// snapshot when the key is absent.
type SessionStore interface {
	// View returns the stored snapshot, or a fresh default one when the
	// session does not exist yet.
	View(ctx context.Context, name string) (*domain.Snapshot, error)

	// Update runs fn against the snapshot under a single-writer lock and
	// persists the result atomically together with fn's outbox events.
	// Concurrent modification surfaces as STALE_SNAPSHOT.
	Update(ctx context.Context, name string, fn UpdateFunc) (*domain.Snapshot, error)

	// List returns summaries of every stored session, ordered by name.
	List(ctx context.Context) ([]SessionInfo, error)
}

// AccountRepository provides access to auth_users.
type AccountRepository interface {
	// FindByEmail returns an account by email, nil when absent.
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.Account, error)

	// Create inserts a new account.
	Create(ctx context.Context, db DBTX, account *domain.Account) error
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the
	// snapshot save).
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublished returns pending events for the publisher.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]domain.OutboxRow, error)

	// MarkPublished removes events after successful publication.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}
