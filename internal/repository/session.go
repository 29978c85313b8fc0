package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pokernight/cashbox/internal/domain"
)

type pgSessionStore struct {
	pool   *pgxpool.Pool
	outbox OutboxRepository
}

// NewPgSessionStore returns a Postgres-backed SessionStore. Snapshots are
// stored as one jsonb document per session name with a version column;
// Update serializes writers with a row lock and bumps the version.
func NewPgSessionStore(pool *pgxpool.Pool, outbox OutboxRepository) SessionStore {
	return &pgSessionStore{pool: pool, outbox: outbox}
}

func (s *pgSessionStore) View(ctx context.Context, name string) (*domain.Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT snapshot, version FROM sessions WHERE name = $1`, name)
	return scanSnapshot(row, name)
}

func (s *pgSessionStore) Update(ctx context.Context, name string, fn UpdateFunc) (*domain.Snapshot, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		SELECT snapshot, version FROM sessions WHERE name = $1 FOR UPDATE`, name)
	snap, err := scanSnapshot(row, name)
	if err != nil {
		return nil, err
	}
	existing := snap.Version > 0

	drafts, err := fn(snap)
	if err != nil {
		return nil, err
	}

	snap.Version++
	doc, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	if existing {
		tag, err := tx.Exec(ctx, `
			UPDATE sessions SET snapshot = $1, version = $2, updated_at = now()
			WHERE name = $3 AND version = $4`,
			doc, snap.Version, name, snap.Version-1)
		if err != nil {
			return nil, fmt.Errorf("update session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, domain.ErrStaleSnapshot(name)
		}
	} else {
		_, err := tx.Exec(ctx, `
			INSERT INTO sessions (name, snapshot, version) VALUES ($1, $2, $3)`,
			name, doc, snap.Version)
		if err != nil {
			return nil, fmt.Errorf("insert session: %w", err)
		}
	}

	for _, draft := range drafts {
		if err := s.outbox.Insert(ctx, tx, draft); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return snap, nil
}

func (s *pgSessionStore) List(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name,
		       (snapshot->>'closed')::boolean,
		       jsonb_array_length(snapshot->'players'),
		       updated_at
		FROM sessions
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var infos []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.Name, &info.Closed, &info.Players, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func scanSnapshot(row pgx.Row, name string) (*domain.Snapshot, error) {
	var doc []byte
	var version int64
	if err := row.Scan(&doc, &version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewSnapshot(name), nil
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	snap := domain.NewSnapshot(name)
	if err := json.Unmarshal(doc, snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	snap.Version = version
	return snap, nil
}
