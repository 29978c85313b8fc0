package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pokernight/cashbox/internal/domain"
)

// MemoryStore is a mutex-guarded in-memory SessionStore, used by tests
// and as the storage fallback when no Postgres is configured.
type MemoryStore struct {
	mu        sync.Mutex
	sessions  map[string]*domain.Snapshot
	updatedAt map[string]time.Time
	events    []domain.OutboxDraft
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:  make(map[string]*domain.Snapshot),
		updatedAt: make(map[string]time.Time),
	}
}

var _ SessionStore = (*MemoryStore)(nil)

func (m *MemoryStore) View(ctx context.Context, name string) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, ok := m.sessions[name]
	if !ok {
		return domain.NewSnapshot(name), nil
	}
	return cloneSnapshot(snap)
}

func (m *MemoryStore) Update(ctx context.Context, name string, fn UpdateFunc) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var working *domain.Snapshot
	if stored, ok := m.sessions[name]; ok {
		clone, err := cloneSnapshot(stored)
		if err != nil {
			return nil, err
		}
		working = clone
	} else {
		working = domain.NewSnapshot(name)
	}

	drafts, err := fn(working)
	if err != nil {
		return nil, err
	}

	working.Version++
	stored, err := cloneSnapshot(working)
	if err != nil {
		return nil, err
	}
	m.sessions[name] = stored
	m.updatedAt[name] = time.Now().UTC()
	m.events = append(m.events, drafts...)
	return working, nil
}

func (m *MemoryStore) List(ctx context.Context) ([]SessionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	infos := make([]SessionInfo, 0, len(m.sessions))
	for name, snap := range m.sessions {
		infos = append(infos, SessionInfo{
			Name:      name,
			Closed:    snap.Closed,
			Players:   len(snap.Players),
			UpdatedAt: m.updatedAt[name],
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Events returns every outbox draft recorded so far, in order.
func (m *MemoryStore) Events() []domain.OutboxDraft {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.OutboxDraft, len(m.events))
	copy(out, m.events)
	return out
}

// MemoryAccountRepository keeps accounts in a map, keyed by email. The
// DBTX argument is ignored; it exists to satisfy AccountRepository.
type MemoryAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
}

// NewMemoryAccountRepository creates an empty account map.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{accounts: make(map[string]domain.Account)}
}

var _ AccountRepository = (*MemoryAccountRepository)(nil)

func (m *MemoryAccountRepository) FindByEmail(ctx context.Context, _ DBTX, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[email]; ok {
		return &a, nil
	}
	return nil, nil
}

func (m *MemoryAccountRepository) Create(ctx context.Context, _ DBTX, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Email] = *account
	return nil
}

// MemoryOutboxRepository accumulates outbox rows in memory. Nothing
// polls it; it only keeps the auth path uniform when Postgres is absent.
type MemoryOutboxRepository struct {
	mu   sync.Mutex
	next int64
	rows []domain.OutboxRow
}

// NewMemoryOutboxRepository creates an empty outbox.
func NewMemoryOutboxRepository() *MemoryOutboxRepository {
	return &MemoryOutboxRepository{}
}

var _ OutboxRepository = (*MemoryOutboxRepository)(nil)

func (m *MemoryOutboxRepository) Insert(ctx context.Context, _ DBTX, draft domain.OutboxDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.rows = append(m.rows, domain.OutboxRow{SeqID: m.next, OutboxDraft: draft})
	return nil
}

func (m *MemoryOutboxRepository) FetchUnpublished(ctx context.Context, _ DBTX, limit int) ([]domain.OutboxRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.rows) {
		limit = len(m.rows)
	}
	out := make([]domain.OutboxRow, limit)
	copy(out, m.rows[:limit])
	return out, nil
}

func (m *MemoryOutboxRepository) MarkPublished(ctx context.Context, _ DBTX, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	published := make(map[int64]bool, len(ids))
	for _, id := range ids {
		published[id] = true
	}
	kept := m.rows[:0]
	for _, row := range m.rows {
		if !published[row.SeqID] {
			kept = append(kept, row)
		}
	}
	m.rows = kept
	return nil
}

// cloneSnapshot deep-copies via the same JSON codec the durable store
// uses, so memory and Postgres round-trip identically.
func cloneSnapshot(s *domain.Snapshot) (*domain.Snapshot, error) {
	doc, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	clone := domain.NewSnapshot(s.Name)
	if err := json.Unmarshal(doc, clone); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return clone, nil
}
