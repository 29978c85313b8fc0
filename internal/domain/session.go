package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Method is how money changes hands for a purchase or a payout.
type Method string

const (
	MethodCash     Method = "cash"
	MethodTransfer Method = "transfer"
)

// Player is a roster entry. Name is the unique key within a session
// (case-sensitive, trimmed). IsHost is informational only and never
// affects computed balances.
type Player struct {
	Name   string `json:"name"`
	IsHost bool   `json:"is_host"`
}

// Purchase is a declared chip buy-in awaiting (or holding) peer validation.
// Once Validated flips true the record is immutable.
type Purchase struct {
	ID                uuid.UUID  `json:"id"`
	PlayerName        string     `json:"player_name"`
	Amount            int64      `json:"amount"`
	Method            Method     `json:"method"`
	Validated         bool       `json:"validated"`
	ValidatorName     string     `json:"validator_name,omitempty"`
	ValidatorIdentity string     `json:"validator_identity,omitempty"`
	DeclarantIdentity string     `json:"declarant_identity"`
	CreatedAt         time.Time  `json:"created_at"`
	ValidatedAt       *time.Time `json:"validated_at,omitempty"`
}

// Withdrawal is a player's declared end-of-game chip count and payout
// preference. At most one per player; a re-declaration replaces the
// earlier one.
type Withdrawal struct {
	PlayerName string    `json:"player_name"`
	ChipsOut   int64     `json:"chips_out"`
	Preference Method    `json:"preference"`
	CreatedAt  time.Time `json:"created_at"`
}

// Snapshot is the root aggregate for one cash session, keyed by Name.
// Slices preserve insertion order. Version supports optimistic
// concurrency at the store boundary.
type Snapshot struct {
	Name        string       `json:"name"`
	Players     []Player     `json:"players"`
	Purchases   []Purchase   `json:"purchases"`
	Withdrawals []Withdrawal `json:"withdrawals"`
	Closed      bool         `json:"closed"`
	ClosedAt    *time.Time   `json:"closed_at,omitempty"`
	Version     int64        `json:"version"`
}

// NewSnapshot returns the default-initialized aggregate for a session key.
// Slices are non-nil so an untouched snapshot round-trips JSON identically.
func NewSnapshot(name string) *Snapshot {
	return &Snapshot{
		Name:        strings.TrimSpace(name),
		Players:     []Player{},
		Purchases:   []Purchase{},
		Withdrawals: []Withdrawal{},
	}
}

// FindPlayer returns the roster entry with the given name, or nil.
func (s *Snapshot) FindPlayer(name string) *Player {
	for i := range s.Players {
		if s.Players[i].Name == name {
			return &s.Players[i]
		}
	}
	return nil
}

// FindPurchase returns the purchase with the given id, or nil.
func (s *Snapshot) FindPurchase(id uuid.UUID) *Purchase {
	for i := range s.Purchases {
		if s.Purchases[i].ID == id {
			return &s.Purchases[i]
		}
	}
	return nil
}

// FindWithdrawal returns the player's declared withdrawal, or nil. When a
// snapshot produced by an older build holds duplicates, the most recently
// declared one wins.
func (s *Snapshot) FindWithdrawal(playerName string) *Withdrawal {
	var latest *Withdrawal
	for i := range s.Withdrawals {
		w := &s.Withdrawals[i]
		if w.PlayerName != playerName {
			continue
		}
		if latest == nil || !w.CreatedAt.Before(latest.CreatedAt) {
			latest = w
		}
	}
	return latest
}
