// Package ledger holds the mutating operations over a session snapshot:
// roster management, purchase declaration and validation, withdrawal
// declaration, and the final close. Every operation either fully applies
// or leaves the snapshot untouched.
package ledger

import (
	"strings"

	"github.com/pokernight/cashbox/internal/domain"
)

// AddPlayer appends a player to the roster. Re-adding an existing name is
// a silent no-op; callers needing uniqueness feedback check first.
func AddPlayer(s *domain.Snapshot, name string, isHost bool) error {
	if s.Closed {
		return domain.ErrSessionClosed(s.Name)
	}
	name = strings.TrimSpace(name)
	if err := domain.ValidatePlayerName(name); err != nil {
		return domain.ErrValidation(err.Error())
	}
	if s.FindPlayer(name) != nil {
		return nil
	}
	s.Players = append(s.Players, domain.Player{Name: name, IsHost: isHost})
	return nil
}

// RemovePlayer drops the player and cascades to every purchase and
// withdrawal declared under that name. Removing an absent player is a
// no-op (treated as already removed). Returns the cascade counts.
func RemovePlayer(s *domain.Snapshot, name string) (purchasesRemoved, withdrawalsRemoved int, err error) {
	if s.Closed {
		return 0, 0, domain.ErrSessionClosed(s.Name)
	}

	players := s.Players[:0]
	for _, p := range s.Players {
		if p.Name != name {
			players = append(players, p)
		}
	}
	s.Players = players

	purchases := s.Purchases[:0]
	for _, p := range s.Purchases {
		if p.PlayerName == name {
			purchasesRemoved++
			continue
		}
		purchases = append(purchases, p)
	}
	s.Purchases = purchases

	withdrawals := s.Withdrawals[:0]
	for _, w := range s.Withdrawals {
		if w.PlayerName == name {
			withdrawalsRemoved++
			continue
		}
		withdrawals = append(withdrawals, w)
	}
	s.Withdrawals = withdrawals

	return purchasesRemoved, withdrawalsRemoved, nil
}
