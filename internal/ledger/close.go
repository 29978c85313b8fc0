package ledger

import (
	"time"

	"github.com/pokernight/cashbox/internal/domain"
)

// MissingWithdrawals returns, in roster order, the players who have not
// declared a chip-out at all. A declared zero is a valid chip-out; only a
// player who never declared blocks closing.
func MissingWithdrawals(s *domain.Snapshot) []string {
	var missing []string
	for _, p := range s.Players {
		if s.FindWithdrawal(p.Name) == nil {
			missing = append(missing, p.Name)
		}
	}
	return missing
}

// CanClose reports whether every rostered player has declared a chip-out.
func CanClose(s *domain.Snapshot) bool {
	return len(MissingWithdrawals(s)) == 0
}

// Close seals the session. The caller's confirmation flag stands in for
// the interactive double-confirm step; the ledger holds no multi-step
// state of its own. After a successful close every mutating operation is
// refused.
func Close(s *domain.Snapshot, confirmed bool, now time.Time) error {
	if s.Closed {
		return domain.ErrAlreadyClosed(s.Name)
	}
	if !confirmed {
		return domain.ErrValidation("close requires explicit confirmation")
	}
	if missing := MissingWithdrawals(s); len(missing) > 0 {
		return domain.ErrCannotClose(missing)
	}

	closedAt := now.UTC()
	s.Closed = true
	s.ClosedAt = &closedAt
	return nil
}
