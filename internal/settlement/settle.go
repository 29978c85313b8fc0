// Package settlement projects reconciliation results from a session
// snapshot. Nothing here mutates the snapshot.
package settlement

import (
	"fmt"

	"github.com/pokernight/cashbox/internal/domain"
	"github.com/pokernight/cashbox/internal/ledger"
)

// PlayerResult is one player's reconciliation line. ChipsOut, Preference
// and Net are nil until the player declares a withdrawal.
type PlayerResult struct {
	Name       string         `json:"name"`
	Purchased  ledger.Totals  `json:"purchased"`
	ChipsOut   *int64         `json:"chips_out,omitempty"`
	Preference *domain.Method `json:"preference,omitempty"`
	Net        *int64         `json:"net,omitempty"`
	Note       string         `json:"note"`
}

// Result is the full settlement projection for a session.
type Result struct {
	Session  string         `json:"session"`
	Players  []PlayerResult `json:"players"`
	CanClose bool           `json:"can_close"`
	Missing  []string       `json:"missing_withdrawals,omitempty"`
}

// Settle computes every player's net position: chips out minus validated
// purchases. Positive net means the bank owes the player, paid via their
// declared preference; negative means the player owes the bank.
func Settle(s *domain.Snapshot) Result {
	totals := ledger.ValidatedTotals(s)

	players := make([]PlayerResult, 0, len(s.Players))
	for _, p := range s.Players {
		result := PlayerResult{
			Name:      p.Name,
			Purchased: totals[p.Name],
		}

		w := s.FindWithdrawal(p.Name)
		if w == nil {
			result.Note = "has not withdrawn"
			players = append(players, result)
			continue
		}

		chipsOut := w.ChipsOut
		preference := w.Preference
		net := chipsOut - result.Purchased.Total
		result.ChipsOut = &chipsOut
		result.Preference = &preference
		result.Net = &net

		switch {
		case net > 0:
			result.Note = fmt.Sprintf("owed %d via %s", net, displayMethod(preference))
		case net < 0:
			result.Note = fmt.Sprintf("owes %d", -net)
		default:
			result.Note = "exact"
		}
		players = append(players, result)
	}

	missing := ledger.MissingWithdrawals(s)
	return Result{
		Session:  s.Name,
		Players:  players,
		CanClose: len(missing) == 0,
		Missing:  missing,
	}
}

// displayMethod renders a method for human-facing notes and reports;
// the wire form stays lowercase.
func displayMethod(m domain.Method) string {
	switch m {
	case domain.MethodCash:
		return "Cash"
	case domain.MethodTransfer:
		return "Transfer"
	default:
		return string(m)
	}
}
