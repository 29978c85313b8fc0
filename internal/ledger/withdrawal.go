package ledger

import (
	"time"

	"github.com/pokernight/cashbox/internal/domain"
)

// WithdrawalParams is the input to DeclareWithdrawal.
type WithdrawalParams struct {
	PlayerName string
	ChipsOut   int64
	Preference domain.Method
}

// DeclareWithdrawal records a player's end-of-game chip count. At most one
// withdrawal per player: a re-declaration replaces the earlier one in
// place, keeping its position in the list.
func DeclareWithdrawal(s *domain.Snapshot, params WithdrawalParams) (*domain.Withdrawal, error) {
	if s.Closed {
		return nil, domain.ErrSessionClosed(s.Name)
	}
	if err := domain.ValidateChipsOut(params.ChipsOut); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateMethod(params.Preference); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if s.FindPlayer(params.PlayerName) == nil {
		return nil, domain.ErrNotFound("player", params.PlayerName)
	}

	now := time.Now().UTC()
	for i := range s.Withdrawals {
		if s.Withdrawals[i].PlayerName == params.PlayerName {
			s.Withdrawals[i].ChipsOut = params.ChipsOut
			s.Withdrawals[i].Preference = params.Preference
			s.Withdrawals[i].CreatedAt = now
			return &s.Withdrawals[i], nil
		}
	}

	s.Withdrawals = append(s.Withdrawals, domain.Withdrawal{
		PlayerName: params.PlayerName,
		ChipsOut:   params.ChipsOut,
		Preference: params.Preference,
		CreatedAt:  now,
	})
	return &s.Withdrawals[len(s.Withdrawals)-1], nil
}
