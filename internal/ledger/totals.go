package ledger

import "github.com/pokernight/cashbox/internal/domain"

// Totals is the per-player sum of validated purchases, split by method.
type Totals struct {
	Cash     int64 `json:"cash"`
	Transfer int64 `json:"transfer"`
	Total    int64 `json:"total"`
}

// ValidatedTotals sums validated purchase amounts per player, grouped by
// method. Every rostered player appears, zero-valued when they bought
// nothing. Unvalidated purchases never count.
func ValidatedTotals(s *domain.Snapshot) map[string]Totals {
	totals := make(map[string]Totals, len(s.Players))
	for _, p := range s.Players {
		totals[p.Name] = Totals{}
	}

	for _, purchase := range s.Purchases {
		if !purchase.Validated {
			continue
		}
		t, ok := totals[purchase.PlayerName]
		if !ok {
			// Purchase left by a removed player in a legacy snapshot;
			// the cascade keeps this from happening on current writes.
			continue
		}
		switch purchase.Method {
		case domain.MethodCash:
			t.Cash += purchase.Amount
		case domain.MethodTransfer:
			t.Transfer += purchase.Amount
		}
		t.Total = t.Cash + t.Transfer
		totals[purchase.PlayerName] = t
	}
	return totals
}
