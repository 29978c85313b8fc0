package settlement

import (
	"fmt"
	"strings"
	"time"

	"github.com/pokernight/cashbox/internal/domain"
	"github.com/pokernight/cashbox/internal/ledger"
)

// RenderReport produces the plain-text cash reconciliation document for a
// session. The output is deterministic for a given snapshot: the only
// timestamp in the body is the stored close time.
func RenderReport(s *domain.Snapshot) string {
	var b strings.Builder

	b.WriteString("Poker cash session summary\n")
	fmt.Fprintf(&b, "Session: %s\n", s.Name)
	if s.ClosedAt != nil {
		fmt.Fprintf(&b, "Closed at: %s\n", s.ClosedAt.UTC().Format(time.RFC3339))
	} else {
		b.WriteString("Closed at: session still open\n")
	}
	b.WriteString("\n")

	totals := ledger.ValidatedTotals(s)
	var totalCash, totalTransfer int64
	for _, t := range totals {
		totalCash += t.Cash
		totalTransfer += t.Transfer
	}
	fmt.Fprintf(&b, "Total cash collected: $%s\n", formatAmount(totalCash))
	fmt.Fprintf(&b, "Total transfer collected: $%s\n", formatAmount(totalTransfer))
	fmt.Fprintf(&b, "Total chips in play: $%s\n\n", formatAmount(totalCash+totalTransfer))

	b.WriteString("Per player:\n")
	for _, r := range Settle(s).Players {
		fmt.Fprintf(&b, "%s: cash $%s, transfer $%s, total $%s — %s\n",
			r.Name,
			formatAmount(r.Purchased.Cash),
			formatAmount(r.Purchased.Transfer),
			formatAmount(r.Purchased.Total),
			r.Note,
		)
	}

	b.WriteString("\nValidated purchases:\n")
	for _, p := range s.Purchases {
		if !p.Validated {
			continue
		}
		fmt.Fprintf(&b, "%s → $%s via %s (validated by %s)\n",
			p.PlayerName, formatAmount(p.Amount), displayMethod(p.Method), p.ValidatorName)
	}

	return b.String()
}

// formatAmount renders an integer amount with thousands separators.
func formatAmount(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte(',')
		}
	}
	return b.String()
}
