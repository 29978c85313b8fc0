package settlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokernight/cashbox/internal/domain"
	"github.com/pokernight/cashbox/internal/ledger"
)

// --- RenderReport Tests ---

func TestRenderReport(t *testing.T) {
	t.Run("open session report", func(t *testing.T) {
		s := buildSession(t)
		declareValidated(t, s, "alice", 1500, domain.MethodCash)
		declareValidated(t, s, "bob", 500, domain.MethodTransfer)
		withdraw(t, s, "alice", 2000, domain.MethodTransfer)

		report := RenderReport(s)

		assert.Contains(t, report, "Poker cash session summary")
		assert.Contains(t, report, "Session: friday-night")
		assert.Contains(t, report, "Closed at: session still open")
		assert.Contains(t, report, "Total cash collected: $1,500")
		assert.Contains(t, report, "Total transfer collected: $500")
		assert.Contains(t, report, "Total chips in play: $2,000")
		assert.Contains(t, report, "alice: cash $1,500, transfer $0, total $1,500 — owed 500 via Transfer")
		assert.Contains(t, report, "bob: cash $0, transfer $500, total $500 — has not withdrawn")
		assert.Contains(t, report, "alice → $1,500 via Cash (validated by peer)")
	})

	t.Run("closed session prints the stored close time", func(t *testing.T) {
		s := buildSession(t)
		for _, name := range []string{"alice", "bob", "carol"} {
			withdraw(t, s, name, 0, domain.MethodCash)
		}
		closedAt := time.Date(2026, 8, 28, 23, 45, 0, 0, time.UTC)
		require.NoError(t, ledger.Close(s, true, closedAt))

		report := RenderReport(s)
		assert.Contains(t, report, "Closed at: 2026-08-28T23:45:00Z")
	})

	t.Run("output is deterministic for a given snapshot", func(t *testing.T) {
		s := buildSession(t)
		declareValidated(t, s, "alice", 100, domain.MethodCash)
		withdraw(t, s, "alice", 100, domain.MethodCash)

		first := RenderReport(s)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, RenderReport(s))
		}
	})

	t.Run("unvalidated purchases are excluded from the listing", func(t *testing.T) {
		s := buildSession(t)
		_, err := ledger.DeclarePurchase(s, ledger.PurchaseParams{
			PlayerName: "alice", Amount: 777, Method: domain.MethodCash, DeclarantIdentity: "id-alice",
		})
		require.NoError(t, err)

		report := RenderReport(s)
		assert.NotContains(t, report, "777")
	})
}

// --- formatAmount Tests ---

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{100, "100"},
		{1000, "1,000"},
		{25500, "25,500"},
		{1234567, "1,234,567"},
		{-1500, "-1,500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAmount(tt.in), "formatAmount(%d)", tt.in)
	}
}
