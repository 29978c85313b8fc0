package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokernight/cashbox/internal/domain"
)

func newSession(t *testing.T, players ...string) *domain.Snapshot {
	t.Helper()
	s := domain.NewSnapshot("friday-night")
	for _, name := range players {
		require.NoError(t, AddPlayer(s, name, false))
	}
	return s
}

// --- AddPlayer Tests ---

func TestAddPlayer(t *testing.T) {
	t.Run("adds players in order", func(t *testing.T) {
		s := domain.NewSnapshot("friday-night")
		require.NoError(t, AddPlayer(s, "alice", true))
		require.NoError(t, AddPlayer(s, "bob", false))

		require.Len(t, s.Players, 2)
		assert.Equal(t, "alice", s.Players[0].Name)
		assert.True(t, s.Players[0].IsHost)
		assert.Equal(t, "bob", s.Players[1].Name)
		assert.False(t, s.Players[1].IsHost)
	})

	t.Run("duplicate name is a silent no-op", func(t *testing.T) {
		s := newSession(t, "alice", "bob")
		require.NoError(t, AddPlayer(s, "alice", false))

		assert.Len(t, s.Players, 2)
	})

	t.Run("duplicate add keeps the existing host flag", func(t *testing.T) {
		s := domain.NewSnapshot("friday-night")
		require.NoError(t, AddPlayer(s, "alice", true))
		require.NoError(t, AddPlayer(s, "alice", false))

		require.Len(t, s.Players, 1)
		assert.True(t, s.Players[0].IsHost)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		s := domain.NewSnapshot("friday-night")
		require.NoError(t, AddPlayer(s, "  alice  ", false))

		require.Len(t, s.Players, 1)
		assert.Equal(t, "alice", s.Players[0].Name)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		s := domain.NewSnapshot("friday-night")
		err := AddPlayer(s, "   ", false)

		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		assert.Empty(t, s.Players)
	})

	t.Run("closed session refuses new players", func(t *testing.T) {
		s := newSession(t, "alice")
		_, err := DeclareWithdrawal(s, WithdrawalParams{PlayerName: "alice", ChipsOut: 0, Preference: domain.MethodCash})
		require.NoError(t, err)
		require.NoError(t, Close(s, true, time.Now()))

		err = AddPlayer(s, "bob", false)
		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "SESSION_CLOSED", appErr.Code)
	})
}

// --- RemovePlayer Tests ---

func TestRemovePlayer(t *testing.T) {
	t.Run("cascades to purchases and withdrawals", func(t *testing.T) {
		s := newSession(t, "alice", "bob")
		_, err := DeclarePurchase(s, PurchaseParams{PlayerName: "alice", Amount: 100, Method: domain.MethodCash, DeclarantIdentity: "id-a"})
		require.NoError(t, err)
		_, err = DeclarePurchase(s, PurchaseParams{PlayerName: "alice", Amount: 50, Method: domain.MethodTransfer, DeclarantIdentity: "id-a"})
		require.NoError(t, err)
		_, err = DeclarePurchase(s, PurchaseParams{PlayerName: "bob", Amount: 200, Method: domain.MethodCash, DeclarantIdentity: "id-b"})
		require.NoError(t, err)
		_, err = DeclareWithdrawal(s, WithdrawalParams{PlayerName: "alice", ChipsOut: 75, Preference: domain.MethodCash})
		require.NoError(t, err)

		purchases, withdrawals, err := RemovePlayer(s, "alice")
		require.NoError(t, err)
		assert.Equal(t, 2, purchases)
		assert.Equal(t, 1, withdrawals)

		require.Len(t, s.Players, 1)
		assert.Equal(t, "bob", s.Players[0].Name)
		require.Len(t, s.Purchases, 1)
		assert.Equal(t, "bob", s.Purchases[0].PlayerName)
		assert.Empty(t, s.Withdrawals)
	})

	t.Run("absent player is a no-op", func(t *testing.T) {
		s := newSession(t, "alice")
		purchases, withdrawals, err := RemovePlayer(s, "ghost")
		require.NoError(t, err)
		assert.Zero(t, purchases)
		assert.Zero(t, withdrawals)
		assert.Len(t, s.Players, 1)
	})

	t.Run("closed session refuses removal", func(t *testing.T) {
		s := newSession(t, "alice")
		_, err := DeclareWithdrawal(s, WithdrawalParams{PlayerName: "alice", ChipsOut: 0, Preference: domain.MethodCash})
		require.NoError(t, err)
		require.NoError(t, Close(s, true, time.Now()))

		_, _, err = RemovePlayer(s, "alice")
		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "SESSION_CLOSED", appErr.Code)
	})
}
