package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokernight/cashbox/internal/domain"
	"github.com/pokernight/cashbox/internal/ledger"
	"github.com/pokernight/cashbox/internal/repository"
)

func newTestService(t *testing.T) (*SessionService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSessionService(store, logger), store
}

// --- SessionService Tests ---

func TestSessionServiceFlow(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	const session = "friday-night"

	// Roster
	_, err := svc.AddPlayer(ctx, session, "alice", true)
	require.NoError(t, err)
	snap, err := svc.AddPlayer(ctx, session, "bob", false)
	require.NoError(t, err)
	require.Len(t, snap.Players, 2)

	// Purchases: alice declares, bob validates
	purchase, err := svc.DeclarePurchase(ctx, session, ledger.PurchaseParams{
		PlayerName: "alice", Amount: 100, Method: domain.MethodCash, DeclarantIdentity: "id-a",
	})
	require.NoError(t, err)
	assert.False(t, purchase.Validated)

	validated, err := svc.ValidatePurchase(ctx, session, purchase.ID, "bob", "id-b")
	require.NoError(t, err)
	assert.True(t, validated.Validated)

	// Withdrawals
	_, err = svc.DeclareWithdrawal(ctx, session, ledger.WithdrawalParams{
		PlayerName: "alice", ChipsOut: 60, Preference: domain.MethodTransfer,
	})
	require.NoError(t, err)
	_, err = svc.DeclareWithdrawal(ctx, session, ledger.WithdrawalParams{
		PlayerName: "bob", ChipsOut: 40, Preference: domain.MethodCash,
	})
	require.NoError(t, err)

	// Settlement before close
	result, err := svc.Settlement(ctx, session)
	require.NoError(t, err)
	assert.True(t, result.CanClose)
	require.Len(t, result.Players, 2)
	require.NotNil(t, result.Players[0].Net)
	assert.Equal(t, int64(-40), *result.Players[0].Net)

	// Close
	snap, err = svc.Close(ctx, session, true)
	require.NoError(t, err)
	assert.True(t, snap.Closed)
	require.NotNil(t, snap.ClosedAt)

	// Mutations after close are refused
	_, err = svc.AddPlayer(ctx, session, "carol", false)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SESSION_CLOSED", appErr.Code)

	// Report still renders
	report, err := svc.Report(ctx, session)
	require.NoError(t, err)
	assert.Contains(t, report, "Poker cash session summary")

	// Events accumulated for every state change
	var types []domain.EventType
	for _, e := range store.Events() {
		types = append(types, e.EventType)
	}
	assert.Equal(t, []domain.EventType{
		domain.EventPlayerJoined,
		domain.EventPlayerJoined,
		domain.EventPurchaseDeclared,
		domain.EventPurchaseValidated,
		domain.EventWithdrawalDeclared,
		domain.EventWithdrawalDeclared,
		domain.EventSessionClosed,
	}, types)
}

func TestSessionServiceEdgeCases(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate player add emits no event", func(t *testing.T) {
		svc, store := newTestService(t)
		_, err := svc.AddPlayer(ctx, "s", "alice", false)
		require.NoError(t, err)
		_, err = svc.AddPlayer(ctx, "s", "alice", false)
		require.NoError(t, err)
		assert.Len(t, store.Events(), 1)
	})

	t.Run("removing an absent player emits no event", func(t *testing.T) {
		svc, store := newTestService(t)
		_, err := svc.RemovePlayer(ctx, "s", "ghost")
		require.NoError(t, err)
		assert.Empty(t, store.Events())
	})

	t.Run("remove player cascades in the event payload", func(t *testing.T) {
		svc, store := newTestService(t)
		_, err := svc.AddPlayer(ctx, "s", "alice", false)
		require.NoError(t, err)
		_, err = svc.DeclarePurchase(ctx, "s", ledger.PurchaseParams{
			PlayerName: "alice", Amount: 10, Method: domain.MethodCash, DeclarantIdentity: "id-a",
		})
		require.NoError(t, err)

		snap, err := svc.RemovePlayer(ctx, "s", "alice")
		require.NoError(t, err)
		assert.Empty(t, snap.Players)
		assert.Empty(t, snap.Purchases)

		events := store.Events()
		require.NotEmpty(t, events)
		assert.Equal(t, domain.EventPlayerRemoved, events[len(events)-1].EventType)
	})

	t.Run("failed close persists nothing", func(t *testing.T) {
		svc, store := newTestService(t)
		_, err := svc.AddPlayer(ctx, "s", "alice", false)
		require.NoError(t, err)

		_, err = svc.Close(ctx, "s", true)
		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "CANNOT_CLOSE", appErr.Code)

		snap, err := svc.Snapshot(ctx, "s")
		require.NoError(t, err)
		assert.False(t, snap.Closed)
		assert.Len(t, store.Events(), 1)
	})

	t.Run("blank session name is rejected", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.AddPlayer(ctx, "   ", "alice", false)
		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})
}
