package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

func newSessionEvent(session string, evtType EventType, payload interface{}) OutboxDraft {
	raw, _ := json.Marshal(payload)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateSession,
		AggregateID:   session,
		EventType:     evtType,
		PartitionKey:  session,
		Payload:       raw,
		OccurredAt:    time.Now(),
	}
}

// NewPlayerJoinedEvent records a roster addition.
func NewPlayerJoinedEvent(session string, p Player) OutboxDraft {
	return newSessionEvent(session, EventPlayerJoined, map[string]interface{}{
		"player_name": p.Name,
		"is_host":     p.IsHost,
	})
}

// NewPlayerRemovedEvent records a roster removal with its cascade counts.
func NewPlayerRemovedEvent(session, playerName string, purchasesRemoved, withdrawalsRemoved int) OutboxDraft {
	return newSessionEvent(session, EventPlayerRemoved, map[string]interface{}{
		"player_name":         playerName,
		"purchases_removed":   purchasesRemoved,
		"withdrawals_removed": withdrawalsRemoved,
	})
}

// NewPurchaseDeclaredEvent records a declared buy-in.
func NewPurchaseDeclaredEvent(session string, p *Purchase) OutboxDraft {
	return newSessionEvent(session, EventPurchaseDeclared, p)
}

// NewPurchaseValidatedEvent records a peer-validated buy-in.
func NewPurchaseValidatedEvent(session string, p *Purchase) OutboxDraft {
	return newSessionEvent(session, EventPurchaseValidated, p)
}

// NewWithdrawalDeclaredEvent records a declared chip-out.
func NewWithdrawalDeclaredEvent(session string, w *Withdrawal) OutboxDraft {
	return newSessionEvent(session, EventWithdrawalDeclared, w)
}

// NewSessionClosedEvent records the final close.
func NewSessionClosedEvent(s *Snapshot) OutboxDraft {
	return newSessionEvent(s.Name, EventSessionClosed, map[string]interface{}{
		"closed_at":   s.ClosedAt,
		"players":     len(s.Players),
		"purchases":   len(s.Purchases),
		"withdrawals": len(s.Withdrawals),
	})
}

// NewAccountRegisteredEvent records a new login account.
func NewAccountRegisteredEvent(accountID uuid.UUID, email string) OutboxDraft {
	raw, _ := json.Marshal(map[string]string{
		"account_id": accountID.String(),
		"email":      email,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateAccount,
		AggregateID:   accountID.String(),
		EventType:     EventAccountRegistered,
		PartitionKey:  accountID.String(),
		Payload:       raw,
		OccurredAt:    time.Now(),
	}
}
