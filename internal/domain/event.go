package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AggregateType identifies the event source aggregate.
type AggregateType string

const (
	AggregateSession AggregateType = "session"
	AggregateAccount AggregateType = "account"
)

// EventType names the session lifecycle events published via the outbox.
type EventType string

const (
	EventPlayerJoined       EventType = "player_joined"
	EventPlayerRemoved      EventType = "player_removed"
	EventPurchaseDeclared   EventType = "purchase_declared"
	EventPurchaseValidated  EventType = "purchase_validated"
	EventWithdrawalDeclared EventType = "withdrawal_declared"
	EventSessionClosed      EventType = "session_closed"
	EventAccountRegistered  EventType = "account_registered"
)

// OutboxDraft is an event pending insertion into event_outbox. It is
// written in the same transaction as the snapshot save and published
// asynchronously.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType AggregateType   `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     EventType       `json:"event_type"`
	PartitionKey  string          `json:"partition_key"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// OutboxRow is a persisted outbox event with its sequence id, as read
// back by the publisher.
type OutboxRow struct {
	SeqID int64
	OutboxDraft
}
