package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pokernight/cashbox/internal/domain"
	"github.com/pokernight/cashbox/internal/ledger"
	"github.com/pokernight/cashbox/internal/repository"
	"github.com/pokernight/cashbox/internal/settlement"
)

// SessionService runs each ledger operation as one atomic
// load-mutate-save cycle against the session store. Outbox events ride
// the same save.
type SessionService struct {
	store  repository.SessionStore
	logger *slog.Logger
}

// NewSessionService creates a SessionService.
func NewSessionService(store repository.SessionStore, logger *slog.Logger) *SessionService {
	return &SessionService{store: store, logger: logger}
}

func sessionKey(name string) (string, error) {
	if err := domain.ValidateSessionName(name); err != nil {
		return "", domain.ErrValidation(err.Error())
	}
	return strings.TrimSpace(name), nil
}

// AddPlayer registers a player on the session roster.
func (s *SessionService) AddPlayer(ctx context.Context, session, name string, isHost bool) (*domain.Snapshot, error) {
	session, err := sessionKey(session)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, session, func(snap *domain.Snapshot) ([]domain.OutboxDraft, error) {
		before := len(snap.Players)
		if err := ledger.AddPlayer(snap, name, isHost); err != nil {
			return nil, err
		}
		if len(snap.Players) == before {
			// Duplicate name, silent no-op: nothing to announce.
			return nil, nil
		}
		joined := snap.Players[len(snap.Players)-1]
		return []domain.OutboxDraft{domain.NewPlayerJoinedEvent(session, joined)}, nil
	})
}

// RemovePlayer drops a player and cascades to their purchases and
// withdrawals.
func (s *SessionService) RemovePlayer(ctx context.Context, session, name string) (*domain.Snapshot, error) {
	session, err := sessionKey(session)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, session, func(snap *domain.Snapshot) ([]domain.OutboxDraft, error) {
		existed := snap.FindPlayer(name) != nil
		purchases, withdrawals, err := ledger.RemovePlayer(snap, name)
		if err != nil {
			return nil, err
		}
		if !existed {
			return nil, nil
		}
		s.logger.Info("player removed",
			"session", session, "player", name,
			"purchases_removed", purchases, "withdrawals_removed", withdrawals)
		return []domain.OutboxDraft{domain.NewPlayerRemovedEvent(session, name, purchases, withdrawals)}, nil
	})
}

// DeclarePurchase appends an unvalidated buy-in.
func (s *SessionService) DeclarePurchase(ctx context.Context, session string, params ledger.PurchaseParams) (*domain.Purchase, error) {
	session, err := sessionKey(session)
	if err != nil {
		return nil, err
	}
	var declared domain.Purchase
	_, err = s.store.Update(ctx, session, func(snap *domain.Snapshot) ([]domain.OutboxDraft, error) {
		purchase, err := ledger.DeclarePurchase(snap, params)
		if err != nil {
			return nil, err
		}
		declared = *purchase
		return []domain.OutboxDraft{domain.NewPurchaseDeclaredEvent(session, purchase)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &declared, nil
}

// ValidatePurchase applies the two-party confirmation to a purchase.
func (s *SessionService) ValidatePurchase(ctx context.Context, session string, purchaseID uuid.UUID, validatorName, validatorIdentity string) (*domain.Purchase, error) {
	session, err := sessionKey(session)
	if err != nil {
		return nil, err
	}
	var validated domain.Purchase
	_, err = s.store.Update(ctx, session, func(snap *domain.Snapshot) ([]domain.OutboxDraft, error) {
		purchase, err := ledger.ValidatePurchase(snap, purchaseID, validatorName, validatorIdentity)
		if err != nil {
			return nil, err
		}
		validated = *purchase
		return []domain.OutboxDraft{domain.NewPurchaseValidatedEvent(session, purchase)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &validated, nil
}

// DeclareWithdrawal records (or replaces) a player's chip-out.
func (s *SessionService) DeclareWithdrawal(ctx context.Context, session string, params ledger.WithdrawalParams) (*domain.Withdrawal, error) {
	session, err := sessionKey(session)
	if err != nil {
		return nil, err
	}
	var declared domain.Withdrawal
	_, err = s.store.Update(ctx, session, func(snap *domain.Snapshot) ([]domain.OutboxDraft, error) {
		w, err := ledger.DeclareWithdrawal(snap, params)
		if err != nil {
			return nil, err
		}
		declared = *w
		return []domain.OutboxDraft{domain.NewWithdrawalDeclaredEvent(session, w)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &declared, nil
}

// Close seals the session once every player has declared a chip-out.
func (s *SessionService) Close(ctx context.Context, session string, confirmed bool) (*domain.Snapshot, error) {
	session, err := sessionKey(session)
	if err != nil {
		return nil, err
	}
	snap, err := s.store.Update(ctx, session, func(snap *domain.Snapshot) ([]domain.OutboxDraft, error) {
		if err := ledger.Close(snap, confirmed, time.Now()); err != nil {
			return nil, err
		}
		return []domain.OutboxDraft{domain.NewSessionClosedEvent(snap)}, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("session closed", "session", session, "closed_at", snap.ClosedAt)
	return snap, nil
}

// Snapshot returns the current state of a session.
func (s *SessionService) Snapshot(ctx context.Context, session string) (*domain.Snapshot, error) {
	session, err := sessionKey(session)
	if err != nil {
		return nil, err
	}
	return s.store.View(ctx, session)
}

// Settlement projects the reconciliation result without mutating state.
func (s *SessionService) Settlement(ctx context.Context, session string) (*settlement.Result, error) {
	snap, err := s.Snapshot(ctx, session)
	if err != nil {
		return nil, err
	}
	result := settlement.Settle(snap)
	return &result, nil
}

// Report renders the plain-text reconciliation document.
func (s *SessionService) Report(ctx context.Context, session string) (string, error) {
	snap, err := s.Snapshot(ctx, session)
	if err != nil {
		return "", err
	}
	return settlement.RenderReport(snap), nil
}

// List returns summaries of every stored session.
func (s *SessionService) List(ctx context.Context) ([]repository.SessionInfo, error) {
	return s.store.List(ctx)
}
