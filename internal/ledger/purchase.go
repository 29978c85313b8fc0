package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/pokernight/cashbox/internal/domain"
)

// PurchaseParams is the input to DeclarePurchase.
type PurchaseParams struct {
	PlayerName        string
	Amount            int64
	Method            domain.Method
	DeclarantIdentity string
}

// DeclarePurchase appends an unvalidated buy-in for an existing player.
// The declarant identity is stored for the later self-validation check.
func DeclarePurchase(s *domain.Snapshot, params PurchaseParams) (*domain.Purchase, error) {
	if s.Closed {
		return nil, domain.ErrSessionClosed(s.Name)
	}
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateMethod(params.Method); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if s.FindPlayer(params.PlayerName) == nil {
		return nil, domain.ErrNotFound("player", params.PlayerName)
	}

	purchase := domain.Purchase{
		ID:                uuid.New(),
		PlayerName:        params.PlayerName,
		Amount:            params.Amount,
		Method:            params.Method,
		DeclarantIdentity: params.DeclarantIdentity,
		CreatedAt:         time.Now().UTC(),
	}
	s.Purchases = append(s.Purchases, purchase)
	return &s.Purchases[len(s.Purchases)-1], nil
}

// ValidatePurchase marks a purchase as peer-confirmed, exactly once.
// A validator whose identity matches the declarant's is rejected, and a
// validated purchase never mutates again.
func ValidatePurchase(s *domain.Snapshot, id uuid.UUID, validatorName, validatorIdentity string) (*domain.Purchase, error) {
	if s.Closed {
		return nil, domain.ErrSessionClosed(s.Name)
	}

	purchase := s.FindPurchase(id)
	if purchase == nil {
		return nil, domain.ErrNotFound("purchase", id.String())
	}
	if purchase.Validated {
		return nil, domain.ErrAlreadyValidated(id.String())
	}
	if validatorIdentity == purchase.DeclarantIdentity {
		return nil, domain.ErrSelfValidation()
	}

	now := time.Now().UTC()
	purchase.Validated = true
	purchase.ValidatorName = validatorName
	purchase.ValidatorIdentity = validatorIdentity
	purchase.ValidatedAt = &now
	return purchase, nil
}
