package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks basic email format.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePlayerName requires a non-empty name after trimming.
func ValidatePlayerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("player name is required")
	}
	return nil
}

// ValidateSessionName requires a non-empty session key after trimming.
func ValidateSessionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("session name is required")
	}
	return nil
}

// ValidatePositiveAmount requires amount >= 1 whole currency unit.
func ValidatePositiveAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", amount)
	}
	return nil
}

// ValidateChipsOut requires a non-negative chip count. Zero is a valid
// declaration for a player who lost everything.
func ValidateChipsOut(chips int64) error {
	if chips < 0 {
		return fmt.Errorf("chips out must be non-negative, got %d", chips)
	}
	return nil
}

// ValidateMethod checks the payment method enum.
func ValidateMethod(m Method) error {
	switch m {
	case MethodCash, MethodTransfer:
		return nil
	default:
		return fmt.Errorf("invalid method %q (want %q or %q)", m, MethodCash, MethodTransfer)
	}
}
