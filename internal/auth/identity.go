package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// IdentityToken derives the stable opaque identity for a display name and
// email. Inputs are trimmed and lowercased so the same person always maps
// to the same token; consumers only ever compare tokens for equality.
func IdentityToken(name, email string) string {
	normalized := strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
