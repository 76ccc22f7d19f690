package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewVerificationToken generates a cryptographically random 64-character hex
// token. Tokens are opaque and single-use; the registration workflow erases
// them on successful verification.
func NewVerificationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
