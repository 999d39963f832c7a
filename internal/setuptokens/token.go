package setuptokens

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const tokenByteLength = 48

// GenerateToken returns a random opaque token encoded as hex.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating setup token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
