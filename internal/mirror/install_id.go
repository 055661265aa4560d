package mirror

import (
	crand "crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewInstallID generates a random anonymous install identifier. The caller
// persists it so one install maps to one mirror identity across reloads.
func NewInstallID() (string, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return "", fmt.Errorf("read random install id: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
