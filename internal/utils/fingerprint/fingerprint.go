package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash returns a hex-encoded SHA-256 fingerprint over the canonical JSON
// encoding of v. encoding/json sorts map keys, so two requests with the same
// fields always produce the same fingerprint regardless of field order.
func Hash(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal fingerprint payload: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
