package generator

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateID returns a URL-safe random identifier of the given length.
// Bytes are drawn from crypto/rand and encoded with the base64 URL
// alphabet, then truncated; the truncation trades collision space for a
// short user-facing code, so callers must still check for collisions
// against live data.
func GenerateID(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	id := base64.RawURLEncoding.EncodeToString(b)
	if len(id) > length {
		id = id[:length]
	}

	return id, nil
}
