package tool

import (
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
)

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// GenerateArchiveID returns a sortable archive identifier. UUIDv7 keeps
// the time-ordered property the old timestamp-based ids had.
func GenerateArchiveID() string {
	return "archive_" + strings.ReplaceAll(GenerateUUIDV7(), "-", "")
}

// GenerateStateToken returns a random URL-safe token for OAuth CSRF state.
func GenerateStateToken() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
