// internal/app/bootstrap/keys.go
package bootstrap

import (
	"encoding/hex"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// csrfKey returns the 32-byte key gorilla/csrf requires. A configured key of
// any length is hashed down to 32 bytes. Without one a random key is
// generated, so tokens issued before a restart stop validating.
func csrfKey(configured string, logger *zap.Logger) []byte {
	if configured != "" {
		sum := blake2b.Sum256([]byte(configured))
		return sum[:]
	}
	logger.Warn("csrf_key not set; generating a per-process key")
	return securecookie.GenerateRandomKey(32)
}

// sessionKey returns the configured key, or a generated one for dev runs
// with an empty session_key. ValidateConfig rejects an empty key in prod.
func sessionKey(configured string, logger *zap.Logger) string {
	if configured != "" {
		return configured
	}
	logger.Warn("session_key not set; generating a per-process key, sessions end on restart")
	return hex.EncodeToString(securecookie.GenerateRandomKey(32))
}
