package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"
)

// TokenLength is the fixed length of every opaque session token.
const TokenLength = 70

// GenerateToken derives an opaque session token from a seed (in practice the
// user identifier) and the current wall-clock time. The seed and timestamp are
// digested with SHA-256, base64url-encoded, and the encoding is repeated until
// it reaches TokenLength, then truncated, so every token is uniform size.
//
// This is a token-shape generator inherited from the legacy console, not a
// cryptographically unpredictable secret generator: two calls with the same
// seed differ only by timestamp. Possession of the token is sufficient to act
// as the principal until the session expires.
func GenerateToken(seed string) string {
	data := seed + time.Now().Format(time.RFC3339Nano)
	sum := sha256.Sum256([]byte(data))
	encoded := base64.URLEncoding.EncodeToString(sum[:])

	var b strings.Builder
	b.Grow(TokenLength + len(encoded))
	for b.Len() < TokenLength {
		b.WriteString(encoded)
	}
	return b.String()[:TokenLength]
}
