package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"os"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/api/response"
)

// timeTokenTTL is how long a generated time token stays valid. Replaying a
// captured request outside this window fails verification.
const timeTokenTTL = 5 * time.Minute

// APIKeyMiddleware protects mutating endpoints. Callers must present the
// shared API key in X-API-Key and a fresh fernet time token in X-Time-Token;
// the token is signed with a key derived from the API key, so possession of
// the key is proven without replaying old requests forever.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected := os.Getenv("INTERNAL_API_KEY")
		if expected == "" {
			response.RespondError(w, http.StatusInternalServerError, "Internal configuration error", "Authentication not loaded")
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Missing API key")
			return
		}
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Invalid API key")
			return
		}

		timeToken := r.Header.Get("X-Time-Token")
		if timeToken == "" {
			response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Missing Time token")
			return
		}
		if !verifyTimeToken(expected, timeToken) {
			response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GenerateTimeToken creates a fernet time token for the given API key.
// Exposed for clients and tests.
func GenerateTimeToken(apiKey string) string {
	token, err := fernet.EncryptAndSign([]byte(time.Now().UTC().Format(time.RFC3339)), deriveKey(apiKey))
	if err != nil {
		return ""
	}
	return string(token)
}

// verifyTimeToken checks that the token was signed with the API key within
// the TTL window.
func verifyTimeToken(apiKey, token string) bool {
	msg := fernet.VerifyAndDecrypt([]byte(token), timeTokenTTL, []*fernet.Key{deriveKey(apiKey)})
	return msg != nil
}

// deriveKey turns the API key into a fernet signing key.
func deriveKey(apiKey string) *fernet.Key {
	sum := sha256.Sum256([]byte(apiKey))
	var key fernet.Key
	copy(key[:], sum[:])
	return &key
}
