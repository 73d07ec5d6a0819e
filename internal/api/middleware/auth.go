package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/diegomanaglia/simply-crm/internal/domain"
)

// Auth guards the admin API with a single shared key. The configured
// value is the SHA-256 hex hash of the key, so the plaintext never has
// to live in the server's environment.
func Auth(apiKeyHash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := extractBearerToken(c)
		if apiKey == "" {
			return domain.ErrUnauthorized
		}

		presented := hashAPIKey(apiKey)

		// Both sides are fixed-length hex digests, so the comparison
		// leaks nothing about the configured key.
		if subtle.ConstantTimeCompare([]byte(presented), []byte(apiKeyHash)) != 1 {
			return domain.ErrUnauthorized
		}

		return c.Next()
	}
}

// extractBearerToken extracts token from Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	if auth == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// hashAPIKey generates SHA-256 hash of API Key
func hashAPIKey(apiKey string) string {
	hash := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(hash[:])
}
