package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestApp(apiKeyHash string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
		},
	})
	app.Use(Auth(apiKeyHash))
	app.Get("/protected", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	return app
}

func TestAuth(t *testing.T) {
	apiKey := "crm_live_abc123"
	sum := sha256.Sum256([]byte(apiKey))
	apiKeyHash := hex.EncodeToString(sum[:])

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "valid key",
			authHeader: "Bearer " + apiKey,
			wantStatus: 200,
		},
		{
			name:       "wrong key",
			authHeader: "Bearer crm_live_wrong",
			wantStatus: 401,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: 401,
		},
		{
			name:       "malformed header",
			authHeader: apiKey,
			wantStatus: 401,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic " + apiKey,
			wantStatus: 401,
		},
		{
			name:       "case-insensitive bearer",
			authHeader: "bearer " + apiKey,
			wantStatus: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := authTestApp(apiKeyHash)

			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestHashAPIKey(t *testing.T) {
	h1 := hashAPIKey("key-one")
	h2 := hashAPIKey("key-one")
	h3 := hashAPIKey("key-two")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}
