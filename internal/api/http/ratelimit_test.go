package http

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/realestate-service/internal/config"
)

func TestRateKey(t *testing.T) {
	assert.Equal(t, "rl:ip:10.0.0.1:route:POST /api/auth/login", rateKey("rl", "10.0.0.1", "POST", "/api/auth/login"))
	assert.Equal(t, "rl:ip:unknown:route:GET /", rateKey("rl", "", "GET", "/"))
}

func TestRateLimitPassThrough(t *testing.T) {
	cases := map[string]config.RateLimitConfig{
		"disabled":  {Enabled: false, Capacity: 1},
		"no client": {Enabled: true, Capacity: 1},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", RateLimit(cfg, nil, zap.NewNop()), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusNoContent)
			})
			for i := 0; i < 3; i++ {
				resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
				require.NoError(t, err)
				assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
				assert.Empty(t, resp.Header.Get("X-RateLimit-Limit"))
			}
		})
	}
}
