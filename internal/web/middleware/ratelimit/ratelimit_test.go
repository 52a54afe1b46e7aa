package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miraubolant/MiroTrak-sub001/internal/config"
)

func TestNewStorage(t *testing.T) {
	for _, name := range []string{"", "memory", "MEMORY", " Memory "} {
		cfg := &config.Config{Webserver: config.Webserver{RateLimit: config.RateLimit{Storage: name}}}

		storage, err := NewStorage(cfg)
		require.NoError(t, err)
		assert.Nil(t, storage)
	}

	cfg := &config.Config{Webserver: config.Webserver{RateLimit: config.RateLimit{Storage: "redis"}}}

	_, err := NewStorage(cfg)
	require.ErrorIs(t, err, ErrUnsupportedStorage)
}

func TestLimitReached(t *testing.T) {
	cfg := &config.Config{
		Webserver: config.Webserver{
			RateLimit: config.RateLimit{Enabled: true, Max: 2, Expiration: time.Minute},
		},
	}

	app := fiber.New()
	app.Use(New(cfg, nil))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	codes := make([]int, 0, 3)

	for range 3 {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		codes = append(codes, resp.StatusCode)
		_ = resp.Body.Close()
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
