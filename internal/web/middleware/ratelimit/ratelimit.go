// Package ratelimit limits api requests per client ip.
//
// Counters live in process memory by default. The mysql and postgres storages
// share counters between instances through a table in the configured database.
package ratelimit

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	storagemysql "github.com/gofiber/storage/mysql/v2"
	storagepostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"

	"github.com/Miraubolant/MiroTrak-sub001/internal/config"
	"github.com/Miraubolant/MiroTrak-sub001/internal/db/dsn"
	"github.com/Miraubolant/MiroTrak-sub001/internal/web/handler"
)

const (
	// StorageMemory keeps counters in process memory.
	StorageMemory = "memory"

	defaultTable = "rate_limits"
)

// ErrUnsupportedStorage is returned for a storage name outside memory, mysql and postgres.
var ErrUnsupportedStorage = errors.New("unsupported rate limit storage")

// NewStorage returns the counter storage for cfg. A nil storage means process memory.
// The sql storages connect on creation and panic when the database is unreachable.
func NewStorage(cfg *config.Config) (fiber.Storage, error) {
	table := cfg.Webserver.RateLimit.Table
	if table == "" {
		table = defaultTable
	}

	switch config.NormalizeStorage(cfg.Webserver.RateLimit.Storage) {
	case "", StorageMemory:
		return nil, nil //nolint:nilnil // nil selects the limiter's memory storage
	case config.EngineMySQL:
		return storagemysql.New(storagemysql.Config{
			ConnectionURI: dsn.MySQL(cfg),
			Table:         table,
		}), nil
	case config.EnginePostgres:
		return storagepostgres.New(storagepostgres.Config{
			ConnectionURI: dsn.Postgres(cfg),
			Table:         table,
		}), nil
	default:
		return nil, ErrUnsupportedStorage
	}
}

// New returns the limiter middleware. storage may be nil.
func New(cfg *config.Config, storage fiber.Storage) fiber.Handler {
	rl := cfg.Webserver.RateLimit

	log.Info().
		Int("max", rl.Max).
		Dur("expiration", rl.Expiration).
		Str("storage", storageName(rl.Storage)).
		Msg("api rate limit enabled")

	return limiter.New(limiter.Config{
		Max:        rl.Max,
		Expiration: rl.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return handler.JSONError(c, fiber.StatusTooManyRequests, "Too many requests", nil)
		},
		Storage: storage,
	})
}

func storageName(s string) string {
	if s = config.NormalizeStorage(s); s == "" {
		return StorageMemory
	}

	return s
}
