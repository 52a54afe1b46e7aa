package config

import (
	"time"

	"github.com/Miraubolant/MiroTrak-sub001/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Seed      Seed
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool      // disable recover middleware
	Port           int       // listening port for the webserver
	ShutDownTime   int       // wait time for shutdown
	BodyLimit      int       // max request body size in bytes
	AllowOrigins   string    // comma separated CORS origins
	APITokenHash   string    // argon2id hash of the API token, empty disables auth
	RateLimit      RateLimit // request rate limiting
}

// RateLimit configures the request limiter in front of the API.
type RateLimit struct {
	Enabled    bool
	Max        int           // requests per window and client IP
	Expiration time.Duration // window length
	Storage    string        // memory, mysql or postgres
	Table      string        // table holding the counters for sql storages
}

// Seed controls data written on first start.
type Seed struct {
	DefaultTemplates bool // create invoice and quote templates when none exist
}
