package config

import (
	"errors"
)

var (
	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrUnsupportedGormEngine error if db.gormEngine is not mysql, postgres or sqlite.
	ErrUnsupportedGormEngine = errors.New("config db.gormEngine must be mysql, postgres or sqlite")

	// ErrEmptySQLitePath error if the sqlite engine is selected without db.path.
	ErrEmptySQLitePath = errors.New("config db.path can not be empty for the sqlite engine")

	// ErrUnsupportedRateLimitStorage error if webserver.rateLimit.storage is unknown.
	ErrUnsupportedRateLimitStorage = errors.New("config webserver.rateLimit.storage must be memory, mysql or postgres")
)
