// Package daemon wires configuration, database and web service into the running process.
package daemon

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Miraubolant/MiroTrak-sub001/internal/config"
	"github.com/Miraubolant/MiroTrak-sub001/internal/db"
	"github.com/Miraubolant/MiroTrak-sub001/internal/db/controller/setting"
	"github.com/Miraubolant/MiroTrak-sub001/internal/db/controller/templates"
	"github.com/Miraubolant/MiroTrak-sub001/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	webService *web.Service
}

// New opens and migrates the database, seeds defaults and builds the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, web.ErrNilDependency
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	return build(cfg, gdb)
}

// build prepares everything on top of an open database. On failure the
// database pool is closed before returning.
func build(cfg *config.Config, gdb *gorm.DB) (d *Daemon, err error) {
	defer func() {
		if err != nil {
			closeDB(gdb)
		}
	}()

	if err = db.Migrate(gdb); err != nil {
		return nil, err
	}

	if cfg.Seed.DefaultTemplates {
		if err = seed(templates.New(setting.New(gdb))); err != nil {
			return nil, err
		}
	}

	webService, err := web.New(cfg, gdb)
	if err != nil {
		return nil, err
	}

	return &Daemon{
		cfg:        cfg,
		db:         gdb,
		webService: webService,
	}, nil
}

// Start serves http until SIGINT or SIGTERM, then shuts down and closes the database.
func (d *Daemon) Start() error {
	addr := ":" + strconv.Itoa(d.cfg.Webserver.Port)

	go func() {
		log.Info().Str("addr", addr).Msg("starting http server")

		_ = d.webService.Start(addr)
	}()

	d.webService.WaitShutdown()

	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}

	return sqlDB.Close()
}

func closeDB(gdb *gorm.DB) {
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Error().Err(err).Msg("database handle")
		return
	}

	if err = sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("closing database")
	}
}
