// Package web builds the fiber application serving the settings and template api.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Miraubolant/MiroTrak-sub001/internal/apitoken"
	"github.com/Miraubolant/MiroTrak-sub001/internal/config"
	"github.com/Miraubolant/MiroTrak-sub001/internal/db/controller/setting"
	"github.com/Miraubolant/MiroTrak-sub001/internal/db/controller/templates"
	fiberlogger "github.com/Miraubolant/MiroTrak-sub001/internal/logger/adapter/fiber"
	"github.com/Miraubolant/MiroTrak-sub001/internal/web/handler"
	settingshandler "github.com/Miraubolant/MiroTrak-sub001/internal/web/handler/settings"
	templateshandler "github.com/Miraubolant/MiroTrak-sub001/internal/web/handler/templates"
	authmiddleware "github.com/Miraubolant/MiroTrak-sub001/internal/web/middleware/auth"
	"github.com/Miraubolant/MiroTrak-sub001/internal/web/middleware/ratelimit"
)

// ErrNilDependency is returned by New when cfg or db is nil.
var ErrNilDependency = errors.New("config and db are required")

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	limitStorage fiber.Storage
}

// CheckAliveResponse is the body of the liveness check.
type CheckAliveResponse struct {
	Status string `json:"status"`
}

// Start starts the web service on the given address and blocks until it stops.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and stops the http server gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown fails the liveness check for Webserver.ShutDownTime seconds, then stops the server.
func (s *Service) Shutdown() {
	s.alive.Store(false)

	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}

	if s.limitStorage != nil {
		if err := s.limitStorage.Close(); err != nil {
			log.Error().Err(err).Msg("closing rate limit storage")
		}
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates the web service with every middleware and api route registered.
func New(cfg *config.Config, db *gorm.DB) (*Service, error) {
	if cfg == nil || db == nil {
		return nil, ErrNilDependency
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      cfg.Webserver.BodyLimit,
			ErrorHandler:   handler.ErrorHandler,
		},
	)

	service := &Service{
		App:          app,
		cfg:          cfg,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: handler.CheckAlivePath,
	}))

	// the access logger sits outside recover so panics are logged as errors
	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(cors.New(cors.Config{AllowOrigins: cfg.Webserver.AllowOrigins}))

	app.Get(handler.CheckAlivePath, service.checkAlive)
	app.Get(handler.MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group(handler.APIPath)

	if cfg.Webserver.RateLimit.Enabled {
		storage, err := ratelimit.NewStorage(cfg)
		if err != nil {
			return nil, err
		}

		service.limitStorage = storage
		api.Use(ratelimit.New(cfg, storage))
	}

	if cfg.Webserver.APITokenHash == "" {
		log.Warn().Msg("Webserver.APITokenHash is empty: api routes are not authenticated")
	} else {
		verifier, err := apitoken.NewVerifier(cfg.Webserver.APITokenHash)
		if err != nil {
			return nil, err
		}

		api.Use(authmiddleware.New(verifier))
	}

	store := setting.New(db)

	for _, h := range []handler.Service{
		settingshandler.New(store),
		templateshandler.New(templates.New(store)),
	} {
		if err := h.Init(api); err != nil {
			return nil, err
		}
	}

	return service, nil
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(CheckAliveResponse{Status: "shutting down"})
	}

	return c.JSON(CheckAliveResponse{Status: "ok"})
}
