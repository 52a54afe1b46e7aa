// Package fiber provides the http access log middleware writing through zerolog.
package fiber

import (
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Miraubolant/MiroTrak-sub001/internal/logger"
)

const (
	// RequestIDKey is the fiber.Locals key read for the request id field.
	RequestIDKey = "requestid"

	// HeaderPerformance carries the handling time in seconds.
	HeaderPerformance = "X-Performance"
)

// Config implements fiber middleware struct.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Config of the logger.
	Config logger.Log

	// CacheControlError max-age caching on chain errors.
	CacheControlError string

	// CheckAliveURI for disabling logging of check alive http calls.
	CheckAliveURI string
}

// ConfigDefault is the default config for fiber.
var ConfigDefault = Config{
	Next:              nil,
	CacheControlError: "max-age=0",
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.CacheControlError == "" {
		cfg.CacheControlError = ConfigDefault.CacheControlError
	}

	return cfg
}

// New creates a fiber middleware writing one access log line per request.
// Errors returned by the chain are rendered with the app ErrorHandler here,
// so the logged status is the one the client receives.
func New(config ...Config) fiber.Handler {
	var (
		cfg        = configDefault(config...)
		once       sync.Once
		errHandler fiber.ErrorHandler
	)

	accessLogger := zerolog.New(zerolog.MultiLevelWriter(accessWriters(cfg.Config)...)).
		With().
		Timestamp().
		Logger().
		Level(zerolog.NoLevel)

	return func(ctx *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(ctx) {
			return ctx.Next()
		}

		once.Do(func() {
			errHandler = ctx.App().ErrorHandler
		})

		start := time.Now()

		chainErr := ctx.Next()
		if chainErr != nil {
			if err := errHandler(ctx, chainErr); err != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError) //nolint:errcheck // ok here
				ctx.Response().Header.Set(fiber.HeaderCacheControl, cfg.CacheControlError)
			}
		}

		elapsed := time.Since(start).Seconds()
		ctx.Response().Header.Set(HeaderPerformance, strconv.FormatFloat(elapsed, 'f', 6, 64))

		if cfg.Config.DisableCheckAlive && ctx.Path() == cfg.CheckAliveURI {
			return nil
		}

		accessEvent(accessLogger.Log(), ctx, elapsed, chainErr).Send()

		return nil
	}
}

// accessEvent fills the access log fields. The path is the raw request path,
// not the one fasthttp normalized for routing.
func accessEvent(e *zerolog.Event, ctx *fiber.Ctx, elapsed float64, chainErr error) *zerolog.Event {
	uri := string(ctx.Request().URI().PathOriginal())
	if qs := ctx.Request().URI().QueryString(); len(qs) > 0 {
		uri += "?" + string(qs)
	}

	e.Str("IP", ctx.IP()).
		Int("status", ctx.Response().StatusCode()).
		Float64(HeaderPerformance, elapsed).
		Str("URI", uri).
		Str("method", ctx.Method()).
		Bytes("host", ctx.Request().Host()).
		Str(fiber.HeaderXForwardedFor, ctx.Get(fiber.HeaderXForwardedFor)).
		Str(fiber.HeaderUserAgent, ctx.Get(fiber.HeaderUserAgent)).
		Str(fiber.HeaderOrigin, ctx.Get(fiber.HeaderOrigin)).
		Str(fiber.HeaderReferer, ctx.Get(fiber.HeaderReferer))

	if rid, ok := ctx.Locals(RequestIDKey).(string); ok && rid != "" {
		e.Str("requestId", rid)
	}

	if chainErr != nil {
		e.Err(chainErr)
	}

	return e
}

// accessWriters returns the access file and, when enabled, the console.
func accessWriters(cfg logger.Log) []io.Writer {
	var writers []io.Writer

	if cfg.File.Enabled {
		w, err := cfg.File.RollingWriter(cfg.File.Access)
		if err != nil {
			log.Error().Err(err).Msg("access log file disabled")
		} else {
			writers = append(writers, w)
		}
	}

	if cfg.Console.Enabled && cfg.EnableAccessLogToConsole {
		if cfg.Console.UseConsoleWriter {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{zerolog.LevelFieldName},
			})
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	return writers
}
