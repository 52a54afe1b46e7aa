// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. MIROTRAK_WEBSERVER_PORT.
	EnvPrefix = "MIROTRAK"

	// EnvConfigJSON holds a JSON document merged over the file configuration.
	EnvConfigJSON = "MIROTRAK_CONFIG_JSON"

	defaultPath = "./etc/"
	configName  = "main"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = defaultPath
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath(path)

	setDefaults(v)

	// every key known to viper can be overridden from env
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("devMode", false)
	v.SetDefault("title", "MiroTrak")

	v.SetDefault("db.gormEngine", EngineSQLite)
	v.SetDefault("db.path", "mirotrak.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 0)
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "mirotrak")
	v.SetDefault("db.extras", "")
	v.SetDefault("db.logLevel", "warn")

	v.SetDefault("log.logLevel", "info")
	v.SetDefault("log.appName", "mirotrak")
	v.SetDefault("log.serviceName", "mirotrak-api")
	v.SetDefault("log.console.enabled", true)
	v.SetDefault("log.file.path", "./logs")

	for _, f := range []string{"access", "error", "info", "trace", "warn"} {
		v.SetDefault("log.file."+f+".name", f+".log")
		v.SetDefault("log.file."+f+".maxSize", 100)
		v.SetDefault("log.file."+f+".maxBackups", 5)
		v.SetDefault("log.file."+f+".maxAge", 7)
	}

	v.SetDefault("webserver.port", 8080)
	v.SetDefault("webserver.shutDownTime", 5)
	v.SetDefault("webserver.bodyLimit", 4*1024*1024)
	v.SetDefault("webserver.allowOrigins", "*")
	v.SetDefault("webserver.apiTokenHash", "")
	v.SetDefault("webserver.rateLimit.enabled", false)
	v.SetDefault("webserver.rateLimit.max", 120)
	v.SetDefault("webserver.rateLimit.expiration", time.Minute)
	v.SetDefault("webserver.rateLimit.storage", "memory")
	v.SetDefault("webserver.rateLimit.table", "rate_limits")

	v.SetDefault("seed.defaultTemplates", true)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config override")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate the settings the service can not start without and fill in
// fallbacks for optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case EngineMySQL, EnginePostgres:
	case EngineSQLite:
		if c.DB.Path == "" {
			return errors.Wrap(ErrEmptySQLitePath, invalidErrMessage)
		}
	default:
		return errors.Wrap(ErrUnsupportedGormEngine, invalidErrMessage)
	}

	c.Webserver.RateLimit.Storage = NormalizeStorage(c.Webserver.RateLimit.Storage)

	switch c.Webserver.RateLimit.Storage {
	case "", "memory", EngineMySQL, EnginePostgres:
	default:
		return errors.Wrap(ErrUnsupportedRateLimitStorage, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	return nil
}

// NormalizeStorage folds a rate limit storage name to its canonical lower case form.
func NormalizeStorage(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
