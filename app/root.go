// Package app implements the main application commands.
package app

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Miraubolant/MiroTrak-sub001/internal/config"
	"github.com/Miraubolant/MiroTrak-sub001/internal/logger"
)

var (
	configPath string // directory holding main.toml
	envFile    string // optional dotenv file loaded before the config

	rootCmd = &cobra.Command{
		Use:   "mirotrak",
		Short: "MiroTrak settings service",
		Long: `MiroTrak settings service stores typed key-value settings and the
PDF template registry and serves both over a JSON api.`,
		Args:         cobra.OnlyValidArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			return nil
		},
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Directory holding main.toml (default ./etc/)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before the configuration")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration and initializes the global logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.ReadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if err = logger.Init(cfg.Log); err != nil {
		return nil, err
	}

	return &cfg, nil
}
