package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Miraubolant/MiroTrak-sub001/internal/db"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		gdb, err := db.Open(cfg)
		if err != nil {
			return err
		}

		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}

		defer func() {
			_ = sqlDB.Close()
		}()

		if err = db.Migrate(gdb); err != nil {
			return err
		}

		log.Info().Str("engine", cfg.DB.GormEngine).Msg("database schema is up to date")

		return nil
	},
}
