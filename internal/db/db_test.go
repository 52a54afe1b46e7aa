package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Miraubolant/MiroTrak-sub001/internal/config"
	"github.com/Miraubolant/MiroTrak-sub001/internal/db/models"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{DB: config.DB{
		GormEngine: config.EngineSQLite,
		Path:       filepath.Join(t.TempDir(), "test.db"),
		LogLevel:   "silent",
	}}

	db, err := Open(cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable(&models.Setting{}))
	assert.True(t, db.Migrator().HasIndex(&models.Setting{}, "Key"))
}

func TestOpenUnsupportedEngine(t *testing.T) {
	_, err := Open(&config.Config{DB: config.DB{GormEngine: "oracle"}})
	require.ErrorIs(t, err, config.ErrUnsupportedGormEngine)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, parseLevel("silent"))
	assert.Equal(t, gormlogger.Error, parseLevel("ERROR"))
	assert.Equal(t, gormlogger.Info, parseLevel("info"))
	assert.Equal(t, gormlogger.Warn, parseLevel(""))
}
