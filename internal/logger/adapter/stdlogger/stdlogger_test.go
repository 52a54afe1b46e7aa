package stdlogger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miraubolant/MiroTrak-sub001/internal/logger/adapter/stdlogger"
)

type line struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	Component string `json:"component"`
}

// capture swaps the global logger for one writing into a buffer.
func capture(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	previous := log.Logger
	previousLevel := zerolog.GlobalLevel()

	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(level)

	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(previousLevel)
	})

	return &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []line {
	t.Helper()

	var out []line

	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}

		var l line
		require.NoError(t, json.Unmarshal([]byte(raw), &l))
		out = append(out, l)
	}

	return out
}

func TestLevels(t *testing.T) {
	buf := capture(t, zerolog.InfoLevel)

	testLogger := stdlogger.New()
	testLogger.Debugf("stdlogger %s", "test debug")
	testLogger.Infof("stdlogger %s", "test info")
	testLogger.Warningf("stdlogger %s", "test warning")
	testLogger.Errorf("stdlogger %s", "test error")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 3, "debug is below the global level")

	assert.Equal(t, line{Level: "info", Message: "stdlogger test info"}, lines[0])
	assert.Equal(t, line{Level: "warn", Message: "stdlogger test warning"}, lines[1])
	assert.Equal(t, line{Level: "error", Message: "stdlogger test error"}, lines[2])
}

func TestPrintfMapsGormLevels(t *testing.T) {
	buf := capture(t, zerolog.TraceLevel)

	testLogger := stdlogger.NewComponent("gorm")
	testLogger.Printf("%s\n[info] migrated %d tables", "settings.go:12", 1)
	testLogger.Printf("%s\n[warn] deprecated option", "db.go:40")
	testLogger.Printf("%s\n[error] failed to connect", "db.go:41")
	testLogger.Printf("%s SLOW SQL >= %v", "setting.go:99", "200ms")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 4)

	assert.Equal(t, "info", lines[0].Level)
	assert.Equal(t, "warn", lines[1].Level)
	assert.Equal(t, "error", lines[2].Level)
	assert.Equal(t, "warn", lines[3].Level)

	for _, l := range lines {
		assert.Equal(t, "gorm", l.Component)
	}
}
