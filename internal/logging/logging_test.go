package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-todo-client/internal/logging"
)

func restoreGlobals(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
}

func TestSetup_JSONOutsideDev(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer

	l := logging.Setup("PROD", "warn", &buf)
	l.Info().Msg("hidden")
	log.Warn().Str("component", "test").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	require.Equal(t, "shown", entry["message"])
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "test", entry["component"])
}

func TestSetup_UnknownLevelIsInfo(t *testing.T) {
	restoreGlobals(t)
	logging.Setup("PROD", "chatty", &bytes.Buffer{})
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestSetup_ConsoleInDev(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer
	logging.Setup("DEV", "debug", &buf)
	log.Debug().Msg("hello")
	require.Contains(t, buf.String(), "hello")
	require.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
