package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/broadsea-tools/broadseactl/pkg/settings"
)

func saveLogger(t *testing.T) {
	t.Helper()
	prevLogger := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
}

func TestApplyLoggingLevel(t *testing.T) {
	saveLogger(t)

	applyLogging(settings.LoggingSettings{Level: "error", Format: "console"}, &bytes.Buffer{})
	if zerolog.GlobalLevel() != zerolog.ErrorLevel {
		t.Errorf("expected error level, got %s", zerolog.GlobalLevel())
	}
}

func TestApplyLoggingJSONFormat(t *testing.T) {
	saveLogger(t)

	var buf bytes.Buffer
	applyLogging(settings.LoggingSettings{Level: "info", Format: "json"}, &buf)

	log.Info().Str("key", "DB_HOST").Msg("resolved")

	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "{") || !strings.Contains(line, `"message":"resolved"`) {
		t.Errorf("expected JSON log line, got %q", line)
	}
}

func TestApplyLoggingEnvVarWins(t *testing.T) {
	saveLogger(t)
	t.Setenv("LOG_LEVEL", "warn")
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	applyLogging(settings.LoggingSettings{Level: "debug", Format: "console"}, &bytes.Buffer{})
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("LOG_LEVEL must win over the settings file, got %s", zerolog.GlobalLevel())
	}
}
