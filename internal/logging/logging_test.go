package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"INFO":    log.InfoLevel,
		"warn":    log.WarnLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"":        log.InfoLevel,
		"chatty":  log.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	t.Setenv("BOOKCLUB_LOG_LEVEL", "")

	var buf bytes.Buffer
	logger := New(Options{Level: "warn", Output: &buf, Prefix: "e2e"})
	logger.Info("hidden")
	logger.Warn("shown", "scenario", "sign-up")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "scenario=sign-up")
	assert.Contains(t, out, "e2e")
}

func TestNew_EnvOverride(t *testing.T) {
	t.Setenv("BOOKCLUB_LOG_LEVEL", "debug")

	var buf bytes.Buffer
	New(Options{Level: "error", Output: &buf}).Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}
