package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "info", cfg.Level)
	assert.Empty(t, cfg.File)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected string
	}{
		{"debug", "debug", "DEBUG"},
		{"Debug uppercase", "DEBUG", "DEBUG"},
		{"info", "info", "INFO"},
		{"warn", "warn", "WARN"},
		{"warning alias", "warning", "WARN"},
		{"error", "error", "ERROR"},
		{"unknown defaults to info", "unknown", "INFO"},
		{"empty defaults to info", "", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level).String())
		})
	}
}

func TestSetupWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(Config{Format: "json", Level: "debug"}, &buf)

	Debug("scan finished", "games", 3)

	assert.Contains(t, buf.String(), `"msg":"scan finished"`)
	assert.Contains(t, buf.String(), `"games":3`)
}

func TestSetupWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(Config{Format: "text", Level: "warn"}, &buf)

	Info("hidden")
	Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetup_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gameswiki.log")

	closer, err := Setup(Config{Format: "text", Level: "info", File: path})
	require.NoError(t, err)

	Info("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")

	SetupWriter(DefaultConfig(), os.Stderr)
}

func TestGet_ReturnsDefaultBeforeSetup(t *testing.T) {
	oldLogger := logger
	logger = nil
	defer func() { logger = oldLogger }()

	assert.NotNil(t, Get())
}

func TestLogFunctions_DoNotPanic(t *testing.T) {
	SetupWriter(DefaultConfig(), &bytes.Buffer{})

	assert.NotPanics(t, func() { Debug("test message") })
	assert.NotPanics(t, func() { Info("test message") })
	assert.NotPanics(t, func() { Warn("test message") })
	assert.NotPanics(t, func() { Error("test message") })
}
