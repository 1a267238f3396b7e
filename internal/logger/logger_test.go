package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{" error ", ErrorLevel},
		{"fatal", FatalLevel},
		{"", InfoLevel},
		{"verbose", InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, WarnLevel)

	log.Debug("hidden %d", 1)
	log.Info("hidden %d", 2)
	log.Warn("shown %d", 3)
	log.Error("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown 3")
	assert.Contains(t, out, "[ERROR] shown 4")
}

func TestNamedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := New(&buf, InfoLevel)
	child := root.Named("organizer").Named("s1")

	child.Debug("before")
	root.SetLevel(DebugLevel)
	child.Debug("after")

	out := buf.String()
	assert.NotContains(t, out, "before")
	assert.Contains(t, out, "[DEBUG] organizer.s1: after")
}

func TestNewLoggerFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pdfworks.log")
	log, err := NewLogger(LogConfig{Output: "file", FilePath: path, Level: "debug"})
	require.NoError(t, err)

	log.Debug("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestNewLoggerInvalidOutput(t *testing.T) {
	_, err := NewLogger(LogConfig{Output: "syslog"})
	assert.Error(t, err)
}

func TestNoOpLoggerFatalDoesNotExit(t *testing.T) {
	log := NewNoOpLogger()
	log.Fatal("ignored")
}
