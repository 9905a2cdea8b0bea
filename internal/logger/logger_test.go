package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want zapcore.Level
	}{
		{name: "default is warn", opts: Options{}, want: zapcore.WarnLevel},
		{name: "explicit level", opts: Options{Level: "INFO"}, want: zapcore.InfoLevel},
		{name: "verbose forces debug", opts: Options{Level: "error", Verbose: true}, want: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.opts)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNew_RejectsBadOptions(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.ErrorContains(t, err, "invalid log level")

	_, err = New(Options{Format: "xml"})
	assert.ErrorContains(t, err, "invalid log format")
}

func TestNew_JSONToFileWithRunID(t *testing.T) {
	t.Cleanup(func() { globalContext = &CrashContext{} })
	path := filepath.Join(t.TempDir(), "contactbook.log")

	base, err := New(Options{Level: "info", Format: FormatJSON, File: path})
	require.NoError(t, err)

	l, runID := WithRunID(base)
	l.Info("contact added")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "contact added", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, runID, entry["run_id"])

	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()
	assert.Equal(t, runID, globalContext.runID, "run id is shared with crash reports")
}
