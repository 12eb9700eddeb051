package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/1broseidon/displaywall/internal/config"
)

func TestLoggerBeforeInitializeIsNop(t *testing.T) {
	ResetForTest()
	l := Logger()
	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zap.ErrorLevel))
}

func TestInitializeJSON(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LogConfig{Level: "debug", Format: "json"}, zapcore.AddSync(&buf))
	Logger().Debug("window added", zap.String("window", "abc"))
	Sync()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "window added", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, ServiceName, entry["logger"])
	assert.Equal(t, "abc", entry["window"])
}

func TestInitializeLevelFilters(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LogConfig{Level: "warning", Format: "console"}, zapcore.AddSync(&buf))
	Logger().Info("hidden")
	Logger().Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Equal(t, "warn", Level())

	SetLevel("debug")
	Logger().Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestInitializeOnlyOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second bytes.Buffer
	Initialize(config.LogConfig{Level: "info", Format: "json"}, zapcore.AddSync(&first))
	Initialize(config.LogConfig{Level: "info", Format: "json"}, zapcore.AddSync(&second))
	Logger().Info("hello")

	assert.Contains(t, first.String(), "hello")
	assert.Empty(t, second.String())
}

func TestInitializeWritesRotatedFile(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	path := filepath.Join(t.TempDir(), "wall.log")
	var console bytes.Buffer
	Initialize(config.LogConfig{Level: "info", Format: "console", File: path, MaxSizeMB: 1, MaxBackups: 1}, zapcore.AddSync(&console))
	Logger().Info("to file")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.True(t, json.Valid([]byte(line)), "file output should be json: %s", line)
	assert.Contains(t, line, "to file")
}
