package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-starfield/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func initBuffered(t *testing.T, cfg config.LoggerConfig) *bytes.Buffer {
	t.Helper()
	ResetForTest()
	t.Cleanup(ResetForTest)
	var buf bytes.Buffer
	Initialize(cfg, zapcore.AddSync(&buf))
	return &buf
}

func TestInitialize(t *testing.T) {
	t.Run("console output is colorized", func(t *testing.T) {
		buf := initBuffered(t, config.LoggerConfig{
			Level:       "debug",
			Format:      "console",
			ServiceName: "starfield",
			Colors:      config.ColorConfig{Info: "green"},
		})
		GetLogger().Info("theme toggled")
		Sync()

		out := buf.String()
		assert.Contains(t, out, "theme toggled")
		assert.Contains(t, out, colorGreen+"INFO"+colorReset)
		assert.Contains(t, out, "starfield.")
	})

	t.Run("json output carries the session id", func(t *testing.T) {
		buf := initBuffered(t, config.LoggerConfig{
			Level:       "info",
			Format:      "json",
			ServiceName: "starfield",
		})
		GetLogger().Warn("sink failed", zap.String("backend", "wgpu"))
		Sync()

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "starfield", entry["logger"])
		assert.Equal(t, "sink failed", entry["msg"])
		assert.Equal(t, "wgpu", entry["backend"])
		assert.Equal(t, SessionID(), entry["session"])
		assert.NotEmpty(t, SessionID())
	})

	t.Run("level filters entries", func(t *testing.T) {
		buf := initBuffered(t, config.LoggerConfig{Level: "warn", Format: "json"})
		GetLogger().Info("hidden")
		Sync()
		assert.Empty(t, buf.String())
	})

	t.Run("rotated file sink receives entries", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "starfield.log")
		initBuffered(t, config.LoggerConfig{
			Level:   "debug",
			Format:  "json",
			LogFile: path,
			MaxSize: 1,
		})
		GetLogger().Error("written to file")
		Sync()

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "written to file")
	})

	t.Run("only the first call wins", func(t *testing.T) {
		buf := initBuffered(t, config.LoggerConfig{Level: "info", Format: "json", ServiceName: "first"})
		first := GetLogger()

		var other bytes.Buffer
		Initialize(config.LoggerConfig{Level: "debug", ServiceName: "second"}, zapcore.AddSync(&other))
		assert.Same(t, first, GetLogger())

		GetLogger().Info("hello")
		Sync()
		assert.Contains(t, buf.String(), "first")
		assert.Empty(t, other.String())
	})
}

func TestInitializeLogger_WritesToStderr(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stderr := os.Stderr
	os.Stderr = w
	t.Cleanup(func() { os.Stderr = stderr })

	ResetForTest()
	t.Cleanup(ResetForTest)
	InitializeLogger(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "starfield"})
	GetLogger().Info("to stderr")
	Sync()
	require.NoError(t, w.Close())

	var out bytes.Buffer
	_, err = out.ReadFrom(r)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "to stderr")
	assert.Contains(t, out.String(), SessionID())
}

func TestGetLoggerFallback(t *testing.T) {
	ResetForTest()
	assert.NotNil(t, GetLogger())
	assert.Empty(t, SessionID())
}
