package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_TeesFileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "lead_agent.log")
	var console bytes.Buffer

	logger, closeFn, err := New(Options{Level: "debug", Path: path, Console: &console, ConsoleLevel: "warn"})
	require.NoError(t, err)

	logger.Debug("debug only in file", zap.String("seed_url", "https://a.com"))
	logger.Warn("warn everywhere")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "debug only in file")
	require.Contains(t, string(data), `"seed_url":"https://a.com"`)
	require.Contains(t, string(data), "warn everywhere")

	require.NotContains(t, console.String(), "debug only in file")
	require.Contains(t, console.String(), "warn everywhere")
}

func TestNew_NoOutputs(t *testing.T) {
	logger, closeFn, err := New(Options{})
	require.NoError(t, err)
	logger.Info("dropped")
	require.NoError(t, closeFn())
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, zapcore.InfoLevel, l)

	l, err = ParseLevel(" WARN ")
	require.NoError(t, err)
	require.Equal(t, zapcore.WarnLevel, l)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}

func TestFileWriter_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.log")
	w, err := newFileWriter(path, 100, 40)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Write([]byte(strings.Repeat("a", 90)))
	require.NoError(t, err)
	_, err = w.Write([]byte(strings.Repeat("b", 30)))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 40)
	require.Equal(t, strings.Repeat("a", 10)+strings.Repeat("b", 30), string(data))
}
