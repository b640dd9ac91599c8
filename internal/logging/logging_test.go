package logging

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := logger.Out
	originalLevel := logger.GetLevel()
	logger.SetOutput(&buf)
	t.Cleanup(func() {
		logger.SetOutput(original)
		logger.SetLevel(originalLevel)
	})
	return &buf
}

func TestDefaultOutputIsDiscarded(t *testing.T) {
	assert.Equal(t, io.Discard, logger.Out)
}

func TestSetLevel(t *testing.T) {
	buf := captureOutput(t)

	SetLevel(InfoLevel)
	WithComponent("test").Debug("debug message")
	assert.Empty(t, buf.String())

	WithComponent("test").Info("info message")
	assert.Contains(t, buf.String(), "info message")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestWithComponent(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(DebugLevel)

	WithComponent("loop").WithField("tick", 3).Info("cycle done")

	out := buf.String()
	assert.Contains(t, out, "cycle done")
	assert.Contains(t, out, "component=loop")
	assert.Contains(t, out, "tick=3")
}

func TestWithComponentFields(t *testing.T) {
	buf := captureOutput(t)

	WithComponent("main").WithFields(logrus.Fields{"iface": "eth0"}).Error("rebaseline")

	out := buf.String()
	assert.Contains(t, out, "component=main")
	assert.Contains(t, out, "iface=eth0")
}

func TestFileLogging(t *testing.T) {
	captureOutput(t)
	path := filepath.Join(t.TempDir(), "logs", "netrate.log")

	closer, err := EnableFileLogging(path, 1, 1, 1)
	require.NoError(t, err)

	WithComponent("test").Error("file log message")
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "file log message")
}
