package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"info":  logrus.InfoLevel,
		"warn":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"bogus": logrus.InfoLevel,
		"":      logrus.InfoLevel,
	}
	for level, want := range cases {
		log, err := New(level, "")
		require.NoError(t, err)
		assert.Equal(t, want, log.GetLevel(), "level %q", level)
		assert.NoError(t, log.Close())
	}
}

func TestNew_WritesToFileAndOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "emcee.log")
	var buf bytes.Buffer

	log, err := newWithOutput(&buf, "info", path)
	require.NoError(t, err)

	log.WithField("prompt_len", 12).Info("Script generated")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Script generated")
	assert.Contains(t, string(data), "prompt_len=12")
	assert.Contains(t, buf.String(), "Script generated")
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer

	log, err := newWithOutput(&buf, "warn", "")
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_BadLogPath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, err := New("info", filepath.Join(file, "emcee.log"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create log directory")
}
