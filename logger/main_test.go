package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestGetZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, getZapLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, getZapLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, getZapLevel("bogus"))
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", zapcore.AddSync(&buf), false).Sugar()

	log.Info("hidden")
	log.Warn("shown")
	_ = log.Sync()

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "WARN")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestNewColorize(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", zapcore.AddSync(&buf), true).Sugar()
	log.Error("boom")
	_ = log.Sync()

	assert.Contains(t, buf.String(), "\x1b[")
}

func TestShouldColorizeRegularFile(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	assert.False(t, shouldColorize(file))
}
