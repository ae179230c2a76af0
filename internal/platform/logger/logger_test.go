package logger

import (
	"os"
	"testing"
	"time"

	"github.com/huy11113/cinetaste-ai/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("chatty"))
}

func TestForEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "")
	os.Unsetenv("LOG_FORMAT")

	assert.Equal(t, "json", ForEnv("production").Format)
	assert.Equal(t, "console", ForEnv("development").Format)
	assert.Equal(t, "debug", ForEnv("production").Level)

	t.Setenv("LOG_FORMAT", "console")
	assert.Equal(t, "console", ForEnv("production").Format)
}

func TestShouldEnableColor(t *testing.T) {
	t.Setenv("LOG_COLOR", "0")
	assert.False(t, shouldEnableColor())

	t.Setenv("LOG_COLOR", "true")
	assert.True(t, shouldEnableColor())
}

func TestBuild_ColoredConsole(t *testing.T) {
	l, level, err := Build(Config{Level: "warn", Format: "console", EnableColor: true})
	require.NoError(t, err)
	assert.NotNil(t, l)
	assert.Equal(t, zapcore.WarnLevel, level.Level())
}

func TestColoredEncoder_HighlightsFields(t *testing.T) {
	cli.SetEnabled(true)
	t.Cleanup(func() { cli.SetEnabled(true) })

	enc := NewColoredConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	buf, err := enc.EncodeEntry(
		zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Unix(0, 0), Message: "Generation succeeded"},
		[]zapcore.Field{zap.Int("attempt", 2)},
	)
	require.NoError(t, err)

	line := buf.String()
	assert.Contains(t, line, "Generation succeeded\t")
	assert.Contains(t, line, cli.Blue+`"attempt"`+cli.ResetCode+":")
}
