package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level       string // debug, info, warn, error
	Format      string // json, console
	EnableColor bool   // console only
}

var (
	globalLogger *zap.Logger
	atom         zap.AtomicLevel
	once         sync.Once
)

// DefaultConfig reads LOG_LEVEL, LOG_FORMAT and LOG_COLOR.
func DefaultConfig() Config {
	return Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Format:      getEnv("LOG_FORMAT", "console"),
		EnableColor: shouldEnableColor(),
	}
}

// ForEnv returns DefaultConfig with JSON output in production unless
// LOG_FORMAT says otherwise.
func ForEnv(env string) Config {
	cfg := DefaultConfig()
	if env == "production" {
		if _, set := os.LookupEnv("LOG_FORMAT"); !set {
			cfg.Format = "json"
		}
	}
	return cfg
}

// Build creates a logger from cfg without touching the global one.
func Build(cfg Config) (*zap.Logger, zap.AtomicLevel, error) {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder

	encoding := cfg.Format
	if encoding != "json" {
		encoding = "console"
	}
	if encoding == "console" {
		enc.EncodeCaller = zapcore.ShortCallerEncoder
		enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		if cfg.EnableColor {
			enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
			encoding = coloredEncoding
		}
	}

	level := zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	zc := zap.Config{
		Level:             level,
		Encoding:          encoding,
		EncoderConfig:     enc,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: cfg.Level != "debug" && cfg.Level != "error",
	}

	l, err := zc.Build(zap.AddCallerSkip(1))
	return l, level, err
}

// Initialize sets the global logger once.
func Initialize(cfg Config) {
	once.Do(func() {
		l, level, err := Build(cfg)
		if err != nil {
			panic("failed to initialize logger: " + err.Error())
		}
		globalLogger, atom = l, level
	})
}

func Get() *zap.Logger {
	if globalLogger == nil {
		Initialize(DefaultConfig())
	}
	return globalLogger
}

// SetLevel changes the global level at runtime.
func SetLevel(lvl string) {
	Get()
	atom.SetLevel(parseLevel(lvl))
}

func With(fields ...zap.Field) *zap.Logger {
	return Get().With(fields...)
}

func Info(msg string, fields ...zap.Field)  { Get().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Get().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Get().Error(msg, fields...) }
func Debug(msg string, fields ...zap.Field) { Get().Debug(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { Get().Fatal(msg, fields...) }

func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.ToLower(value)
	}
	return fallback
}

func parseLevel(lvl string) zapcore.Level {
	l, err := zapcore.ParseLevel(strings.ToLower(lvl))
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// https://no-color.org/ wins over LOG_COLOR
func shouldEnableColor() bool {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	if val := os.Getenv("LOG_COLOR"); val != "" {
		return val == "true" || val == "1"
	}
	return true
}
