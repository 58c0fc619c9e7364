package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New construye o *zap.Logger da aplicação.
// LOG_FORMAT=json usa o encoder de produção; qualquer outro valor usa console.
func New(level, format string) *zap.Logger {
	lvl := parseLevel(level)

	var cfg zap.Config
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	log, err := cfg.Build()
	if err != nil {
		// Config inválida aqui é bug de programação, não de ambiente.
		panic(err)
	}
	return log
}

// NewFromEnv lê LOG_LEVEL e LOG_FORMAT do ambiente.
func NewFromEnv() *zap.Logger {
	return New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
