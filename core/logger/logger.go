package logger

import (
	"blob-gateway/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Service is attached to every entry so gateway logs can be told apart
// from the host application's when both ship to one sink.
const Service = "blob-gateway"

// New builds the process logger. Debug level switches to zap's development
// preset; an unparsable level falls back to info.
func New(cfg *Config) (*zap.Logger, error) {
	zc := baseConfig(cfg.Level)
	applyFormat(&zc, cfg.Format)

	enc := &zc.EncoderConfig
	enc.LevelKey, enc.TimeKey, enc.MessageKey = "level", "time", "message"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	return zc.Build(zap.Fields(zap.String("service", Service)))
}

func baseConfig(level string) zap.Config {
	if level == "debug" {
		return zap.NewDevelopmentConfig()
	}
	zc := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zc
}

func applyFormat(zc *zap.Config, format string) {
	switch format {
	case "console":
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.DisableStacktrace = true
	default:
		zc.Encoding = "json"
	}
}

// WithRayID tags l with the request's ray id, when the rayid middleware set one.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	if id, ok := c.Locals(rayid.LocalsKey).(string); ok && id != "" {
		return l.With(zap.String("ray_id", id))
	}
	return l
}
