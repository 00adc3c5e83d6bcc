package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New は GO_ENV に応じた zap.Logger を返す（prodはJSON、それ以外はコンソール）。
func New(env string) (*zap.Logger, error) {
	if env == "prod" {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}
