// Package logging builds the application's zap logger from configuration.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/linkstash/linkstash/framework/config"
)

// New constructs a *zap.Logger for the configured environment: JSON output in
// production, console output otherwise. LOG_LEVEL values that fail to parse
// fall back to info.
func New(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build(zap.Fields(zap.String("app", cfg.App.Name)))
}
