// Package app provides logger initialization.
package app

import (
	"github.com/guttosm/loadplan-service/config"
	"github.com/guttosm/loadplan-service/internal/logger"
)

// InitializeLogger initializes the global logger from the log configuration.
func InitializeLogger(cfg config.LogConfig) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	logger.Init(level, cfg.Pretty)
}
