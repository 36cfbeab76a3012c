package config

import (
	"go.viam.com/utils"

	"go.hpp.dev/manipulation/logging"
)

// LogConfig selects the log level and an optional rotated log file.
type LogConfig struct {
	Level     string `json:"level,omitempty"`
	File      string `json:"file,omitempty"`
	MaxSizeMB int    `json:"max_size_mb,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg LogConfig) Validate(path string) error {
	if cfg.Level == "" {
		return nil
	}
	if _, err := logging.LevelFromString(cfg.Level); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	return nil
}

// NewLogger builds the logger described by the config. The debug flag overrides the configured
// level and turns on per-request debug logging on remote services.
func (cfg LogConfig) NewLogger(name string, debug bool) logging.Logger {
	logger := logging.NewLogger(name)
	level := logging.INFO
	if parsed, err := logging.LevelFromString(cfg.Level); err == nil && cfg.Level != "" {
		level = parsed
	}
	if debug {
		level = logging.DEBUG
	}
	logger.SetLevel(level)
	if cfg.File != "" {
		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		logger.AddAppender(logging.NewFileAppender(logging.FileAppenderConfig{
			Filename:   cfg.File,
			MaxSizeMB:  maxSize,
			MaxBackups: 3,
		}))
	}
	logger.Infow("log level initialized", "level", level)
	return logger
}
