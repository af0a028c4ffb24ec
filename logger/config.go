package logger

import (
	"go.uber.org/zap/zapcore"
)

// Config configures the logger of a command.
type Config struct {
	// Format is one of auto, console, json or logfmt.
	Format string        `toml:"format"`
	Level  zapcore.Level `toml:"level"`
}

// NewConfig returns a new instance of Config with defaults.
func NewConfig() Config {
	return Config{
		Format: "auto",
		Level:  zapcore.InfoLevel,
	}
}
