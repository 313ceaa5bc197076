package app

import (
	"os"

	"wm-pickup/internal/config"
	"wm-pickup/internal/logx"
)

// NewLogger builds the JSON logger at the configured level.
func NewLogger(cfg *config.Config) logx.Logger {
	return logx.NewJSON(os.Stdout, logx.ParseLevel(cfg.LogLevel))
}
