package app

import (
	"io"

	"xav-address-service/internal/config"
	"xav-address-service/internal/logx"
)

// NewLogger builds the process logger: JSON via slog, or a zerolog console writer.
func NewLogger(cfg config.Log, w io.Writer) logx.Logger {
	if cfg.Format == "console" {
		return logx.NewConsole(w, cfg.Level)
	}
	return logx.NewJSON(w, cfg.Level)
}
