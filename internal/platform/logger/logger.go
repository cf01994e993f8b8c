package logger

import (
	"log/slog"
	"os"
)

// New returns the JSON slog logger used across services and middleware.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
