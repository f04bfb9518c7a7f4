package textcomp

import (
	"log/slog"

	"github.com/gogpu/textcomp/internal/logging"
)

// SetLogger configures the logger for textcomp and all its sub-packages.
// By default, textcomp produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by textcomp:
//   - [slog.LevelDebug]: resource (re)creation (surface textures, text target, bind groups)
//   - [slog.LevelInfo]: lifecycle events (backend created, processor recompiled)
//   - [slog.LevelWarn]: skipped frames, surface recovery, GPU wait timeouts
//
// Example:
//
//	// Enable debug-level logging for full diagnostics:
//	textcomp.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by textcomp.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
