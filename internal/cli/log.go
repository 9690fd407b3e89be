// Package cli implements the macroblock command-line interface.
//
// The commands wrap the pipeline package: generate composites a directory of
// frames, apply a single image, extract splits a video into frames with
// ffmpeg and serve exposes the compositor over HTTP. cache manages the local
// frame cache.
//
// # Configuration
//
// Options come from built-in defaults, then an optional TOML file (--config
// or $MACROBLOCK_CONFIG), then flags the user set explicitly.
//
// # Logging
//
// Logs go to stderr so stdout stays free for summaries. --verbose enables the
// per-frame cache and label debug lines; --quiet keeps only warnings, which
// is also what the --progress view uses while it owns the terminal.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// logTimeFormat keeps centiseconds: frames in a batch finish tens of
// milliseconds apart.
const logTimeFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// runTimer logs how long a command took once it finishes.
type runTimer struct {
	logger *log.Logger
	start  time.Time
}

func startTimer(l *log.Logger) *runTimer {
	return &runTimer{logger: l, start: time.Now()}
}

// finish logs msg with the elapsed time as a structured field, e.g.
//
//	INFO run finished run=5f0c... elapsed=1.234s
func (t *runTimer) finish(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(t.start).Round(time.Millisecond))
	t.logger.Info(msg, keyvals...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default() for contexts that never passed through it (tests, library use).
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
