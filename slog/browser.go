package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/a11ycrawl"
)

// Ensure LoggingLauncher implements a11ycrawl.BrowserLauncher.
var _ a11ycrawl.BrowserLauncher = (*LoggingLauncher)(nil)

// LoggingLauncher wraps a BrowserLauncher with logging of the launch and
// of the browser's debugging endpoint.
type LoggingLauncher struct {
	next   a11ycrawl.BrowserLauncher
	logger *slog.Logger
}

// NewLoggingLauncher creates a new LoggingLauncher.
func NewLoggingLauncher(next a11ycrawl.BrowserLauncher, logger *slog.Logger) *LoggingLauncher {
	return &LoggingLauncher{next: next, logger: logger}
}

// Launch delegates to the wrapped launcher and logs the operation.
func (l *LoggingLauncher) Launch(ctx context.Context) (browser a11ycrawl.Browser, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin), "err", err}
		if browser != nil {
			conn := browser.DebugConnection()
			attrs = append(attrs, "host", conn.Host, "port", conn.Port)
		}
		l.logger.Debug("browser launch", attrs...)
	}(time.Now())
	return l.next.Launch(ctx)
}
