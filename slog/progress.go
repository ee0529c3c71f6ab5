package slog

import (
	"log/slog"

	"github.com/fwojciec/a11ycrawl/crawl"
)

// ProgressLogger returns a progress callback that logs every crawl event.
// Rejections are logged at debug level and failures at warn level.
func ProgressLogger(logger *slog.Logger) crawl.ProgressFunc {
	return func(e crawl.ProgressEvent) {
		attrs := []any{
			"state", e.Type.String(),
			"visited", e.Visited,
			"budget", e.Budget,
		}
		if e.URL != "" {
			attrs = append(attrs, "url", e.URL)
		}

		switch e.Type {
		case crawl.ProgressRejected:
			logger.Debug("skip", append(attrs, "reason", string(e.Reason))...)
		case crawl.ProgressLoaded, crawl.ProgressDone:
			logger.Debug("page", attrs...)
		case crawl.ProgressAnalyzed:
			logger.Info("analyzed", append(attrs, "violations", e.Violations)...)
		case crawl.ProgressExpanded:
			logger.Debug("expanded", append(attrs, "links", e.Links)...)
		case crawl.ProgressFailed, crawl.ProgressScoreFailed, crawl.ProgressExpandFailed, crawl.ProgressCleanupFailed:
			logger.Warn(e.Type.String(), append(attrs, "err", e.Error)...)
		case crawl.ProgressStarted:
			logger.Info("crawl started", attrs...)
		case crawl.ProgressFinished:
			logger.Info("crawl finished", attrs...)
		}
	}
}
