// Package slog provides logging decorators for the crawler's services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/a11ycrawl"
)

// Ensure decorators implement their interfaces.
var (
	_ a11ycrawl.RuleEngine  = (*LoggingRuleEngine)(nil)
	_ a11ycrawl.ScoreEngine = (*LoggingScoreEngine)(nil)
)

// LoggingRuleEngine wraps a RuleEngine with debug logging.
type LoggingRuleEngine struct {
	next   a11ycrawl.RuleEngine
	logger *slog.Logger
}

// NewLoggingRuleEngine creates a new LoggingRuleEngine.
func NewLoggingRuleEngine(next a11ycrawl.RuleEngine, logger *slog.Logger) *LoggingRuleEngine {
	return &LoggingRuleEngine{next: next, logger: logger}
}

// Analyze delegates to the wrapped engine and logs the operation.
func (e *LoggingRuleEngine) Analyze(ctx context.Context, page a11ycrawl.Page) (issues []a11ycrawl.Issue, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("rule analysis",
			"url", page.URL(),
			"violations", len(issues),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Analyze(ctx, page)
}

// LoggingScoreEngine wraps a ScoreEngine with debug logging.
type LoggingScoreEngine struct {
	next   a11ycrawl.ScoreEngine
	logger *slog.Logger
}

// NewLoggingScoreEngine creates a new LoggingScoreEngine.
func NewLoggingScoreEngine(next a11ycrawl.ScoreEngine, logger *slog.Logger) *LoggingScoreEngine {
	return &LoggingScoreEngine{next: next, logger: logger}
}

// Audit delegates to the wrapped engine and logs the operation.
func (e *LoggingScoreEngine) Audit(ctx context.Context, url string, conn a11ycrawl.DebugConnection, opts a11ycrawl.AuditOptions) (result *a11ycrawl.ScoreResult, err error) {
	defer func(begin time.Time) {
		score := -1
		if result != nil {
			score = result.Score
		}
		e.logger.Debug("score audit",
			"url", url,
			"port", conn.Port,
			"score", score,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Audit(ctx, url, conn, opts)
}
