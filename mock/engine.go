package mock

import (
	"context"

	"github.com/fwojciec/a11ycrawl"
)

// Compile-time interface verification.
var (
	_ a11ycrawl.RuleEngine   = (*RuleEngine)(nil)
	_ a11ycrawl.ScoreEngine  = (*ScoreEngine)(nil)
	_ a11ycrawl.ScriptSource = (*ScriptSource)(nil)
)

// RuleEngine is a mock implementation of a11ycrawl.RuleEngine.
type RuleEngine struct {
	AnalyzeFn func(ctx context.Context, page a11ycrawl.Page) ([]a11ycrawl.Issue, error)
}

func (e *RuleEngine) Analyze(ctx context.Context, page a11ycrawl.Page) ([]a11ycrawl.Issue, error) {
	return e.AnalyzeFn(ctx, page)
}

// ScoreEngine is a mock implementation of a11ycrawl.ScoreEngine.
type ScoreEngine struct {
	AuditFn func(ctx context.Context, url string, conn a11ycrawl.DebugConnection, opts a11ycrawl.AuditOptions) (*a11ycrawl.ScoreResult, error)
}

func (e *ScoreEngine) Audit(ctx context.Context, url string, conn a11ycrawl.DebugConnection, opts a11ycrawl.AuditOptions) (*a11ycrawl.ScoreResult, error) {
	return e.AuditFn(ctx, url, conn, opts)
}

// ScriptSource is a mock implementation of a11ycrawl.ScriptSource.
type ScriptSource struct {
	LoadFn func(ctx context.Context) (string, error)
}

func (s *ScriptSource) Load(ctx context.Context) (string, error) {
	return s.LoadFn(ctx)
}
