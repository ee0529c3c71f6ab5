package crawl

import (
	"context"

	"github.com/fwojciec/a11ycrawl"
)

// Analyzer runs the configured engines against a loaded page and
// normalizes their output into a single PageAnalysis.
type Analyzer struct {
	// Rules is required. A rule engine failure drops the page.
	Rules a11ycrawl.RuleEngine

	// Score is optional. Its failures are reported on the analysis and
	// never fail the page.
	Score        a11ycrawl.ScoreEngine
	AuditOptions a11ycrawl.AuditOptions
}

// Analyze runs the rule-based engine and, when configured, the score-based
// engine against page. conn locates the browser for engines that attach
// out of process.
func (a *Analyzer) Analyze(ctx context.Context, page a11ycrawl.Page, conn a11ycrawl.DebugConnection) (*a11ycrawl.PageAnalysis, error) {
	if a.Rules == nil {
		return nil, a11ycrawl.Errorf(a11ycrawl.EINVALID, "no rule engine configured")
	}

	violations, err := a.Rules.Analyze(ctx, page)
	if err != nil {
		return nil, a11ycrawl.Errorf(a11ycrawl.EANALYZE, "rule engine on %s: %v", page.URL(), err)
	}
	if violations == nil {
		violations = []a11ycrawl.Issue{}
	}

	analysis := &a11ycrawl.PageAnalysis{Violations: violations}
	if a.Score == nil {
		return analysis, nil
	}

	score, err := a.Score.Audit(ctx, page.URL(), conn, a.AuditOptions)
	if err != nil {
		analysis.ScoreErr = err
		return analysis, nil
	}
	analysis.Score = score
	return analysis, nil
}
