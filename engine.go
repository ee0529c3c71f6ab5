package a11ycrawl

import "context"

// RuleEngine produces discrete accessibility violations for a loaded page.
type RuleEngine interface {
	// Analyze runs the engine against the page's current document.
	// It does not navigate.
	Analyze(ctx context.Context, page Page) ([]Issue, error)
}

// ScoreEngine produces a 0-100 accessibility score for a URL.
// Implementations open their own tab through the debug connection, so
// they are independent of any Page handle.
type ScoreEngine interface {
	Audit(ctx context.Context, url string, conn DebugConnection, opts AuditOptions) (*ScoreResult, error)
}

// AuditOptions tunes a score-based audit.
type AuditOptions struct {
	// FormFactor is "desktop" or "mobile". Empty uses the engine default.
	FormFactor string

	// Locale sets the language of audit titles. Empty uses the engine default.
	Locale string
}

// ScriptSource loads JavaScript source code, such as an engine bundle that
// is injected into pages.
type ScriptSource interface {
	Load(ctx context.Context) (string, error)
}
