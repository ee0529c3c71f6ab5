package a11ycrawl

import "time"

// PageResult is the outcome of analyzing one crawl target. A PageResult is
// immutable once it has been appended to a Session.
type PageResult struct {
	URL        string       `json:"url"`
	AnalyzedAt time.Time    `json:"analyzedAt"`
	Violations []Issue      `json:"violations"`
	Score      *ScoreResult `json:"score,omitempty"`
}

// ScoreResult is the output of the score-based engine for one page.
type ScoreResult struct {
	// Score is on a 0-100 scale.
	Score        int           `json:"score"`
	FailedChecks []FailedCheck `json:"failedChecks"`
}

// FailedCheck is a single audit the score-based engine did not pass.
type FailedCheck struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// PageAnalysis is the normalized output of all engines for a loaded page.
// Violations is always present; Score is nil when the score-based engine
// is not configured or failed, in which case ScoreErr carries the cause.
type PageAnalysis struct {
	Violations []Issue
	Score      *ScoreResult
	ScoreErr   error
}

// Session is the root aggregate of a crawl. It is mutated only by the crawl
// controller and read by the report renderer once the crawl has finished.
type Session struct {
	ID         string    `json:"id"`
	StartURL   string    `json:"startUrl"`
	Origin     string    `json:"origin"`
	MaxPages   int       `json:"maxPages"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	// Visited lists canonical URLs in reservation order.
	Visited []string `json:"visited"`

	// Results are kept in analysis completion order.
	Results []*PageResult `json:"results"`

	// Failed counts targets that were reserved but produced no result.
	Failed int `json:"failed"`

	// Interrupted is set when the crawl stopped because its context was
	// canceled rather than because the frontier or budget ran out.
	Interrupted bool `json:"interrupted"`
}

// Append records a completed page result.
func (s *Session) Append(result *PageResult) {
	s.Results = append(s.Results, result)
}
