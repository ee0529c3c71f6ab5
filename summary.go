package a11ycrawl

// Summary holds session-wide statistics for a report.
type Summary struct {
	Pages          int
	PagesWithScore int

	TotalViolations int
	Critical        int
	Serious         int
	Moderate        int
	Minor           int
	Unknown         int

	// AverageScore is the mean score-based result across pages that
	// produced one. It is meaningful only when HasScore is true.
	AverageScore float64
	HasScore     bool
}

// Count returns the number of violations with the given severity.
func (s Summary) Count(sev Severity) int {
	switch sev {
	case SeverityCritical:
		return s.Critical
	case SeveritySerious:
		return s.Serious
	case SeverityModerate:
		return s.Moderate
	case SeverityMinor:
		return s.Minor
	default:
		return s.Unknown
	}
}

// Summarize computes statistics over every result in the session.
func Summarize(session *Session) Summary {
	var sum Summary
	if session == nil {
		return sum
	}

	var scoreTotal int
	for _, result := range session.Results {
		sum.Pages++
		for _, issue := range result.Violations {
			sum.TotalViolations++
			switch issue.Severity {
			case SeverityCritical:
				sum.Critical++
			case SeveritySerious:
				sum.Serious++
			case SeverityModerate:
				sum.Moderate++
			case SeverityMinor:
				sum.Minor++
			default:
				sum.Unknown++
			}
		}
		if result.Score != nil {
			sum.PagesWithScore++
			scoreTotal += result.Score.Score
		}
	}

	if sum.PagesWithScore > 0 {
		sum.HasScore = true
		sum.AverageScore = float64(scoreTotal) / float64(sum.PagesWithScore)
	}
	return sum
}

// Rating classifies a 0-100 score.
type Rating string

// Score ratings by fixed thresholds.
const (
	RatingGood             Rating = "good"
	RatingNeedsImprovement Rating = "needs improvement"
	RatingPoor             Rating = "poor"
)

// ScoreRating returns the rating for score: 90 and above is good,
// 50 to 89 needs improvement, anything lower is poor.
func ScoreRating(score int) Rating {
	switch {
	case score >= 90:
		return RatingGood
	case score >= 50:
		return RatingNeedsImprovement
	default:
		return RatingPoor
	}
}
