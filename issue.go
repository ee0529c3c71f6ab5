package a11ycrawl

import "strings"

// Severity is the impact level a rule-based engine assigns to a violation.
type Severity int

// Severity levels from most to least severe. SeverityUnknown collects
// violations whose engine reported an unrecognized or empty impact.
const (
	SeverityCritical Severity = iota
	SeveritySerious
	SeverityModerate
	SeverityMinor
	SeverityUnknown
)

// SeverityOrder is the fixed order in which severity groups are reported.
var SeverityOrder = []Severity{
	SeverityCritical,
	SeveritySerious,
	SeverityModerate,
	SeverityMinor,
	SeverityUnknown,
}

// String returns the lower-case engine name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeveritySerious:
		return "serious"
	case SeverityModerate:
		return "moderate"
	case SeverityMinor:
		return "minor"
	default:
		return "unknown"
	}
}

// ParseSeverity maps an engine impact string to a Severity.
// Anything other than the four known levels maps to SeverityUnknown.
func ParseSeverity(impact string) Severity {
	switch strings.ToLower(strings.TrimSpace(impact)) {
	case "critical":
		return SeverityCritical
	case "serious":
		return SeveritySerious
	case "moderate":
		return SeverityModerate
	case "minor":
		return SeverityMinor
	default:
		return SeverityUnknown
	}
}

// Issue is a single accessibility finding reported by the rule-based engine.
type Issue struct {
	ID          string            `json:"id"`
	Help        string            `json:"help"`
	Description string            `json:"description"`
	Severity    Severity          `json:"severity"`
	HelpURL     string            `json:"helpUrl"`
	Elements    []AffectedElement `json:"elements"`
}

// AffectedElement is one DOM node an Issue was found on. Elements keep the
// order in which the engine reported them.
type AffectedElement struct {
	HTML           string   `json:"html"`
	FailureSummary string   `json:"failureSummary,omitempty"`
	Target         []string `json:"target,omitempty"`
}

// GroupBySeverity buckets issues by severity. Every issue lands in exactly
// one bucket and keeps its engine-reported order within that bucket.
func GroupBySeverity(issues []Issue) map[Severity][]Issue {
	groups := make(map[Severity][]Issue)
	for _, issue := range issues {
		sev := issue.Severity
		if sev < SeverityCritical || sev > SeverityUnknown {
			sev = SeverityUnknown
		}
		groups[sev] = append(groups[sev], issue)
	}
	return groups
}
