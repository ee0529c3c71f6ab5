package axe

import (
	"encoding/json"
	"strings"

	"github.com/fwojciec/a11ycrawl"
)

// violation mirrors the subset of an axe-core result entry that is reported.
type violation struct {
	ID          string  `json:"id"`
	Impact      *string `json:"impact"`
	Description string  `json:"description"`
	Help        string  `json:"help"`
	HelpURL     string  `json:"helpUrl"`
	Nodes       []node  `json:"nodes"`
}

type node struct {
	HTML           string            `json:"html"`
	FailureSummary string            `json:"failureSummary"`
	Target         []json.RawMessage `json:"target"`
}

// DecodeViolations converts the JSON array returned by axe.run into issues.
// A null or missing impact maps to a11ycrawl.SeverityUnknown.
func DecodeViolations(raw []byte) ([]a11ycrawl.Issue, error) {
	var vs []violation
	if err := json.Unmarshal(raw, &vs); err != nil {
		return nil, a11ycrawl.Errorf(a11ycrawl.EANALYZE, "decoding axe results: %v", err)
	}

	issues := make([]a11ycrawl.Issue, 0, len(vs))
	for _, v := range vs {
		impact := ""
		if v.Impact != nil {
			impact = *v.Impact
		}
		issue := a11ycrawl.Issue{
			ID:          v.ID,
			Help:        v.Help,
			Description: v.Description,
			Severity:    a11ycrawl.ParseSeverity(impact),
			HelpURL:     v.HelpURL,
			Elements:    make([]a11ycrawl.AffectedElement, 0, len(v.Nodes)),
		}
		for _, n := range v.Nodes {
			issue.Elements = append(issue.Elements, a11ycrawl.AffectedElement{
				HTML:           n.HTML,
				FailureSummary: n.FailureSummary,
				Target:         decodeTarget(n.Target),
			})
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// decodeTarget flattens axe selectors. Selectors crossing shadow roots or
// frames arrive as nested arrays and are joined with " >> ".
func decodeTarget(parts []json.RawMessage) []string {
	if len(parts) == 0 {
		return nil
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		var s string
		if err := json.Unmarshal(p, &s); err == nil {
			out = append(out, s)
			continue
		}
		var nested []string
		if err := json.Unmarshal(p, &nested); err == nil {
			out = append(out, strings.Join(nested, " >> "))
		}
	}
	return out
}
