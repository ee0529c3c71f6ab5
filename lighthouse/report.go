package lighthouse

import (
	"encoding/json"
	"math"

	"github.com/fwojciec/a11ycrawl"
)

type report struct {
	RuntimeError *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"runtimeError"`
	Categories struct {
		Accessibility *struct {
			Score     *float64 `json:"score"`
			AuditRefs []struct {
				ID string `json:"id"`
			} `json:"auditRefs"`
		} `json:"accessibility"`
	} `json:"categories"`
	Audits map[string]struct {
		ID          string   `json:"id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Score       *float64 `json:"score"`
	} `json:"audits"`
}

// DecodeReport extracts the accessibility score from a Lighthouse JSON
// report. The 0-1 category score is scaled to 0-100 and rounded. Failed
// checks are the category's audits with a numeric score below 1, in the
// order the category lists them. Informative and manual audits carry no
// score and are skipped.
func DecodeReport(raw []byte) (*a11ycrawl.ScoreResult, error) {
	var r report
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, a11ycrawl.Errorf(a11ycrawl.EANALYZE, "decoding lighthouse report: %v", err)
	}
	if r.RuntimeError != nil && r.RuntimeError.Code != "" && r.RuntimeError.Code != "NO_ERROR" {
		return nil, a11ycrawl.Errorf(a11ycrawl.EANALYZE, "lighthouse %s: %s", r.RuntimeError.Code, r.RuntimeError.Message)
	}

	cat := r.Categories.Accessibility
	if cat == nil || cat.Score == nil {
		return nil, a11ycrawl.Errorf(a11ycrawl.EANALYZE, "lighthouse report has no accessibility score")
	}

	result := &a11ycrawl.ScoreResult{
		Score:        int(math.Round(*cat.Score * 100)),
		FailedChecks: []a11ycrawl.FailedCheck{},
	}
	for _, ref := range cat.AuditRefs {
		audit, ok := r.Audits[ref.ID]
		if !ok || audit.Score == nil || *audit.Score >= 1 {
			continue
		}
		result.FailedChecks = append(result.FailedChecks, a11ycrawl.FailedCheck{
			ID:          ref.ID,
			Title:       audit.Title,
			Description: audit.Description,
			Score:       *audit.Score,
		})
	}
	return result, nil
}
