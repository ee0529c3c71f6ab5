package markdown_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/a11ycrawl"
	"github.com/fwojciec/a11ycrawl/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var finished = time.Date(2026, 10, 14, 12, 30, 45, 0, time.UTC)

func element(html string) a11ycrawl.AffectedElement {
	return a11ycrawl.AffectedElement{HTML: html}
}

// createTestSession returns a session with one page per interesting case.
func createTestSession() *a11ycrawl.Session {
	return &a11ycrawl.Session{
		ID:         "3f6c1c7e-2d7e-4c0b-9a43-6d1f0b5c2a10",
		StartURL:   "https://example.com",
		Origin:     "https://example.com:443",
		MaxPages:   10,
		StartedAt:  finished.Add(-time.Minute),
		FinishedAt: finished,
		Results: []*a11ycrawl.PageResult{
			{
				URL:        "https://example.com",
				AnalyzedAt: finished.Add(-50 * time.Second),
				Violations: []a11ycrawl.Issue{
					{ID: "region", Help: "All page content should be contained by landmarks", Severity: a11ycrawl.SeverityUnknown},
					{ID: "heading-order", Help: "Heading levels should only increase by one", Severity: a11ycrawl.SeverityMinor},
					{ID: "color-contrast", Help: "Elements must meet minimum color contrast ratio thresholds", Severity: a11ycrawl.SeveritySerious},
					{
						ID:          "image-alt",
						Help:        "Images must have alternate text",
						Description: "Ensures <img> elements have alternate text",
						Severity:    a11ycrawl.SeverityCritical,
						HelpURL:     "https://dequeuniversity.com/rules/axe/4.10/image-alt",
						Elements: []a11ycrawl.AffectedElement{
							element(`<img src="1.png">`),
							element(`<img src="2.png">`),
							element(`<img   src="3.png"
							>`),
							element(`<img src="4.png">`),
							element(`<img src="5.png">`),
						},
					},
					{ID: "landmark-one-main", Help: "Document should have one main landmark", Severity: a11ycrawl.SeverityModerate},
				},
				Score: &a11ycrawl.ScoreResult{
					Score: 92,
					FailedChecks: []a11ycrawl.FailedCheck{
						{ID: "image-alt", Title: "Image elements do not have [alt] attributes", Score: 0},
					},
				},
			},
			{
				URL:        "https://example.com/about",
				AnalyzedAt: finished.Add(-40 * time.Second),
				Violations: []a11ycrawl.Issue{},
				Score:      &a11ycrawl.ScoreResult{Score: 70, FailedChecks: []a11ycrawl.FailedCheck{}},
			},
			{
				URL:        "https://example.com/contact",
				AnalyzedAt: finished.Add(-30 * time.Second),
				Violations: []a11ycrawl.Issue{},
			},
		},
	}
}

func render(t *testing.T, session *a11ycrawl.Session) string {
	t.Helper()

	var buf bytes.Buffer
	n, err := markdown.NewReportWriter(&buf).Write(session, a11ycrawl.Summarize(session))
	require.NoError(t, err)
	assert.Equal(t, buf.Len(), n)
	return buf.String()
}

// section returns the part of output from the heading for url up to the
// next page heading.
func section(t *testing.T, output, url string) string {
	t.Helper()

	start := strings.Index(output, "## "+url+"\n")
	require.GreaterOrEqual(t, start, 0, "missing section for %s", url)
	rest := output[start+len(url)+4:]
	if end := strings.Index(rest, "\n## "); end >= 0 {
		return rest[:end]
	}
	return rest
}

func TestReportWriter_Write(t *testing.T) {
	t.Parallel()

	t.Run("writes header with session details", func(t *testing.T) {
		t.Parallel()

		output := render(t, createTestSession())

		assert.True(t, strings.HasPrefix(output, "# Accessibility Report"))
		assert.Contains(t, output, "`https://example.com`")
		assert.Contains(t, output, "3f6c1c7e-2d7e-4c0b-9a43-6d1f0b5c2a10")
		assert.Contains(t, output, "2026-10-14 12:30:45 UTC")
		assert.Contains(t, output, "3 of 10")
		assert.Contains(t, output, "✅ Complete")
	})

	t.Run("writes summary counts and average score", func(t *testing.T) {
		t.Parallel()

		output := render(t, createTestSession())

		assert.Contains(t, output, "**Total Violations**")
		assert.Contains(t, output, "**5**")
		assert.Contains(t, output, "81.0 (needs improvement, 2 of 3 pages)")
		assert.Contains(t, output, "```mermaid")
		assert.Contains(t, output, "[!CAUTION]")
	})

	t.Run("lists pages in session order with anchors", func(t *testing.T) {
		t.Parallel()

		output := render(t, createTestSession())

		home := strings.Index(output, "## https://example.com\n")
		about := strings.Index(output, "## https://example.com/about\n")
		contact := strings.Index(output, "## https://example.com/contact\n")
		require.Positive(t, home)
		assert.Less(t, home, about)
		assert.Less(t, about, contact)

		assert.Contains(t, output, "](#page-")
		assert.Contains(t, output, `<a id="page-`)
	})

	t.Run("groups violations by fixed severity order", func(t *testing.T) {
		t.Parallel()

		page := section(t, render(t, createTestSession()), "https://example.com")

		order := []string{"### 🔴 Critical (1)", "### 🟠 Serious (1)", "### 🟡 Moderate (1)", "### 🔵 Minor (1)", "### ⚪ Unknown (1)"}
		last := -1
		for _, header := range order {
			idx := strings.Index(page, header)
			require.GreaterOrEqual(t, idx, 0, "missing %s", header)
			assert.Greater(t, idx, last, "%s out of order", header)
			last = idx
		}
	})

	t.Run("renders issue details with at most three snippets", func(t *testing.T) {
		t.Parallel()

		page := section(t, render(t, createTestSession()), "https://example.com")

		assert.Contains(t, page, "#### Images must have alternate text")
		assert.Contains(t, page, "Ensures <img> elements have alternate text")
		assert.Contains(t, page, "**Affected elements:** 5")
		assert.Contains(t, page, "[image-alt](https://dequeuniversity.com/rules/axe/4.10/image-alt)")
		assert.Contains(t, page, "`<img src=\"1.png\">`")
		assert.Contains(t, page, "`<img src=\"3.png\" >`")
		assert.NotContains(t, page, "4.png")
		assert.Contains(t, page, "+2 more")
	})

	t.Run("renders score with rating", func(t *testing.T) {
		t.Parallel()

		output := render(t, createTestSession())

		assert.Contains(t, section(t, output, "https://example.com"), "**Score:** 🟢 92/100 (good)")
		assert.Contains(t, section(t, output, "https://example.com"), "Failed checks (1)")
		assert.Contains(t, section(t, output, "https://example.com/about"), "**Score:** 🟡 70/100 (needs improvement)")
		assert.NotContains(t, section(t, output, "https://example.com/contact"), "**Score:**")
	})

	t.Run("states explicitly when a page has no violations", func(t *testing.T) {
		t.Parallel()

		page := section(t, render(t, createTestSession()), "https://example.com/about")

		assert.Contains(t, page, "No accessibility violations found")
		assert.NotContains(t, page, "###")
	})

	t.Run("reports unavailable score without aborting", func(t *testing.T) {
		t.Parallel()

		session := createTestSession()
		for _, r := range session.Results {
			r.Score = nil
		}

		output := render(t, session)

		assert.Contains(t, output, "not available")
		assert.NotContains(t, output, "**Score:**")
	})

	t.Run("rates poor scores", func(t *testing.T) {
		t.Parallel()

		session := createTestSession()
		session.Results[0].Score.Score = 31

		page := section(t, render(t, session), "https://example.com")

		assert.Contains(t, page, "🔴 31/100 (poor)")
	})

	t.Run("marks interrupted sessions", func(t *testing.T) {
		t.Parallel()

		session := createTestSession()
		session.Interrupted = true
		session.Failed = 2

		output := render(t, session)

		assert.Contains(t, output, "Interrupted (partial results)")
		assert.Contains(t, output, "Failed Pages")
	})

	t.Run("renders empty session", func(t *testing.T) {
		t.Parallel()

		output := render(t, &a11ycrawl.Session{StartURL: "https://example.com", MaxPages: 10, FinishedAt: finished})

		assert.Contains(t, output, "0 of 10")
		assert.Contains(t, output, "No pages analyzed.")
		assert.Contains(t, output, "not available")
		assert.NotContains(t, output, "```mermaid")
	})

	t.Run("widens code fence for snippets containing backticks", func(t *testing.T) {
		t.Parallel()

		session := createTestSession()
		session.Results[0].Violations = []a11ycrawl.Issue{{
			ID:       "label",
			Help:     "Form elements must have labels",
			Severity: a11ycrawl.SeverityCritical,
			Elements: []a11ycrawl.AffectedElement{element("<input placeholder=\"`name`\">")},
		}}

		page := section(t, render(t, session), "https://example.com")

		assert.Contains(t, page, "`` <input placeholder=\"`name`\"> ``")
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		first := render(t, createTestSession())
		second := render(t, createTestSession())

		assert.Equal(t, first, second)
	})

	t.Run("rejects nil session", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		_, err := markdown.NewReportWriter(&buf).Write(nil, a11ycrawl.Summary{})

		assert.Equal(t, a11ycrawl.EINVALID, a11ycrawl.ErrorCode(err))
	})
}
