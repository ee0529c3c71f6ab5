// Package markdown renders crawl sessions as markdown reports.
package markdown

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/a11ycrawl"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MaxSnippets is the number of affected-element snippets shown per issue.
const MaxSnippets = 3

// maxSnippetLen bounds a single rendered element snippet.
const maxSnippetLen = 300

// timeLayout is used for every timestamp in the report.
const timeLayout = "2006-01-02 15:04:05 MST"

var severityHeaders = map[a11ycrawl.Severity]string{
	a11ycrawl.SeverityCritical: "🔴 Critical",
	a11ycrawl.SeveritySerious:  "🟠 Serious",
	a11ycrawl.SeverityModerate: "🟡 Moderate",
	a11ycrawl.SeverityMinor:    "🔵 Minor",
	a11ycrawl.SeverityUnknown:  "⚪ Unknown",
}

var ratingEmoji = map[a11ycrawl.Rating]string{
	a11ycrawl.RatingGood:             "🟢",
	a11ycrawl.RatingNeedsImprovement: "🟡",
	a11ycrawl.RatingPoor:             "🔴",
}

// ReportWriter renders a session as markdown.
// The output depends only on the session, so identical sessions render
// byte-identical reports.
type ReportWriter struct {
	output io.Writer
}

// NewReportWriter creates a ReportWriter that outputs to the given writer.
func NewReportWriter(output io.Writer) *ReportWriter {
	return &ReportWriter{output: output}
}

// Write outputs the full report and returns the number of bytes rendered.
func (w *ReportWriter) Write(session *a11ycrawl.Session, summary a11ycrawl.Summary) (int, error) {
	if session == nil {
		return 0, a11ycrawl.Errorf(a11ycrawl.EINVALID, "no session to report")
	}

	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, session, summary)
	w.writeSummary(md, summary)
	w.writeIndex(md, session)
	for _, result := range session.Results {
		w.writePage(md, result)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *ReportWriter) writeHeader(md *markdown.Markdown, session *a11ycrawl.Session, summary a11ycrawl.Summary) {
	md.H1("Accessibility Report")
	md.PlainText("")

	rows := [][]string{
		{"Start URL", inlineCode(session.StartURL)},
		{"Session", inlineCode(session.ID)},
		{"Generated", session.FinishedAt.UTC().Format(timeLayout)},
		{"Pages Analyzed", fmt.Sprintf("%d of %d", summary.Pages, session.MaxPages)},
		{"Status", statusText(session)},
	}
	if session.Failed > 0 {
		rows = append(rows, []string{"Failed Pages", strconv.Itoa(session.Failed)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func statusText(session *a11ycrawl.Session) string {
	if session.Interrupted {
		return "⚠️ Interrupted (partial results)"
	}
	return "✅ Complete"
}

func (w *ReportWriter) writeSummary(md *markdown.Markdown, summary a11ycrawl.Summary) {
	md.H2("Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(a11ycrawl.SeverityOrder)+2)
	for _, sev := range a11ycrawl.SeverityOrder {
		rows = append(rows, []string{severityHeaders[sev], strconv.Itoa(summary.Count(sev))})
	}
	rows = append(rows,
		[]string{"**Total Violations**", "**" + strconv.Itoa(summary.TotalViolations) + "**"},
		[]string{"Average Score", averageScoreText(summary)},
	)
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if summary.TotalViolations > 0 {
		w.writePieChart(md, summary)
	}
	w.writeAlert(md, summary)
}

func averageScoreText(summary a11ycrawl.Summary) string {
	if !summary.HasScore {
		return "not available"
	}
	rounded := int(summary.AverageScore + 0.5)
	rating := a11ycrawl.ScoreRating(rounded)
	return fmt.Sprintf("%s %.1f (%s, %d of %d pages)", ratingEmoji[rating], summary.AverageScore, rating, summary.PagesWithScore, summary.Pages)
}

func (w *ReportWriter) writePieChart(md *markdown.Markdown, summary a11ycrawl.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Violations by Severity"),
		piechart.WithShowData(true),
	)
	for _, sev := range a11ycrawl.SeverityOrder {
		if n := summary.Count(sev); n > 0 {
			chart.LabelAndIntValue(sev.String(), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *ReportWriter) writeAlert(md *markdown.Markdown, summary a11ycrawl.Summary) {
	switch {
	case summary.Pages == 0:
		md.Warningf("No pages were analyzed.")
	case summary.Critical > 0:
		md.Cautionf("%d critical violation(s) block access for some users and need immediate attention.", summary.Critical)
	case summary.Serious > 0:
		md.Warningf("%d serious violation(s) should be fixed.", summary.Serious)
	case summary.Moderate > 0:
		md.Importantf("%d moderate violation(s) found.", summary.Moderate)
	case summary.TotalViolations > 0:
		md.Note("Only minor or unclassified violations found.")
	default:
		md.Tip("No accessibility violations found.")
	}
	md.PlainText("")
}

func (w *ReportWriter) writeIndex(md *markdown.Markdown, session *a11ycrawl.Session) {
	md.H2("Pages")
	md.PlainText("")

	if len(session.Results) == 0 {
		md.PlainText("No pages analyzed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(session.Results))
	for i, result := range session.Results {
		score := "-"
		if result.Score != nil {
			score = scoreText(result.Score.Score)
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("[%s](#%s)", escapeCell(result.URL), anchor(result.URL)),
			strconv.Itoa(len(result.Violations)),
			score,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Page", "Violations", "Score"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *ReportWriter) writePage(md *markdown.Markdown, result *a11ycrawl.PageResult) {
	md.PlainTextf(`<a id="%s"></a>`, anchor(result.URL))
	md.PlainText("")
	md.H2(result.URL)
	md.PlainText("")
	md.PlainTextf("Analyzed at %s", result.AnalyzedAt.UTC().Format(timeLayout))
	md.PlainText("")

	if result.Score != nil {
		w.writeScore(md, result.Score)
	}

	if len(result.Violations) == 0 {
		md.PlainText("✅ No accessibility violations found.")
		md.PlainText("")
		return
	}

	md.PlainTextf("**Violations:** %d", len(result.Violations))
	md.PlainText("")

	groups := a11ycrawl.GroupBySeverity(result.Violations)
	for _, sev := range a11ycrawl.SeverityOrder {
		issues := groups[sev]
		if len(issues) == 0 {
			continue
		}
		md.H3(fmt.Sprintf("%s (%d)", severityHeaders[sev], len(issues)))
		md.PlainText("")
		for _, issue := range issues {
			w.writeIssue(md, issue)
		}
	}
}

func (w *ReportWriter) writeScore(md *markdown.Markdown, score *a11ycrawl.ScoreResult) {
	md.PlainTextf("**Score:** %s", scoreText(score.Score))
	md.PlainText("")

	if len(score.FailedChecks) == 0 {
		return
	}
	checks := make([]string, len(score.FailedChecks))
	for i, c := range score.FailedChecks {
		checks[i] = fmt.Sprintf("%s %s", inlineCode(c.ID), collapseSpace(c.Title))
	}
	md.Details(fmt.Sprintf("Failed checks (%d)", len(checks)), "- "+strings.Join(checks, "\n- "))
	md.PlainText("")
}

func scoreText(score int) string {
	rating := a11ycrawl.ScoreRating(score)
	return fmt.Sprintf("%s %d/100 (%s)", ratingEmoji[rating], score, rating)
}

func (w *ReportWriter) writeIssue(md *markdown.Markdown, issue a11ycrawl.Issue) {
	title := issue.Help
	if title == "" {
		title = issue.ID
	}
	md.H4(collapseSpace(title))
	md.PlainText("")
	if issue.Description != "" {
		md.PlainText(collapseSpace(issue.Description))
		md.PlainText("")
	}

	facts := []string{
		"**Rule:** " + inlineCode(issue.ID),
		"**Affected elements:** " + strconv.Itoa(len(issue.Elements)),
	}
	if issue.HelpURL != "" {
		facts = append(facts, fmt.Sprintf("**Reference:** [%s](%s)", issue.ID, issue.HelpURL))
	}
	md.BulletList(facts...)
	md.PlainText("")

	if len(issue.Elements) == 0 {
		return
	}
	shown := min(len(issue.Elements), MaxSnippets)
	snippets := make([]string, 0, shown+1)
	for _, el := range issue.Elements[:shown] {
		snippets = append(snippets, inlineCode(truncateString(collapseSpace(el.HTML), maxSnippetLen)))
	}
	if rest := len(issue.Elements) - shown; rest > 0 {
		snippets = append(snippets, fmt.Sprintf("+%d more", rest))
	}
	md.BulletList(snippets...)
	md.PlainText("")
}

func (w *ReportWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by a11ycrawl*")
}

// anchor derives a stable fragment identifier for a page section.
func anchor(url string) string {
	return fmt.Sprintf("page-%016x", xxhash.Sum64String(url))
}

// inlineCode wraps s in a code span, widening the fence when s itself
// contains backticks.
func inlineCode(s string) string {
	if s == "" {
		return "``"
	}
	if !strings.Contains(s, "`") {
		return "`" + s + "`"
	}
	fence := "``"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	return fence + " " + s + " " + fence
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// truncateString truncates a string to at most maxLen bytes with ellipsis,
// never splitting a UTF-8 sequence.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
