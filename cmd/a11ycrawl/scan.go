package main

import (
	"fmt"

	"github.com/fwojciec/a11ycrawl"
	"github.com/fwojciec/a11ycrawl/crawl"
	"github.com/fwojciec/a11ycrawl/fs"
	"github.com/fwojciec/a11ycrawl/markdown"
	a11yslog "github.com/fwojciec/a11ycrawl/slog"
)

// progressURLWidth bounds URLs in stdout progress lines.
const progressURLWidth = 72

// Run executes the scan command.
func (c *ScanCmd) Run(deps *Dependencies) error {
	logProgress := a11yslog.ProgressLogger(deps.Logger)
	progress := func(e crawl.ProgressEvent) {
		logProgress(e)
		switch e.Type {
		case crawl.ProgressAnalyzed, crawl.ProgressFailed:
			e.URL = crawl.TruncateURL(e.URL, progressURLWidth)
			fmt.Fprintln(deps.Stdout, crawl.FormatProgress(e))
		}
	}

	session, err := deps.Crawler.Crawl(deps.Ctx, c.URL, progress)
	if err != nil {
		return err
	}

	if session.Interrupted {
		fmt.Fprintln(deps.Stdout, "Interrupted, writing partial report")
	}

	path := c.Output
	if path == "" {
		path = fs.ReportPath(session.StartURL, session.StartedAt)
	}
	if err := writeReport(path, session); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}

	summary := a11ycrawl.Summarize(session)
	fmt.Fprintf(deps.Stdout, "Analyzed %d pages in %s: %d violations (%d critical, %d serious, %d moderate, %d minor",
		summary.Pages,
		crawl.FormatDuration(session.FinishedAt.Sub(session.StartedAt)),
		summary.TotalViolations,
		summary.Critical, summary.Serious, summary.Moderate, summary.Minor,
	)
	if summary.Unknown > 0 {
		fmt.Fprintf(deps.Stdout, ", %d unknown", summary.Unknown)
	}
	fmt.Fprintln(deps.Stdout, ")")
	if summary.HasScore {
		fmt.Fprintf(deps.Stdout, "Average score: %.1f\n", summary.AverageScore)
	}
	if session.Failed > 0 {
		fmt.Fprintf(deps.Stdout, "Failed pages: %d\n", session.Failed)
	}
	fmt.Fprintf(deps.Stdout, "Report written to %s\n", path)

	return nil
}

// writeReport renders session to path, leaving no partial file on failure.
func writeReport(path string, session *a11ycrawl.Session) error {
	rf, err := fs.CreateReportFile(path)
	if err != nil {
		return err
	}
	if _, err := markdown.NewReportWriter(rf).Write(session, a11ycrawl.Summarize(session)); err != nil {
		_ = rf.Abort()
		return err
	}
	return rf.Commit()
}
