package crawl

import (
	"fmt"
	"time"
)

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		// Too short for "..." prefix, just return dots
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatProgress renders a progress event as a single human-readable line.
func FormatProgress(e ProgressEvent) string {
	counter := fmt.Sprintf("[%d/%d]", e.Visited, e.Budget)
	switch e.Type {
	case ProgressRejected:
		return fmt.Sprintf("%s skip %s (%s)", counter, e.URL, e.Reason)
	case ProgressAnalyzed:
		return fmt.Sprintf("%s analyzed %s: %s", counter, e.URL, pluralize(e.Violations, "violation"))
	case ProgressExpanded:
		return fmt.Sprintf("%s expanded %s: %s", counter, e.URL, pluralize(e.Links, "link"))
	case ProgressFailed, ProgressScoreFailed, ProgressExpandFailed, ProgressCleanupFailed:
		if e.URL == "" {
			return fmt.Sprintf("%s %s: %v", counter, e.Type, e.Error)
		}
		return fmt.Sprintf("%s %s %s: %v", counter, e.Type, e.URL, e.Error)
	default:
		return fmt.Sprintf("%s %s %s", counter, e.Type, e.URL)
	}
}

// FormatDuration formats elapsed time rounded for display.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
