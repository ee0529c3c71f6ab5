// Package crawl provides the crawl controller. It drives a depth-first,
// budget-bounded traversal of a site's same-origin pages, loading each page
// in the browser, analyzing it, and discovering further pages from its links.
package crawl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/a11ycrawl"
	"github.com/google/uuid"
)

// DefaultNavigationTimeout bounds a single page navigation, including the
// wait for network quiescence.
const DefaultNavigationTimeout = 30 * time.Second

// Crawler crawls one site per call to Crawl.
type Crawler struct {
	Launcher a11ycrawl.BrowserLauncher
	Analyzer *Analyzer

	// MaxPages is the page budget. Values <= 0 use a11ycrawl.DefaultMaxPages.
	MaxPages int

	// NavigationTimeout bounds each navigation attempt. Zero uses
	// DefaultNavigationTimeout. A timeout fails the target, not the session.
	NavigationTimeout time.Duration

	// RetryDelays are the waits between navigation attempts.
	// Nil means a single attempt.
	RetryDelays []time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// ProgressType identifies a step in the crawl. Per-target steps follow the
// lifecycle pending → rejected | loaded → analyzed → expanded → done, with
// failed reachable from loading or analysis.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressRejected
	ProgressLoaded
	ProgressAnalyzed
	ProgressExpanded
	ProgressDone
	ProgressFailed
	ProgressScoreFailed
	ProgressExpandFailed
	ProgressCleanupFailed
	ProgressFinished
)

// String returns a short name for the progress type.
func (t ProgressType) String() string {
	switch t {
	case ProgressStarted:
		return "started"
	case ProgressRejected:
		return "rejected"
	case ProgressLoaded:
		return "loaded"
	case ProgressAnalyzed:
		return "analyzed"
	case ProgressExpanded:
		return "expanded"
	case ProgressDone:
		return "done"
	case ProgressFailed:
		return "failed"
	case ProgressScoreFailed:
		return "score failed"
	case ProgressExpandFailed:
		return "expand failed"
	case ProgressCleanupFailed:
		return "cleanup failed"
	case ProgressFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// RejectReason explains why a candidate URL was not visited.
type RejectReason string

// Reasons a candidate is rejected, in the order they are checked.
const (
	RejectBudget      RejectReason = "budget exhausted"
	RejectVisited     RejectReason = "already visited"
	RejectOutOfScope  RejectReason = "out of scope"
	RejectNotDocument RejectReason = "not a document"
)

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type       ProgressType
	URL        string
	Visited    int
	Budget     int
	Reason     RejectReason
	Links      int
	Violations int
	Error      error
}

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Crawl visits startURL and every same-origin, document-like page reachable
// from it, up to the page budget, and returns the accumulated session.
//
// Per-target failures are reported through progress and never abort the
// crawl. Crawl returns an error only when the start URL is malformed or the
// browser cannot be acquired. If ctx is canceled the partial session is
// returned with Interrupted set.
func (c *Crawler) Crawl(ctx context.Context, startURL string, progress ProgressFunc) (*a11ycrawl.Session, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}
	if c.Analyzer == nil {
		return nil, a11ycrawl.Errorf(a11ycrawl.EINVALID, "no analyzer configured")
	}

	start, ok := a11ycrawl.Normalize(startURL)
	if !ok || !isHTTP(start) {
		return nil, a11ycrawl.Errorf(a11ycrawl.EINVALID, "start URL %q must be an absolute http(s) URL", startURL)
	}
	origin, err := a11ycrawl.Origin(start)
	if err != nil {
		return nil, err
	}

	budget := c.MaxPages
	if budget <= 0 {
		budget = a11ycrawl.DefaultMaxPages
	}

	session := &a11ycrawl.Session{
		ID:        uuid.NewString(),
		StartURL:  start,
		Origin:    origin,
		MaxPages:  budget,
		StartedAt: c.now(),
	}

	browser, err := c.Launcher.Launch(ctx)
	if err != nil {
		return nil, a11ycrawl.Errorf(a11ycrawl.ELAUNCH, "launching browser: %v", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			progress(ProgressEvent{Type: ProgressCleanupFailed, Error: fmt.Errorf("closing browser: %w", err)})
		}
	}()

	bctx, err := browser.NewContext(ctx)
	if err != nil {
		return nil, a11ycrawl.Errorf(a11ycrawl.ELAUNCH, "opening browsing context: %v", err)
	}
	defer func() {
		if err := bctx.Close(); err != nil {
			progress(ProgressEvent{Type: ProgressCleanupFailed, Error: fmt.Errorf("closing browsing context: %w", err)})
		}
	}()

	w := &walk{
		crawler:  c,
		bctx:     bctx,
		conn:     browser.DebugConnection(),
		session:  session,
		visited:  NewVisitedSet(budget),
		progress: progress,
	}
	progress(ProgressEvent{Type: ProgressStarted, URL: start, Budget: budget})
	w.run(ctx, start)

	session.Visited = w.visited.URLs()
	session.FinishedAt = c.now()
	progress(ProgressEvent{
		Type:    ProgressFinished,
		URL:     start,
		Visited: w.visited.Len(),
		Budget:  budget,
	})
	return session, nil
}

func (c *Crawler) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Crawler) navigationTimeout() time.Duration {
	if c.NavigationTimeout > 0 {
		return c.NavigationTimeout
	}
	return DefaultNavigationTimeout
}

// walk holds the state of a single traversal.
type walk struct {
	crawler  *Crawler
	bctx     a11ycrawl.BrowsingContext
	conn     a11ycrawl.DebugConnection
	session  *a11ycrawl.Session
	visited  *VisitedSet
	progress ProgressFunc
}

// run drains the frontier depth-first. Exhausting the budget ends the
// whole traversal, not just the current branch.
func (w *walk) run(ctx context.Context, start string) {
	frontier := NewFrontier()
	frontier.Push(start)

	for {
		if ctx.Err() != nil {
			w.session.Interrupted = true
			return
		}

		raw, ok := frontier.Pop()
		if !ok {
			return
		}
		target, _ := a11ycrawl.Normalize(raw)

		if w.visited.Exhausted() {
			w.reject(target, RejectBudget)
			return
		}

		switch {
		case w.visited.Seen(target):
			w.reject(target, RejectVisited)
			continue
		case !a11ycrawl.InScope(target, w.session.Origin):
			w.reject(target, RejectOutOfScope)
			continue
		case !a11ycrawl.IsDocumentLike(target):
			w.reject(target, RejectNotDocument)
			continue
		}

		// Reserve before navigating so a slow or failing load cannot be
		// retried through another discovery path.
		if !w.visited.TryReserve(target) {
			w.reject(target, RejectVisited)
			continue
		}

		frontier.Push(w.visit(ctx, target)...)
	}
}

// visit loads, analyzes, and expands one reserved target. It returns the
// links to push onto the frontier. The page is closed before visit returns.
func (w *walk) visit(ctx context.Context, target string) (links []string) {
	page, err := w.bctx.NewPage(ctx)
	if err != nil {
		w.fail(target, a11ycrawl.Errorf(a11ycrawl.ENAVIGATE, "opening page for %s: %v", target, err))
		return nil
	}
	defer func() {
		if err := page.Close(); err != nil {
			w.emit(ProgressEvent{Type: ProgressCleanupFailed, URL: target, Error: fmt.Errorf("closing page: %w", err)})
		}
	}()

	if err := w.navigate(ctx, page, target); err != nil {
		w.fail(target, a11ycrawl.Errorf(a11ycrawl.ENAVIGATE, "navigating to %s: %v", target, err))
		return nil
	}
	w.emit(ProgressEvent{Type: ProgressLoaded, URL: target})

	analysis, err := w.crawler.Analyzer.Analyze(ctx, page, w.conn)
	if err != nil {
		w.fail(target, err)
		return nil
	}
	if analysis.ScoreErr != nil {
		w.emit(ProgressEvent{Type: ProgressScoreFailed, URL: target, Error: analysis.ScoreErr})
	}

	// Appending before expansion keeps a usable partial result set if the
	// traversal is interrupted later.
	w.session.Append(&a11ycrawl.PageResult{
		URL:        target,
		AnalyzedAt: w.crawler.now(),
		Violations: analysis.Violations,
		Score:      analysis.Score,
	})
	w.emit(ProgressEvent{Type: ProgressAnalyzed, URL: target, Violations: len(analysis.Violations)})

	if w.visited.Exhausted() {
		w.emit(ProgressEvent{Type: ProgressDone, URL: target})
		return nil
	}

	links, err = page.Links(ctx)
	if err != nil {
		w.emit(ProgressEvent{Type: ProgressExpandFailed, URL: target, Error: err})
		w.emit(ProgressEvent{Type: ProgressDone, URL: target})
		return nil
	}
	w.emit(ProgressEvent{Type: ProgressExpanded, URL: target, Links: len(links)})
	w.emit(ProgressEvent{Type: ProgressDone, URL: target})
	return links
}

// navigate loads target, bounding every attempt by the navigation timeout.
func (w *walk) navigate(ctx context.Context, page a11ycrawl.Page, target string) error {
	timeout := w.crawler.navigationTimeout()
	return Retry(ctx, w.crawler.RetryDelays, func(ctx context.Context) error {
		navCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return page.Navigate(navCtx, target)
	})
}

func (w *walk) reject(target string, reason RejectReason) {
	w.emit(ProgressEvent{Type: ProgressRejected, URL: target, Reason: reason})
}

func (w *walk) fail(target string, err error) {
	w.session.Failed++
	w.emit(ProgressEvent{Type: ProgressFailed, URL: target, Error: err})
}

// emit stamps the running visit count and budget onto event.
func (w *walk) emit(event ProgressEvent) {
	event.Visited = w.visited.Len()
	event.Budget = w.visited.Budget()
	w.progress(event)
}

func isHTTP(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
