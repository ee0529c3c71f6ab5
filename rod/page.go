package rod

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/a11ycrawl"
	"github.com/fwojciec/a11ycrawl/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

var _ a11ycrawl.Page = (*Page)(nil)

const (
	// DefaultIdleTimeout bounds the wait for network quiescence, counted
	// from the start of navigation.
	DefaultIdleTimeout = 10 * time.Second

	// DefaultRequestIdle is how long the page must have no request in
	// flight to count as network-idle.
	DefaultRequestIdle = 500 * time.Millisecond
)

// streamingTypes never finish and are ignored by the idle wait.
var streamingTypes = []proto.NetworkResourceType{
	proto.NetworkResourceTypeWebSocket,
	proto.NetworkResourceTypeEventSource,
}

// Page is a single Chrome tab.
// Page is not safe for concurrent use.
type Page struct {
	page *rod.Page
	url  string
}

// Navigate loads url, waits for the load event, and then waits until no
// network request has been in flight for DefaultRequestIdle. The idle wait
// is best-effort: a page that keeps polling is analyzed in whatever state it
// reached once DefaultIdleTimeout passes.
func (p *Page) Navigate(ctx context.Context, url string) error {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return err
	}

	page := p.page.Context(ctx)

	// The request listener must be attached before navigation starts.
	idle := page.Timeout(DefaultIdleTimeout)
	defer idle.CancelTimeout()
	waitIdle := idle.WaitRequestIdle(DefaultRequestIdle, nil, nil, streamingTypes)

	if err := page.Navigate(url); err != nil {
		return err
	}
	if err := page.WaitLoad(); err != nil {
		return err
	}
	waitIdle()
	if err := ctx.Err(); err != nil {
		return err
	}

	p.url = url
	if info, err := page.Info(); err == nil && info.URL != "" {
		p.url = info.URL
	}
	return nil
}

// URL returns the URL of the loaded document after redirects.
func (p *Page) URL() string {
	return p.url
}

// HTML returns the rendered DOM.
func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

// Links extracts every http(s) hyperlink from the rendered DOM.
func (p *Page) Links(ctx context.Context) ([]string, error) {
	html, err := p.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading rendered HTML: %w", err)
	}
	return goquery.ExtractLinks(html, p.url)
}

// InjectScript adds an inline script to the document.
func (p *Page) InjectScript(ctx context.Context, source string) error {
	return p.page.Context(ctx).AddScriptTag("", source)
}

// Evaluate runs a JavaScript function expression, awaiting a returned
// promise, and returns the result encoded as JSON.
func (p *Page) Evaluate(ctx context.Context, js string, args ...any) ([]byte, error) {
	res, err := p.page.Context(ctx).Evaluate(rod.Eval(js, args...).ByPromise())
	if err != nil {
		return nil, err
	}
	return json.Marshal(res.Value)
}

// Close closes the tab.
func (p *Page) Close() error {
	return p.page.Close()
}
