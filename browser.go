package a11ycrawl

import "context"

// BrowserLauncher acquires the browser process for a crawl session.
type BrowserLauncher interface {
	// Launch starts or connects to a browser.
	// A failure here is fatal for the session.
	Launch(ctx context.Context) (Browser, error)
}

// Browser is a running browser shared by every page of a session.
type Browser interface {
	// NewContext opens an isolated browsing context.
	NewContext(ctx context.Context) (BrowsingContext, error)

	// DebugConnection describes how out-of-process tools can attach to
	// the browser's remote debugging endpoint.
	DebugConnection() DebugConnection

	// Close shuts the browser down and releases its process.
	Close() error
}

// BrowsingContext is an isolated set of pages sharing cookies and storage.
type BrowsingContext interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is a single browser tab.
type Page interface {
	// Navigate loads url and waits until the network is idle.
	// The context controls timeout and cancellation.
	Navigate(ctx context.Context, url string) error

	// URL returns the URL of the currently loaded document.
	URL() string

	// HTML returns the rendered DOM serialized as HTML.
	HTML(ctx context.Context) (string, error)

	// Links returns every absolute http(s) hyperlink in the rendered DOM,
	// in document order.
	Links(ctx context.Context) ([]string, error)

	// InjectScript adds a script with the given source to the document.
	InjectScript(ctx context.Context, source string) error

	// Evaluate runs a JavaScript function expression, awaits the result if
	// it is a promise, and returns it encoded as JSON.
	Evaluate(ctx context.Context, js string, args ...any) ([]byte, error)

	Close() error
}

// DebugConnection locates a browser's remote debugging endpoint.
type DebugConnection struct {
	Host         string
	Port         int
	WebSocketURL string
}
