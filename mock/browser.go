package mock

import (
	"context"

	"github.com/fwojciec/a11ycrawl"
)

// Compile-time interface verification.
var (
	_ a11ycrawl.BrowserLauncher = (*BrowserLauncher)(nil)
	_ a11ycrawl.Browser         = (*Browser)(nil)
	_ a11ycrawl.BrowsingContext = (*BrowsingContext)(nil)
	_ a11ycrawl.Page            = (*Page)(nil)
)

// BrowserLauncher is a mock implementation of a11ycrawl.BrowserLauncher.
type BrowserLauncher struct {
	LaunchFn func(ctx context.Context) (a11ycrawl.Browser, error)
}

func (l *BrowserLauncher) Launch(ctx context.Context) (a11ycrawl.Browser, error) {
	return l.LaunchFn(ctx)
}

// Browser is a mock implementation of a11ycrawl.Browser.
type Browser struct {
	NewContextFn      func(ctx context.Context) (a11ycrawl.BrowsingContext, error)
	DebugConnectionFn func() a11ycrawl.DebugConnection
	CloseFn           func() error
}

func (b *Browser) NewContext(ctx context.Context) (a11ycrawl.BrowsingContext, error) {
	return b.NewContextFn(ctx)
}

func (b *Browser) DebugConnection() a11ycrawl.DebugConnection {
	return b.DebugConnectionFn()
}

func (b *Browser) Close() error {
	return b.CloseFn()
}

// BrowsingContext is a mock implementation of a11ycrawl.BrowsingContext.
type BrowsingContext struct {
	NewPageFn func(ctx context.Context) (a11ycrawl.Page, error)
	CloseFn   func() error
}

func (c *BrowsingContext) NewPage(ctx context.Context) (a11ycrawl.Page, error) {
	return c.NewPageFn(ctx)
}

func (c *BrowsingContext) Close() error {
	return c.CloseFn()
}

// Page is a mock implementation of a11ycrawl.Page.
type Page struct {
	NavigateFn     func(ctx context.Context, url string) error
	URLFn          func() string
	HTMLFn         func(ctx context.Context) (string, error)
	LinksFn        func(ctx context.Context) ([]string, error)
	InjectScriptFn func(ctx context.Context, source string) error
	EvaluateFn     func(ctx context.Context, js string, args ...any) ([]byte, error)
	CloseFn        func() error
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.NavigateFn(ctx, url)
}

func (p *Page) URL() string {
	return p.URLFn()
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.HTMLFn(ctx)
}

func (p *Page) Links(ctx context.Context) ([]string, error) {
	return p.LinksFn(ctx)
}

func (p *Page) InjectScript(ctx context.Context, source string) error {
	return p.InjectScriptFn(ctx, source)
}

func (p *Page) Evaluate(ctx context.Context, js string, args ...any) ([]byte, error) {
	return p.EvaluateFn(ctx, js, args...)
}

func (p *Page) Close() error {
	return p.CloseFn()
}
