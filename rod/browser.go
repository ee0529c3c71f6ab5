// Package rod implements the browser layer using Chrome browser automation.
package rod

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/fwojciec/a11ycrawl"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure types implement the browser interfaces at compile time.
var (
	_ a11ycrawl.BrowserLauncher = (*Launcher)(nil)
	_ a11ycrawl.Browser         = (*Browser)(nil)
	_ a11ycrawl.BrowsingContext = (*BrowsingContext)(nil)
)

// stabilityFlags keep background tabs and constrained containers from
// stalling long sessions.
var stabilityFlags = []flags.Flag{
	"disable-background-timer-throttling",
	"disable-backgrounding-occluded-windows",
	"disable-renderer-backgrounding",
	"disable-dev-shm-usage",
	"disable-hang-monitor",
}

// Launcher starts a local Chrome process for each session.
type Launcher struct {
	headless bool
	bin      string
	flags    []string
}

// LauncherOption configures a Launcher.
type LauncherOption func(*Launcher)

// WithHeadless controls whether Chrome runs without a window. Defaults to true.
func WithHeadless(headless bool) LauncherOption {
	return func(l *Launcher) {
		l.headless = headless
	}
}

// WithBin sets the Chrome executable. When empty, rod finds or downloads one.
func WithBin(path string) LauncherOption {
	return func(l *Launcher) {
		l.bin = path
	}
}

// WithFlags adds extra Chrome command-line switches, without the leading dashes.
// A switch with a value is written as "name=value".
func WithFlags(flags ...string) LauncherOption {
	return func(l *Launcher) {
		l.flags = append(l.flags, flags...)
	}
}

// NewLauncher creates a Launcher.
func NewLauncher(opts ...LauncherOption) *Launcher {
	l := &Launcher{headless: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch starts Chrome and connects to it.
// Returns an error if Chrome/Chromium cannot be found or launched.
func (l *Launcher) Launch(ctx context.Context) (a11ycrawl.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lnchr := launcher.New().
		Leakless(true).
		Headless(l.headless)
	for _, f := range stabilityFlags {
		lnchr = lnchr.Set(f)
	}
	for _, f := range l.flags {
		name, value, hasValue := strings.Cut(f, "=")
		if hasValue {
			lnchr = lnchr.Set(flags.Flag(name), value)
		} else {
			lnchr = lnchr.Set(flags.Flag(name))
		}
	}
	if l.bin != "" {
		lnchr = lnchr.Bin(l.bin)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	conn, err := ParseDebugConnection(u)
	if err != nil {
		lnchr.Kill()
		return nil, err
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill() // Clean up launched process on connection failure
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &Browser{browser: browser, launcher: lnchr, conn: conn}, nil
}

// Browser is a connected Chrome process.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	conn     a11ycrawl.DebugConnection

	once     sync.Once
	closeErr error
}

// NewContext opens an incognito browsing context.
func (b *Browser) NewContext(ctx context.Context) (a11ycrawl.BrowsingContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	incognito, err := b.browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("creating incognito context: %w", err)
	}
	return &BrowsingContext{browser: incognito}, nil
}

// DebugConnection returns the remote debugging endpoint of the browser.
func (b *Browser) DebugConnection() a11ycrawl.DebugConnection {
	return b.conn
}

// Close shuts down the browser and kills the launcher process.
// Close is safe to call multiple times.
func (b *Browser) Close() error {
	b.once.Do(func() {
		b.closeErr = b.browser.Close()
		b.launcher.Kill()
	})
	return b.closeErr
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (b *Browser) LauncherPID() int {
	return b.launcher.PID()
}

// BrowsingContext is an incognito browser context.
type BrowsingContext struct {
	browser *rod.Browser
}

// NewPage opens a blank tab in the context.
func (c *BrowsingContext) NewPage(ctx context.Context) (a11ycrawl.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := c.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	return &Page{page: page}, nil
}

// Close disposes the context and every page in it.
func (c *BrowsingContext) Close() error {
	return c.browser.Close()
}

// ParseDebugConnection extracts the host and port of a DevTools control URL
// such as "ws://127.0.0.1:9222/devtools/browser/<id>".
func ParseDebugConnection(controlURL string) (a11ycrawl.DebugConnection, error) {
	u, err := url.Parse(controlURL)
	if err != nil {
		return a11ycrawl.DebugConnection{}, a11ycrawl.Errorf(a11ycrawl.ELAUNCH, "invalid control URL %q: %v", controlURL, err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		return a11ycrawl.DebugConnection{}, a11ycrawl.Errorf(a11ycrawl.ELAUNCH, "control URL %q has no port", controlURL)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return a11ycrawl.DebugConnection{}, a11ycrawl.Errorf(a11ycrawl.ELAUNCH, "control URL %q has invalid port", controlURL)
	}
	return a11ycrawl.DebugConnection{Host: host, Port: port, WebSocketURL: controlURL}, nil
}
