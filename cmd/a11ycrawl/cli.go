package main

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/a11ycrawl"
	"github.com/fwojciec/a11ycrawl/crawl"
)

// DefaultAxeScript is the axe-core bundle injected into pages.
const DefaultAxeScript = "https://cdn.jsdelivr.net/npm/axe-core@4.10.2/axe.min.js"

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL        string        `arg:"" optional:"" help:"Start URL; only pages on the same origin are crawled"`
	MaxPages   string        `name:"max-pages" short:"n" default:"10" env:"A11YCRAWL_MAX_PAGES" help:"Maximum number of pages to analyze"`
	Output     string        `short:"o" env:"A11YCRAWL_OUTPUT" help:"Report path (default: reports/{host}-{timestamp}.md)"`
	Timeout    time.Duration `short:"t" default:"30s" help:"Navigation timeout per page"`
	Retries    int           `default:"0" help:"Navigation retries per page"`
	AxeScript  string        `name:"axe-script" default:"${axe_script}" env:"A11YCRAWL_AXE_SCRIPT" help:"Path or URL of the axe-core script"`
	Tags       []string      `sep:"," help:"Only run axe rules with these tags, e.g. wcag2a,wcag2aa"`
	NoScore    bool          `name:"no-score" help:"Skip Lighthouse scoring"`
	Lighthouse string        `default:"lighthouse" env:"A11YCRAWL_LIGHTHOUSE" help:"Lighthouse executable"`
	FormFactor string        `name:"form-factor" enum:"desktop,mobile" default:"desktop" help:"Lighthouse form factor (desktop or mobile)"`
	Locale     string        `help:"Lighthouse report locale"`
	Chrome     string        `env:"A11YCRAWL_CHROME" help:"Chrome executable (default: find or download)"`
	Headful    bool          `help:"Show the browser window"`
	Verbose    bool          `short:"v" help:"Log every crawl step to stderr"`
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Crawler *crawl.Crawler
}

// ScanCmd crawls a site and writes its accessibility report.
type ScanCmd struct {
	URL    string
	Output string
}

// ParseMaxPages parses the page budget. Anything that is not a positive
// integer falls back to a11ycrawl.DefaultMaxPages.
func ParseMaxPages(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return a11ycrawl.DefaultMaxPages
	}
	return n
}
