package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/a11ycrawl"
	"github.com/fwojciec/a11ycrawl/axe"
	"github.com/fwojciec/a11ycrawl/crawl"
	a11yhttp "github.com/fwojciec/a11ycrawl/http"
	"github.com/fwojciec/a11ycrawl/lighthouse"
	"github.com/fwojciec/a11ycrawl/rod"
	a11yslog "github.com/fwojciec/a11ycrawl/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. Nil fields are built from flags.
	Launcher a11ycrawl.BrowserLauncher
	Rules    a11ycrawl.RuleEngine
	Score    a11ycrawl.ScoreEngine

	// LookPath resolves executables. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		LookPath: exec.LookPath,
		Now:      time.Now,
	}
}

// Run executes the CLI with the given arguments. A returned error has
// already been printed to stderr.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	err := m.run(ctx, args, stdout, stderr)
	if err != nil {
		printError(stderr, err)
	}
	return err
}

// printError writes err as a single line, followed by a hint for errors the
// user can fix locally.
func printError(w io.Writer, err error) {
	msg := err.Error()
	var e *a11ycrawl.Error
	if errors.As(err, &e) {
		msg = e.Message
	}
	fmt.Fprintf(w, "error: %s\n", msg)
	if a11ycrawl.ErrorCode(err) == a11ycrawl.ELAUNCH {
		fmt.Fprintln(w, "Hint: Chrome or Chromium must be installed")
	}
}

func (m *Main) run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("a11ycrawl"),
		kong.Description("Crawl a site and report accessibility violations"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"axe_script": DefaultAxeScript},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return a11ycrawl.Errorf(a11ycrawl.EINVALID, "usage: a11ycrawl <url> [--max-pages N]")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	if cli.URL == "" || strings.HasPrefix(cli.URL, "--") {
		return a11ycrawl.Errorf(a11ycrawl.EINVALID, "usage: a11ycrawl <url> [--max-pages N]")
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	analyzer := &crawl.Analyzer{
		Rules:        a11yslog.NewLoggingRuleEngine(m.ruleEngine(cli), logger),
		AuditOptions: a11ycrawl.AuditOptions{FormFactor: cli.FormFactor, Locale: cli.Locale},
	}
	if score := m.scoreEngine(cli, logger); score != nil {
		analyzer.Score = a11yslog.NewLoggingScoreEngine(score, logger)
	}

	deps.Crawler = &crawl.Crawler{
		Launcher:          a11yslog.NewLoggingLauncher(m.launcher(cli), logger),
		Analyzer:          analyzer,
		MaxPages:          ParseMaxPages(cli.MaxPages),
		NavigationTimeout: cli.Timeout,
		RetryDelays:       crawl.BackoffDelays(cli.Retries, time.Second),
		Now:               m.now,
	}

	cmd := &ScanCmd{
		URL:    cli.URL,
		Output: cli.Output,
	}

	return cmd.Run(deps)
}

func (m *Main) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Main) launcher(cli *CLI) a11ycrawl.BrowserLauncher {
	if m.Launcher != nil {
		return m.Launcher
	}
	opts := []rod.LauncherOption{rod.WithHeadless(!cli.Headful)}
	if cli.Chrome != "" {
		opts = append(opts, rod.WithBin(cli.Chrome))
	}
	return rod.NewLauncher(opts...)
}

func (m *Main) ruleEngine(cli *CLI) a11ycrawl.RuleEngine {
	if m.Rules != nil {
		return m.Rules
	}

	var source a11ycrawl.ScriptSource
	if isRemote(cli.AxeScript) {
		source = a11yhttp.NewScriptSource(cli.AxeScript)
	} else {
		source = axe.FileSource(cli.AxeScript)
	}

	var opts []axe.Option
	if len(cli.Tags) > 0 {
		opts = append(opts, axe.WithTags(cli.Tags...))
	}
	return axe.NewEngine(source, opts...)
}

// scoreEngine returns nil when scoring is disabled or Lighthouse is not
// installed.
func (m *Main) scoreEngine(cli *CLI, logger *slog.Logger) a11ycrawl.ScoreEngine {
	if cli.NoScore {
		return nil
	}
	if m.Score != nil {
		return m.Score
	}

	lookPath := m.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	bin, err := lookPath(cli.Lighthouse)
	if err != nil {
		logger.Warn("lighthouse not found, scores disabled", "bin", cli.Lighthouse, "err", err)
		return nil
	}
	return lighthouse.NewEngine(lighthouse.WithBin(bin))
}

func isRemote(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
