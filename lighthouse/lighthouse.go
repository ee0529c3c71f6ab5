// Package lighthouse implements the score-based engine by running the
// Lighthouse CLI against the crawl's browser over its debugging port.
package lighthouse

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/fwojciec/a11ycrawl"
)

// DefaultBin is the Lighthouse executable looked up on PATH.
const DefaultBin = "lighthouse"

// Ensure Engine implements a11ycrawl.ScoreEngine at compile time.
var _ a11ycrawl.ScoreEngine = (*Engine)(nil)

// Runner executes a command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct{}

// Run executes name with args. A non-zero exit returns an error carrying
// the tail of the command's standard error.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// Engine audits pages with Lighthouse's accessibility category.
type Engine struct {
	bin    string
	runner Runner
	flags  []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithBin sets the Lighthouse executable. Defaults to DefaultBin.
func WithBin(path string) Option {
	return func(e *Engine) {
		e.bin = path
	}
}

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(e *Engine) {
		e.runner = r
	}
}

// WithFlags appends extra command-line flags to every run.
func WithFlags(flags ...string) Option {
	return func(e *Engine) {
		e.flags = append(e.flags, flags...)
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{bin: DefaultBin, runner: ExecRunner{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Audit runs Lighthouse against url through the browser at conn and
// returns the accessibility score with the checks that did not pass.
func (e *Engine) Audit(ctx context.Context, url string, conn a11ycrawl.DebugConnection, opts a11ycrawl.AuditOptions) (*a11ycrawl.ScoreResult, error) {
	if conn.Port <= 0 {
		return nil, a11ycrawl.Errorf(a11ycrawl.EINVALID, "no debugging port for lighthouse")
	}

	raw, err := e.runner.Run(ctx, e.bin, e.args(url, conn, opts)...)
	if err != nil {
		return nil, fmt.Errorf("running lighthouse: %w", err)
	}
	return DecodeReport(raw)
}

func (e *Engine) args(url string, conn a11ycrawl.DebugConnection, opts a11ycrawl.AuditOptions) []string {
	args := []string{
		url,
		"--port=" + strconv.Itoa(conn.Port),
		"--output=json",
		"--output-path=stdout",
		"--only-categories=accessibility",
		"--quiet",
	}
	if conn.Host != "" && conn.Host != "127.0.0.1" && conn.Host != "localhost" {
		args = append(args, "--hostname="+conn.Host)
	}
	switch opts.FormFactor {
	case "desktop":
		args = append(args, "--preset=desktop")
	case "mobile":
		args = append(args, "--form-factor=mobile")
	}
	if opts.Locale != "" {
		args = append(args, "--locale="+opts.Locale)
	}
	return append(args, e.flags...)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
