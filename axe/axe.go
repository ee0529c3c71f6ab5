// Package axe implements the rule-based engine by injecting the axe-core
// script into a loaded page and running it in the page's own context.
package axe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/fwojciec/a11ycrawl"
)

// Ensure Engine implements a11ycrawl.RuleEngine at compile time.
var _ a11ycrawl.RuleEngine = (*Engine)(nil)

const (
	presentScript = `() => typeof window.axe !== 'undefined' && typeof window.axe.run === 'function'`
	runScript     = `(opts) => window.axe.run(document, opts).then((r) => r.violations)`
)

// Engine runs axe-core against pages.
// Engine is safe for concurrent use by multiple goroutines.
type Engine struct {
	source a11ycrawl.ScriptSource
	tags   []string
	rules  []string

	mu     sync.Mutex
	script string
}

// Option configures an Engine.
type Option func(*Engine)

// WithTags restricts the run to rules carrying any of the given tags,
// such as "wcag2a" or "best-practice".
func WithTags(tags ...string) Option {
	return func(e *Engine) {
		e.tags = append(e.tags, tags...)
	}
}

// WithRules restricts the run to the given rule ids.
// It takes precedence over WithTags.
func WithRules(ids ...string) Option {
	return func(e *Engine) {
		e.rules = append(e.rules, ids...)
	}
}

// NewEngine creates an Engine that injects the script loaded from source.
func NewEngine(source a11ycrawl.ScriptSource, opts ...Option) *Engine {
	e := &Engine{source: source}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze injects axe-core into page unless it is already present, runs it,
// and returns the violations in the order axe reported them.
func (e *Engine) Analyze(ctx context.Context, page a11ycrawl.Page) ([]a11ycrawl.Issue, error) {
	if err := e.ensureInjected(ctx, page); err != nil {
		return nil, err
	}

	raw, err := page.Evaluate(ctx, runScript, e.runOptions())
	if err != nil {
		return nil, fmt.Errorf("running axe: %w", err)
	}

	return DecodeViolations(raw)
}

func (e *Engine) ensureInjected(ctx context.Context, page a11ycrawl.Page) error {
	raw, err := page.Evaluate(ctx, presentScript)
	if err != nil {
		return fmt.Errorf("probing for axe: %w", err)
	}
	var present bool
	if err := json.Unmarshal(raw, &present); err == nil && present {
		return nil
	}

	script, err := e.load(ctx)
	if err != nil {
		return err
	}
	if err := page.InjectScript(ctx, script); err != nil {
		return fmt.Errorf("injecting axe: %w", err)
	}
	return nil
}

// load returns the script source, loading it once per engine.
func (e *Engine) load(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.script != "" {
		return e.script, nil
	}
	if e.source == nil {
		return "", a11ycrawl.Errorf(a11ycrawl.EINVALID, "no axe script source configured")
	}
	script, err := e.source.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("loading axe script: %w", err)
	}
	if strings.TrimSpace(script) == "" {
		return "", a11ycrawl.Errorf(a11ycrawl.EINVALID, "axe script is empty")
	}
	e.script = script
	return script, nil
}

type runOnly struct {
	Type   string   `json:"type"`
	Values []string `json:"values"`
}

type runOptions struct {
	ResultTypes []string `json:"resultTypes"`
	RunOnly     *runOnly `json:"runOnly,omitempty"`
}

func (e *Engine) runOptions() runOptions {
	opts := runOptions{ResultTypes: []string{"violations"}}
	switch {
	case len(e.rules) > 0:
		opts.RunOnly = &runOnly{Type: "rule", Values: e.rules}
	case len(e.tags) > 0:
		opts.RunOnly = &runOnly{Type: "tag", Values: e.tags}
	}
	return opts
}
