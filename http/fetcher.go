// Package http loads engine scripts, such as the axe-core bundle, over HTTP.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/a11ycrawl"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBytes caps the size of a downloaded script.
const DefaultMaxBytes = 8 << 20

// Ensure ScriptSource implements a11ycrawl.ScriptSource at compile time.
var _ a11ycrawl.ScriptSource = (*ScriptSource)(nil)

// ScriptSource downloads a script once and serves it from memory afterwards.
// ScriptSource is safe for concurrent use by multiple goroutines.
type ScriptSource struct {
	url      string
	client   *http.Client
	timeout  time.Duration
	maxBytes int64

	mu     sync.Mutex
	script string
}

// Option configures a ScriptSource.
type Option func(*ScriptSource)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(s *ScriptSource) {
		s.timeout = d
	}
}

// WithMaxBytes caps the accepted response size.
func WithMaxBytes(n int64) Option {
	return func(s *ScriptSource) {
		s.maxBytes = n
	}
}

// NewScriptSource creates a ScriptSource for url.
func NewScriptSource(url string, opts ...Option) *ScriptSource {
	s := &ScriptSource{
		url:      url,
		timeout:  DefaultFetchTimeout,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.client = &http.Client{
		Timeout: s.timeout,
	}

	return s
}

// Load returns the script, downloading it on first use. Failed downloads
// are not cached.
func (s *ScriptSource) Load(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.script != "" {
		return s.script, nil
	}

	script, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}
	s.script = script
	return script, nil
}

func (s *ScriptSource) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", a11ycrawl.Errorf(a11ycrawl.EINVALID, "invalid script URL %q: %v", s.url, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", a11ycrawl.Errorf(a11ycrawl.ENOTFOUND, "script not found: %s", s.url)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, s.url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(body)) > s.maxBytes {
		return "", a11ycrawl.Errorf(a11ycrawl.EINVALID, "script at %s exceeds %d bytes", s.url, s.maxBytes)
	}

	return string(body), nil
}
