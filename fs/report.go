// Package fs provides file-based storage for reports.
package fs

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultReportDir is the directory reports are written to when no
// explicit output path is given.
const DefaultReportDir = "reports"

// ReportPath returns the default report location for a crawl of startURL
// started at now: reports/{host}-{timestamp}.md, with dots in the host and
// colons and dots in the UTC timestamp replaced by dashes.
// Example: https://www.example.com → reports/www-example-com-2026-10-14T12-30-45-123Z.md
func ReportPath(startURL string, now time.Time) string {
	host := "report"
	if u, err := url.Parse(startURL); err == nil && u.Hostname() != "" {
		host = strings.ReplaceAll(strings.ToLower(u.Hostname()), ".", "-")
		host = strings.ReplaceAll(host, ":", "-")
	}
	stamp := now.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return filepath.Join(DefaultReportDir, host+"-"+stamp+".md")
}

// ReportFile writes a report with atomic update semantics.
// Content goes to path.tmp and is moved to path on Commit, so a crash or
// an interrupted render never leaves a truncated report behind.
type ReportFile struct {
	path string
	file *os.File
}

// CreateReportFile creates parent directories and opens the temporary file.
func CreateReportFile(path string) (*ReportFile, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path + ".tmp")
	if err != nil {
		return nil, err
	}
	return &ReportFile{path: path, file: f}, nil
}

// Path returns the final location of the report.
func (r *ReportFile) Path() string {
	return r.path
}

// Write appends p to the temporary file.
func (r *ReportFile) Write(p []byte) (int, error) {
	return r.file.Write(p)
}

// Commit closes the temporary file and renames it into place,
// replacing any existing report at the same path.
func (r *ReportFile) Commit() error {
	if err := r.file.Close(); err != nil {
		_ = os.Remove(r.file.Name())
		return err
	}

	// Atomically rename temp to final
	return os.Rename(r.file.Name(), r.path)
}

// Abort discards the temporary file.
func (r *ReportFile) Abort() error {
	closeErr := r.file.Close()
	if err := os.Remove(r.file.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if errors.Is(closeErr, os.ErrClosed) {
		return nil
	}
	return closeErr
}
