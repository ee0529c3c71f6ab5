//go:build integration && !windows

package rod_test

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/fwojciec/a11ycrawl/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowser_Close_KillsLauncherProcess(t *testing.T) {
	t.Parallel()

	b, err := rod.NewLauncher().Launch(context.Background())
	require.NoError(t, err)
	browser := b.(*rod.Browser)

	// Get the launcher PID before closing
	pid := browser.LauncherPID()
	require.NotZero(t, pid, "launcher PID should be set")

	// On Unix, FindProcess always succeeds, so we must use Signal to verify
	err = syscall.Kill(pid, syscall.Signal(0))
	require.NoError(t, err, "launcher process should be running before Close()")

	require.NoError(t, browser.Close())
	require.NoError(t, browser.Close(), "second Close should be a no-op")

	// Give the OS a moment to clean up the process
	time.Sleep(100 * time.Millisecond)

	err = syscall.Kill(pid, syscall.Signal(0))
	assert.Error(t, err, "launcher process should be terminated after Close()")
}
