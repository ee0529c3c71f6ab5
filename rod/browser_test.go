package rod_test

import (
	"testing"

	"github.com/fwojciec/a11ycrawl"
	"github.com/fwojciec/a11ycrawl/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDebugConnection(t *testing.T) {
	t.Parallel()

	t.Run("extracts host and port", func(t *testing.T) {
		t.Parallel()

		u := "ws://127.0.0.1:37261/devtools/browser/5b1f0d2e"
		conn, err := rod.ParseDebugConnection(u)

		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1", conn.Host)
		assert.Equal(t, 37261, conn.Port)
		assert.Equal(t, u, conn.WebSocketURL)
	})

	t.Run("handles IPv6 hosts", func(t *testing.T) {
		t.Parallel()

		conn, err := rod.ParseDebugConnection("ws://[::1]:9222/devtools/browser/x")

		require.NoError(t, err)
		assert.Equal(t, "::1", conn.Host)
		assert.Equal(t, 9222, conn.Port)
	})

	t.Run("rejects URL without port", func(t *testing.T) {
		t.Parallel()

		_, err := rod.ParseDebugConnection("ws://localhost/devtools/browser/x")

		require.Error(t, err)
		assert.Equal(t, a11ycrawl.ELAUNCH, a11ycrawl.ErrorCode(err))
	})

	t.Run("rejects invalid port", func(t *testing.T) {
		t.Parallel()

		_, err := rod.ParseDebugConnection("ws://localhost:0/devtools/browser/x")

		require.Error(t, err)
	})
}
