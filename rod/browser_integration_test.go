//go:build integration

package rod_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/a11ycrawl/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Home</title></head>
<body>
<a href="/about">About</a>
<div id="nav"></div>
<script>
var a = document.createElement('a');
a.href = '/rendered';
a.textContent = 'Rendered';
document.getElementById('nav').appendChild(a);
</script>
</body>
</html>`))
	})
	mux.HandleFunc("/late", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Late</title></head>
<body>
<main id="content">Loading</main>
<script>
window.addEventListener('load', function () {
  fetch('/fragment').then(function (r) { return r.text(); }).then(function (html) {
    document.getElementById('content').innerHTML = html;
  });
});
</script>
</body>
</html>`))
	})
	mux.HandleFunc("/fragment", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`<a href="/fetched">Fetched</a>`))
	})
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestPage_Integration(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)
	ctx := context.Background()

	browser, err := rod.NewLauncher().Launch(ctx)
	require.NoError(t, err)
	defer browser.Close()

	conn := browser.DebugConnection()
	assert.NotZero(t, conn.Port)

	bctx, err := browser.NewContext(ctx)
	require.NoError(t, err)
	defer bctx.Close()

	t.Run("extracts links from rendered DOM", func(t *testing.T) {
		page, err := bctx.NewPage(ctx)
		require.NoError(t, err)
		defer page.Close()

		require.NoError(t, page.Navigate(ctx, srv.URL))
		links, err := page.Links(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/about", srv.URL + "/rendered"}, links)
	})

	t.Run("waits for requests started after load", func(t *testing.T) {
		page, err := bctx.NewPage(ctx)
		require.NoError(t, err)
		defer page.Close()

		require.NoError(t, page.Navigate(ctx, srv.URL+"/late"))
		links, err := page.Links(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/fetched"}, links)
	})

	t.Run("reports URL after redirects", func(t *testing.T) {
		page, err := bctx.NewPage(ctx)
		require.NoError(t, err)
		defer page.Close()

		require.NoError(t, page.Navigate(ctx, srv.URL+"/old"))

		assert.Equal(t, srv.URL+"/", page.URL())
	})

	t.Run("evaluates injected script and awaits promises", func(t *testing.T) {
		page, err := bctx.NewPage(ctx)
		require.NoError(t, err)
		defer page.Close()

		require.NoError(t, page.Navigate(ctx, srv.URL))
		require.NoError(t, page.InjectScript(ctx, `window.answer = function(n) { return Promise.resolve({value: n * 2}); };`))

		raw, err := page.Evaluate(ctx, `(n) => window.answer(n)`, 21)
		require.NoError(t, err)

		var got struct{ Value int }
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, 42, got.Value)
	})

	t.Run("honors canceled context", func(t *testing.T) {
		page, err := bctx.NewPage(ctx)
		require.NoError(t, err)
		defer page.Close()

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		err = page.Navigate(canceled, srv.URL)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
