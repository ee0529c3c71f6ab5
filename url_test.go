package a11ycrawl_test

import (
	"testing"

	"github.com/fwojciec/a11ycrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{name: "strips fragment", url: "https://ex.com/a#x", want: "https://ex.com/a", wantOK: true},
		{name: "keeps query", url: "https://ex.com/a?b=1#y", want: "https://ex.com/a?b=1", wantOK: true},
		{name: "lower-cases host", url: "https://Ex.COM/Path", want: "https://ex.com/Path", wantOK: true},
		{name: "bare origin gets root path", url: "https://ex.com", want: "https://ex.com/", wantOK: true},
		{name: "bare origin with query gets root path", url: "https://ex.com?q=1", want: "https://ex.com/?q=1", wantOK: true},
		{name: "drops default https port", url: "https://ex.com:443/a", want: "https://ex.com/a", wantOK: true},
		{name: "drops default http port", url: "http://ex.com:80", want: "http://ex.com/", wantOK: true},
		{name: "keeps non-default port", url: "https://ex.com:8443/a", want: "https://ex.com:8443/a", wantOK: true},
		{name: "keeps http port on https", url: "https://ex.com:80/", want: "https://ex.com:80/", wantOK: true},
		{name: "drops default port on IPv6 host", url: "http://[::1]:80/x", want: "http://[::1]/x", wantOK: true},
		{name: "relative reference is returned unchanged", url: "/about", want: "/about", wantOK: false},
		{name: "garbage is returned unchanged", url: "not a url", want: "not a url", wantOK: false},
		{name: "parse error is returned unchanged", url: "http://[::1", want: "http://[::1", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := a11ycrawl.Normalize(tt.url)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNormalize_FragmentVariantsShareIdentity(t *testing.T) {
	t.Parallel()

	a, _ := a11ycrawl.Normalize("https://ex.com/a#x")
	b, _ := a11ycrawl.Normalize("https://ex.com/a#y")
	c, _ := a11ycrawl.Normalize("https://ex.com/a")

	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestNormalize_HomePageSpellingsShareIdentity(t *testing.T) {
	t.Parallel()

	want, _ := a11ycrawl.Normalize("https://example.com/")
	for _, raw := range []string{
		"https://example.com",
		"https://EXAMPLE.com",
		"https://example.com:443",
		"https://example.com:443/",
		"https://example.com/#main",
	} {
		got, ok := a11ycrawl.Normalize(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestOrigin(t *testing.T) {
	t.Parallel()

	t.Run("makes default https port explicit", func(t *testing.T) {
		t.Parallel()

		origin, err := a11ycrawl.Origin("https://Example.com/docs?x=1")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com:443", origin)
	})

	t.Run("makes default http port explicit", func(t *testing.T) {
		t.Parallel()

		origin, err := a11ycrawl.Origin("http://example.com")
		require.NoError(t, err)
		assert.Equal(t, "http://example.com:80", origin)
	})

	t.Run("keeps custom port", func(t *testing.T) {
		t.Parallel()

		origin, err := a11ycrawl.Origin("http://example.com:8080/x")
		require.NoError(t, err)
		assert.Equal(t, "http://example.com:8080", origin)
	})

	t.Run("brackets IPv6 hosts", func(t *testing.T) {
		t.Parallel()

		origin, err := a11ycrawl.Origin("http://[::1]:3000/")
		require.NoError(t, err)
		assert.Equal(t, "http://[::1]:3000", origin)
	})

	t.Run("rejects relative URL", func(t *testing.T) {
		t.Parallel()

		_, err := a11ycrawl.Origin("/about")
		require.Error(t, err)
		assert.Equal(t, a11ycrawl.EINVALID, a11ycrawl.ErrorCode(err))
	})
}

func TestInScope(t *testing.T) {
	t.Parallel()

	base, err := a11ycrawl.Origin("https://example.com")
	require.NoError(t, err)

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{name: "same origin", url: "https://example.com/about", want: true},
		{name: "explicit default port", url: "https://example.com:443/about", want: true},
		{name: "different host", url: "https://other.com/about", want: false},
		{name: "subdomain", url: "https://www.example.com/", want: false},
		{name: "different scheme", url: "http://example.com/about", want: false},
		{name: "different port", url: "https://example.com:8443/", want: false},
		{name: "relative URL", url: "/about", want: false},
		{name: "invalid URL", url: "http://[::1", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, a11ycrawl.InScope(tt.url, base))
		})
	}
}

func TestIsDocumentLike(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{name: "no extension", url: "https://example.com/about", want: true},
		{name: "root", url: "https://example.com/", want: true},
		{name: "html page", url: "https://example.com/index.html", want: true},
		{name: "php page", url: "https://example.com/index.php?id=1", want: true},
		{name: "pdf", url: "https://example.com/report.pdf", want: false},
		{name: "upper-case extension", url: "https://example.com/REPORT.PDF", want: false},
		{name: "image with query", url: "https://example.com/logo.jpg?v=2", want: false},
		{name: "archive", url: "https://example.com/dist/app.tar.gz", want: false},
		{name: "json feed", url: "https://example.com/api/data.json", want: false},
		{name: "extension only in fragment", url: "https://example.com/page#file.pdf", want: true},
		{name: "unparseable defaults to document", url: "http://example.com/%zz.pdf", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, a11ycrawl.IsDocumentLike(tt.url))
		})
	}
}
