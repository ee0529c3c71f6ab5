// Package goquery extracts hyperlinks from rendered HTML.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/a11ycrawl"
)

// linkSelector matches every element that navigates to another document.
const linkSelector = "a[href], area[href]"

// ExtractLinks returns the absolute form of every hyperlink in html.
// Relative references are resolved against the document's <base href> when
// present, otherwise against baseURL. Fragments are stripped, non-http(s)
// schemes are dropped, and duplicates are removed keeping document order.
// Scope filtering is left to the caller.
func ExtractLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, a11ycrawl.Errorf(a11ycrawl.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, a11ycrawl.Errorf(a11ycrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			base = base.ResolveReference(ref)
		}
	}

	seen := make(map[string]struct{})
	links := []string{}
	doc.Find(linkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})

	return links, nil
}

// resolveURL resolves href against base and strips the fragment.
// Returns empty string if href cannot be parsed or resolves to anything
// other than http or https.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	if resolved.Host == "" {
		return ""
	}
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
