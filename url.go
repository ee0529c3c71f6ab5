package a11ycrawl

import (
	"net"
	"net/url"
	"path"
	"strings"
)

// Normalize returns the canonical form of rawURL: the parsed URL with its
// fragment removed, its host lower-cased, a default port dropped, and an empty
// path written as "/". Two URLs name the same page iff their canonical forms
// are equal.
//
// When rawURL is not an absolute URL, Normalize returns it unchanged with
// ok=false. Callers may still use the result as an opaque identity key.
func Normalize(rawURL string) (canonical string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return rawURL, false
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Host = canonicalHost(u)
	if u.Path == "" && u.Opaque == "" {
		u.Path = "/"
		u.RawPath = ""
	}
	return u.String(), true
}

// canonicalHost lower-cases the host of u and strips the port when it is
// the scheme's default.
func canonicalHost(u *url.URL) string {
	host := strings.ToLower(u.Host)
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		host = strings.TrimSuffix(host, ":"+port)
	}
	return host
}

// Origin returns the scheme://host:port triple of rawURL. Default ports are
// made explicit so that https://a.test and https://a.test:443 compare equal.
func Origin(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", Errorf(EINVALID, "URL %q is not absolute", rawURL)
	}
	scheme := strings.ToLower(u.Scheme)
	port := u.Port()
	if port == "" {
		switch scheme {
		case "http":
			port = "80"
		case "https":
			port = "443"
		}
	}
	host := strings.ToLower(u.Hostname())
	if port == "" {
		return scheme + "://" + host, nil
	}
	return scheme + "://" + net.JoinHostPort(host, port), nil
}

// InScope reports whether rawURL has the same origin as baseOrigin.
// Invalid URLs are never in scope.
func InScope(rawURL, baseOrigin string) bool {
	origin, err := Origin(rawURL)
	if err != nil {
		return false
	}
	return origin == baseOrigin
}

// nonDocumentExtensions lists path extensions that never lead to a
// navigable HTML document.
var nonDocumentExtensions = map[string]struct{}{
	// documents
	"pdf": {}, "doc": {}, "docx": {}, "xls": {}, "xlsx": {}, "ppt": {},
	"pptx": {}, "odt": {}, "ods": {}, "odp": {}, "rtf": {}, "epub": {},
	// archives
	"zip": {}, "tar": {}, "gz": {}, "tgz": {}, "bz2": {}, "xz": {},
	"7z": {}, "rar": {},
	// images
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "bmp": {}, "svg": {},
	"webp": {}, "ico": {}, "tif": {}, "tiff": {}, "avif": {},
	// audio and video
	"mp3": {}, "wav": {}, "ogg": {}, "flac": {}, "aac": {}, "m4a": {},
	"mp4": {}, "m4v": {}, "mov": {}, "avi": {}, "mkv": {}, "webm": {},
	"wmv": {},
	// executables and installers
	"exe": {}, "msi": {}, "dmg": {}, "pkg": {}, "deb": {}, "rpm": {},
	"apk": {}, "bin": {}, "iso": {},
	// structured data
	"json": {}, "xml": {}, "csv": {}, "tsv": {}, "yaml": {}, "yml": {},
	"rss": {}, "atom": {},
	// web assets
	"css": {}, "js": {}, "mjs": {}, "map": {}, "woff": {}, "woff2": {},
	"ttf": {}, "otf": {}, "eot": {},
}

// IsDocumentLike reports whether rawURL may point at an HTML document.
// It is false only when the path ends in a known non-document extension.
// Unparseable URLs are assumed to be document-like.
func IsDocumentLike(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")
	if ext == "" {
		return true
	}
	_, denied := nonDocumentExtensions[ext]
	return !denied
}
