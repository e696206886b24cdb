package scrape

import (
	"net/url"
	"path"
	"strings"
)

// DefaultExcludePatterns drop asset and CMS plumbing URLs that never carry
// venue content.
var DefaultExcludePatterns = []string{
	"*.pdf",
	"*.jpg",
	"*.jpeg",
	"*.png",
	"*.gif",
	"*.svg",
	"*.webp",
	"*.xml",
	"/wp-content/*",
	"/wp-json/*",
	"/feed/*",
	"/tag/*",
	"/author/*",
}

// PathMatcher filters URLs by glob-style path patterns.
//
// A pattern with a leading slash is matched against the whole path, and
// "/dir/*" also matches anything below /dir. A pattern without a slash is
// matched against the last path segment only, so "*.pdf" catches PDFs at
// any depth.
type PathMatcher struct {
	patterns []string
}

// NewPathMatcher creates a PathMatcher. nil patterns select
// DefaultExcludePatterns; an empty non-nil slice excludes nothing.
func NewPathMatcher(patterns []string) *PathMatcher {
	if patterns == nil {
		patterns = DefaultExcludePatterns
	}
	lowered := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			lowered = append(lowered, p)
		}
	}
	return &PathMatcher{patterns: lowered}
}

// Patterns returns the configured patterns.
func (m *PathMatcher) Patterns() []string {
	return m.patterns
}

// IsExcluded reports whether rawURL matches any pattern. Unparseable URLs
// are excluded. A nil matcher excludes nothing.
func (m *PathMatcher) IsExcluded(rawURL string) bool {
	if m == nil {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	p := strings.ToLower(u.Path)
	for _, pattern := range m.patterns {
		if matchPattern(pattern, p) {
			return true
		}
	}
	return false
}

// Filter returns the URLs that are not excluded, preserving order.
func (m *PathMatcher) Filter(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if !m.IsExcluded(u) {
			out = append(out, u)
		}
	}
	return out
}

func matchPattern(pattern, urlPath string) bool {
	if !strings.HasPrefix(pattern, "/") {
		ok, _ := path.Match(pattern, path.Base(urlPath))
		return ok
	}
	if ok, _ := path.Match(pattern, urlPath); ok {
		return true
	}
	if dir, found := strings.CutSuffix(pattern, "/*"); found {
		return urlPath == dir || strings.HasPrefix(urlPath, dir+"/")
	}
	return false
}
