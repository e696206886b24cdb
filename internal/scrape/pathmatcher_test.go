package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathMatcher_IsExcluded(t *testing.T) {
	t.Parallel()
	m := NewPathMatcher([]string{"/blog/*", "*.pdf", "/Specials"})

	tests := []struct {
		name     string
		url      string
		excluded bool
	}{
		{"blog post", "https://hotel.com/blog/post1", true},
		{"blog root", "https://hotel.com/blog", true},
		{"blog deep path", "https://hotel.com/blog/2024/01/post", true},
		{"root pdf", "https://hotel.com/factsheet.pdf", true},
		{"nested pdf", "https://hotel.com/meetings/capacity-chart.PDF", true},
		{"exact path lowercased", "https://hotel.com/specials", true},
		{"meetings", "https://hotel.com/meetings", false},
		{"blog prefix without slash", "https://hotel.com/blogger-events", false},
		{"homepage", "https://hotel.com/", false},
		{"unparseable", "http://[::1]:namedport", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.excluded, m.IsExcluded(tt.url))
		})
	}
}

func TestPathMatcher_DefaultPatterns(t *testing.T) {
	t.Parallel()
	m := NewPathMatcher(nil)

	assert.Equal(t, len(DefaultExcludePatterns), len(m.Patterns()))
	assert.True(t, m.IsExcluded("https://hotel.com/wp-content/uploads/ballroom.jpg"))
	assert.True(t, m.IsExcluded("https://hotel.com/sitemap_index.xml"))
	assert.False(t, m.IsExcluded("https://hotel.com/dining"))
}

func TestPathMatcher_EmptyExcludesNothing(t *testing.T) {
	t.Parallel()
	m := NewPathMatcher([]string{})

	assert.Empty(t, m.Patterns())
	assert.False(t, m.IsExcluded("https://hotel.com/brochure.pdf"))
}

func TestPathMatcher_NilIsPermissive(t *testing.T) {
	t.Parallel()
	var m *PathMatcher
	assert.False(t, m.IsExcluded("https://hotel.com/x.pdf"))
	assert.Equal(t, []string{"a", "b"}, m.Filter([]string{"a", "b"}))
}

func TestPathMatcher_Filter(t *testing.T) {
	t.Parallel()
	m := NewPathMatcher([]string{"*.pdf"})

	got := m.Filter([]string{
		"https://hotel.com/meetings",
		"https://hotel.com/menu.pdf",
		"https://hotel.com/spa",
	})
	assert.Equal(t, []string{"https://hotel.com/meetings", "https://hotel.com/spa"}, got)
}
