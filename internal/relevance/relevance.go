// Package relevance picks which discovered site URLs are worth extracting.
package relevance

import (
	"sort"
	"strings"
)

const (
	defaultTopN    = 7
	defaultMaxURLs = 8
)

// Category is a weighted group of inclusion keywords.
type Category struct {
	Name     string   `yaml:"name" mapstructure:"name"`
	Weight   int      `yaml:"weight" mapstructure:"weight"`
	Keywords []string `yaml:"keywords" mapstructure:"keywords"`
}

// Vocabulary holds the keyword lists used to classify URLs.
type Vocabulary struct {
	Categories []Category `yaml:"categories" mapstructure:"categories"`
	Exclude    []string   `yaml:"exclude" mapstructure:"exclude"`
}

// DefaultVocabulary returns the built-in venue vocabulary. Venue keywords
// weigh 3, the other categories 2.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Categories: []Category{
			{Name: "venues", Weight: 3, Keywords: []string{"meeting", "event", "conference", "group", "ballroom", "banquet", "wedding", "function"}},
			{Name: "rooms", Weight: 2, Keywords: []string{"room", "suite", "accommodation", "stay", "lodging", "guest-room"}},
			{Name: "dining", Weight: 2, Keywords: []string{"dining", "restaurant", "bar", "outlet", "food", "cafe", "lounge", "eat"}},
			{Name: "amenities", Weight: 2, Keywords: []string{"amenity", "amenities", "activities", "spa", "pool", "fitness", "golf", "facility"}},
		},
		Exclude: []string{
			"privacy", "terms", "cookie", "careers", "jobs", "press", "news", "blog",
			"contact", "about-us", "faq", "help", "support", "login", "signin", "signup",
			"cart", "checkout", "booking", "reservation", "gallery", "photo", "video",
			"media", "sitemap", "legal",
		},
	}
}

// Scored pairs a URL with its relevance score.
type Scored struct {
	URL   string
	Score int
}

// Ranker scores and selects URLs against a vocabulary.
type Ranker struct {
	vocab Vocabulary
	// TopN is how many ranked candidates are kept.
	TopN int
	// MaxURLs caps the final selection, homepage included.
	MaxURLs int
}

// NewRanker creates a Ranker. Empty Categories or Exclude lists are filled
// from DefaultVocabulary independently.
func NewRanker(vocab Vocabulary) *Ranker {
	def := DefaultVocabulary()
	if len(vocab.Categories) == 0 {
		vocab.Categories = def.Categories
	}
	if len(vocab.Exclude) == 0 {
		vocab.Exclude = def.Exclude
	}
	return &Ranker{vocab: vocab, TopN: defaultTopN, MaxURLs: defaultMaxURLs}
}

// IsExcluded reports whether the URL contains any exclusion term.
func (r *Ranker) IsExcluded(u string) bool {
	lower := strings.ToLower(u)
	for _, term := range r.vocab.Exclude {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// IsRelevant reports whether the URL is a candidate: not excluded, and
// matching at least one inclusion keyword.
func (r *Ranker) IsRelevant(u string) bool {
	if r.IsExcluded(u) {
		return false
	}
	lower := strings.ToLower(u)
	for _, cat := range r.vocab.Categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// Score sums the category weight of every keyword found in the URL. A URL
// matching several keywords or categories accumulates each weight.
func (r *Ranker) Score(u string) int {
	lower := strings.ToLower(u)
	score := 0
	for _, cat := range r.vocab.Categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				score += cat.Weight
			}
		}
	}
	return score
}

// Rank returns the relevant URLs ordered by descending score. Ties keep
// their discovery order.
func (r *Ranker) Rank(urls []string) []Scored {
	var scored []Scored
	for _, u := range urls {
		if !r.IsRelevant(u) {
			continue
		}
		scored = append(scored, Scored{URL: u, Score: r.Score(u)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// Select returns the URLs to extract: the homepage first, then the top
// ranked candidates, de-duplicated and capped at MaxURLs.
func (r *Ranker) Select(urls []string, homepage string) []string {
	ranked := r.Rank(urls)
	if len(ranked) > r.TopN {
		ranked = ranked[:r.TopN]
	}

	seen := map[string]bool{homepage: true}
	out := []string{homepage}
	for _, s := range ranked {
		if len(out) >= r.MaxURLs {
			break
		}
		if seen[s.URL] {
			continue
		}
		seen[s.URL] = true
		out = append(out, s.URL)
	}
	return out
}

// Select applies the default vocabulary and limits.
func Select(urls []string, homepage string) []string {
	return NewRanker(DefaultVocabulary()).Select(urls, homepage)
}
