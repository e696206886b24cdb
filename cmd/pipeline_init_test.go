package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/venue-quote/internal/config"
	"github.com/sells-group/venue-quote/internal/pipeline"
	"github.com/sells-group/venue-quote/internal/pricing"
	"github.com/sells-group/venue-quote/internal/relevance"
	"github.com/sells-group/venue-quote/internal/resilience"
	"github.com/sells-group/venue-quote/internal/scrape"
	"github.com/sells-group/venue-quote/pkg/firecrawl"
)

func testConfig() *config.Config {
	return &config.Config{
		Firecrawl: config.FirecrawlConfig{BaseURL: "http://127.0.0.1:1", TimeoutSecs: 5},
		Jina:      config.JinaConfig{BaseURL: "http://127.0.0.1:1"},
		Extractor: config.ExtractorConfig{Provider: config.ProviderFirecrawl},
		Mapper:    config.MapperConfig{Provider: config.ProviderFirecrawl},
		Pricing:   pricing.DefaultRates(),
		Server:    config.ServerConfig{Port: 8080, MaxBodyBytes: 1 << 20},
		Pipeline: config.PipelineConfig{
			Retry: config.RetryConfig{MaxAttempts: 1, InitialBackoffMs: 1, MaxBackoffMs: 1},
		},
	}
}

func TestInitPipeline_InvalidConfig(t *testing.T) {
	c := testConfig()
	c.Extractor.Provider = "magic"

	p, err := initPipeline(c, "quote")
	assert.Nil(t, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extractor.provider")
}

func TestInitPipeline_ServeModeChecksPort(t *testing.T) {
	c := testConfig()
	c.Server.Port = 0

	_, err := initPipeline(c, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestInitPipeline_MissingKeyIsNotConfigured(t *testing.T) {
	p, err := initPipeline(testConfig(), "quote")
	require.NoError(t, err)
	require.NotNil(t, p)

	q, err := p.Run(context.Background(), "https://hotel.com")
	assert.Nil(t, q)
	assert.ErrorIs(t, err, pipeline.ErrNotConfigured)
}

func TestInitPipeline_InvalidURLBeatsMissingKey(t *testing.T) {
	p, err := initPipeline(testConfig(), "quote")
	require.NoError(t, err)

	_, err = p.Run(context.Background(), "not a url")
	assert.ErrorIs(t, err, pipeline.ErrInvalidURL)
}

func TestBuildMapper(t *testing.T) {
	fc := firecrawl.NewClient("fc-key")
	retry := resilience.DefaultPolicy()

	tests := []struct {
		name     string
		provider string
		client   firecrawl.Client
		want     any
	}{
		{name: "firecrawl", provider: config.ProviderFirecrawl, client: fc, want: &scrape.FirecrawlMapper{}},
		{name: "firecrawl without key", provider: config.ProviderFirecrawl, client: nil, want: nil},
		{name: "local", provider: config.ProviderLocal, client: nil, want: &scrape.LocalMapper{}},
		{name: "chain", provider: config.ProviderChain, client: fc, want: &scrape.ChainMapper{}},
		{name: "chain without key", provider: config.ProviderChain, client: nil, want: &scrape.LocalMapper{}},
		{name: "none", provider: config.ProviderNone, client: fc, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testConfig()
			c.Mapper.Provider = tt.provider

			m := buildMapper(c, tt.client, retry)
			if tt.want == nil {
				assert.Nil(t, m)
				return
			}
			assert.IsType(t, tt.want, m)
		})
	}
}

func TestBuildMapper_AppliesSettings(t *testing.T) {
	c := testConfig()
	c.Mapper.Provider = config.ProviderFirecrawl
	c.Mapper.MaxPages = 50
	c.Mapper.MapLimit = 200
	c.Mapper.ExcludePaths = []string{"/careers/*"}

	retry := resilience.NewPolicy(2, 10, 20)
	m, ok := buildMapper(c, firecrawl.NewClient("fc-key"), retry).(*scrape.FirecrawlMapper)
	require.True(t, ok)
	assert.Equal(t, 200, m.Limit)
	assert.Equal(t, 2, m.Retry.MaxAttempts)
	assert.True(t, m.Matcher.IsExcluded("https://hotel.com/careers/chef"))
	assert.False(t, m.Matcher.IsExcluded("https://hotel.com/meetings"))

	c.Mapper.Provider = config.ProviderLocal
	lm, ok := buildMapper(c, nil, retry).(*scrape.LocalMapper)
	require.True(t, ok)
	assert.Equal(t, 50, lm.MaxPages)
}

func TestBuildExtractor(t *testing.T) {
	retry := resilience.DefaultPolicy()

	c := testConfig()
	assert.Nil(t, buildExtractor(c, nil, retry))

	e := buildExtractor(c, firecrawl.NewClient("fc-key"), retry)
	assert.IsType(t, &scrape.FirecrawlExtractor{}, e)

	c.Extractor.Provider = config.ProviderClaude
	assert.Nil(t, buildExtractor(c, nil, retry))

	c.Anthropic = config.AnthropicConfig{Key: "sk-test", Model: "claude-sonnet-4-5", MaxTokens: 2048, MaxPageChars: 1000}
	ce, ok := buildExtractor(c, nil, retry).(*scrape.ClaudeExtractor)
	require.True(t, ok)
	assert.Equal(t, "claude-sonnet-4-5", ce.Model)
	assert.EqualValues(t, 2048, ce.MaxTokens)
	assert.Equal(t, 1000, ce.MaxPageChars)
}

func TestBuildExtractor_ClaudeKeepsDefaults(t *testing.T) {
	c := testConfig()
	c.Extractor.Provider = config.ProviderClaude
	c.Anthropic = config.AnthropicConfig{Key: "sk-test"}

	ce, ok := buildExtractor(c, nil, resilience.DefaultPolicy()).(*scrape.ClaudeExtractor)
	require.True(t, ok)
	assert.NotEmpty(t, ce.Model)
	assert.Positive(t, ce.MaxTokens)
	assert.Positive(t, ce.MaxPageChars)
}

func TestBuildRanker(t *testing.T) {
	r := buildRanker(config.RelevanceConfig{})
	assert.Equal(t, relevance.NewRanker(relevance.DefaultVocabulary()).TopN, r.TopN)
	assert.True(t, r.IsRelevant("https://hotel.com/meetings"))

	r = buildRanker(config.RelevanceConfig{
		Categories: []relevance.Category{{Name: "spa", Weight: 1, Keywords: []string{"spa"}}},
		TopN:       2,
		MaxURLs:    3,
	})
	assert.Equal(t, 2, r.TopN)
	assert.Equal(t, 3, r.MaxURLs)
	assert.True(t, r.IsRelevant("https://hotel.com/spa"))
	assert.False(t, r.IsRelevant("https://hotel.com/meetings"))
}

func TestInitPipeline_DefaultMapperKeepsAssetLikeVenuePages(t *testing.T) {
	var (
		mu      sync.Mutex
		scraped []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/map":
			assert.NotContains(t, req, "limit")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"links": []string{
					"https://hotel.com/meetings/ballroom-capacity.pdf",
					"https://hotel.com/wp-content/uploads/meeting-event-guide",
					"https://hotel.com/careers",
				},
			})
		case "/scrape":
			mu.Lock()
			url, _ := req["url"].(string)
			scraped = append(scraped, url)
			mu.Unlock()
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": map[string]any{
					"extract": map[string]any{
						"hotel_name":    "Hotel X",
						"meeting_rooms": []map[string]any{{"name": "Grand Ballroom", "square_footage": "10,000 sq ft"}},
					},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := testConfig()
	c.Firecrawl = config.FirecrawlConfig{Key: "fc-key", BaseURL: srv.URL, TimeoutSecs: 5}

	p, err := initPipeline(c, "quote")
	require.NoError(t, err)

	q, err := p.Run(context.Background(), "https://hotel.com")
	require.NoError(t, err)

	sort.Strings(scraped)
	assert.Equal(t, []string{
		"https://hotel.com",
		"https://hotel.com/meetings/ballroom-capacity.pdf",
		"https://hotel.com/wp-content/uploads/meeting-event-guide",
	}, scraped)
	assert.Equal(t, 3, q.PagesScraped)
	assert.InDelta(t, 10000, q.Pricing.TotalSquareFootage, 0.001)
}
