package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/venue-quote/internal/config"
	"github.com/sells-group/venue-quote/internal/pipeline"
	"github.com/sells-group/venue-quote/internal/pricing"
	"github.com/sells-group/venue-quote/internal/relevance"
	"github.com/sells-group/venue-quote/internal/resilience"
	"github.com/sells-group/venue-quote/internal/scrape"
	anthropicpkg "github.com/sells-group/venue-quote/pkg/anthropic"
	"github.com/sells-group/venue-quote/pkg/firecrawl"
	"github.com/sells-group/venue-quote/pkg/jina"
)

// initPipeline validates the config for mode and builds the Pipeline from
// it. A missing extractor key is not an error here: the pipeline reports it
// as not configured on every run.
func initPipeline(c *config.Config, mode string) (*pipeline.Pipeline, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	retry := resilience.NewPolicy(
		c.Pipeline.Retry.MaxAttempts,
		c.Pipeline.Retry.InitialBackoffMs,
		c.Pipeline.Retry.MaxBackoffMs,
	)

	var fc firecrawl.Client
	if c.Firecrawl.Key != "" {
		fc = newFirecrawlClient(c.Firecrawl)
	}

	mapper := buildMapper(c, fc, retry)
	extractor := buildExtractor(c, fc, retry)

	zap.L().Info("pipeline initialized",
		zap.String("mapper", c.Mapper.Provider),
		zap.String("extractor", c.Extractor.Provider),
		zap.Bool("extractor_configured", extractor != nil),
		zap.Int("retry_attempts", retry.MaxAttempts),
		zap.Duration("page_timeout", c.Pipeline.PageTimeout()),
	)

	return pipeline.New(mapper, extractor,
		pipeline.WithRanker(buildRanker(c.Relevance)),
		pipeline.WithCalculator(pricing.NewCalculator(c.Pricing)),
		pipeline.WithPageTimeout(c.Pipeline.PageTimeout()),
	), nil
}

// buildRanker applies configured vocabulary and limits. Zero limits keep the
// ranker defaults.
func buildRanker(rc config.RelevanceConfig) *relevance.Ranker {
	r := relevance.NewRanker(relevance.Vocabulary{Categories: rc.Categories, Exclude: rc.Exclude})
	if rc.TopN > 0 {
		r.TopN = rc.TopN
	}
	if rc.MaxURLs > 0 {
		r.MaxURLs = rc.MaxURLs
	}
	return r
}

func newFirecrawlClient(fc config.FirecrawlConfig) firecrawl.Client {
	opts := []firecrawl.Option{firecrawl.WithBaseURL(fc.BaseURL)}
	if fc.TimeoutSecs > 0 {
		opts = append(opts, firecrawl.WithTimeout(time.Duration(fc.TimeoutSecs)*time.Second))
	}
	if fc.RequestsPerSecond > 0 {
		opts = append(opts, firecrawl.WithRateLimit(fc.RequestsPerSecond, fc.Burst))
	}
	return firecrawl.NewClient(fc.Key, opts...)
}

// buildMapper returns nil when discovery is disabled or unavailable; the
// pipeline then extracts the target page alone. Only configured exclude
// patterns are applied; the ranker sees every other mapped URL.
func buildMapper(c *config.Config, fc firecrawl.Client, retry resilience.Policy) scrape.Mapper {
	patterns := c.Mapper.ExcludePaths
	if patterns == nil {
		patterns = []string{}
	}
	matcher := scrape.NewPathMatcher(patterns)

	remote := func() scrape.Mapper {
		if fc == nil {
			zap.L().Warn("firecrawl api key not set, firecrawl mapping disabled")
			return nil
		}
		m := scrape.NewFirecrawlMapper(fc)
		m.Matcher = matcher
		m.Limit = c.Mapper.MapLimit
		m.Retry = retry
		return m
	}
	local := func() scrape.Mapper {
		m := scrape.NewLocalMapper(matcher)
		if c.Mapper.MaxPages > 0 {
			m.MaxPages = c.Mapper.MaxPages
		}
		return m
	}

	switch c.Mapper.Provider {
	case config.ProviderFirecrawl:
		return remote()
	case config.ProviderLocal:
		return local()
	case config.ProviderChain:
		if m := remote(); m != nil {
			return scrape.NewChainMapper(m, local())
		}
		return local()
	default:
		return nil
	}
}

// buildExtractor returns nil when the selected provider has no credentials.
func buildExtractor(c *config.Config, fc firecrawl.Client, retry resilience.Policy) scrape.Extractor {
	switch c.Extractor.Provider {
	case config.ProviderFirecrawl:
		if fc == nil {
			zap.L().Warn("firecrawl api key not set, extraction unavailable")
			return nil
		}
		e := scrape.NewFirecrawlExtractor(fc)
		e.Retry = retry
		return e
	case config.ProviderClaude:
		if c.Anthropic.Key == "" {
			zap.L().Warn("anthropic api key not set, extraction unavailable")
			return nil
		}
		reader := jina.NewClient(c.Jina.Key, jina.WithBaseURL(c.Jina.BaseURL))
		e := scrape.NewClaudeExtractor(reader, anthropicpkg.NewClient(c.Anthropic.Key))
		if c.Anthropic.Model != "" {
			e.Model = c.Anthropic.Model
		}
		if c.Anthropic.MaxTokens > 0 {
			e.MaxTokens = c.Anthropic.MaxTokens
		}
		if c.Anthropic.MaxPageChars > 0 {
			e.MaxPageChars = c.Anthropic.MaxPageChars
		}
		e.Retry = retry
		return e
	default:
		return nil
	}
}
