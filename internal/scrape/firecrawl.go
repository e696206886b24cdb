package scrape

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/venue-quote/internal/model"
	"github.com/sells-group/venue-quote/internal/resilience"
	"github.com/sells-group/venue-quote/pkg/firecrawl"
)

// FirecrawlMapper lists site URLs with Firecrawl's map endpoint.
type FirecrawlMapper struct {
	client firecrawl.Client

	// Limit caps the number of links Firecrawl returns. Zero uses the
	// service default.
	Limit int
	// Matcher drops excluded URLs from the result when set.
	Matcher *PathMatcher
	Retry   resilience.Policy
}

// NewFirecrawlMapper creates a FirecrawlMapper with the default retry policy.
func NewFirecrawlMapper(client firecrawl.Client) *FirecrawlMapper {
	return &FirecrawlMapper{client: client, Retry: resilience.DefaultPolicy()}
}

// Map implements Mapper. A response with success=false is an error.
func (f *FirecrawlMapper) Map(ctx context.Context, siteURL string) ([]string, error) {
	retry := f.Retry
	retry.OnRetry = resilience.LogRetries(zap.L(), "firecrawl", "map")

	resp, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*firecrawl.MapResponse, error) {
		return f.client.Map(ctx, firecrawl.MapRequest{URL: siteURL, Limit: f.Limit})
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, eris.Errorf("firecrawl: map %s unsuccessful: %s", siteURL, resp.Error)
	}
	return f.Matcher.Filter(resp.Links), nil
}

// FirecrawlExtractor runs Firecrawl's LLM extraction on single pages.
type FirecrawlExtractor struct {
	client firecrawl.Client

	Retry resilience.Policy
}

// NewFirecrawlExtractor creates a FirecrawlExtractor with the default retry
// policy.
func NewFirecrawlExtractor(client firecrawl.Client) *FirecrawlExtractor {
	return &FirecrawlExtractor{client: client, Retry: resilience.DefaultPolicy()}
}

// Extract implements Extractor. Non-success responses and responses without
// an extract payload are errors.
func (f *FirecrawlExtractor) Extract(ctx context.Context, pageURL string, schema Schema, prompt string) (*model.ExtractionRecord, error) {
	retry := f.Retry
	retry.OnRetry = resilience.LogRetries(zap.L(), "firecrawl", "scrape")

	resp, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*firecrawl.ScrapeResponse, error) {
		return f.client.Scrape(ctx, firecrawl.ScrapeRequest{
			URL:     pageURL,
			Formats: []string{"extract"},
			Extract: &firecrawl.ExtractOptions{
				Schema: schema,
				Prompt: prompt,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, eris.Errorf("firecrawl: scrape %s unsuccessful: %s", pageURL, resp.Error)
	}
	if !resp.Data.HasExtract() {
		return nil, eris.Wrapf(ErrNoExtract, "firecrawl: %s", pageURL)
	}
	return decodeRecord(resp.Data.Extract)
}
