package scrape

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/venue-quote/internal/resilience"
	"github.com/sells-group/venue-quote/pkg/anthropic"
	"github.com/sells-group/venue-quote/pkg/firecrawl"
	"github.com/sells-group/venue-quote/pkg/jina"
)

type mockFirecrawl struct{ mock.Mock }

func (m *mockFirecrawl) Map(ctx context.Context, req firecrawl.MapRequest) (*firecrawl.MapResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*firecrawl.MapResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFirecrawl) Scrape(ctx context.Context, req firecrawl.ScrapeRequest) (*firecrawl.ScrapeResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*firecrawl.ScrapeResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockJina struct{ mock.Mock }

func (m *mockJina) Read(ctx context.Context, targetURL string) (*jina.ReadResponse, error) {
	args := m.Called(ctx, targetURL)
	if v := args.Get(0); v != nil {
		return v.(*jina.ReadResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAnthropic struct{ mock.Mock }

func (m *mockAnthropic) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*anthropic.MessageResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMapper struct{ mock.Mock }

func (m *mockMapper) Map(ctx context.Context, siteURL string) ([]string, error) {
	args := m.Called(ctx, siteURL)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func fastRetry() resilience.Policy {
	return resilience.Policy{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}
