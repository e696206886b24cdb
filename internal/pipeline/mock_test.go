package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/venue-quote/internal/model"
	"github.com/sells-group/venue-quote/internal/scrape"
)

type mockMapper struct {
	mock.Mock
}

func (m *mockMapper) Map(ctx context.Context, siteURL string) ([]string, error) {
	args := m.Called(ctx, siteURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, pageURL string, schema scrape.Schema, prompt string) (*model.ExtractionRecord, error) {
	args := m.Called(ctx, pageURL, schema, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExtractionRecord), args.Error(1)
}
