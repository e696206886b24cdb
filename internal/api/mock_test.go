package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/venue-quote/internal/model"
)

type mockQuoter struct {
	mock.Mock
}

func (m *mockQuoter) Run(ctx context.Context, siteURL string) (*model.Quote, error) {
	args := m.Called(ctx, siteURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}
