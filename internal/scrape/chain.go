package scrape

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ChainMapper tries mappers in priority order and returns the first
// non-empty result.
type ChainMapper struct {
	mappers []Mapper
}

// NewChainMapper creates a ChainMapper. Nil mappers are skipped.
func NewChainMapper(mappers ...Mapper) *ChainMapper {
	c := &ChainMapper{}
	for _, m := range mappers {
		if m != nil {
			c.mappers = append(c.mappers, m)
		}
	}
	return c
}

// Map implements Mapper.
func (c *ChainMapper) Map(ctx context.Context, siteURL string) ([]string, error) {
	var lastErr error
	for i, m := range c.mappers {
		urls, err := m.Map(ctx, siteURL)
		if err == nil && len(urls) > 0 {
			return urls, nil
		}
		if err != nil {
			lastErr = err
		}
		if ctx.Err() != nil {
			break
		}
		zap.L().Debug("scrape: mapper produced nothing, trying next",
			zap.Int("position", i),
			zap.String("url", siteURL),
			zap.Error(err),
		)
	}
	if lastErr != nil {
		return nil, eris.Wrap(lastErr, "scrape: all mappers failed")
	}
	return nil, nil
}
