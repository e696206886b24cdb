// Package pipeline turns a hotel website URL into a priced venue quote.
package pipeline

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/venue-quote/internal/aggregate"
	"github.com/sells-group/venue-quote/internal/model"
	"github.com/sells-group/venue-quote/internal/pricing"
	"github.com/sells-group/venue-quote/internal/relevance"
	"github.com/sells-group/venue-quote/internal/scrape"
)

// Pipeline runs discovery, ranking, extraction, aggregation and pricing for
// one site per call. It holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	mapper      scrape.Mapper
	extractor   scrape.Extractor
	ranker      *relevance.Ranker
	pricer      *pricing.Calculator
	schema      scrape.Schema
	prompt      string
	pageTimeout time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRanker replaces the default relevance ranker.
func WithRanker(r *relevance.Ranker) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.ranker = r
		}
	}
}

// WithCalculator replaces the default pricing calculator.
func WithCalculator(c *pricing.Calculator) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.pricer = c
		}
	}
}

// WithPageTimeout bounds each page extraction. Zero means no bound.
func WithPageTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.pageTimeout = d
	}
}

// WithSchema overrides the extraction schema and prompt.
func WithSchema(schema scrape.Schema, prompt string) Option {
	return func(p *Pipeline) {
		p.schema = schema
		p.prompt = prompt
	}
}

// New creates a Pipeline. A nil mapper makes every run extract the target
// page only; a nil extractor makes Run fail with ErrNotConfigured.
func New(mapper scrape.Mapper, extractor scrape.Extractor, opts ...Option) *Pipeline {
	p := &Pipeline{
		mapper:    mapper,
		extractor: extractor,
		ranker:    relevance.NewRanker(relevance.DefaultVocabulary()),
		pricer:    pricing.NewCalculator(pricing.DefaultRates()),
		schema:    scrape.VenueSchema(),
		prompt:    scrape.VenuePrompt,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run produces a quote for targetURL. Mapper and per-page failures are
// absorbed; Run fails only for an invalid URL, a missing extractor, or when
// no page yields data.
func (p *Pipeline) Run(ctx context.Context, targetURL string) (*model.Quote, error) {
	if err := ValidateURL(targetURL); err != nil {
		return nil, err
	}
	if p.extractor == nil {
		return nil, ErrNotConfigured
	}

	log := zap.L().With(
		zap.String("run_id", uuid.NewString()),
		zap.String("url", targetURL),
	)
	start := time.Now()
	log.Info("pipeline: starting")

	discovered := p.discover(ctx, log, targetURL)
	pages := p.ranker.Select(discovered, targetURL)
	log.Info("pipeline: selected pages",
		zap.Int("discovered", len(discovered)),
		zap.Strings("pages", pages),
	)

	records := p.extractAll(ctx, log, pages)
	succeeded := aggregate.Succeeded(records)
	log.Info("pipeline: extraction finished",
		zap.Int("succeeded", succeeded),
		zap.Int("attempted", len(records)),
	)
	if succeeded == 0 {
		return nil, eris.Wrapf(ErrNoPagesExtracted, "%d pages attempted", len(records))
	}

	profile := aggregate.Aggregate(records, targetURL)
	quote := p.pricer.Quote(profile)

	log.Info("pipeline: quote ready",
		zap.String("hotel_name", profile.HotelName),
		zap.Int("meeting_rooms", len(profile.MeetingRooms)),
		zap.Int("hotel_room_types", len(profile.HotelRoomTypes)),
		zap.Int("restaurants_outlets", len(profile.RestaurantsOutlets)),
		zap.Int("amenities", len(profile.Amenities)),
		zap.Int("connecting_spaces", len(profile.ConnectingSpaces)),
		zap.Float64("total_square_footage", quote.TotalSquareFootage),
		zap.Float64("monthly_list", quote.MonthlyList),
		zap.Float64("monthly_floor", quote.MonthlyFloor),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &model.Quote{AggregatedProfile: *profile, Pricing: quote}, nil
}

// discover maps the site, falling back to the target page alone when the
// mapper is absent, fails, or finds nothing.
func (p *Pipeline) discover(ctx context.Context, log *zap.Logger, targetURL string) []string {
	fallback := []string{targetURL}
	if p.mapper == nil {
		return fallback
	}

	urls, err := p.mapper.Map(ctx, targetURL)
	if err != nil {
		log.Warn("pipeline: map failed, scraping target page only", zap.Error(err))
		return fallback
	}
	if len(urls) == 0 {
		log.Warn("pipeline: map returned no urls, scraping target page only")
		return fallback
	}
	return urls
}

// extractAll extracts every page concurrently. The result is positional:
// records[i] belongs to pages[i] and is nil when that page failed.
func (p *Pipeline) extractAll(ctx context.Context, log *zap.Logger, pages []string) []*model.ExtractionRecord {
	records := make([]*model.ExtractionRecord, len(pages))

	var g errgroup.Group
	for i, page := range pages {
		g.Go(func() error {
			rec, err := p.extractPage(ctx, page)
			switch {
			case err != nil:
				log.Warn("pipeline: page extraction failed", zap.String("page", page), zap.Error(err))
			case rec == nil:
				log.Warn("pipeline: no data extracted", zap.String("page", page))
			default:
				log.Debug("pipeline: page extracted", zap.String("page", page))
				records[i] = rec
			}
			return nil
		})
	}
	_ = g.Wait()

	return records
}

func (p *Pipeline) extractPage(ctx context.Context, page string) (*model.ExtractionRecord, error) {
	if p.pageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.pageTimeout)
		defer cancel()
	}
	return p.extractor.Extract(ctx, page, p.schema, p.prompt)
}

// ValidateURL checks that raw is an absolute http(s) URL with a host.
func ValidateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return eris.Wrap(ErrInvalidURL, "url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return eris.Wrapf(ErrInvalidURL, "parse %q", raw)
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return eris.Wrapf(ErrInvalidURL, "unsupported scheme in %q", raw)
	}
	if u.Hostname() == "" {
		return eris.Wrapf(ErrInvalidURL, "missing host in %q", raw)
	}
	return nil
}
