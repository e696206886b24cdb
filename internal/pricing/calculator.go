// Package pricing derives subscription quotes from aggregated venue data.
package pricing

import (
	"math"

	"github.com/sells-group/venue-quote/internal/model"
	"github.com/sells-group/venue-quote/internal/sqft"
)

// Rates holds the pricing policy.
type Rates struct {
	PlatformFee     FeePair     `yaml:"platform_fee" mapstructure:"platform_fee"`
	VariableRate    FeePair     `yaml:"variable_rate" mapstructure:"variable_rate"`
	MinimumFloorMRR float64     `yaml:"minimum_floor_mrr" mapstructure:"minimum_floor_mrr"`
	SetupFeeTiers   []SetupTier `yaml:"setup_fee_tiers" mapstructure:"setup_fee_tiers"`
}

// FeePair holds a list price and its negotiable floor.
type FeePair struct {
	List  float64 `yaml:"list" mapstructure:"list"`
	Floor float64 `yaml:"floor" mapstructure:"floor"`
}

// SetupTier is one row of the setup-fee table. MaxSqFt <= 0 means unbounded,
// and Custom marks the tier as negotiated per deal.
type SetupTier struct {
	MaxSqFt float64 `yaml:"max_sq_ft" mapstructure:"max_sq_ft"`
	List    float64 `yaml:"list" mapstructure:"list"`
	Floor   float64 `yaml:"floor" mapstructure:"floor"`
	Custom  bool    `yaml:"custom" mapstructure:"custom"`
}

func (t SetupTier) covers(total float64) bool {
	return t.MaxSqFt <= 0 || math.IsInf(t.MaxSqFt, 1) || total <= t.MaxSqFt
}

func (t SetupTier) fee() model.SetupFee {
	if t.Custom {
		return model.SetupFee{List: model.Custom(), Floor: model.Custom()}
	}
	return model.SetupFee{List: model.Amount(t.List), Floor: model.Amount(t.Floor)}
}

// DefaultRates returns the standard new-business pricing.
func DefaultRates() Rates {
	return Rates{
		PlatformFee:     FeePair{List: 529, Floor: 399},
		VariableRate:    FeePair{List: 0.02, Floor: 0.01},
		MinimumFloorMRR: 300,
		SetupFeeTiers: []SetupTier{
			{MaxSqFt: 50000, List: 2000, Floor: 1000},
			{MaxSqFt: 150000, List: 2500, Floor: 1750},
			{MaxSqFt: math.Inf(1), Custom: true},
		},
	}
}

// Calculator computes price quotes.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates. Missing setup
// tiers fall back to the defaults.
func NewCalculator(rates Rates) *Calculator {
	if len(rates.SetupFeeTiers) == 0 {
		rates.SetupFeeTiers = DefaultRates().SetupFeeTiers
	}
	return &Calculator{rates: rates}
}

// TotalSquareFootage sums meeting rooms and connecting spaces. Guest rooms and
// outlets are not part of the pricing base.
func TotalSquareFootage(p *model.AggregatedProfile) float64 {
	if p == nil {
		return 0
	}
	return sqft.Sum(p.MeetingRooms, func(r model.MeetingRoom) model.SquareFootage { return r.SquareFootage }) +
		sqft.Sum(p.ConnectingSpaces, func(c model.ConnectingSpace) model.SquareFootage { return c.SquareFootage })
}

// Quote prices a profile. It never fails; an empty profile prices at the
// platform fee with the floor clamped to the minimum.
func (c *Calculator) Quote(p *model.AggregatedProfile) model.PricingQuote {
	total := TotalSquareFootage(p)

	list := c.rates.PlatformFee.List + total*c.rates.VariableRate.List
	floor := c.rates.PlatformFee.Floor + total*c.rates.VariableRate.Floor
	if floor < c.rates.MinimumFloorMRR {
		floor = c.rates.MinimumFloorMRR
	}

	return model.PricingQuote{
		TotalSquareFootage: total,
		MonthlyList:        roundCents(list),
		MonthlyFloor:       roundCents(floor),
		SetupFee:           c.SetupFee(total),
	}
}

// SetupFee selects the first tier whose threshold covers total.
func (c *Calculator) SetupFee(total float64) model.SetupFee {
	for _, tier := range c.rates.SetupFeeTiers {
		if tier.covers(total) {
			return tier.fee()
		}
	}
	return model.SetupFee{List: model.Amount(0), Floor: model.Amount(0)}
}

// roundCents rounds half-up to two decimals.
func roundCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
