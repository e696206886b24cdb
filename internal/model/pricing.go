package model

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// CustomPrice is the sentinel emitted for prices that are negotiated per deal.
const CustomPrice = "Custom"

// Price is either a dollar amount or the "Custom" sentinel.
type Price struct {
	amount float64
	custom bool
}

// Amount returns a fixed-dollar price.
func Amount(v float64) Price { return Price{amount: v} }

// Custom returns the negotiated-price sentinel.
func Custom() Price { return Price{custom: true} }

// IsCustom reports whether the price is the "Custom" sentinel.
func (p Price) IsCustom() bool { return p.custom }

// Value returns the dollar amount; zero for custom prices.
func (p Price) Value() float64 { return p.amount }

// MarshalJSON emits a number or the string "Custom".
func (p Price) MarshalJSON() ([]byte, error) {
	if p.custom {
		return json.Marshal(CustomPrice)
	}
	return json.Marshal(p.amount)
}

// UnmarshalJSON accepts a number or the string "Custom".
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != CustomPrice {
			return eris.Errorf("model: unknown price sentinel %q", s)
		}
		*p = Custom()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return eris.Wrap(err, "model: decode price")
	}
	*p = Amount(v)
	return nil
}

// MarshalYAML emits a number or the string "Custom".
func (p Price) MarshalYAML() (any, error) {
	if p.custom {
		return CustomPrice, nil
	}
	return p.amount, nil
}

// SetupFee is the one-time fee pair for a square-footage tier.
type SetupFee struct {
	List  Price `json:"list" yaml:"list"`
	Floor Price `json:"floor" yaml:"floor"`
}

// PricingQuote is the subscription price derived from an AggregatedProfile.
type PricingQuote struct {
	TotalSquareFootage float64  `json:"total_square_footage" yaml:"total_square_footage"`
	MonthlyList        float64  `json:"monthly_list" yaml:"monthly_list"`
	MonthlyFloor       float64  `json:"monthly_floor" yaml:"monthly_floor"`
	SetupFee           SetupFee `json:"setup_fee" yaml:"setup_fee"`
}
