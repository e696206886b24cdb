// Package sqft normalizes free-text square-footage fields into numbers.
package sqft

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/venue-quote/internal/model"
)

var (
	unitPattern   = regexp.MustCompile(`(?i)sq\.?\s*ft\.?|sqft|sf`)
	leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// Parse converts a size value into square feet. Absent, unparsable, negative
// and non-finite values all yield 0; Parse never fails so bad data cannot
// abort pricing.
//
// Accepted inputs: nil, model.SquareFootage, numeric types, json.Number and
// text such as "1,200 sq ft", "1200", "850 SF" or "2.5k sq. ft." (which reads
// as 2.5, the leading number).
func Parse(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case model.SquareFootage:
		return Parse(n.Value())
	case *model.SquareFootage:
		if n == nil {
			return 0
		}
		return Parse(n.Value())
	case float64:
		return clean(n)
	case float32:
		return clean(float64(n))
	case int:
		return clean(float64(n))
	case int32:
		return clean(float64(n))
	case int64:
		return clean(float64(n))
	case uint:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		return parseText(n.String())
	case string:
		return parseText(n)
	default:
		return parseText(fmt.Sprint(n))
	}
}

// Sum adds the parsed square footage of every item.
func Sum[T any](items []T, size func(T) model.SquareFootage) float64 {
	var total float64
	for _, item := range items {
		total += Parse(size(item))
	}
	return total
}

func parseText(s string) float64 {
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	s = unitPattern.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	m := leadingNumber.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return clean(f)
}

func clean(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}
