// Package pricing estimates lorry hire costs for a move.
package pricing

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDistance is returned for negative or non-finite distances.
var ErrInvalidDistance = errors.New("invalid distance")

// LorrySize identifies a vehicle class.
type LorrySize string

const (
	SizeSmall  LorrySize = "small"
	SizeMedium LorrySize = "medium"
	SizeLarge  LorrySize = "large"
)

// Rate is the tariff of one vehicle class, in sen (MYR cents).
type Rate struct {
	BaseSen  int64
	PerKmSen int64
}

// Lorry describes a vehicle class offered to customers.
type Lorry struct {
	Size     LorrySize
	Type     string
	Capacity string
	Rate     Rate
}

var lorries = [...]Lorry{
	{Size: SizeSmall, Type: "Small Van", Capacity: "Suitable for small items, no furniture", Rate: Rate{BaseSen: 8000, PerKmSen: 120}},
	{Size: SizeMedium, Type: "1-Ton Lorry", Capacity: "Suitable for a 1-2 bedroom apartment", Rate: Rate{BaseSen: 12000, PerKmSen: 180}},
	{Size: SizeLarge, Type: "3-Ton Lorry", Capacity: "Suitable for a 3-4 bedroom house", Rate: Rate{BaseSen: 20000, PerKmSen: 250}},
}

// Lorries returns the vehicle classes, smallest first.
func Lorries() []Lorry {
	out := make([]Lorry, len(lorries))
	copy(out, lorries[:])
	return out
}

// LookupLorry returns the vehicle class for size.
func LookupLorry(size LorrySize) (Lorry, bool) {
	for _, l := range lorries {
		if l.Size == size {
			return l, true
		}
	}
	return Lorry{}, false
}

// Strategy calculates the price of a trip.
type Strategy interface {
	// Calculate returns the estimated price in sen.
	Calculate(distanceKm float64, size LorrySize) (int64, error)
}

// DistanceStrategy charges a base fare plus a per-kilometre rate.
type DistanceStrategy struct{}

// NewDistanceStrategy creates the default distance-based strategy.
func NewDistanceStrategy() *DistanceStrategy {
	return &DistanceStrategy{}
}

// Calculate computes base + perKm * distance, rounded to the nearest sen.
func (s *DistanceStrategy) Calculate(distanceKm float64, size LorrySize) (int64, error) {
	if err := validateDistance(distanceKm); err != nil {
		return 0, err
	}
	lorry, ok := LookupLorry(size)
	if !ok {
		return 0, fmt.Errorf("unknown lorry size for pricing: %s", size)
	}
	return lorry.Rate.BaseSen + int64(math.Round(float64(lorry.Rate.PerKmSen)*distanceKm)), nil
}

func validateDistance(km float64) error {
	if math.IsNaN(km) || math.IsInf(km, 0) || km < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDistance, km)
	}
	return nil
}

// Option is one priced vehicle class.
type Option struct {
	Lorry
	CostSen int64
}

// CostRM formats the cost as ringgit with two decimals, e.g. "649.38".
func (o Option) CostRM() string {
	return FormatRM(o.CostSen)
}

// Quote is the priced set of vehicle classes for one trip.
type Quote struct {
	DistanceKm   float64
	Recommended  Option
	Alternatives []Option
}

// Quoter prices every vehicle class and picks a recommendation.
type Quoter struct {
	strategy    Strategy
	recommended LorrySize
}

// NewQuoter creates a quoter recommending the 1-ton lorry.
// A nil strategy uses DistanceStrategy.
func NewQuoter(strategy Strategy) *Quoter {
	if strategy == nil {
		strategy = NewDistanceStrategy()
	}
	return &Quoter{strategy: strategy, recommended: SizeMedium}
}

// Quote prices a trip of distanceKm. Alternatives are listed largest first.
func (q *Quoter) Quote(distanceKm float64) (*Quote, error) {
	if err := validateDistance(distanceKm); err != nil {
		return nil, err
	}

	quote := &Quote{DistanceKm: distanceKm}
	for i := len(lorries) - 1; i >= 0; i-- {
		lorry := lorries[i]
		cost, err := q.strategy.Calculate(distanceKm, lorry.Size)
		if err != nil {
			return nil, fmt.Errorf("pricing %s: %w", lorry.Size, err)
		}
		opt := Option{Lorry: lorry, CostSen: cost}
		if lorry.Size == q.recommended {
			quote.Recommended = opt
			continue
		}
		quote.Alternatives = append(quote.Alternatives, opt)
	}
	return quote, nil
}

// FormatRM renders an amount in sen as ringgit with two decimals.
func FormatRM(sen int64) string {
	sign := ""
	if sen < 0 {
		sign = "-"
		sen = -sen
	}
	return fmt.Sprintf("%s%d.%02d", sign, sen/100, sen%100)
}
