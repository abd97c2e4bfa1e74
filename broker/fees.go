package broker

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrBadFeeSchedule flags invalid fee parameters. Raised at construction
// so a bad configuration never reaches the simulation loop.
var ErrBadFeeSchedule = errors.New("broker: invalid fee schedule")

// FeeKind enumerates the supported trade fee structures.
type FeeKind int

const (
	FeeNone FeeKind = iota
	FeeFlat
	FeePercent
	FeeLaddered
)

// Tier is one rung of a laddered schedule. From is the inclusive lower
// bound of the trade value the Rate applies to; the rate is marginal,
// charged only on the slice of value inside the tier.
type Tier struct {
	From decimal.Decimal
	Rate decimal.Decimal
}

// FeeSchedule is a closed variant over the fee structures: exactly the
// fields for its Kind are meaningful. Fee computation is a pure function
// of the trade value.
type FeeSchedule struct {
	Kind   FeeKind
	Amount decimal.Decimal // FeeFlat: fixed fee per executed order
	Rate   decimal.Decimal // FeePercent: fraction of trade value
	Min    decimal.Decimal // FeePercent: floor per order, optional
	Tiers  []Tier          // FeeLaddered: ascending, first From must be zero
}

// NoFee charges nothing.
func NoFee() FeeSchedule { return FeeSchedule{Kind: FeeNone} }

// FlatFee charges a fixed amount per executed order.
func FlatFee(amount decimal.Decimal) (FeeSchedule, error) {
	if amount.IsNegative() {
		return FeeSchedule{}, fmt.Errorf("%w: negative flat amount %s", ErrBadFeeSchedule, amount)
	}
	return FeeSchedule{Kind: FeeFlat, Amount: amount}, nil
}

// PercentFee charges rate times the trade value, with an optional floor.
func PercentFee(rate, min decimal.Decimal) (FeeSchedule, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return FeeSchedule{}, fmt.Errorf("%w: percent rate %s out of [0,1]", ErrBadFeeSchedule, rate)
	}
	if min.IsNegative() {
		return FeeSchedule{}, fmt.Errorf("%w: negative minimum %s", ErrBadFeeSchedule, min)
	}
	return FeeSchedule{Kind: FeePercent, Rate: rate, Min: min}, nil
}

// LadderedFee charges marginal rates per value tier. Tiers must be
// ascending by From with the first bound at zero.
func LadderedFee(tiers []Tier) (FeeSchedule, error) {
	if len(tiers) == 0 {
		return FeeSchedule{}, fmt.Errorf("%w: no tiers", ErrBadFeeSchedule)
	}
	if !tiers[0].From.IsZero() {
		return FeeSchedule{}, fmt.Errorf("%w: first tier must start at zero, got %s",
			ErrBadFeeSchedule, tiers[0].From)
	}
	for i, t := range tiers {
		if t.Rate.IsNegative() {
			return FeeSchedule{}, fmt.Errorf("%w: tier %d has negative rate %s",
				ErrBadFeeSchedule, i, t.Rate)
		}
		if i > 0 && !t.From.GreaterThan(tiers[i-1].From) {
			return FeeSchedule{}, fmt.Errorf("%w: tier bounds not ascending at %d", ErrBadFeeSchedule, i)
		}
	}
	ts := make([]Tier, len(tiers))
	copy(ts, tiers)
	return FeeSchedule{Kind: FeeLaddered, Tiers: ts}, nil
}

// Fee computes the fee for a trade of the given gross value, rounded to
// cents. Rounding happens once, on the total, so tier contributions stay
// exact while they are summed.
func (s FeeSchedule) Fee(value decimal.Decimal) decimal.Decimal {
	switch s.Kind {
	case FeeFlat:
		return s.Amount
	case FeePercent:
		fee := value.Mul(s.Rate)
		if fee.LessThan(s.Min) {
			fee = s.Min
		}
		return fee.Round(2)
	case FeeLaddered:
		return s.ladderedFee(value)
	}
	return decimal.Zero
}

func (s FeeSchedule) ladderedFee(value decimal.Decimal) decimal.Decimal {
	fee := decimal.Zero
	for i, t := range s.Tiers {
		if value.LessThanOrEqual(t.From) {
			break
		}
		upper := value
		if i+1 < len(s.Tiers) && s.Tiers[i+1].From.LessThan(value) {
			upper = s.Tiers[i+1].From
		}
		fee = fee.Add(upper.Sub(t.From).Mul(t.Rate))
	}
	return fee.Round(2)
}
