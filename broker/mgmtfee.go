package broker

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MgmtKind enumerates the management fee calculators.
type MgmtKind int

const (
	MgmtNone MgmtKind = iota
	MgmtRate
	MgmtLaddered
)

// ManagementFee is charged yearly in units of equity rather than cash:
// the computed fee value is converted to shares at the day's close and
// deducted from the holding.
type ManagementFee struct {
	Kind  MgmtKind
	Rate  decimal.Decimal // MgmtRate: annual fraction of equity value
	Tiers []Tier          // MgmtLaddered: marginal annual rates by equity value
}

// NoManagementFee charges nothing.
func NoManagementFee() ManagementFee { return ManagementFee{Kind: MgmtNone} }

// RateManagementFee charges a single annual rate on the equity value.
func RateManagementFee(rate decimal.Decimal) (ManagementFee, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return ManagementFee{}, fmt.Errorf("%w: management rate %s out of [0,1]", ErrBadFeeSchedule, rate)
	}
	return ManagementFee{Kind: MgmtRate, Rate: rate}, nil
}

// LadderedManagementFee charges marginal annual rates per equity value
// tier, same bounds rules as LadderedFee.
func LadderedManagementFee(tiers []Tier) (ManagementFee, error) {
	s, err := LadderedFee(tiers)
	if err != nil {
		return ManagementFee{}, err
	}
	return ManagementFee{Kind: MgmtLaddered, Tiers: s.Tiers}, nil
}

// Fee computes the annual fee value for the given equity value.
func (m ManagementFee) Fee(equityValue decimal.Decimal) decimal.Decimal {
	switch m.Kind {
	case MgmtRate:
		return equityValue.Mul(m.Rate).Round(2)
	case MgmtLaddered:
		return FeeSchedule{Kind: FeeLaddered, Tiers: m.Tiers}.Fee(equityValue)
	}
	return decimal.Zero
}
