package commission

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/perkfox/perkfox/app/models"
)

// Config is a partner's commission configuration at a point in time. It is a
// value copy, not a live reference, so callers can snapshot it into
// conversion rows.
type Config struct {
	Type string
	Rate decimal.Decimal
}

var (
	ErrNegativeAmount = errors.New("commission: amount must not be negative")
	ErrNegativeRate   = errors.New("commission: rate must not be negative")
)

var oneHundred = decimal.NewFromInt(100)

// ConfigFromPartner captures the partner's current commission configuration.
func ConfigFromPartner(p *models.Partner) Config {
	return Config{Type: p.CommissionType, Rate: p.CommissionRate}
}

// Calculate computes the commission owed to the platform for a conversion of
// the given amount. Pure: no state, no I/O.
//
// percent_of_bill and digital_referral_percent apply rate as a percentage of
// the amount, rounded half-up to 2 decimal places. fixed_per_client returns
// the rate unconditionally; a zero-amount conversion still yields the flat
// referral fee (walk-in clients without a recorded bill).
func Calculate(cfg Config, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	if cfg.Rate.IsNegative() {
		return decimal.Zero, ErrNegativeRate
	}

	switch cfg.Type {
	case models.CommissionPercentOfBill, models.CommissionDigitalReferral:
		return amount.Mul(cfg.Rate).Div(oneHundred).Round(2), nil
	case models.CommissionFixedPerClient:
		return cfg.Rate.Round(2), nil
	}
	return decimal.Zero, fmt.Errorf("commission: unknown commission type %q", cfg.Type)
}
