package commission

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perkfox/perkfox/app/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculatePercentOfBill(t *testing.T) {
	got, err := Calculate(Config{Type: models.CommissionPercentOfBill, Rate: dec("10")}, dec("200.00"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("20.00")), "got %s", got)
}

func TestCalculateFixedPerClientIgnoresAmount(t *testing.T) {
	cfg := Config{Type: models.CommissionFixedPerClient, Rate: dec("15")}

	got, err := Calculate(cfg, dec("0"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("15.00")), "got %s", got)

	got, err = Calculate(cfg, dec("999.99"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("15.00")), "got %s", got)
}

func TestCalculateDigitalReferralPercent(t *testing.T) {
	got, err := Calculate(Config{Type: models.CommissionDigitalReferral, Rate: dec("5")}, dec("1000.00"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("50.00")), "got %s", got)
}

func TestCalculateRoundsHalfUp(t *testing.T) {
	// 33.335 * 10% = 3.3335 -> 3.33; 10.05 * 7.5% = 0.75375 -> 0.75;
	// 12.345 * 10% = 1.2345 -> 1.23; 0.05 * 10% = 0.005 -> 0.01 (half rounds up)
	cases := []struct {
		amount string
		rate   string
		want   string
	}{
		{"33.335", "10", "3.33"},
		{"10.05", "7.5", "0.75"},
		{"0.05", "10", "0.01"},
		{"199.99", "10", "20.00"},
	}
	for _, tc := range cases {
		got, err := Calculate(Config{Type: models.CommissionPercentOfBill, Rate: dec(tc.rate)}, dec(tc.amount))
		require.NoError(t, err)
		assert.True(t, got.Equal(dec(tc.want)), "amount=%s rate=%s got=%s want=%s", tc.amount, tc.rate, got, tc.want)
	}
}

func TestCalculateRejectsNegativeInput(t *testing.T) {
	_, err := Calculate(Config{Type: models.CommissionPercentOfBill, Rate: dec("10")}, dec("-1"))
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = Calculate(Config{Type: models.CommissionPercentOfBill, Rate: dec("-10")}, dec("1"))
	assert.ErrorIs(t, err, ErrNegativeRate)
}

func TestCalculateUnknownType(t *testing.T) {
	_, err := Calculate(Config{Type: "revenue_share", Rate: dec("10")}, dec("100"))
	assert.Error(t, err)
}

func TestConfigFromPartnerIsSnapshot(t *testing.T) {
	p := &models.Partner{CommissionType: models.CommissionPercentOfBill, CommissionRate: dec("10")}
	cfg := ConfigFromPartner(p)

	p.CommissionRate = dec("99")

	assert.True(t, cfg.Rate.Equal(dec("10")))
}
