package redemption

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perkfox/perkfox/app/models"
)

func TestRecordDigitalConversionLifecycle(t *testing.T) {
	f := newFixture(t, models.CommissionDigitalReferral, "5")
	ctx := context.Background()

	conv, err := f.engine.RecordDigitalConversion(ctx, f.partner.ID, dec("1000.00"), "checkout-4711", nil)
	require.NoError(t, err)
	assert.Equal(t, models.ConversionTypeDigital, conv.Type)
	assert.Equal(t, models.ConversionStatusPending, conv.Status)
	assert.True(t, conv.CommissionRate.Equal(dec("5")))
	assert.True(t, conv.CommissionAmount.Equal(dec("50.00")), "commission: %s", conv.CommissionAmount)
	assert.Nil(t, conv.ConfirmedAt)

	confirmed, err := f.engine.ConfirmConversion(ctx, conv.ID, f.partner.ID, f.staff.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConversionStatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedBy)
	assert.Equal(t, f.staff.ID, *confirmed.ConfirmedBy)
	assert.NotNil(t, confirmed.ConfirmedAt)

	paid, err := f.engine.MarkConversionPaid(ctx, conv.ID, f.partner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConversionStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)
}

func TestConfirmConversionRequiresPending(t *testing.T) {
	f := newFixture(t, models.CommissionDigitalReferral, "5")
	ctx := context.Background()

	conv, err := f.engine.RecordDigitalConversion(ctx, f.partner.ID, dec("100.00"), "", nil)
	require.NoError(t, err)

	_, err = f.engine.ConfirmConversion(ctx, conv.ID, f.partner.ID, f.staff.ID)
	require.NoError(t, err)

	_, err = f.engine.ConfirmConversion(ctx, conv.ID, f.partner.ID, f.staff.ID)
	assert.ErrorIs(t, err, ErrConversionNotPending)
}

func TestMarkConversionPaidRequiresConfirmed(t *testing.T) {
	f := newFixture(t, models.CommissionDigitalReferral, "5")
	ctx := context.Background()

	conv, err := f.engine.RecordDigitalConversion(ctx, f.partner.ID, dec("100.00"), "", nil)
	require.NoError(t, err)

	_, err = f.engine.MarkConversionPaid(ctx, conv.ID, f.partner.ID)
	assert.ErrorIs(t, err, ErrConversionNotConfirmed)
}

func TestConfirmConversionScopedToPartner(t *testing.T) {
	f := newFixture(t, models.CommissionDigitalReferral, "5")
	ctx := context.Background()

	other := &models.Partner{
		Name:           "Bistro Nova",
		CommissionType: models.CommissionDigitalReferral,
		CommissionRate: dec("5"),
		IsActive:       true,
	}
	require.NoError(t, f.db.Create(other).Error)

	conv, err := f.engine.RecordDigitalConversion(ctx, f.partner.ID, dec("100.00"), "", nil)
	require.NoError(t, err)

	_, err = f.engine.ConfirmConversion(ctx, conv.ID, other.ID, f.staff.ID)
	assert.ErrorIs(t, err, ErrConversionNotFound)
}

func TestRecordDigitalConversionInactivePartner(t *testing.T) {
	f := newFixture(t, models.CommissionDigitalReferral, "5")
	require.NoError(t, f.db.Model(f.partner).Update("is_active", false).Error)

	_, err := f.engine.RecordDigitalConversion(context.Background(), f.partner.ID, dec("100.00"), "", nil)
	assert.ErrorIs(t, err, ErrPartnerUnavailable)
}
