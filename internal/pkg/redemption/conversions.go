package redemption

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/perkfox/perkfox/app/models"
	"github.com/perkfox/perkfox/internal/pkg/commission"
)

// RecordDigitalConversion persists a partner-reported digital conversion as
// pending. No voucher or lock is involved: there is no single-use resource
// being contended, only a report awaiting confirmation. The commission rate
// and amount are snapshotted from the partner's current configuration.
func (e *Engine) RecordDigitalConversion(ctx context.Context, partnerID uint, amount decimal.Decimal, notes string, clickID *uint) (*models.PartnerConversion, error) {
	var partner models.Partner
	if err := e.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", partnerID, true).
		First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerUnavailable
		}
		return nil, &TransientError{Err: err}
	}

	cfg := commission.ConfigFromPartner(&partner)
	commissionAmount, err := commission.Calculate(cfg, amount)
	if err != nil {
		return nil, err
	}

	conversion := &models.PartnerConversion{
		PartnerID:        partnerID,
		ClickID:          clickID,
		Type:             models.ConversionTypeDigital,
		Amount:           amount,
		CommissionRate:   cfg.Rate,
		CommissionAmount: commissionAmount,
		Status:           models.ConversionStatusPending,
		Notes:            notes,
	}
	if err := e.db.WithContext(ctx).Create(conversion).Error; err != nil {
		return nil, &TransientError{Err: err}
	}
	return conversion, nil
}

// ConfirmConversion moves a pending conversion to confirmed, stamping the
// confirming actor and time. Scoped to the acting partner.
func (e *Engine) ConfirmConversion(ctx context.Context, conversionID, partnerID, actorUserID uint) (*models.PartnerConversion, error) {
	var conversion models.PartnerConversion
	if err := e.db.WithContext(ctx).
		Where("id = ? AND partner_id = ?", conversionID, partnerID).
		First(&conversion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversionNotFound
		}
		return nil, &TransientError{Err: err}
	}

	if conversion.Status != models.ConversionStatusPending {
		return nil, ErrConversionNotPending
	}

	now := time.Now()
	if err := e.db.WithContext(ctx).Model(&conversion).Updates(map[string]interface{}{
		"status":       models.ConversionStatusConfirmed,
		"confirmed_by": actorUserID,
		"confirmed_at": now,
	}).Error; err != nil {
		return nil, &TransientError{Err: err}
	}

	conversion.Status = models.ConversionStatusConfirmed
	conversion.ConfirmedBy = &actorUserID
	conversion.ConfirmedAt = &now
	return &conversion, nil
}

// MarkConversionPaid completes a confirmed conversion's lifecycle after the
// commission was settled.
func (e *Engine) MarkConversionPaid(ctx context.Context, conversionID, partnerID uint) (*models.PartnerConversion, error) {
	var conversion models.PartnerConversion
	if err := e.db.WithContext(ctx).
		Where("id = ? AND partner_id = ?", conversionID, partnerID).
		First(&conversion).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversionNotFound
		}
		return nil, &TransientError{Err: err}
	}

	if conversion.Status != models.ConversionStatusConfirmed {
		return nil, ErrConversionNotConfirmed
	}

	now := time.Now()
	if err := e.db.WithContext(ctx).Model(&conversion).Updates(map[string]interface{}{
		"status":  models.ConversionStatusPaid,
		"paid_at": now,
	}).Error; err != nil {
		return nil, &TransientError{Err: err}
	}

	conversion.Status = models.ConversionStatusPaid
	conversion.PaidAt = &now
	return &conversion, nil
}
