package redemption

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/perkfox/perkfox/app/models"
	"github.com/perkfox/perkfox/internal/pkg/commission"
	"github.com/perkfox/perkfox/internal/pkg/vouchercode"
)

// Engine performs atomic voucher redemption. For any voucher, across all
// concurrent redemption attempts, exactly one succeeds and every other
// attempt observes a terminal failure. The guarantee rests entirely on the
// database's row-level exclusive lock plus transaction isolation; there is no
// application-level mutex or distributed lock.
type Engine struct {
	db *gorm.DB
}

// NewEngine creates a redemption engine on the given DB handle.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Redeem validates and redeems a voucher on behalf of partner staff, and
// records the resulting commission as a confirmed physical conversion. The
// whole operation runs in a single transaction with an exclusive row lock on
// the voucher, acquired before any status check. Any failure after the lock
// rolls back every side effect; the lock is released only on commit or
// rollback, so a concurrent attempt blocked on the same row observes either
// the fully committed redeemed state or the untouched issued state, never a
// half-applied intermediate.
func (e *Engine) Redeem(ctx context.Context, in RedeemInput) (*Result, error) {
	code := vouchercode.Normalize(in.Code)
	if !vouchercode.IsValid(code) {
		return nil, ErrNotFound
	}
	if in.SaleAmount != nil && in.SaleAmount.IsNegative() {
		return nil, commission.ErrNegativeAmount
	}

	var result Result
	var expiredVoucherID uint

	errTx := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the voucher row scoped to the redeeming partner. Tenant
		// isolation lives in this WHERE clause: a voucher issued by another
		// partner is never even visible here.
		var v models.Voucher
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("code = ? AND partner_id = ?", code, in.PartnerID).
			First(&v).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return &TransientError{Err: err}
		}

		// Re-check status under the lock.
		switch v.Status {
		case models.VoucherStatusRedeemed:
			return ErrAlreadyRedeemed
		case models.VoucherStatusIssued, models.VoucherStatusViewed:
			// redeemable, continue
		default:
			return &NotRedeemableError{Status: v.Status}
		}

		now := time.Now()
		if v.IsExpiredAt(now) {
			// The expiry write must survive this transaction's rollback; it
			// is persisted after the rollback completes.
			expiredVoucherID = v.ID
			return ErrExpired
		}

		var partner models.Partner
		if err := tx.First(&partner, in.PartnerID).Error; err != nil {
			return &TransientError{Err: err}
		}

		// Snapshot the offer's benefit at this instant, not a live join at
		// read time. The offer may be deactivated later; the redemption
		// record keeps what was honored.
		benefitType := ""
		benefitApplied := in.BenefitApplied
		if v.OfferID != nil {
			var offer models.PartnerOffer
			if err := tx.First(&offer, *v.OfferID).Error; err == nil {
				benefitType = offer.BenefitType
				if benefitApplied == nil {
					value := offer.BenefitValue
					benefitApplied = &value
				}
			}
		}

		redemption := &models.Redemption{
			VoucherID:      v.ID,
			PartnerID:      v.PartnerID,
			StaffUserID:    in.StaffUserID,
			SaleAmount:     in.SaleAmount,
			BenefitType:    benefitType,
			BenefitApplied: benefitApplied,
			Notes:          in.Notes,
			IPAddress:      in.IPAddress,
			UserAgent:      in.UserAgent,
		}
		if err := tx.Create(redemption).Error; err != nil {
			return &TransientError{Err: err}
		}

		if err := tx.Model(&v).Updates(map[string]interface{}{
			"status":      models.VoucherStatusRedeemed,
			"redeemed_at": now,
			"redeemed_by": in.StaffUserID,
		}).Error; err != nil {
			return &TransientError{Err: err}
		}

		amount := decimal.Zero
		if in.SaleAmount != nil {
			amount = *in.SaleAmount
		}

		// Commission uses the partner's current configuration; the rate is
		// snapshotted into the conversion row so later rate changes never
		// rewrite history.
		cfg := commission.ConfigFromPartner(&partner)
		commissionAmount, err := commission.Calculate(cfg, amount)
		if err != nil {
			return err
		}

		// Physical redemptions are self-confirming: the staff member and the
		// customer are standing in the same room.
		voucherID := v.ID
		conversion := &models.PartnerConversion{
			PartnerID:        v.PartnerID,
			VoucherID:        &voucherID,
			Type:             models.ConversionTypePhysical,
			Amount:           amount,
			CommissionRate:   cfg.Rate,
			CommissionAmount: commissionAmount,
			Status:           models.ConversionStatusConfirmed,
			ConfirmedBy:      &in.StaffUserID,
			ConfirmedAt:      &now,
		}
		if err := tx.Create(conversion).Error; err != nil {
			return &TransientError{Err: err}
		}

		v.Status = models.VoucherStatusRedeemed
		v.RedeemedAt = &now
		v.RedeemedBy = &in.StaffUserID
		result = Result{Redemption: redemption, Conversion: conversion}
		return nil
	})

	if errTx != nil {
		if errors.Is(errTx, ErrExpired) && expiredVoucherID != 0 {
			e.persistExpired(expiredVoucherID)
		}
		return nil, errTx
	}
	return &result, nil
}

// persistExpired records the expired status outside the rolled-back
// redemption transaction. Guarded so a concurrent writer can never move the
// voucher back out of a terminal state.
func (e *Engine) persistExpired(voucherID uint) {
	e.db.Model(&models.Voucher{}).
		Where("id = ? AND status IN ?", voucherID,
			[]string{models.VoucherStatusIssued, models.VoucherStatusViewed}).
		Update("status", models.VoucherStatusExpired)
}
