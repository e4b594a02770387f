package models

import (
	"time"

	"gorm.io/gorm"
)

// Voucher lifecycle states. A voucher starts as issued, may be marked viewed
// (informational), and ends in exactly one of the terminal states redeemed,
// expired or cancelled.
const (
	VoucherStatusIssued    = "issued"
	VoucherStatusViewed    = "viewed"
	VoucherStatusRedeemed  = "redeemed"
	VoucherStatusExpired   = "expired"
	VoucherStatusCancelled = "cancelled"
)

// Voucher is a single-use, time-boxed token entitling its holder to a
// partner's offer. OfferID is nullable: offers may be deactivated or removed
// after issuance while the voucher keeps its historical reference.
type Voucher struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Code       string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	PartnerID  uint       `gorm:"not null;index:idx_vouchers_partner_user" json:"partner_id"`
	Partner    Partner    `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	OfferID    *uint      `gorm:"index" json:"offer_id,omitempty"`
	UserID     uint       `gorm:"not null;index:idx_vouchers_partner_user,priority:2" json:"user_id"`
	Status     string     `gorm:"type:varchar(20);not null;default:'issued';index" json:"status"`
	ExpiresAt  time.Time  `gorm:"not null;index" json:"expires_at"`
	ViewedAt   *time.Time `gorm:"type:timestamp;default:null" json:"viewed_at,omitempty"`
	RedeemedAt *time.Time `gorm:"type:timestamp;default:null" json:"redeemed_at,omitempty"`
	RedeemedBy *uint      `json:"redeemed_by,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsExpiredAt reports whether the voucher's deadline has passed at the given
// instant, regardless of what the status column currently reads.
func (v *Voucher) IsExpiredAt(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}

// IsTerminal reports whether the voucher is in a terminal state.
func (v *Voucher) IsTerminal() bool {
	switch v.Status {
	case VoucherStatusRedeemed, VoucherStatusExpired, VoucherStatusCancelled:
		return true
	}
	return false
}

// FindActiveVoucher returns the holder's currently issued, unexpired voucher
// for a partner, if one exists. Used to enforce the one-active-voucher rule
// at issuance time.
func FindActiveVoucher(db *gorm.DB, userID, partnerID uint, now time.Time) (*Voucher, error) {
	var voucher Voucher
	err := db.Where("user_id = ? AND partner_id = ? AND status IN ? AND expires_at > ?",
		userID, partnerID, []string{VoucherStatusIssued, VoucherStatusViewed}, now).
		First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}
