package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Redemption is the append-only record of a voucher being honored in person.
// The unique index on VoucherID enforces "exactly one redemption per voucher"
// even if the locking discipline were ever bypassed.
type Redemption struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	VoucherID      uint             `gorm:"not null;uniqueIndex" json:"voucher_id"`
	Voucher        Voucher          `gorm:"foreignKey:VoucherID" json:"voucher,omitempty"`
	PartnerID      uint             `gorm:"not null;index" json:"partner_id"`
	StaffUserID    uint             `gorm:"not null;index" json:"staff_user_id"`
	SaleAmount     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"sale_amount,omitempty"`
	BenefitType    string           `gorm:"type:varchar(50)" json:"benefit_type"`
	BenefitApplied *decimal.Decimal `gorm:"type:decimal(10,2)" json:"benefit_applied,omitempty"`
	Notes          string           `gorm:"type:text" json:"notes"`
	IPAddress      string           `gorm:"type:varchar(45)" json:"-"`
	UserAgent      string           `gorm:"type:varchar(255)" json:"-"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
}
