package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Conversion types and statuses. Physical conversions are produced by the
// redemption engine and are self-confirming; digital conversions are reported
// manually and start pending.
const (
	ConversionTypeDigital  = "digital"
	ConversionTypePhysical = "physical"

	ConversionStatusPending   = "pending"
	ConversionStatusConfirmed = "confirmed"
	ConversionStatusPaid      = "paid"
)

// PartnerConversion is a unit of commissionable revenue. CommissionRate and
// CommissionAmount are snapshots taken at conversion time; later changes to
// the partner's commission configuration never alter recorded conversions.
type PartnerConversion struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	PartnerID        uint            `gorm:"not null;index" json:"partner_id"`
	Partner          Partner         `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	VoucherID        *uint           `gorm:"uniqueIndex" json:"voucher_id,omitempty"`
	ClickID          *uint           `gorm:"index" json:"click_id,omitempty"`
	Type             string          `gorm:"type:varchar(20);not null" json:"type"`
	Amount           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"amount"`
	CommissionRate   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"commission_rate"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"commission_amount"`
	Status           string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes            string          `gorm:"type:text" json:"notes"`
	ConfirmedBy      *uint           `json:"confirmed_by,omitempty"`
	ConfirmedAt      *time.Time      `gorm:"type:timestamp;default:null" json:"confirmed_at,omitempty"`
	PaidAt           *time.Time      `gorm:"type:timestamp;default:null" json:"paid_at,omitempty"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
