package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Benefit types a partner offer can grant at the point of sale.
const (
	BenefitFreeItem   = "free_item"
	BenefitPercentOff = "percent_off"
	BenefitFixedOff   = "fixed_off"
)

// PartnerOffer is a redeemable benefit definition under a partner. Once a
// voucher references an offer the offer is immutable except for deactivation.
type PartnerOffer struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	PartnerID    uint            `gorm:"not null;index" json:"partner_id"`
	Partner      Partner         `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	Title        string          `gorm:"type:varchar(200);not null" json:"title"`
	BenefitType  string          `gorm:"type:varchar(50);not null" json:"benefit_type"`
	BenefitValue decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"benefit_value"`
	MinPurchase  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"min_purchase"`
	IsActive     bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// FindActiveOffersByPartner returns all currently active offers for a partner.
func FindActiveOffersByPartner(db *gorm.DB, partnerID uint) ([]PartnerOffer, error) {
	var offers []PartnerOffer
	err := db.Where("partner_id = ? AND is_active = ?", partnerID, true).
		Order("created_at DESC").
		Find(&offers).Error
	return offers, err
}
