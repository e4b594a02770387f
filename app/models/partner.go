package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Commission model constants. The type decides how a partner's commission is
// computed from a conversion amount.
const (
	CommissionPercentOfBill   = "percent_of_bill"
	CommissionFixedPerClient  = "fixed_per_client"
	CommissionDigitalReferral = "digital_referral_percent"
)

// Partner is a redeeming business participating in the referral program.
// Partners are soft-deactivated via IsActive, never hard-deleted, so that
// vouchers, redemptions and conversions keep their referential history.
type Partner struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Name              string          `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	CommissionType    string          `gorm:"type:varchar(50);not null;default:'percent_of_bill'" json:"commission_type" validate:"oneof=percent_of_bill fixed_per_client digital_referral_percent"`
	CommissionRate    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"commission_rate"`
	VoucherValidDays  int             `gorm:"not null;default:0" json:"voucher_valid_days" validate:"min=0"`
	VoucherValidHours int             `gorm:"not null;default:24" json:"voucher_valid_hours" validate:"min=0"`
	IsActive          bool            `gorm:"not null;default:true" json:"is_active"`
	ClickCount        int64           `gorm:"not null;default:0" json:"click_count"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p *Partner) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// VoucherValidity returns the configured voucher lifetime. Days and hours are
// combinable; a partner with 1 day and 12 hours issues 36h vouchers.
func (p *Partner) VoucherValidity() time.Duration {
	return time.Duration(p.VoucherValidDays)*24*time.Hour + time.Duration(p.VoucherValidHours)*time.Hour
}

// Deactivate flips the active flag without deleting the row.
func (p *Partner) Deactivate(db *gorm.DB) error {
	p.IsActive = false
	return db.Model(p).Update("is_active", false).Error
}
