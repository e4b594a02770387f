package repository

import (
	"time"

	"github.com/perkfox/perkfox/app/models"
	"gorm.io/gorm"
)

// ListOptions carries pagination and the optional filters exposed by the
// partner-facing list endpoints.
type ListOptions struct {
	Offset int
	Limit  int
	Status string     // conversions: pending/confirmed/paid
	Type   string     // conversions: digital/physical
	Since  *time.Time // clicks/redemptions: lower bound on created_at
	Until  *time.Time // clicks/redemptions: upper bound on created_at
}

// PartnerRepository defines the interface for partner-related database operations
type PartnerRepository interface {
	Create(partner *models.Partner) error
	GetByID(id uint) (*models.Partner, error)
	GetActiveByID(id uint) (*models.Partner, error)
	Update(partner *models.Partner) error
	Deactivate(id uint) error
	List(offset, limit int) ([]models.Partner, error)
	Count() (int64, error)
}

// OfferRepository defines the interface for partner offer operations
type OfferRepository interface {
	Create(offer *models.PartnerOffer) error
	GetByID(id uint) (*models.PartnerOffer, error)
	GetActiveForPartner(id, partnerID uint) (*models.PartnerOffer, error)
	ListActiveByPartner(partnerID uint) ([]models.PartnerOffer, error)
	Deactivate(id uint) error
}

// VoucherRepository defines the interface for voucher persistence. Status
// transitions that need exclusivity run inside the redemption engine's
// transaction, not through this interface.
type VoucherRepository interface {
	Create(voucher *models.Voucher) error
	GetByCode(code string) (*models.Voucher, error)
	GetByCodeForPartner(code string, partnerID uint) (*models.Voucher, error)
	FindActiveForUserAndPartner(userID, partnerID uint, now time.Time) (*models.Voucher, error)
	CodeExists(code string) (bool, error)
	UpdateStatus(id uint, fromStatus, toStatus string) (bool, error)
	MarkViewed(id uint, at time.Time) error
	ExpireStale(now time.Time, limit int) (int64, error)
	ListByPartner(partnerID uint, opts ListOptions) ([]models.Voucher, int64, error)
}

// RedemptionRepository exposes read models over the append-only redemption log.
type RedemptionRepository interface {
	GetByVoucherID(voucherID uint) (*models.Redemption, error)
	ListByPartner(partnerID uint, opts ListOptions) ([]models.Redemption, int64, error)
	GetDailyStats(partnerID uint, startDate, endDate time.Time) ([]models.DailyStats, error)
}

// ConversionRepository defines the interface for partner conversion operations
type ConversionRepository interface {
	Create(conversion *models.PartnerConversion) error
	GetForPartner(id, partnerID uint) (*models.PartnerConversion, error)
	Update(conversion *models.PartnerConversion) error
	ListByPartner(partnerID uint, opts ListOptions) ([]models.PartnerConversion, int64, error)
	SumCommissionByStatus(partnerID uint, status string) (string, error)
}

// ClickRepository defines the interface for referral click recording
type ClickRepository interface {
	Create(click *models.PartnerClick) error
	ListByPartner(partnerID uint, opts ListOptions) ([]models.PartnerClick, int64, error)
	CountByPartner(partnerID uint) (int64, error)
	GetDailyStats(partnerID uint, startDate, endDate time.Time) ([]models.DailyStats, error)
}

// Repositories groups all repository instances
type Repositories struct {
	Partner    PartnerRepository
	Offer      OfferRepository
	Voucher    VoucherRepository
	Redemption RedemptionRepository
	Conversion ConversionRepository
	Click      ClickRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Partner:    NewPartnerRepository(db),
		Offer:      NewOfferRepository(db),
		Voucher:    NewVoucherRepository(db),
		Redemption: NewRedemptionRepository(db),
		Conversion: NewConversionRepository(db),
		Click:      NewClickRepository(db),
	}
}
