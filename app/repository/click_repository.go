package repository

import (
	"time"

	"github.com/perkfox/perkfox/app/models"
	"gorm.io/gorm"
)

// clickRepository implements the ClickRepository interface
type clickRepository struct {
	db *gorm.DB
}

// NewClickRepository creates a new click repository instance
func NewClickRepository(db *gorm.DB) ClickRepository {
	return &clickRepository{db: db}
}

// Create records a referral click. Clicks are write-once.
func (r *clickRepository) Create(click *models.PartnerClick) error {
	return r.db.Create(click).Error
}

// ListByPartner retrieves a paginated list of a partner's clicks
func (r *clickRepository) ListByPartner(partnerID uint, opts ListOptions) ([]models.PartnerClick, int64, error) {
	query := r.db.Model(&models.PartnerClick{}).Where("partner_id = ?", partnerID)
	if opts.Since != nil {
		query = query.Where("created_at >= ?", *opts.Since)
	}
	if opts.Until != nil {
		query = query.Where("created_at < ?", *opts.Until)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clicks []models.PartnerClick
	err := query.Order("created_at DESC").Offset(opts.Offset).Limit(opts.Limit).Find(&clicks).Error
	return clicks, total, err
}

// CountByPartner returns the total number of clicks for a partner
func (r *clickRepository) CountByPartner(partnerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.PartnerClick{}).Where("partner_id = ?", partnerID).Count(&count).Error
	return count, err
}

// GetDailyStats returns per-day click counts for the date range
func (r *clickRepository) GetDailyStats(partnerID uint, startDate, endDate time.Time) ([]models.DailyStats, error) {
	var stats []models.DailyStats
	err := r.db.Model(&models.PartnerClick{}).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Where("partner_id = ? AND created_at BETWEEN ? AND ?", partnerID, startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&stats).Error
	return stats, err
}
