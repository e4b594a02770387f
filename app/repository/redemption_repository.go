package repository

import (
	"time"

	"github.com/perkfox/perkfox/app/models"
	"gorm.io/gorm"
)

// redemptionRepository implements the RedemptionRepository interface
type redemptionRepository struct {
	db *gorm.DB
}

// NewRedemptionRepository creates a new redemption repository instance
func NewRedemptionRepository(db *gorm.DB) RedemptionRepository {
	return &redemptionRepository{db: db}
}

// GetByVoucherID retrieves the redemption recorded for a voucher
func (r *redemptionRepository) GetByVoucherID(voucherID uint) (*models.Redemption, error) {
	var redemption models.Redemption
	err := r.db.Where("voucher_id = ?", voucherID).First(&redemption).Error
	if err != nil {
		return nil, err
	}
	return &redemption, nil
}

// ListByPartner retrieves a paginated list of a partner's redemptions
func (r *redemptionRepository) ListByPartner(partnerID uint, opts ListOptions) ([]models.Redemption, int64, error) {
	query := r.db.Model(&models.Redemption{}).Where("partner_id = ?", partnerID)
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

	var redemptions []models.Redemption
	err := query.Order("created_at DESC").Offset(opts.Offset).Limit(opts.Limit).Find(&redemptions).Error
	return redemptions, total, err
}

// GetDailyStats returns per-day redemption counts for the date range
func (r *redemptionRepository) GetDailyStats(partnerID uint, startDate, endDate time.Time) ([]models.DailyStats, error) {
	var stats []models.DailyStats
	err := r.db.Model(&models.Redemption{}).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Where("partner_id = ? AND created_at BETWEEN ? AND ?", partnerID, startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&stats).Error
	return stats, err
}
