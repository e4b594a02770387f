package repository

import (
	"github.com/perkfox/perkfox/app/models"
	"gorm.io/gorm"
)

// conversionRepository implements the ConversionRepository interface
type conversionRepository struct {
	db *gorm.DB
}

// NewConversionRepository creates a new conversion repository instance
func NewConversionRepository(db *gorm.DB) ConversionRepository {
	return &conversionRepository{db: db}
}

// Create creates a new conversion in the database
func (r *conversionRepository) Create(conversion *models.PartnerConversion) error {
	return r.db.Create(conversion).Error
}

// GetForPartner retrieves a conversion scoped to a partner. A conversion
// belonging to another partner behaves exactly like a missing one.
func (r *conversionRepository) GetForPartner(id, partnerID uint) (*models.PartnerConversion, error) {
	var conversion models.PartnerConversion
	err := r.db.Where("id = ? AND partner_id = ?", id, partnerID).First(&conversion).Error
	if err != nil {
		return nil, err
	}
	return &conversion, nil
}

// Update updates an existing conversion
func (r *conversionRepository) Update(conversion *models.PartnerConversion) error {
	return r.db.Save(conversion).Error
}

// ListByPartner retrieves a paginated, filtered list of a partner's conversions
func (r *conversionRepository) ListByPartner(partnerID uint, opts ListOptions) ([]models.PartnerConversion, int64, error) {
	query := r.db.Model(&models.PartnerConversion{}).Where("partner_id = ?", partnerID)
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.Type != "" {
		query = query.Where("type = ?", opts.Type)
	}
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

	var conversions []models.PartnerConversion
	err := query.Order("created_at DESC").Offset(opts.Offset).Limit(opts.Limit).Find(&conversions).Error
	return conversions, total, err
}

// SumCommissionByStatus returns the summed commission amount for a partner's
// conversions in the given status, as a decimal string.
func (r *conversionRepository) SumCommissionByStatus(partnerID uint, status string) (string, error) {
	var sum *string
	err := r.db.Model(&models.PartnerConversion{}).
		Select("SUM(commission_amount)").
		Where("partner_id = ? AND status = ?", partnerID, status).
		Scan(&sum).Error
	if err != nil || sum == nil {
		return "0", err
	}
	return *sum, nil
}
