package repository

import (
	"github.com/perkfox/perkfox/app/models"
	"gorm.io/gorm"
)

// partnerRepository implements the PartnerRepository interface
type partnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository creates a new partner repository instance
func NewPartnerRepository(db *gorm.DB) PartnerRepository {
	return &partnerRepository{db: db}
}

// Create creates a new partner in the database
func (r *partnerRepository) Create(partner *models.Partner) error {
	return r.db.Create(partner).Error
}

// GetByID retrieves a partner by ID
func (r *partnerRepository) GetByID(id uint) (*models.Partner, error) {
	var partner models.Partner
	err := r.db.First(&partner, id).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

// GetActiveByID retrieves a partner by ID, restricted to active partners
func (r *partnerRepository) GetActiveByID(id uint) (*models.Partner, error) {
	var partner models.Partner
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&partner).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

// Update updates an existing partner
func (r *partnerRepository) Update(partner *models.Partner) error {
	return r.db.Save(partner).Error
}

// Deactivate soft-deactivates a partner. The row is never deleted so that
// vouchers and conversions keep their referential history.
func (r *partnerRepository) Deactivate(id uint) error {
	return r.db.Model(&models.Partner{}).Where("id = ?", id).Update("is_active", false).Error
}

// List retrieves a paginated list of partners
func (r *partnerRepository) List(offset, limit int) ([]models.Partner, error) {
	var partners []models.Partner
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&partners).Error
	return partners, err
}

// Count returns the total number of partners
func (r *partnerRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Partner{}).Count(&count).Error
	return count, err
}
