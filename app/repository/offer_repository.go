package repository

import (
	"github.com/perkfox/perkfox/app/models"
	"gorm.io/gorm"
)

// offerRepository implements the OfferRepository interface
type offerRepository struct {
	db *gorm.DB
}

// NewOfferRepository creates a new offer repository instance
func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

// Create creates a new offer in the database
func (r *offerRepository) Create(offer *models.PartnerOffer) error {
	return r.db.Create(offer).Error
}

// GetByID retrieves an offer by ID
func (r *offerRepository) GetByID(id uint) (*models.PartnerOffer, error) {
	var offer models.PartnerOffer
	err := r.db.First(&offer, id).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// GetActiveForPartner retrieves an active offer scoped to a partner.
func (r *offerRepository) GetActiveForPartner(id, partnerID uint) (*models.PartnerOffer, error) {
	var offer models.PartnerOffer
	err := r.db.Where("id = ? AND partner_id = ? AND is_active = ?", id, partnerID, true).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListActiveByPartner returns all active offers for a partner
func (r *offerRepository) ListActiveByPartner(partnerID uint) ([]models.PartnerOffer, error) {
	return models.FindActiveOffersByPartner(r.db, partnerID)
}

// Deactivate disables an offer without deleting it. Offers referenced by
// vouchers are immutable except for this flag.
func (r *offerRepository) Deactivate(id uint) error {
	return r.db.Model(&models.PartnerOffer{}).Where("id = ?", id).Update("is_active", false).Error
}
