package repository

import (
	"time"

	"github.com/perkfox/perkfox/app/models"
	"gorm.io/gorm"
)

// voucherRepository implements the VoucherRepository interface
type voucherRepository struct {
	db *gorm.DB
}

// NewVoucherRepository creates a new voucher repository instance
func NewVoucherRepository(db *gorm.DB) VoucherRepository {
	return &voucherRepository{db: db}
}

// Create creates a new voucher in the database
func (r *voucherRepository) Create(voucher *models.Voucher) error {
	return r.db.Create(voucher).Error
}

// GetByCode retrieves a voucher by its code
func (r *voucherRepository) GetByCode(code string) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.db.Where("code = ?", code).First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

// GetByCodeForPartner retrieves a voucher by code scoped to a partner. A code
// that exists under another partner behaves exactly like a missing code.
func (r *voucherRepository) GetByCodeForPartner(code string, partnerID uint) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.db.Where("code = ? AND partner_id = ?", code, partnerID).First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

// FindActiveForUserAndPartner returns the user's unexpired issued voucher for
// the partner, if any.
func (r *voucherRepository) FindActiveForUserAndPartner(userID, partnerID uint, now time.Time) (*models.Voucher, error) {
	return models.FindActiveVoucher(r.db, userID, partnerID, now)
}

// CodeExists reports whether a voucher code is already taken
func (r *voucherRepository) CodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Voucher{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// UpdateStatus transitions a voucher between two states with a guarded
// update. Returns false when the voucher was no longer in fromStatus, which
// makes repeated lazy-expiry writes idempotent.
func (r *voucherRepository) UpdateStatus(id uint, fromStatus, toStatus string) (bool, error) {
	tx := r.db.Model(&models.Voucher{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Update("status", toStatus)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// MarkViewed stamps the first-view timestamp and flips issued to viewed.
// Best-effort and non-locking: viewing is informational, not a redemption
// precondition.
func (r *voucherRepository) MarkViewed(id uint, at time.Time) error {
	return r.db.Model(&models.Voucher{}).
		Where("id = ? AND status = ?", id, models.VoucherStatusIssued).
		Updates(map[string]interface{}{"status": models.VoucherStatusViewed, "viewed_at": at}).Error
}

// ExpireStale transitions vouchers whose deadline passed to expired in
// batches. Idempotent companion to the lazy expiry on read paths.
func (r *voucherRepository) ExpireStale(now time.Time, limit int) (int64, error) {
	var ids []uint
	err := r.db.Model(&models.Voucher{}).
		Where("status IN ? AND expires_at <= ?", []string{models.VoucherStatusIssued, models.VoucherStatusViewed}, now).
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return 0, err
	}

	tx := r.db.Model(&models.Voucher{}).
		Where("id IN ? AND status IN ?", ids, []string{models.VoucherStatusIssued, models.VoucherStatusViewed}).
		Update("status", models.VoucherStatusExpired)
	return tx.RowsAffected, tx.Error
}

// ListByPartner retrieves a paginated list of a partner's vouchers
func (r *voucherRepository) ListByPartner(partnerID uint, opts ListOptions) ([]models.Voucher, int64, error) {
	query := r.db.Model(&models.Voucher{}).Where("partner_id = ?", partnerID)
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var vouchers []models.Voucher
	err := query.Order("created_at DESC").Offset(opts.Offset).Limit(opts.Limit).Find(&vouchers).Error
	return vouchers, total, err
}
