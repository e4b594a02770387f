package voucher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/perkfox/perkfox/app/models"
	"github.com/perkfox/perkfox/app/repository"
	"github.com/perkfox/perkfox/internal/pkg/vouchercode"
)

// codeAttempts bounds the collision-check retry loop at issuance.
const codeAttempts = 5

// Store owns the voucher lifecycle outside of redemption: issuance, lazy
// expiry on read paths, lookups and administrative cancellation. The
// issued -> redeemed transition belongs exclusively to the redemption engine.
type Store struct {
	repos *repository.Repositories
}

// NewStore creates a voucher store from injected repositories.
func NewStore(repos *repository.Repositories) *Store {
	return &Store{repos: repos}
}

// NewStoreFromDB creates a voucher store from a GORM DB handle.
func NewStoreFromDB(db *gorm.DB) *Store {
	return NewStore(repository.NewRepositories(db))
}

// Issue creates a voucher for the user under the partner's active offer.
// Enforces the one-active-voucher-per-(user, partner) rule by query before
// insert: expired and redeemed vouchers for the same pair coexist
// historically, so a hard unique constraint is not an option.
func (s *Store) Issue(ctx context.Context, partnerID uint, offerID *uint, userID uint) (*models.Voucher, error) {
	_ = ctx
	partner, err := s.repos.Partner.GetActiveByID(partnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerUnavailable
		}
		return nil, err
	}

	if offerID != nil {
		if _, err := s.repos.Offer.GetActiveForPartner(*offerID, partnerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOfferUnavailable
			}
			return nil, err
		}
	}

	now := time.Now()
	existing, err := s.repos.Voucher.FindActiveForUserAndPartner(userID, partnerID, now)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, &DuplicateActiveVoucherError{Existing: existing}
	}

	code, err := s.generateUniqueCode()
	if err != nil {
		return nil, err
	}

	validity := partner.VoucherValidity()
	if validity <= 0 {
		validity = 24 * time.Hour
	}

	v := &models.Voucher{
		Code:      code,
		PartnerID: partnerID,
		OfferID:   offerID,
		UserID:    userID,
		Status:    models.VoucherStatusIssued,
		ExpiresAt: now.Add(validity),
	}
	if err := s.repos.Voucher.Create(v); err != nil {
		return nil, err
	}
	return v, nil
}

// EvaluateExpiry checks the voucher's deadline against now and, when it has
// passed, persists the expired status. Explicitly side-effecting: every read
// path calls this before reporting voucher state. The guarded update never
// transitions a terminal voucher back, so repeated calls are idempotent.
func (s *Store) EvaluateExpiry(v *models.Voucher, now time.Time) (*models.Voucher, error) {
	if v.IsTerminal() || !v.IsExpiredAt(now) {
		return v, nil
	}

	if _, err := s.repos.Voucher.UpdateStatus(v.ID, v.Status, models.VoucherStatusExpired); err != nil {
		return v, err
	}
	// Regardless of who won the status write, the voucher is expired now.
	v.Status = models.VoucherStatusExpired
	return v, nil
}

// GetPublic returns the holder-facing view of a voucher by code. Marks a
// first view (informational, never a redemption precondition) and lazily
// expires stale vouchers without taking any lock.
func (s *Store) GetPublic(ctx context.Context, code string) (*View, error) {
	_ = ctx
	v, err := s.lookup(code, 0)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	v, err = s.EvaluateExpiry(v, now)
	if err != nil {
		return nil, err
	}

	if v.Status == models.VoucherStatusIssued {
		if err := s.repos.Voucher.MarkViewed(v.ID, now); err == nil {
			v.Status = models.VoucherStatusViewed
			v.ViewedAt = &now
		}
	}

	view, err := s.buildView(v)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetForStaff returns the staff-facing view of a voucher, scoped to the
// staff member's partner. Includes the redemption record when present.
func (s *Store) GetForStaff(ctx context.Context, code string, partnerID uint) (*StaffView, error) {
	_ = ctx
	v, err := s.lookup(code, partnerID)
	if err != nil {
		return nil, err
	}

	v, err = s.EvaluateExpiry(v, time.Now())
	if err != nil {
		return nil, err
	}

	view, err := s.buildView(v)
	if err != nil {
		return nil, err
	}

	staffView := &StaffView{View: *view, UserID: v.UserID}
	if v.Status == models.VoucherStatusRedeemed {
		if redemption, err := s.repos.Redemption.GetByVoucherID(v.ID); err == nil {
			staffView.Redemption = redemption
		}
	}
	return staffView, nil
}

// Cancel administratively cancels an issued or viewed voucher. Not part of
// the redemption concurrency contract; a plain guarded update suffices.
func (s *Store) Cancel(ctx context.Context, code string, partnerID uint) (*models.Voucher, error) {
	_ = ctx
	v, err := s.lookup(code, partnerID)
	if err != nil {
		return nil, err
	}

	v, err = s.EvaluateExpiry(v, time.Now())
	if err != nil {
		return nil, err
	}
	if v.IsTerminal() {
		return nil, ErrNotCancellable
	}

	changed, err := s.repos.Voucher.UpdateStatus(v.ID, v.Status, models.VoucherStatusCancelled)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrNotCancellable
	}
	v.Status = models.VoucherStatusCancelled
	return v, nil
}

// List returns a partner's vouchers, newest first, with an optional status
// filter. Listing does not evaluate expiry; the sweeper keeps bulk state
// current.
func (s *Store) List(ctx context.Context, partnerID uint, opts repository.ListOptions) ([]models.Voucher, int64, error) {
	_ = ctx
	return s.repos.Voucher.ListByPartner(partnerID, opts)
}

// SweepExpired expires stale vouchers in one batch. Used by the periodic
// sweeper; safe to run concurrently with lazy expiry.
func (s *Store) SweepExpired(now time.Time, batchSize int) (int64, error) {
	return s.repos.Voucher.ExpireStale(now, batchSize)
}

func (s *Store) lookup(code string, partnerID uint) (*models.Voucher, error) {
	normalized := vouchercode.Normalize(code)
	if !vouchercode.IsValid(normalized) {
		return nil, ErrNotFound
	}

	var v *models.Voucher
	var err error
	if partnerID == 0 {
		v, err = s.repos.Voucher.GetByCode(normalized)
	} else {
		v, err = s.repos.Voucher.GetByCodeForPartner(normalized, partnerID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *Store) buildView(v *models.Voucher) (*View, error) {
	partner, err := s.repos.Partner.GetByID(v.PartnerID)
	if err != nil {
		return nil, err
	}

	view := &View{
		Code:        v.Code,
		Status:      v.Status,
		PartnerName: partner.Name,
		ExpiresAt:   v.ExpiresAt.UTC().Format(time.RFC3339),
	}
	if v.OfferID != nil {
		if offer, err := s.repos.Offer.GetByID(*v.OfferID); err == nil {
			view.Offer = offer
		}
	}
	if v.RedeemedAt != nil {
		formatted := v.RedeemedAt.UTC().Format(time.RFC3339)
		view.RedeemedAt = &formatted
	}
	return view, nil
}

func (s *Store) generateUniqueCode() (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := vouchercode.Generate(vouchercode.DefaultLength)
		if err != nil {
			return "", err
		}
		exists, err := s.repos.Voucher.CodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("voucher: could not generate unique code after %d attempts", codeAttempts)
}
