package clicks

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/perkfox/perkfox/app/models"
	"github.com/perkfox/perkfox/app/repository"
)

// ErrPartnerUnavailable is returned when the referral target does not exist
// or is deactivated.
var ErrPartnerUnavailable = errors.New("clicks: partner unavailable")

// RecordInput carries one referral-click event.
type RecordInput struct {
	PartnerID  uint
	UserID     *uint
	IPAddress  string
	UserAgent  string
	Referrer   string
	LandingURL string
}

// Registry records referral clicks and exposes partner offers for landing
// pages. Clicks are write-once; aggregate counts are maintained via pending
// Redis counters flushed in batches.
type Registry struct {
	repos *repository.Repositories
}

func NewRegistry(repos *repository.Repositories) *Registry {
	return &Registry{repos: repos}
}

func NewRegistryFromDB(db *gorm.DB) *Registry {
	return &Registry{repos: repository.NewRepositories(db)}
}

// Record persists a click for an active partner and returns it. The pending
// Redis counter is best effort; the click row is the source of truth.
func (r *Registry) Record(ctx context.Context, in RecordInput) (*models.PartnerClick, error) {
	if _, err := r.repos.Partner.GetActiveByID(in.PartnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerUnavailable
		}
		return nil, err
	}

	click := &models.PartnerClick{
		UUID:       uuid.NewString(),
		PartnerID:  in.PartnerID,
		UserID:     in.UserID,
		IPAddress:  in.IPAddress,
		UserAgent:  in.UserAgent,
		Referrer:   in.Referrer,
		LandingURL: in.LandingURL,
	}
	if err := r.repos.Click.Create(click); err != nil {
		return nil, err
	}

	if err := addPendingClick(in.PartnerID); err != nil {
		log.Printf("Error incrementing pending click counter for partner %d: %v", in.PartnerID, err)
	}
	return click, nil
}

// ListActiveOffers returns the partner's currently active offers for landing
// pages. Inactive partners expose no offers.
func (r *Registry) ListActiveOffers(ctx context.Context, partnerID uint) ([]models.PartnerOffer, error) {
	if _, err := r.repos.Partner.GetActiveByID(partnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerUnavailable
		}
		return nil, err
	}
	return r.repos.Offer.ListActiveByPartner(partnerID)
}

// List returns a partner's clicks, newest first.
func (r *Registry) List(ctx context.Context, partnerID uint, opts repository.ListOptions) ([]models.PartnerClick, int64, error) {
	return r.repos.Click.ListByPartner(partnerID, opts)
}
