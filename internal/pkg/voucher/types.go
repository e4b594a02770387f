package voucher

import (
	"errors"
	"fmt"

	"github.com/perkfox/perkfox/app/models"
)

var (
	// ErrNotFound is returned when no voucher matches the code, or when the
	// code exists outside the requesting partner's scope. The two cases are
	// deliberately indistinguishable to the caller.
	ErrNotFound = errors.New("voucher: not found")

	// ErrPartnerUnavailable is returned at issuance when the partner does not
	// exist or is deactivated.
	ErrPartnerUnavailable = errors.New("voucher: partner unavailable")

	// ErrOfferUnavailable is returned at issuance when the referenced offer is
	// missing, inactive, or belongs to a different partner.
	ErrOfferUnavailable = errors.New("voucher: offer unavailable")

	// ErrNotCancellable is returned when an administrative cancel targets a
	// voucher already in a terminal state.
	ErrNotCancellable = errors.New("voucher: not cancellable")
)

// DuplicateActiveVoucherError is returned when the requesting user already
// holds an issued, unexpired voucher for the partner. It carries the existing
// voucher so callers can present it instead of a bare conflict.
type DuplicateActiveVoucherError struct {
	Existing *models.Voucher
}

func (e *DuplicateActiveVoucherError) Error() string {
	return fmt.Sprintf("voucher: user already holds active voucher %s for partner %d",
		e.Existing.Code, e.Existing.PartnerID)
}

// View is the holder-facing read model of a voucher.
type View struct {
	Code        string               `json:"code"`
	Status      string               `json:"status"`
	PartnerName string               `json:"partner_name"`
	Offer       *models.PartnerOffer `json:"offer,omitempty"`
	ExpiresAt   string               `json:"expires_at"`
	RedeemedAt  *string              `json:"redeemed_at,omitempty"`
}

// StaffView extends the holder view with redemption detail for the partner's
// staff.
type StaffView struct {
	View
	UserID     uint               `json:"user_id"`
	Redemption *models.Redemption `json:"redemption,omitempty"`
}
