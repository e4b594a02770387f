package redemption

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/perkfox/perkfox/app/models"
)

var (
	// ErrNotFound is returned when no voucher matches the code within the
	// redeeming partner's scope. Codes belonging to other partners are
	// indistinguishable from missing codes, so existence never leaks across
	// tenants.
	ErrNotFound = errors.New("redemption: voucher not found")

	// ErrAlreadyRedeemed is the idempotent rejection for a voucher that has
	// already been used. A duplicate scan or network retry observes this, not
	// a second commission charge.
	ErrAlreadyRedeemed = errors.New("redemption: voucher already redeemed")

	// ErrExpired is returned when the voucher's deadline passed, whether or
	// not the status column had caught up.
	ErrExpired = errors.New("redemption: voucher expired")

	// ErrConversionNotPending is returned when confirming a conversion that
	// is not in pending state.
	ErrConversionNotPending = errors.New("redemption: conversion is not pending")

	// ErrConversionNotConfirmed is returned when marking a conversion paid
	// that has not been confirmed.
	ErrConversionNotConfirmed = errors.New("redemption: conversion is not confirmed")

	// ErrPartnerUnavailable is returned when the partner does not exist or
	// is deactivated.
	ErrPartnerUnavailable = errors.New("redemption: partner unavailable")

	// ErrConversionNotFound is returned when a conversion id does not resolve
	// within the acting partner's scope.
	ErrConversionNotFound = errors.New("redemption: conversion not found")
)

// NotRedeemableError is returned for vouchers in a state with no path to
// redemption, carrying the current status for staff-facing diagnostics.
type NotRedeemableError struct {
	Status string
}

func (e *NotRedeemableError) Error() string {
	return fmt.Sprintf("redemption: voucher not redeemable (status %s)", e.Status)
}

// TransientError wraps store-level failures (lock timeouts, lost
// connections) that are safe for infrastructure to retry: the first
// concurrent attempt can only succeed once, and a retried duplicate
// re-observes ErrAlreadyRedeemed.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("redemption: transient store error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether the error is safe to retry automatically.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// RedeemInput carries one staff-initiated redemption attempt. PartnerID is
// the authenticated partner scope, StaffUserID the acting staff identity;
// both are explicit parameters, never ambient state.
type RedeemInput struct {
	Code           string
	PartnerID      uint
	StaffUserID    uint
	SaleAmount     *decimal.Decimal
	BenefitApplied *decimal.Decimal
	Notes          string
	IPAddress      string
	UserAgent      string
}

// Result is the pair of records a successful redemption produces atomically.
type Result struct {
	Redemption *models.Redemption        `json:"redemption"`
	Conversion *models.PartnerConversion `json:"conversion"`
}
