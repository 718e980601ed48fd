package contracts

import (
	"context"
	"errors"
	"time"

	"leihbar/internal/domain/booking"
	"leihbar/internal/domain/offers"
	"leihbar/internal/domain/shared/daterange"
	"leihbar/internal/domain/shared/events"
	"leihbar/internal/domain/shared/money"
)

var (
	ErrNotFound         = errors.New("contracts: contract not found")
	ErrAlreadyGenerated = errors.New("contracts: a contract already exists for this booking")
	ErrAlreadySigned    = errors.New("contracts: party has already signed")
	ErrNotParty         = errors.New("contracts: signer is not a party to this contract")
	ErrNotSignable      = errors.New("contracts: contract can no longer be signed")
	ErrNotCancellable   = errors.New("contracts: contract is already closed")
	ErrNotActive        = errors.New("contracts: contract is not active")
)

type ContractID string

type Status string

const (
	StatusDraft          Status = "DRAFT"
	StatusSignedByLessor Status = "SIGNED_BY_LESSOR"
	StatusActive         Status = "ACTIVE"
	StatusCancelled      Status = "CANCELLED"
	StatusCompleted      Status = "COMPLETED"
)

// depositPct is the refundable hold, fixed at 20% of the booking total.
const depositPct = 20

// Party is the identity snapshot of one side of the agreement.
type Party struct {
	UserID string
	Name   string
	Email  string
}

// Contract is an immutable snapshot of the booking terms at generation
// time, plus a two-party signature trail. The offer may change afterwards;
// the contract does not. Cancellation is a status transition, never a
// deletion.
type Contract struct {
	ID        ContractID
	BookingID booking.BookingID

	Lessor Party
	Lessee Party

	OfferID          offers.OfferID
	OfferTitle       string
	OfferDescription string
	OfferType        offers.OfferType

	Range         daterange.DateRange
	DaysCount     int
	TotalPrice    money.Money
	DepositAmount money.Money
	PricePerDay   money.Money

	TermsAndConditions string

	SignedByLessorAt time.Time
	SignedByLesseeAt time.Time

	CancelReason string
	CancelledAt  time.Time
	CompletedAt  time.Time

	CreatedAt time.Time
	Version   int64
	events.EventRecorder
}

// Repository stores one contract per booking. ByBooking returns ErrNotFound
// when no contract has been generated yet.
type Repository interface {
	ByID(ctx context.Context, id ContractID) (*Contract, error)
	ByBooking(ctx context.Context, bookingID booking.BookingID) (*Contract, error)
	Insert(ctx context.Context, c *Contract) error
	Save(ctx context.Context, c *Contract) error
}

type CreateParams struct {
	ID        ContractID
	Booking   *booking.Booking
	Offer     *offers.Offer
	Lessor    Party
	Lessee    Party
	DailyRate money.Money
	Now       time.Time
}

// NewFromBooking snapshots the booking, the offer and both parties into a
// fresh draft contract. The deposit is fixed at 20% of the total.
func NewFromBooking(params CreateParams) (*Contract, error) {
	if params.Booking == nil || params.Offer == nil {
		return nil, errors.New("contracts: booking and offer snapshots required")
	}
	now := params.Now.UTC()
	c := &Contract{
		ID:                 params.ID,
		BookingID:          params.Booking.ID,
		Lessor:             params.Lessor,
		Lessee:             params.Lessee,
		OfferID:            params.Offer.ID,
		OfferTitle:         params.Offer.Title,
		OfferDescription:   params.Offer.Description,
		OfferType:          params.Offer.Type,
		Range:              params.Booking.Range,
		DaysCount:          params.Booking.DaysCount,
		TotalPrice:         params.Booking.TotalPrice,
		DepositAmount:      params.Booking.TotalPrice.Percent(depositPct),
		PricePerDay:        params.DailyRate,
		TermsAndConditions: TermsForType(params.Offer.Type),
		CreatedAt:          now,
	}
	c.Record(ContractCreated{ContractID: c.ID, BookingID: c.BookingID, OfferID: c.OfferID, At: now})
	return c, nil
}

// Status is computed from the signature timestamps and the closing markers
// rather than stored, so the displayed state can never drift from them.
func (c *Contract) Status() Status {
	switch {
	case !c.CancelledAt.IsZero():
		return StatusCancelled
	case !c.CompletedAt.IsZero():
		return StatusCompleted
	case !c.SignedByLessorAt.IsZero() && !c.SignedByLesseeAt.IsZero():
		return StatusActive
	case !c.SignedByLessorAt.IsZero():
		return StatusSignedByLessor
	default:
		// A lessee-first signature is recorded but the contract stays in
		// draft until the lessor countersigns.
		return StatusDraft
	}
}

// Sign records the signature of the given party. Signing twice by the same
// party is an error, not a no-op. The contract becomes active the instant
// both timestamps are set, in either order.
func (c *Contract) Sign(userID string, now time.Time) error {
	switch c.Status() {
	case StatusCancelled, StatusCompleted, StatusActive:
		return ErrNotSignable
	}
	signedAt := now.UTC()
	switch userID {
	case c.Lessor.UserID:
		if !c.SignedByLessorAt.IsZero() {
			return ErrAlreadySigned
		}
		c.SignedByLessorAt = signedAt
	case c.Lessee.UserID:
		if !c.SignedByLesseeAt.IsZero() {
			return ErrAlreadySigned
		}
		c.SignedByLesseeAt = signedAt
	default:
		return ErrNotParty
	}
	c.Record(ContractSigned{ContractID: c.ID, SignerID: userID, At: signedAt})
	if c.Status() == StatusActive {
		c.Record(ContractActivated{ContractID: c.ID, At: signedAt})
	}
	return nil
}

// Cancel closes the contract regardless of its signature state. Rejected
// only when the contract is already cancelled or completed.
func (c *Contract) Cancel(reason string, now time.Time) error {
	switch c.Status() {
	case StatusCancelled, StatusCompleted:
		return ErrNotCancellable
	}
	c.CancelReason = reason
	c.CancelledAt = now.UTC()
	c.Record(ContractCancelled{ContractID: c.ID, Reason: reason, At: c.CancelledAt})
	return nil
}

// Complete records the external completion event on an active contract.
func (c *Contract) Complete(now time.Time) error {
	if c.Status() != StatusActive {
		return ErrNotActive
	}
	c.CompletedAt = now.UTC()
	c.Record(ContractCompleted{ContractID: c.ID, At: c.CompletedAt})
	return nil
}

// IsParty reports whether the user is lessor or lessee on this contract.
func (c *Contract) IsParty(userID string) bool {
	return userID == c.Lessor.UserID || userID == c.Lessee.UserID
}
