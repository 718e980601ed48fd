package booking

import (
	"context"
	"errors"
	"time"

	"leihbar/internal/domain/offers"
	"leihbar/internal/domain/shared/daterange"
	"leihbar/internal/domain/shared/events"
	"leihbar/internal/domain/shared/money"
)

var (
	ErrNotFound                  = errors.New("booking: not found")
	ErrCustomerRequired          = errors.New("booking: customer id required")
	ErrTermsNotAccepted          = errors.New("booking: terms and conditions must be accepted")
	ErrWithdrawalNotAcknowledged = errors.New("booking: withdrawal right must be acknowledged")
	ErrSelfBooking               = errors.New("booking: providers cannot book their own offer")
	ErrDatesUnavailable          = errors.New("booking: requested dates are not available")
	ErrNotCancellable            = errors.New("booking: only confirmed bookings can be cancelled")
	ErrNotOwner                  = errors.New("booking: only the offer owner may perform this action")
	ErrInvalidState              = errors.New("booking: invalid state transition")
)

type BookingID string

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// Booking spans an inclusive range of calendar days on one offer. Bookings
// are confirmed the moment they are created; there is no approval step.
type Booking struct {
	ID         BookingID
	OfferID    offers.OfferID
	CustomerID string
	Range      daterange.DateRange
	DaysCount  int
	TotalPrice money.Money

	Status       Status
	CancelReason string

	TermsAcceptedAt          time.Time
	WithdrawalAcknowledgedAt time.Time

	CreatedAt   time.Time
	ConfirmedAt time.Time
	CancelledAt time.Time
	CompletedAt time.Time
	Version     int64
	events.EventRecorder
}

// Ledger owns booking rows. Insert must be atomic with respect to the
// overlap re-check for the same offer; see the storage implementations.
type Ledger interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	// Insert persists a new confirmed booking after re-checking that no
	// other confirmed booking on the same offer overlaps its range. A lost
	// race surfaces as ErrDatesUnavailable.
	Insert(ctx context.Context, b *Booking) error
	Save(ctx context.Context, b *Booking) error
	ConfirmedOverlapping(ctx context.Context, offerID offers.OfferID, dr daterange.DateRange) ([]*Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Booking, error)
	ListByOffer(ctx context.Context, offerID offers.OfferID) ([]*Booking, error)
}

type CreateParams struct {
	ID                          BookingID
	OfferID                     offers.OfferID
	CustomerID                  string
	Range                       daterange.DateRange
	DailyRate                   money.Money
	TermsAccepted               bool
	WithdrawalRightAcknowledged bool
	CreatedAt                   time.Time
}

// NewBooking builds a confirmed booking. Both legal-consent flags must be
// set explicitly by the customer; they are never inferred.
func NewBooking(params CreateParams) (*Booking, error) {
	if !params.TermsAccepted {
		return nil, ErrTermsNotAccepted
	}
	if !params.WithdrawalRightAcknowledged {
		return nil, ErrWithdrawalNotAcknowledged
	}
	if params.CustomerID == "" {
		return nil, ErrCustomerRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	days := params.Range.Days()
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:                       params.ID,
		OfferID:                  params.OfferID,
		CustomerID:               params.CustomerID,
		Range:                    params.Range,
		DaysCount:                days,
		TotalPrice:               params.DailyRate.Multiply(int64(days)),
		Status:                   StatusConfirmed,
		TermsAcceptedAt:          now,
		WithdrawalAcknowledgedAt: now,
		CreatedAt:                now,
		ConfirmedAt:              now,
	}
	b.Record(BookingConfirmed{BookingID: b.ID, OfferID: b.OfferID, CustomerID: b.CustomerID, Range: b.Range, Total: b.TotalPrice, At: now})
	return b, nil
}

// Cancel transitions a confirmed booking to cancelled. Cancellation is
// owner-initiated; the ownership check happens in the orchestrator where
// the offer is at hand.
func (b *Booking) Cancel(reason string, now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrNotCancellable
	}
	b.Status = StatusCancelled
	b.CancelReason = reason
	b.CancelledAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, OfferID: b.OfferID, Reason: reason, At: b.CancelledAt})
	return nil
}

// Complete marks a past booking as completed. Driven by an external job,
// not by the booking orchestrator.
func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidState
	}
	b.Status = StatusCompleted
	b.CompletedAt = now.UTC()
	b.Record(BookingCompleted{BookingID: b.ID, OfferID: b.OfferID, At: b.CompletedAt})
	return nil
}
