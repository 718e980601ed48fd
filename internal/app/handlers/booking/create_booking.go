package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	appavailability "leihbar/internal/app/availability"
	"leihbar/internal/app/commands"
	"leihbar/internal/app/middleware"
	"leihbar/internal/app/outbox"
	"leihbar/internal/app/policies"
	"leihbar/internal/app/uow"
	domainbooking "leihbar/internal/domain/booking"
	domainoffers "leihbar/internal/domain/offers"
	domainrange "leihbar/internal/domain/shared/daterange"
	domainuser "leihbar/internal/domain/user"
)

const createBookingKey = "booking.create"

type CreateBookingCommand struct {
	CommandID                   string
	OfferID                     string
	CustomerID                  string
	Start                       string
	End                         string
	TermsAccepted               bool
	WithdrawalRightAcknowledged bool
	IdempotencyKeyV             string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &CreateBookingResult{} }

type CreateBookingResult struct {
	BookingID  string `json:"booking_id"`
	Status     string `json:"status"`
	Days       int    `json:"days"`
	TotalPrice struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	} `json:"total_price"`
}

type CreateBookingHandler struct {
	Resolver appavailability.Resolver
	Notifier policies.Notifier
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Logger   *slog.Logger
	Now      func() time.Time
}

// Handle books the offer for the requested days. The validation chain is
// delegated to the resolver so a booking attempt fails with exactly the
// error an availability check would have returned, and the final overlap
// re-check inside Ledger.Insert closes the race between two concurrent
// requests for the same days.
func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	if !cmd.TermsAccepted {
		return nil, domainbooking.ErrTermsNotAccepted
	}
	if !cmd.WithdrawalRightAcknowledged {
		return nil, domainbooking.ErrWithdrawalNotAcknowledged
	}
	customerID := strings.TrimSpace(cmd.CustomerID)
	if customerID == "" {
		return nil, domainbooking.ErrCustomerRequired
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	// The self-booking gate comes before any date validation so owners never
	// see availability errors for their own offer.
	offer, err := unit.Offers().ByID(ctx, domainoffers.OfferID(cmd.OfferID))
	if err != nil {
		return nil, err
	}
	if offer.OwnedBy(customerID) {
		return nil, domainbooking.ErrSelfBooking
	}

	start, err := domainrange.ParseDay(cmd.Start)
	if err != nil {
		return nil, err
	}
	end, err := domainrange.ParseDay(cmd.End)
	if err != nil {
		return nil, err
	}

	res, err := h.Resolver.Resolve(ctx, unit, offer.ID, start, end)
	if err != nil {
		return nil, err
	}
	if !res.IsAvailable {
		return nil, domainbooking.ErrDatesUnavailable
	}

	now := h.now()
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:                          domainbooking.BookingID(cmd.CommandID),
		OfferID:                     res.Offer.ID,
		CustomerID:                  customerID,
		Range:                       res.Range,
		DailyRate:                   res.DailyRate,
		TermsAccepted:               cmd.TermsAccepted,
		WithdrawalRightAcknowledged: cmd.WithdrawalRightAcknowledged,
		CreatedAt:                   now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Bookings().Insert(ctx, b); err != nil {
		return nil, err
	}

	pending := b.PendingEvents()
	b.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	h.notifyProvider(ctx, unit, b, res.Offer)

	result := &CreateBookingResult{
		BookingID: string(b.ID),
		Status:    string(b.Status),
		Days:      b.DaysCount,
	}
	result.TotalPrice.Amount = b.TotalPrice.Amount
	result.TotalPrice.Currency = b.TotalPrice.Currency
	return result, nil
}

// notifyProvider tells the owner about the new booking. Failures are logged
// and swallowed: the booking stands whether or not the message goes out.
func (h *CreateBookingHandler) notifyProvider(ctx context.Context, unit uow.UnitOfWork, b *domainbooking.Booking, offer *domainoffers.Offer) {
	if h.Notifier == nil {
		return
	}
	customerName := b.CustomerID
	if u, err := unit.Users().ByID(ctx, domainuser.ID(b.CustomerID)); err == nil {
		customerName = u.Name
	}
	text := fmt.Sprintf("%s booked %q from %s to %s (%d days, %s)",
		customerName, offer.Title,
		domainrange.FormatDay(b.Range.Start), domainrange.FormatDay(b.Range.End),
		b.DaysCount, b.TotalPrice.String())
	if err := h.Notifier.Notify(ctx, b.CustomerID, string(offer.Owner), string(offer.ID), text); err != nil && h.Logger != nil {
		h.Logger.Warn("booking notification failed", "booking_id", b.ID, "offer_id", offer.ID, "error", err)
	}
}

func (h *CreateBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CreateBookingCommand, *CreateBookingResult] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateBookingCommand)(nil)
