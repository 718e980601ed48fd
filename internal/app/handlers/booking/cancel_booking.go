package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"leihbar/internal/app/commands"
	"leihbar/internal/app/outbox"
	"leihbar/internal/app/policies"
	"leihbar/internal/app/uow"
	domainbooking "leihbar/internal/domain/booking"
	domainoffers "leihbar/internal/domain/offers"
	domainrange "leihbar/internal/domain/shared/daterange"
)

const cancelBookingKey = "booking.cancel"

var ErrBookingIDRequired = errors.New("booking: booking id is required")

type CancelBookingCommand struct {
	OwnerID   string
	BookingID string
	Reason    string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

type CancelBookingResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

type CancelBookingHandler struct {
	Notifier policies.Notifier
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Logger   *slog.Logger
	Now      func() time.Time
}

// Handle cancels a confirmed booking on behalf of the offer owner. The
// customer side has no cancel operation here; withdrawal runs through a
// separate legal process outside this service.
func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
	bookingID := strings.TrimSpace(cmd.BookingID)
	if bookingID == "" {
		return nil, ErrBookingIDRequired
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(bookingID))
	if err != nil {
		return nil, err
	}
	offer, err := unit.Offers().ByID(ctx, b.OfferID)
	if err != nil {
		return nil, err
	}
	if !offer.OwnedBy(strings.TrimSpace(cmd.OwnerID)) {
		return nil, domainbooking.ErrNotOwner
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}
	reason := strings.TrimSpace(cmd.Reason)
	if reason == "" {
		reason = "owner-cancelled"
	}
	if err := b.Cancel(reason, now); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}

	pending := b.PendingEvents()
	b.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	h.notifyCustomer(ctx, b, offer, reason)

	if h.Logger != nil {
		h.Logger.Info("booking cancelled", "booking_id", b.ID, "offer_id", b.OfferID, "reason", reason)
	}
	return &CancelBookingResult{BookingID: string(b.ID), Status: string(b.Status)}, nil
}

// notifyCustomer tells the customer their booking was cancelled. Failures
// are logged and swallowed; the cancellation stands either way.
func (h *CancelBookingHandler) notifyCustomer(ctx context.Context, b *domainbooking.Booking, offer *domainoffers.Offer, reason string) {
	if h.Notifier == nil {
		return
	}
	text := fmt.Sprintf("Your booking of %q from %s to %s was cancelled: %s",
		offer.Title,
		domainrange.FormatDay(b.Range.Start), domainrange.FormatDay(b.Range.End),
		reason)
	if err := h.Notifier.Notify(ctx, string(offer.Owner), b.CustomerID, string(offer.ID), text); err != nil && h.Logger != nil {
		h.Logger.Warn("cancellation notification failed", "booking_id", b.ID, "offer_id", offer.ID, "error", err)
	}
}

var _ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
