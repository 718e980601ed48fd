package availability

import (
	"context"
	"errors"
	"strings"
	"time"

	appavailability "leihbar/internal/app/availability"
	"leihbar/internal/app/dto"
	handlersupport "leihbar/internal/app/handlers/support"
	"leihbar/internal/app/queries"
	"leihbar/internal/app/uow"
	domainoffers "leihbar/internal/domain/offers"
	domainrange "leihbar/internal/domain/shared/daterange"
)

const checkAvailabilityKey = "availability.check"

var ErrOfferIDRequired = errors.New("availability: offer id is required")

type CheckAvailabilityQuery struct {
	OfferID string
	Start   string
	End     string
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

type CheckAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
	Resolver   appavailability.Resolver
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (dto.Availability, error) {
	offerID := strings.TrimSpace(q.OfferID)
	if offerID == "" {
		return dto.Availability{}, ErrOfferIDRequired
	}
	start, err := domainrange.ParseDay(q.Start)
	if err != nil {
		return dto.Availability{}, err
	}
	end, err := domainrange.ParseDay(q.End)
	if err != nil {
		return dto.Availability{}, err
	}

	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Availability{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	res, err := h.Resolver.Resolve(execCtx, unit, domainoffers.OfferID(offerID), start, end)
	if err != nil {
		return dto.Availability{}, err
	}
	return dto.MapAvailability(res), nil
}

const getCalendarKey = "availability.calendar"

// defaultCalendarWindowDays bounds the calendar view when the caller gives
// no explicit window.
const defaultCalendarWindowDays = 90

type GetCalendarQuery struct {
	OfferID string
	From    string
	To      string
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

type GetCalendarHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (dto.Calendar, error) {
	offerID := strings.TrimSpace(q.OfferID)
	if offerID == "" {
		return dto.Calendar{}, ErrOfferIDRequired
	}
	window, err := h.window(q)
	if err != nil {
		return dto.Calendar{}, err
	}

	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Calendar{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	id := domainoffers.OfferID(offerID)
	if _, err := unit.Offers().ByID(execCtx, id); err != nil {
		return dto.Calendar{}, err
	}
	bookings, err := unit.Bookings().ConfirmedOverlapping(execCtx, id, window)
	if err != nil {
		return dto.Calendar{}, err
	}
	overrides, err := unit.Overrides().InRange(execCtx, id, window)
	if err != nil {
		return dto.Calendar{}, err
	}
	return dto.MapCalendar(offerID, window, bookings, overrides), nil
}

func (h *GetCalendarHandler) window(q GetCalendarQuery) (domainrange.DateRange, error) {
	if strings.TrimSpace(q.From) != "" || strings.TrimSpace(q.To) != "" {
		return domainrange.Parse(q.From, q.To)
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	today := domainrange.Day(now())
	return domainrange.New(today, today.AddDate(0, 0, defaultCalendarWindowDays-1))
}

var _ queries.Handler[CheckAvailabilityQuery, dto.Availability] = (*CheckAvailabilityHandler)(nil)
var _ queries.Handler[GetCalendarQuery, dto.Calendar] = (*GetCalendarHandler)(nil)
