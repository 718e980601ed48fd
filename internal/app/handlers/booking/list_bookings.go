package booking

import (
	"context"
	"errors"
	"sort"
	"strings"

	"leihbar/internal/app/dto"
	handlersupport "leihbar/internal/app/handlers/support"
	"leihbar/internal/app/queries"
	"leihbar/internal/app/uow"
	domainbooking "leihbar/internal/domain/booking"
	domainoffers "leihbar/internal/domain/offers"
)

const (
	listCustomerBookingsKey = "booking.list.customer"
	listOwnerBookingsKey    = "booking.list.owner"
	allStatusesFilterValue  = "ALL"
)

var ErrUserIDRequired = errors.New("booking: user id is required")

type ListCustomerBookingsQuery struct {
	CustomerID string
	Status     string
}

func (q ListCustomerBookingsQuery) Key() string { return listCustomerBookingsKey }

type ListCustomerBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListCustomerBookingsHandler) Handle(ctx context.Context, q ListCustomerBookingsQuery) (dto.BookingCollection, error) {
	customerID := strings.TrimSpace(q.CustomerID)
	if customerID == "" {
		return dto.BookingCollection{}, ErrUserIDRequired
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	bookings, err := unit.Bookings().ListByCustomer(execCtx, customerID)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	return collect(bookings, q.Status), nil
}

type ListOwnerBookingsQuery struct {
	OwnerID string
	Status  string
}

func (q ListOwnerBookingsQuery) Key() string { return listOwnerBookingsKey }

type ListOwnerBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

// Handle lists the bookings taken on any offer the owner provides.
func (h *ListOwnerBookingsHandler) Handle(ctx context.Context, q ListOwnerBookingsQuery) (dto.BookingCollection, error) {
	ownerID := strings.TrimSpace(q.OwnerID)
	if ownerID == "" {
		return dto.BookingCollection{}, ErrUserIDRequired
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	offers, err := unit.Offers().ByOwner(execCtx, domainoffers.OwnerID(ownerID))
	if err != nil {
		return dto.BookingCollection{}, err
	}
	all := make([]*domainbooking.Booking, 0)
	for _, offer := range offers {
		bookings, err := unit.Bookings().ListByOffer(execCtx, offer.ID)
		if err != nil {
			return dto.BookingCollection{}, err
		}
		all = append(all, bookings...)
	}
	return collect(all, q.Status), nil
}

// collect filters by status (empty or "ALL" keeps everything) and sorts
// newest-first the way the API lists them.
func collect(bookings []*domainbooking.Booking, status string) dto.BookingCollection {
	filter := strings.ToUpper(strings.TrimSpace(status))
	items := make([]dto.BookingSummary, 0, len(bookings))
	for _, b := range bookings {
		if filter != "" && filter != allStatusesFilterValue && string(b.Status) != filter {
			continue
		}
		items = append(items, dto.MapBookingSummary(b))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return dto.BookingCollection{Items: items}
}

var _ queries.Handler[ListCustomerBookingsQuery, dto.BookingCollection] = (*ListCustomerBookingsHandler)(nil)
var _ queries.Handler[ListOwnerBookingsQuery, dto.BookingCollection] = (*ListOwnerBookingsHandler)(nil)
