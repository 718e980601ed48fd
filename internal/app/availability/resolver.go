package availability

import (
	"context"
	"errors"
	"time"

	"leihbar/internal/app/uow"
	domainavailability "leihbar/internal/domain/availability"
	domainoffers "leihbar/internal/domain/offers"
	domainrange "leihbar/internal/domain/shared/daterange"
	"leihbar/internal/domain/shared/money"
)

var (
	ErrStartInPast   = errors.New("availability: start date is in the past")
	ErrSameDayCutoff = errors.New("availability: same-day bookings close at 18:00")
	ErrSpanTooLong   = errors.New("availability: bookings span at most 14 days")
)

// MaxSpanDays bounds an inclusive booking range.
const MaxSpanDays = 14

// sameDayCutoffHour is the local hour after which today can no longer be
// booked as a start date. Hard cutoff, not configurable.
const sameDayCutoffHour = 18

// Result is the availability verdict for one offer and date range. The
// range is bookable only when UnavailableDates is empty; partially free
// ranges are rejected wholesale, never truncated.
type Result struct {
	Offer            *domainoffers.Offer
	Range            domainrange.DateRange
	IsAvailable      bool
	AvailableDates   []time.Time
	UnavailableDates []time.Time
	DailyRate        money.Money
}

// Resolver merges confirmed bookings and blocked override days into a
// per-day availability view. Pure read; it never mutates storage.
type Resolver struct {
	// Now supplies the clock used for the past-date and same-day-cutoff
	// checks. Defaults to time.Now.
	Now func() time.Time
}

func (r Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Resolve validates the candidate range and computes the verdict. Checks
// run in a fixed order and the first failure wins: offer active, start not
// in the past, same-day cutoff, range shape, span bound.
func (r Resolver) Resolve(ctx context.Context, unit uow.UnitOfWork, offerID domainoffers.OfferID, start, end time.Time) (Result, error) {
	offer, err := unit.Offers().ByID(ctx, offerID)
	if err != nil {
		return Result{}, err
	}
	if !offer.Active {
		return Result{}, domainoffers.ErrInactive
	}

	now := r.now()
	today := domainrange.Day(now)
	startDay := domainrange.Day(start)
	if startDay.Before(today) {
		return Result{}, ErrStartInPast
	}
	if startDay.Equal(today) && now.Hour() >= sameDayCutoffHour {
		return Result{}, ErrSameDayCutoff
	}

	dr, err := domainrange.New(start, end)
	if err != nil {
		return Result{}, err
	}
	if dr.Days() > MaxSpanDays {
		return Result{}, ErrSpanTooLong
	}

	rate, err := offer.DailyRate()
	if err != nil {
		return Result{}, err
	}

	booked, err := unit.Bookings().ConfirmedOverlapping(ctx, offerID, dr)
	if err != nil {
		return Result{}, err
	}
	overrides, err := unit.Overrides().InRange(ctx, offerID, dr)
	if err != nil {
		return Result{}, err
	}

	taken := make(map[time.Time]struct{})
	for _, b := range booked {
		for _, day := range b.Range.EachDay() {
			if dr.ContainsDay(day) {
				taken[day] = struct{}{}
			}
		}
	}
	for _, day := range domainavailability.BlockedDays(overrides) {
		if dr.ContainsDay(day) {
			taken[day] = struct{}{}
		}
	}

	result := Result{
		Offer:     offer,
		Range:     dr,
		DailyRate: rate,
	}
	for _, day := range dr.EachDay() {
		if _, ok := taken[day]; ok {
			result.UnavailableDates = append(result.UnavailableDates, day)
		} else {
			result.AvailableDates = append(result.AvailableDates, day)
		}
	}
	result.IsAvailable = len(result.UnavailableDates) == 0
	return result, nil
}
