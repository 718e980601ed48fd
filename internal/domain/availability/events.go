package availability

import (
	"time"

	"leihbar/internal/domain/offers"
	"leihbar/internal/domain/shared/daterange"
)

type DatesBlocked struct {
	OfferID offers.OfferID
	Range   daterange.DateRange
	Reason  string
	At      time.Time
}

func (e DatesBlocked) EventName() string     { return "availability.dates_blocked" }
func (e DatesBlocked) AggregateID() string   { return string(e.OfferID) }
func (e DatesBlocked) OccurredAt() time.Time { return e.At }

type DatesUnblocked struct {
	OfferID offers.OfferID
	Range   daterange.DateRange
	At      time.Time
}

func (e DatesUnblocked) EventName() string     { return "availability.dates_unblocked" }
func (e DatesUnblocked) AggregateID() string   { return string(e.OfferID) }
func (e DatesUnblocked) OccurredAt() time.Time { return e.At }
