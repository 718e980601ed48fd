package availability

import (
	"context"
	"errors"
	"time"

	"leihbar/internal/domain/offers"
	"leihbar/internal/domain/shared/daterange"
)

var ErrOverrideNotFound = errors.New("availability: override not found")

// Override is a provider-entered marker for a single calendar day. At most
// one override exists per (offer, day); the absence of a row means the day
// is available. Writes go through upsert semantics, never duplicate rows.
type Override struct {
	OfferID   offers.OfferID
	Date      time.Time
	Available bool
	Reason    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ledger stores overrides keyed by (offer, day).
type Ledger interface {
	// Upsert writes the override for its (offer, day) key, replacing any
	// existing row for the same day.
	Upsert(ctx context.Context, o Override) error
	// Delete removes the override rows for every day in the range. Days
	// without a row are skipped silently.
	Delete(ctx context.Context, offerID offers.OfferID, dr daterange.DateRange) error
	// InRange returns the overrides whose day falls inside the range.
	InRange(ctx context.Context, offerID offers.OfferID, dr daterange.DateRange) ([]Override, error)
}

// BlockedDays filters the given overrides down to the days explicitly
// marked unavailable.
func BlockedDays(overrides []Override) []time.Time {
	blocked := make([]time.Time, 0, len(overrides))
	for _, o := range overrides {
		if !o.Available {
			blocked = append(blocked, daterange.Day(o.Date))
		}
	}
	return blocked
}
