package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainavailability "leihbar/internal/domain/availability"
	domainbooking "leihbar/internal/domain/booking"
	domaincontracts "leihbar/internal/domain/contracts"
	domainoffers "leihbar/internal/domain/offers"
	domainrange "leihbar/internal/domain/shared/daterange"
)

// OfferRepository is an in-memory implementation for demos and tests.
type OfferRepository struct {
	mu    sync.RWMutex
	items map[domainoffers.OfferID]*domainoffers.Offer
}

// NewOfferRepository builds an empty repository.
func NewOfferRepository() *OfferRepository {
	return &OfferRepository{items: make(map[domainoffers.OfferID]*domainoffers.Offer)}
}

// ByID returns the offer or domainoffers.ErrNotFound.
func (r *OfferRepository) ByID(ctx context.Context, id domainoffers.OfferID) (*domainoffers.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	offer, ok := r.items[id]
	if !ok {
		return nil, domainoffers.ErrNotFound
	}
	return offer, nil
}

// ByOwner returns every offer provided by the given owner.
func (r *OfferRepository) ByOwner(ctx context.Context, owner domainoffers.OwnerID) ([]*domainoffers.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainoffers.Offer, 0)
	for _, offer := range r.items {
		if offer.Owner == owner {
			matches = append(matches, offer)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ID < matches[j].ID
	})
	return matches, nil
}

// Save stores/updates an offer entry.
func (r *OfferRepository) Save(ctx context.Context, offer *domainoffers.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[offer.ID] = offer
	return nil
}

// BookingLedger stores bookings in memory. Insert serializes per process via
// the ledger mutex, so the overlap re-check and the write form one atomic
// step and two racing inserts for the same days cannot both succeed.
type BookingLedger struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

// NewBookingLedger builds an empty ledger.
func NewBookingLedger() *BookingLedger {
	return &BookingLedger{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

// ByID fetches a booking.
func (l *BookingLedger) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return b, nil
}

// Insert re-checks for confirmed overlaps under the write lock before
// persisting, turning a lost race into ErrDatesUnavailable.
func (l *BookingLedger) Insert(ctx context.Context, b *domainbooking.Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.items {
		if existing.OfferID != b.OfferID || existing.Status != domainbooking.StatusConfirmed {
			continue
		}
		if existing.Range.Overlaps(b.Range) {
			return domainbooking.ErrDatesUnavailable
		}
	}
	b.Version++
	l.items[b.ID] = b
	return nil
}

// Save stores the current booking state.
func (l *BookingLedger) Save(ctx context.Context, b *domainbooking.Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	b.Version++
	l.items[b.ID] = b
	return nil
}

// ConfirmedOverlapping returns the confirmed bookings whose range shares at
// least one day with dr.
func (l *BookingLedger) ConfirmedOverlapping(ctx context.Context, offerID domainoffers.OfferID, dr domainrange.DateRange) ([]*domainbooking.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range l.items {
		if b.OfferID != offerID || b.Status != domainbooking.StatusConfirmed {
			continue
		}
		if b.Range.Overlaps(dr) {
			matches = append(matches, b)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Range.Start.Before(matches[j].Range.Start)
	})
	return matches, nil
}

func (l *BookingLedger) ListByCustomer(ctx context.Context, customerID string) ([]*domainbooking.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	id := strings.TrimSpace(customerID)
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range l.items {
		if b.CustomerID == id {
			matches = append(matches, b)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (l *BookingLedger) ListByOffer(ctx context.Context, offerID domainoffers.OfferID) ([]*domainbooking.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range l.items {
		if b.OfferID == offerID {
			matches = append(matches, b)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

// OverrideLedger keeps availability overrides keyed by (offer, day).
type OverrideLedger struct {
	mu    sync.RWMutex
	items map[overrideKey]domainavailability.Override
}

type overrideKey struct {
	offer domainoffers.OfferID
	day   string
}

// NewOverrideLedger builds an empty ledger.
func NewOverrideLedger() *OverrideLedger {
	return &OverrideLedger{items: make(map[overrideKey]domainavailability.Override)}
}

func (l *OverrideLedger) Upsert(ctx context.Context, o domainavailability.Override) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := overrideKey{offer: o.OfferID, day: domainrange.FormatDay(o.Date)}
	if existing, ok := l.items[key]; ok {
		o.CreatedAt = existing.CreatedAt
	}
	l.items[key] = o
	return nil
}

func (l *OverrideLedger) Delete(ctx context.Context, offerID domainoffers.OfferID, dr domainrange.DateRange) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, day := range dr.EachDay() {
		delete(l.items, overrideKey{offer: offerID, day: domainrange.FormatDay(day)})
	}
	return nil
}

func (l *OverrideLedger) InRange(ctx context.Context, offerID domainoffers.OfferID, dr domainrange.DateRange) ([]domainavailability.Override, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	matches := make([]domainavailability.Override, 0)
	for key, o := range l.items {
		if key.offer != offerID {
			continue
		}
		if dr.ContainsDay(o.Date) {
			matches = append(matches, o)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Date.Before(matches[j].Date)
	})
	return matches, nil
}

// ContractRepository stores contracts in memory, indexed by booking too so
// the one-contract-per-booking lookup stays cheap.
type ContractRepository struct {
	mu        sync.RWMutex
	items     map[domaincontracts.ContractID]*domaincontracts.Contract
	byBooking map[domainbooking.BookingID]domaincontracts.ContractID
}

// NewContractRepository builds an empty repository.
func NewContractRepository() *ContractRepository {
	return &ContractRepository{
		items:     make(map[domaincontracts.ContractID]*domaincontracts.Contract),
		byBooking: make(map[domainbooking.BookingID]domaincontracts.ContractID),
	}
}

func (r *ContractRepository) ByID(ctx context.Context, id domaincontracts.ContractID) (*domaincontracts.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domaincontracts.ErrNotFound
	}
	return c, nil
}

func (r *ContractRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) (*domaincontracts.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byBooking[bookingID]
	if !ok {
		return nil, domaincontracts.ErrNotFound
	}
	c, ok := r.items[id]
	if !ok {
		return nil, domaincontracts.ErrNotFound
	}
	return c, nil
}

// Insert adds a fresh contract. A second contract for the same booking is
// rejected by returning the existing one's constraint error.
func (r *ContractRepository) Insert(ctx context.Context, c *domaincontracts.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byBooking[c.BookingID]; ok {
		return domaincontracts.ErrAlreadyGenerated
	}
	c.Version++
	r.items[c.ID] = c
	r.byBooking[c.BookingID] = c.ID
	return nil
}

func (r *ContractRepository) Save(ctx context.Context, c *domaincontracts.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.Version++
	r.items[c.ID] = c
	r.byBooking[c.BookingID] = c.ID
	return nil
}

var _ domainoffers.Repository = (*OfferRepository)(nil)
var _ domainbooking.Ledger = (*BookingLedger)(nil)
var _ domainavailability.Ledger = (*OverrideLedger)(nil)
var _ domaincontracts.Repository = (*ContractRepository)(nil)
