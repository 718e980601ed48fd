package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leihbar/internal/app/uow"
	domainavailability "leihbar/internal/domain/availability"
	domainbooking "leihbar/internal/domain/booking"
	domainoffers "leihbar/internal/domain/offers"
	domainrange "leihbar/internal/domain/shared/daterange"
	"leihbar/internal/domain/shared/money"
	"leihbar/internal/infra/storage/memory"
)

type fixture struct {
	unit     uow.UnitOfWork
	offers   *memory.OfferRepository
	bookings *memory.BookingLedger
	blocks   *memory.OverrideLedger
	resolver Resolver
}

// The fixture clock is pinned to mid-morning so the same-day cutoff does not
// interfere with tests that do not target it.
var fixedNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		offers:   memory.NewOfferRepository(),
		bookings: memory.NewBookingLedger(),
		blocks:   memory.NewOverrideLedger(),
	}
	factory := memory.Factory{
		Offers:    f.offers,
		Bookings:  f.bookings,
		Overrides: f.blocks,
		Contracts: memory.NewContractRepository(),
		Users:     memory.NewUserDirectory(),
	}
	unit, err := factory.Begin(context.Background(), uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	f.unit = unit
	f.resolver = Resolver{Now: func() time.Time { return fixedNow }}

	require.NoError(t, f.offers.Save(context.Background(), &domainoffers.Offer{
		ID:               "of-1",
		Owner:            "provider-1",
		Title:            "Cargo bike",
		Type:             domainoffers.TypeItem,
		PricePerDayCents: 1500,
		Active:           true,
	}))
	return f
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := domainrange.ParseDay(value)
	require.NoError(t, err)
	return d
}

func (f *fixture) addBooking(t *testing.T, id domainbooking.BookingID, start, end string) {
	t.Helper()
	dr, err := domainrange.Parse(start, end)
	require.NoError(t, err)
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:                          id,
		OfferID:                     "of-1",
		CustomerID:                  "customer-1",
		Range:                       dr,
		DailyRate:                   money.Must(1500, "EUR"),
		TermsAccepted:               true,
		WithdrawalRightAcknowledged: true,
		CreatedAt:                   fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, f.bookings.Insert(context.Background(), b))
}

func (f *fixture) blockDay(t *testing.T, value string) {
	t.Helper()
	require.NoError(t, f.blocks.Upsert(context.Background(), domainavailability.Override{
		OfferID:   "of-1",
		Date:      day(t, value),
		Available: false,
		Reason:    "maintenance",
		CreatedAt: fixedNow,
	}))
}

func TestResolveValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("OfferNotFound", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.resolver.Resolve(ctx, f.unit, "missing", day(t, "2026-09-03"), day(t, "2026-09-05"))
		assert.ErrorIs(t, err, domainoffers.ErrNotFound)
	})

	t.Run("InactiveOffer", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.offers.Save(ctx, &domainoffers.Offer{
			ID: "of-2", Owner: "provider-1", Title: "Drill", PricePerDayCents: 500,
		}))
		_, err := f.resolver.Resolve(ctx, f.unit, "of-2", day(t, "2026-09-03"), day(t, "2026-09-05"))
		assert.ErrorIs(t, err, domainoffers.ErrInactive)
	})

	t.Run("StartInPast", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.resolver.Resolve(ctx, f.unit, "of-1", day(t, "2026-08-31"), day(t, "2026-09-02"))
		assert.ErrorIs(t, err, ErrStartInPast)
	})

	t.Run("SameDayBeforeCutoff", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.Now = func() time.Time { return time.Date(2026, 9, 1, 17, 59, 0, 0, time.UTC) }
		result, err := f.resolver.Resolve(ctx, f.unit, "of-1", day(t, "2026-09-01"), day(t, "2026-09-02"))
		require.NoError(t, err)
		assert.True(t, result.IsAvailable)
	})

	t.Run("SameDayAtCutoff", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.Now = func() time.Time { return time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC) }
		_, err := f.resolver.Resolve(ctx, f.unit, "of-1", day(t, "2026-09-01"), day(t, "2026-09-02"))
		assert.ErrorIs(t, err, ErrSameDayCutoff)
	})

	t.Run("TomorrowUnaffectedByCutoff", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.Now = func() time.Time { return time.Date(2026, 9, 1, 23, 0, 0, 0, time.UTC) }
		result, err := f.resolver.Resolve(ctx, f.unit, "of-1", day(t, "2026-09-02"), day(t, "2026-09-03"))
		require.NoError(t, err)
		assert.True(t, result.IsAvailable)
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.resolver.Resolve(ctx, f.unit, "of-1", day(t, "2026-09-05"), day(t, "2026-09-03"))
		assert.ErrorIs(t, err, domainrange.ErrInvalidRange)
	})

	t.Run("FourteenDaysAllowed", func(t *testing.T) {
		f := newFixture(t)
		result, err := f.resolver.Resolve(ctx, f.unit, "of-1", day(t, "2026-09-02"), day(t, "2026-09-15"))
		require.NoError(t, err)
		assert.True(t, result.IsAvailable)
		assert.Len(t, result.AvailableDates, 14)
	})

	t.Run("FifteenDaysRejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.resolver.Resolve(ctx, f.unit, "of-1", day(t, "2026-09-02"), day(t, "2026-09-16"))
		assert.ErrorIs(t, err, ErrSpanTooLong)
	})
}

func TestResolveMergesBookedAndBlocked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.addBooking(t, "bk-1", "2026-09-04", "2026-09-05")
	f.blockDay(t, "2026-09-07")

	result, err := f.resolver.Resolve(ctx, f.unit, "of-1", day(t, "2026-09-03"), day(t, "2026-09-08"))
	require.NoError(t, err)

	assert.False(t, result.IsAvailable)
	assert.Equal(t, []time.Time{
		day(t, "2026-09-03"), day(t, "2026-09-06"), day(t, "2026-09-08"),
	}, result.AvailableDates)
	assert.Equal(t, []time.Time{
		day(t, "2026-09-04"), day(t, "2026-09-05"), day(t, "2026-09-07"),
	}, result.UnavailableDates)
}

func TestResolveIgnoresAvailableOverrides(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.blocks.Upsert(ctx, domainavailability.Override{
		OfferID:   "of-1",
		Date:      day(t, "2026-09-04"),
		Available: true,
	}))

	result, err := f.resolver.Resolve(ctx, f.unit, "of-1", day(t, "2026-09-03"), day(t, "2026-09-05"))
	require.NoError(t, err)
	assert.True(t, result.IsAvailable)
}

func TestResolveCancelledBookingsDoNotBlock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.addBooking(t, "bk-1", "2026-09-04", "2026-09-05")
	b, err := f.bookings.ByID(ctx, "bk-1")
	require.NoError(t, err)
	require.NoError(t, b.Cancel("changed plans", fixedNow))
	require.NoError(t, f.bookings.Save(ctx, b))

	result, err := f.resolver.Resolve(ctx, f.unit, "of-1", day(t, "2026-09-03"), day(t, "2026-09-05"))
	require.NoError(t, err)
	assert.True(t, result.IsAvailable)
}

func TestResolveHourlyRateFallback(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.offers.Save(ctx, &domainoffers.Offer{
		ID:                "of-3",
		Owner:             "provider-1",
		Title:             "Gardening",
		Type:              domainoffers.TypeService,
		PricePerHourCents: 500,
		Active:            true,
	}))

	result, err := f.resolver.Resolve(ctx, f.unit, "of-3", day(t, "2026-09-03"), day(t, "2026-09-04"))
	require.NoError(t, err)
	assert.Equal(t, int64(4000), result.DailyRate.Amount)
	assert.Equal(t, "EUR", result.DailyRate.Currency)
}

func TestResolveNoPrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.offers.Save(ctx, &domainoffers.Offer{
		ID:     "of-4",
		Owner:  "provider-1",
		Title:  "Freebie",
		Active: true,
	}))

	_, err := f.resolver.Resolve(ctx, f.unit, "of-4", day(t, "2026-09-03"), day(t, "2026-09-04"))
	assert.ErrorIs(t, err, domainoffers.ErrNoPrice)
}
