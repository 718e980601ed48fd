package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appavailability "leihbar/internal/app/availability"
	appoutbox "leihbar/internal/app/outbox"
	"leihbar/internal/app/uow"
	domainbooking "leihbar/internal/domain/booking"
	domainoffers "leihbar/internal/domain/offers"
	domainuser "leihbar/internal/domain/user"
	"leihbar/internal/infra/storage/memory"
)

var fixedNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	factory  memory.Factory
	offers   *memory.OfferRepository
	bookings *memory.BookingLedger
	users    *memory.UserDirectory
	notifier *memory.Notifier
	outbox   *memory.Outbox
	handler  *CreateBookingHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		offers:   memory.NewOfferRepository(),
		bookings: memory.NewBookingLedger(),
		users:    memory.NewUserDirectory(),
		notifier: memory.NewNotifier(),
		outbox:   memory.NewOutbox(),
	}
	f.factory = memory.Factory{
		Offers:    f.offers,
		Bookings:  f.bookings,
		Overrides: memory.NewOverrideLedger(),
		Contracts: memory.NewContractRepository(),
		Users:     f.users,
	}
	f.handler = &CreateBookingHandler{
		Resolver: appavailability.Resolver{Now: func() time.Time { return fixedNow }},
		Notifier: f.notifier,
		Outbox:   f.outbox,
		Encoder:  appoutbox.JSONEventEncoder{},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:      func() time.Time { return fixedNow },
	}

	require.NoError(t, f.offers.Save(context.Background(), &domainoffers.Offer{
		ID:               "of-1",
		Owner:            "provider-1",
		Title:            "Cargo bike",
		Type:             domainoffers.TypeItem,
		PricePerDayCents: 1500,
		Active:           true,
	}))
	f.users.Put(&domainuser.User{ID: "customer-1", Name: "Ben"})
	return f
}

// unitContext mimics the transaction middleware by placing a fresh unit of
// work in the context.
func (f *fixture) unitContext(t *testing.T) context.Context {
	t.Helper()
	unit, err := f.factory.Begin(context.Background(), uow.TxOptions{})
	require.NoError(t, err)
	return uow.ContextWithUnitOfWork(context.Background(), unit)
}

func validCommand() CreateBookingCommand {
	return CreateBookingCommand{
		CommandID:                   "bk-1",
		OfferID:                     "of-1",
		CustomerID:                  "customer-1",
		Start:                       "2026-09-03",
		End:                         "2026-09-05",
		TermsAccepted:               true,
		WithdrawalRightAcknowledged: true,
	}
}

func TestCreateBooking(t *testing.T) {
	t.Run("HappyPath", func(t *testing.T) {
		f := newFixture(t)
		result, err := f.handler.Handle(f.unitContext(t), validCommand())
		require.NoError(t, err)

		assert.Equal(t, "bk-1", result.BookingID)
		assert.Equal(t, string(domainbooking.StatusConfirmed), result.Status)
		assert.Equal(t, 3, result.Days)
		assert.Equal(t, int64(4500), result.TotalPrice.Amount)
		assert.Equal(t, "EUR", result.TotalPrice.Currency)

		records := f.outbox.Pending()
		require.Len(t, records, 1)
		assert.Equal(t, "booking.confirmed", records[0].Name)

		sent := f.notifier.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "provider-1", sent[0].RecipientID)
		assert.Contains(t, sent[0].Text, "Ben")
		assert.Contains(t, sent[0].Text, "3 days")
		assert.Contains(t, sent[0].Text, "45.00 EUR")
	})

	t.Run("TermsNotAccepted", func(t *testing.T) {
		f := newFixture(t)
		cmd := validCommand()
		cmd.TermsAccepted = false
		_, err := f.handler.Handle(f.unitContext(t), cmd)
		assert.ErrorIs(t, err, domainbooking.ErrTermsNotAccepted)
	})

	t.Run("WithdrawalNotAcknowledged", func(t *testing.T) {
		f := newFixture(t)
		cmd := validCommand()
		cmd.WithdrawalRightAcknowledged = false
		_, err := f.handler.Handle(f.unitContext(t), cmd)
		assert.ErrorIs(t, err, domainbooking.ErrWithdrawalNotAcknowledged)
	})

	t.Run("SelfBooking", func(t *testing.T) {
		f := newFixture(t)
		cmd := validCommand()
		cmd.CustomerID = "provider-1"
		_, err := f.handler.Handle(f.unitContext(t), cmd)
		assert.ErrorIs(t, err, domainbooking.ErrSelfBooking)
	})

	t.Run("SelfBookingBeatsDateValidation", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.offers.Save(context.Background(), &domainoffers.Offer{
			ID:               "of-2",
			Owner:            "provider-1",
			Title:            "Drill",
			PricePerDayCents: 500,
		}))

		cmd := validCommand()
		cmd.OfferID = "of-2"
		cmd.CustomerID = "provider-1"
		cmd.Start = "2026-09-05"
		cmd.End = "2026-09-03"
		_, err := f.handler.Handle(f.unitContext(t), cmd)
		assert.ErrorIs(t, err, domainbooking.ErrSelfBooking)
	})

	t.Run("DatesAlreadyBooked", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.handler.Handle(f.unitContext(t), validCommand())
		require.NoError(t, err)

		cmd := validCommand()
		cmd.CommandID = "bk-2"
		cmd.CustomerID = "customer-2"
		cmd.Start = "2026-09-05"
		cmd.End = "2026-09-06"
		_, err = f.handler.Handle(f.unitContext(t), cmd)
		assert.ErrorIs(t, err, domainbooking.ErrDatesUnavailable)
	})

	t.Run("NotifierFailureDoesNotFailBooking", func(t *testing.T) {
		f := newFixture(t)
		f.notifier.Fail = errors.New("broker down")
		result, err := f.handler.Handle(f.unitContext(t), validCommand())
		require.NoError(t, err)
		assert.Equal(t, string(domainbooking.StatusConfirmed), result.Status)
		assert.Empty(t, f.notifier.Sent())
	})

	t.Run("UnknownCustomerStillBooks", func(t *testing.T) {
		f := newFixture(t)
		cmd := validCommand()
		cmd.CustomerID = "customer-9"
		_, err := f.handler.Handle(f.unitContext(t), cmd)
		require.NoError(t, err)

		sent := f.notifier.Sent()
		require.Len(t, sent, 1)
		assert.Contains(t, sent[0].Text, "customer-9")
	})
}

func TestCreateBookingConcurrent(t *testing.T) {
	f := newFixture(t)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cmd := validCommand()
			cmd.CommandID = fmt.Sprintf("bk-%d", i)
			cmd.CustomerID = fmt.Sprintf("customer-%d", i)
			_, errs[i] = f.handler.Handle(f.unitContext(t), cmd)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, domainbooking.ErrDatesUnavailable)
		}
	}
	assert.Equal(t, 1, won, "exactly one of the racing bookings may win")
}
