package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "leihbar/internal/domain/booking"
)

func cancelHandler(f *fixture) *CancelBookingHandler {
	return &CancelBookingHandler{
		Notifier: f.notifier,
		Outbox:   f.outbox,
		Now:      func() time.Time { return fixedNow },
	}
}

func TestCancelBooking(t *testing.T) {
	t.Run("OwnerCancels", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.handler.Handle(f.unitContext(t), validCommand())
		require.NoError(t, err)

		result, err := cancelHandler(f).Handle(f.unitContext(t), CancelBookingCommand{
			OwnerID:   "provider-1",
			BookingID: "bk-1",
			Reason:    "double listed",
		})
		require.NoError(t, err)
		assert.Equal(t, string(domainbooking.StatusCancelled), result.Status)

		sent := f.notifier.Sent()
		require.Len(t, sent, 2)
		assert.Equal(t, "customer-1", sent[1].RecipientID)
		assert.Contains(t, sent[1].Text, "double listed")
	})

	t.Run("NotOwner", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.handler.Handle(f.unitContext(t), validCommand())
		require.NoError(t, err)

		_, err = cancelHandler(f).Handle(f.unitContext(t), CancelBookingCommand{
			OwnerID:   "customer-1",
			BookingID: "bk-1",
		})
		assert.ErrorIs(t, err, domainbooking.ErrNotOwner)
	})

	t.Run("AlreadyCancelled", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.handler.Handle(f.unitContext(t), validCommand())
		require.NoError(t, err)

		cmd := CancelBookingCommand{OwnerID: "provider-1", BookingID: "bk-1"}
		_, err = cancelHandler(f).Handle(f.unitContext(t), cmd)
		require.NoError(t, err)
		_, err = cancelHandler(f).Handle(f.unitContext(t), cmd)
		assert.ErrorIs(t, err, domainbooking.ErrNotCancellable)
	})

	t.Run("FreesTheDates", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.handler.Handle(f.unitContext(t), validCommand())
		require.NoError(t, err)
		_, err = cancelHandler(f).Handle(f.unitContext(t), CancelBookingCommand{
			OwnerID:   "provider-1",
			BookingID: "bk-1",
		})
		require.NoError(t, err)

		cmd := validCommand()
		cmd.CommandID = "bk-2"
		result, err := f.handler.Handle(f.unitContext(t), cmd)
		require.NoError(t, err)
		assert.Equal(t, string(domainbooking.StatusConfirmed), result.Status)
	})
}
