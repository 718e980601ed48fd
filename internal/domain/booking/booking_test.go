package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leihbar/internal/domain/shared/daterange"
	"leihbar/internal/domain/shared/money"
)

func validParams(t *testing.T) CreateParams {
	t.Helper()
	dr, err := daterange.Parse("2026-09-03", "2026-09-05")
	require.NoError(t, err)
	return CreateParams{
		ID:                          "bk-1",
		OfferID:                     "of-1",
		CustomerID:                  "user-2",
		Range:                       dr,
		DailyRate:                   money.Must(1500, "EUR"),
		TermsAccepted:               true,
		WithdrawalRightAcknowledged: true,
		CreatedAt:                   time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewBooking(t *testing.T) {
	t.Run("ConfirmedImmediately", func(t *testing.T) {
		b, err := NewBooking(validParams(t))
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, b.Status)
		assert.Equal(t, 3, b.DaysCount)
		assert.Equal(t, int64(4500), b.TotalPrice.Amount)
		assert.Equal(t, b.CreatedAt, b.ConfirmedAt)
		assert.False(t, b.TermsAcceptedAt.IsZero())
		assert.False(t, b.WithdrawalAcknowledgedAt.IsZero())

		events := b.PendingEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "booking.confirmed", events[0].EventName())
	})

	t.Run("TermsNotAccepted", func(t *testing.T) {
		params := validParams(t)
		params.TermsAccepted = false
		_, err := NewBooking(params)
		assert.ErrorIs(t, err, ErrTermsNotAccepted)
	})

	t.Run("WithdrawalNotAcknowledged", func(t *testing.T) {
		params := validParams(t)
		params.WithdrawalRightAcknowledged = false
		_, err := NewBooking(params)
		assert.ErrorIs(t, err, ErrWithdrawalNotAcknowledged)
	})

	t.Run("CustomerRequired", func(t *testing.T) {
		params := validParams(t)
		params.CustomerID = ""
		_, err := NewBooking(params)
		assert.ErrorIs(t, err, ErrCustomerRequired)
	})
}

func TestCancel(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)

	t.Run("Confirmed", func(t *testing.T) {
		b, err := NewBooking(validParams(t))
		require.NoError(t, err)
		b.ClearEvents()

		require.NoError(t, b.Cancel("double listed", now))
		assert.Equal(t, StatusCancelled, b.Status)
		assert.Equal(t, "double listed", b.CancelReason)
		assert.Equal(t, now, b.CancelledAt)

		events := b.PendingEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "booking.cancelled", events[0].EventName())
	})

	t.Run("AlreadyCancelled", func(t *testing.T) {
		b, err := NewBooking(validParams(t))
		require.NoError(t, err)
		require.NoError(t, b.Cancel("first", now))
		assert.ErrorIs(t, b.Cancel("second", now), ErrNotCancellable)
	})
}

func TestComplete(t *testing.T) {
	now := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

	b, err := NewBooking(validParams(t))
	require.NoError(t, err)
	require.NoError(t, b.Complete(now))
	assert.Equal(t, StatusCompleted, b.Status)

	assert.ErrorIs(t, b.Complete(now), ErrInvalidState)
	assert.ErrorIs(t, b.Cancel("too late", now), ErrNotCancellable)
}
