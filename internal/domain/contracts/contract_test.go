package contracts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leihbar/internal/domain/booking"
	"leihbar/internal/domain/offers"
	"leihbar/internal/domain/shared/daterange"
	"leihbar/internal/domain/shared/money"
)

func draftContract(t *testing.T) *Contract {
	t.Helper()
	dr, err := daterange.Parse("2026-09-03", "2026-09-05")
	require.NoError(t, err)

	b, err := booking.NewBooking(booking.CreateParams{
		ID:                          "bk-1",
		OfferID:                     "of-1",
		CustomerID:                  "lessee-1",
		Range:                       dr,
		DailyRate:                   money.Must(1500, "EUR"),
		TermsAccepted:               true,
		WithdrawalRightAcknowledged: true,
		CreatedAt:                   time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	offer := &offers.Offer{
		ID:               "of-1",
		Owner:            "lessor-1",
		Title:            "Cargo bike",
		Type:             offers.TypeItem,
		PricePerDayCents: 1500,
		Active:           true,
	}

	c, err := NewFromBooking(CreateParams{
		ID:        "ct-1",
		Booking:   b,
		Offer:     offer,
		Lessor:    Party{UserID: "lessor-1", Name: "Ada"},
		Lessee:    Party{UserID: "lessee-1", Name: "Ben"},
		DailyRate: money.Must(1500, "EUR"),
		Now:       time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	c.ClearEvents()
	return c
}

func TestNewFromBooking(t *testing.T) {
	c := draftContract(t)

	assert.Equal(t, StatusDraft, c.Status())
	assert.Equal(t, int64(4500), c.TotalPrice.Amount)
	assert.Equal(t, int64(900), c.DepositAmount.Amount)
	assert.Equal(t, 3, c.DaysCount)
	assert.Equal(t, TermsForType(offers.TypeItem), c.TermsAndConditions)
}

func TestSign(t *testing.T) {
	now := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)

	t.Run("LessorThenLessee", func(t *testing.T) {
		c := draftContract(t)
		require.NoError(t, c.Sign("lessor-1", now))
		assert.Equal(t, StatusSignedByLessor, c.Status())

		require.NoError(t, c.Sign("lessee-1", now.Add(time.Hour)))
		assert.Equal(t, StatusActive, c.Status())

		events := c.PendingEvents()
		require.Len(t, events, 3)
		assert.Equal(t, "contract.activated", events[2].EventName())
	})

	t.Run("LesseeFirstStaysDraft", func(t *testing.T) {
		c := draftContract(t)
		require.NoError(t, c.Sign("lessee-1", now))
		assert.Equal(t, StatusDraft, c.Status())
		assert.False(t, c.SignedByLesseeAt.IsZero())

		require.NoError(t, c.Sign("lessor-1", now.Add(time.Hour)))
		assert.Equal(t, StatusActive, c.Status())
	})

	t.Run("DoubleSign", func(t *testing.T) {
		c := draftContract(t)
		require.NoError(t, c.Sign("lessor-1", now))
		assert.ErrorIs(t, c.Sign("lessor-1", now), ErrAlreadySigned)
	})

	t.Run("NotParty", func(t *testing.T) {
		c := draftContract(t)
		assert.ErrorIs(t, c.Sign("stranger", now), ErrNotParty)
	})

	t.Run("NotSignableAfterCancel", func(t *testing.T) {
		c := draftContract(t)
		require.NoError(t, c.Cancel("changed plans", now))
		assert.ErrorIs(t, c.Sign("lessor-1", now), ErrNotSignable)
	})
}

func TestCancelContract(t *testing.T) {
	now := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)

	t.Run("FromDraft", func(t *testing.T) {
		c := draftContract(t)
		require.NoError(t, c.Cancel("changed plans", now))
		assert.Equal(t, StatusCancelled, c.Status())
		assert.Equal(t, "changed plans", c.CancelReason)
	})

	t.Run("FromActive", func(t *testing.T) {
		c := draftContract(t)
		require.NoError(t, c.Sign("lessor-1", now))
		require.NoError(t, c.Sign("lessee-1", now))
		require.NoError(t, c.Cancel("item broke", now))
		assert.Equal(t, StatusCancelled, c.Status())
	})

	t.Run("AlreadyCancelled", func(t *testing.T) {
		c := draftContract(t)
		require.NoError(t, c.Cancel("first", now))
		assert.ErrorIs(t, c.Cancel("second", now), ErrNotCancellable)
	})
}

func TestCompleteContract(t *testing.T) {
	now := time.Date(2026, 9, 6, 9, 0, 0, 0, time.UTC)

	t.Run("ActiveOnly", func(t *testing.T) {
		c := draftContract(t)
		assert.ErrorIs(t, c.Complete(now), ErrNotActive)

		require.NoError(t, c.Sign("lessor-1", now))
		require.NoError(t, c.Sign("lessee-1", now))
		require.NoError(t, c.Complete(now))
		assert.Equal(t, StatusCompleted, c.Status())
	})

	t.Run("CompletedIsFinal", func(t *testing.T) {
		c := draftContract(t)
		require.NoError(t, c.Sign("lessor-1", now))
		require.NoError(t, c.Sign("lessee-1", now))
		require.NoError(t, c.Complete(now))
		assert.ErrorIs(t, c.Cancel("too late", now), ErrNotCancellable)
		assert.ErrorIs(t, c.Sign("lessor-1", now), ErrNotSignable)
	})
}

func TestIsParty(t *testing.T) {
	c := draftContract(t)
	assert.True(t, c.IsParty("lessor-1"))
	assert.True(t, c.IsParty("lessee-1"))
	assert.False(t, c.IsParty("stranger"))
}
