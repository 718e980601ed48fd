package contracts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leihbar/internal/app/uow"
	domainbooking "leihbar/internal/domain/booking"
	domaincontracts "leihbar/internal/domain/contracts"
	domainoffers "leihbar/internal/domain/offers"
	domainrange "leihbar/internal/domain/shared/daterange"
	"leihbar/internal/domain/shared/money"
	domainuser "leihbar/internal/domain/user"
	"leihbar/internal/infra/storage/memory"
)

var fixedNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	factory  memory.Factory
	bookings *memory.BookingLedger
	outbox   *memory.Outbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	offers := memory.NewOfferRepository()
	users := memory.NewUserDirectory()
	f := &fixture{
		bookings: memory.NewBookingLedger(),
		outbox:   memory.NewOutbox(),
	}
	f.factory = memory.Factory{
		Offers:    offers,
		Bookings:  f.bookings,
		Overrides: memory.NewOverrideLedger(),
		Contracts: memory.NewContractRepository(),
		Users:     users,
	}

	require.NoError(t, offers.Save(context.Background(), &domainoffers.Offer{
		ID:               "of-1",
		Owner:            "lessor-1",
		Title:            "Cargo bike",
		Type:             domainoffers.TypeItem,
		PricePerDayCents: 1500,
		Active:           true,
	}))
	users.Put(&domainuser.User{ID: "lessor-1", Name: "Ada", Email: "ada@example.org"})
	users.Put(&domainuser.User{ID: "lessee-1", Name: "Ben", Email: "ben@example.org"})

	dr, err := domainrange.Parse("2026-09-03", "2026-09-05")
	require.NoError(t, err)
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:                          "bk-1",
		OfferID:                     "of-1",
		CustomerID:                  "lessee-1",
		Range:                       dr,
		DailyRate:                   money.Must(1500, "EUR"),
		TermsAccepted:               true,
		WithdrawalRightAcknowledged: true,
		CreatedAt:                   fixedNow,
	})
	require.NoError(t, err)
	b.ClearEvents()
	require.NoError(t, f.bookings.Insert(context.Background(), b))
	return f
}

func (f *fixture) unitContext(t *testing.T) context.Context {
	t.Helper()
	unit, err := f.factory.Begin(context.Background(), uow.TxOptions{})
	require.NoError(t, err)
	return uow.ContextWithUnitOfWork(context.Background(), unit)
}

func (f *fixture) generate(t *testing.T, requesterID string) *GenerateContractResult {
	t.Helper()
	handler := &GenerateContractHandler{Outbox: f.outbox, Now: func() time.Time { return fixedNow }}
	result, err := handler.Handle(f.unitContext(t), GenerateContractCommand{
		CommandID:   "ct-1",
		RequesterID: requesterID,
		BookingID:   "bk-1",
	})
	require.NoError(t, err)
	return result
}

func TestGenerateContract(t *testing.T) {
	t.Run("LesseeGenerates", func(t *testing.T) {
		f := newFixture(t)
		result := f.generate(t, "lessee-1")
		assert.Equal(t, "ct-1", result.ContractID)
		assert.Equal(t, string(domaincontracts.StatusDraft), result.Status)
		assert.False(t, result.Existing)

		records := f.outbox.Pending()
		require.Len(t, records, 1)
		assert.Equal(t, "contract.created", records[0].Name)
	})

	t.Run("SecondCallReturnsExisting", func(t *testing.T) {
		f := newFixture(t)
		f.generate(t, "lessee-1")

		handler := &GenerateContractHandler{Outbox: f.outbox, Now: func() time.Time { return fixedNow }}
		result, err := handler.Handle(f.unitContext(t), GenerateContractCommand{
			CommandID:   "ct-2",
			RequesterID: "lessor-1",
			BookingID:   "bk-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "ct-1", result.ContractID)
		assert.True(t, result.Existing)
	})

	t.Run("ExistingReturnedAfterBookingCancelled", func(t *testing.T) {
		f := newFixture(t)
		f.generate(t, "lessee-1")

		b, err := f.bookings.ByID(context.Background(), "bk-1")
		require.NoError(t, err)
		require.NoError(t, b.Cancel("changed plans", fixedNow))
		require.NoError(t, f.bookings.Save(context.Background(), b))

		handler := &GenerateContractHandler{Outbox: f.outbox, Now: func() time.Time { return fixedNow }}
		result, err := handler.Handle(f.unitContext(t), GenerateContractCommand{
			CommandID:   "ct-2",
			RequesterID: "lessee-1",
			BookingID:   "bk-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "ct-1", result.ContractID)
		assert.True(t, result.Existing)
	})

	t.Run("StrangerRejected", func(t *testing.T) {
		f := newFixture(t)
		handler := &GenerateContractHandler{Now: func() time.Time { return fixedNow }}
		_, err := handler.Handle(f.unitContext(t), GenerateContractCommand{
			CommandID:   "ct-1",
			RequesterID: "stranger",
			BookingID:   "bk-1",
		})
		assert.ErrorIs(t, err, ErrRequesterNotParty)
	})

	t.Run("CancelledBookingNotEligible", func(t *testing.T) {
		f := newFixture(t)
		b, err := f.bookings.ByID(context.Background(), "bk-1")
		require.NoError(t, err)
		require.NoError(t, b.Cancel("changed plans", fixedNow))
		require.NoError(t, f.bookings.Save(context.Background(), b))

		handler := &GenerateContractHandler{Now: func() time.Time { return fixedNow }}
		_, err = handler.Handle(f.unitContext(t), GenerateContractCommand{
			CommandID:   "ct-1",
			RequesterID: "lessee-1",
			BookingID:   "bk-1",
		})
		assert.ErrorIs(t, err, ErrBookingNotEligible)
	})
}

func TestSignFlow(t *testing.T) {
	f := newFixture(t)
	f.generate(t, "lessee-1")

	sign := &SignContractHandler{Outbox: f.outbox, Now: func() time.Time { return fixedNow }}

	result, err := sign.Handle(f.unitContext(t), SignContractCommand{SignerID: "lessee-1", ContractID: "ct-1"})
	require.NoError(t, err)
	assert.Equal(t, string(domaincontracts.StatusDraft), result.Status)

	result, err = sign.Handle(f.unitContext(t), SignContractCommand{SignerID: "lessor-1", ContractID: "ct-1"})
	require.NoError(t, err)
	assert.Equal(t, string(domaincontracts.StatusActive), result.Status)

	_, err = sign.Handle(f.unitContext(t), SignContractCommand{SignerID: "lessor-1", ContractID: "ct-1"})
	assert.ErrorIs(t, err, domaincontracts.ErrNotSignable)
}

func TestCancelFlow(t *testing.T) {
	f := newFixture(t)
	f.generate(t, "lessee-1")

	cancel := &CancelContractHandler{Outbox: f.outbox, Now: func() time.Time { return fixedNow }}

	t.Run("StrangerRejected", func(t *testing.T) {
		_, err := cancel.Handle(f.unitContext(t), CancelContractCommand{RequesterID: "stranger", ContractID: "ct-1"})
		assert.ErrorIs(t, err, domaincontracts.ErrNotParty)
	})

	t.Run("PartyCancels", func(t *testing.T) {
		result, err := cancel.Handle(f.unitContext(t), CancelContractCommand{RequesterID: "lessor-1", ContractID: "ct-1"})
		require.NoError(t, err)
		assert.Equal(t, string(domaincontracts.StatusCancelled), result.Status)
	})

	t.Run("AlreadyCancelled", func(t *testing.T) {
		_, err := cancel.Handle(f.unitContext(t), CancelContractCommand{RequesterID: "lessor-1", ContractID: "ct-1"})
		assert.ErrorIs(t, err, domaincontracts.ErrNotCancellable)
	})
}

func TestGetContract(t *testing.T) {
	f := newFixture(t)
	f.generate(t, "lessee-1")

	get := &GetContractHandler{UoWFactory: f.factory}

	view, err := get.Handle(context.Background(), GetContractQuery{RequesterID: "lessee-1", ContractID: "ct-1"})
	require.NoError(t, err)
	assert.Equal(t, "ct-1", view.ID)
	assert.Equal(t, string(domaincontracts.StatusDraft), view.Status)
	assert.Equal(t, "Ada", view.Lessor.Name)
	assert.Equal(t, "Ben", view.Lessee.Name)
	assert.Equal(t, int64(900), view.DepositAmount.Amount)

	_, err = get.Handle(context.Background(), GetContractQuery{RequesterID: "stranger", ContractID: "ct-1"})
	assert.ErrorIs(t, err, domaincontracts.ErrNotParty)
}
