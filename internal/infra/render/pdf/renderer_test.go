package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincontracts "leihbar/internal/domain/contracts"
	domainrange "leihbar/internal/domain/shared/daterange"
	"leihbar/internal/domain/shared/money"
)

func TestRender(t *testing.T) {
	dr, err := domainrange.Parse("2026-09-03", "2026-09-05")
	require.NoError(t, err)

	contract := &domaincontracts.Contract{
		ID:                 "ct-1",
		BookingID:          "bk-1",
		Lessor:             domaincontracts.Party{UserID: "lessor-1", Name: "Ada", Email: "ada@example.org"},
		Lessee:             domaincontracts.Party{UserID: "lessee-1", Name: "Ben", Email: "ben@example.org"},
		OfferID:            "of-1",
		OfferTitle:         "Cargo bike",
		OfferType:          "ITEM",
		Range:              dr,
		DaysCount:          3,
		TotalPrice:         money.Must(4500, "EUR"),
		DepositAmount:      money.Must(900, "EUR"),
		PricePerDay:        money.Must(1500, "EUR"),
		TermsAndConditions: "1. Handover in working condition.",
		CreatedAt:          time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := NewRenderer().Render(context.Background(), contract)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))

	signed := *contract
	signed.SignedByLessorAt = time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	signedData, err := NewRenderer().Render(context.Background(), &signed)
	require.NoError(t, err)
	assert.NotEqual(t, data, signedData)
}
