package dto

import (
	"time"

	domainbooking "leihbar/internal/domain/booking"
	domainrange "leihbar/internal/domain/shared/daterange"
	"leihbar/internal/domain/shared/money"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func MapMoney(m money.Money) MoneyDTO {
	return MoneyDTO{Amount: m.Amount, Currency: m.Currency}
}

type BookingSummary struct {
	ID           string    `json:"id"`
	OfferID      string    `json:"offer_id"`
	CustomerID   string    `json:"customer_id"`
	Start        string    `json:"start"`
	End          string    `json:"end"`
	Days         int       `json:"days"`
	Status       string    `json:"status"`
	TotalPrice   MoneyDTO  `json:"total_price"`
	CancelReason string    `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ConfirmedAt  time.Time `json:"confirmed_at"`
}

type BookingCollection struct {
	Items []BookingSummary `json:"items"`
}

func MapBookingSummary(b *domainbooking.Booking) BookingSummary {
	return BookingSummary{
		ID:           string(b.ID),
		OfferID:      string(b.OfferID),
		CustomerID:   b.CustomerID,
		Start:        domainrange.FormatDay(b.Range.Start),
		End:          domainrange.FormatDay(b.Range.End),
		Days:         b.DaysCount,
		Status:       string(b.Status),
		TotalPrice:   MapMoney(b.TotalPrice),
		CancelReason: b.CancelReason,
		CreatedAt:    b.CreatedAt,
		ConfirmedAt:  b.ConfirmedAt,
	}
}
