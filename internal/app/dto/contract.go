package dto

import (
	"time"

	domaincontracts "leihbar/internal/domain/contracts"
	domainrange "leihbar/internal/domain/shared/daterange"
)

type ContractParty struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type ContractView struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`

	Lessor ContractParty `json:"lessor"`
	Lessee ContractParty `json:"lessee"`

	OfferID          string `json:"offer_id"`
	OfferTitle       string `json:"offer_title"`
	OfferDescription string `json:"offer_description"`
	OfferType        string `json:"offer_type"`

	Start         string   `json:"start"`
	End           string   `json:"end"`
	Days          int      `json:"days"`
	TotalPrice    MoneyDTO `json:"total_price"`
	DepositAmount MoneyDTO `json:"deposit_amount"`
	PricePerDay   MoneyDTO `json:"price_per_day"`

	TermsAndConditions string `json:"terms_and_conditions"`

	SignedByLessorAt *time.Time `json:"signed_by_lessor_at,omitempty"`
	SignedByLesseeAt *time.Time `json:"signed_by_lessee_at,omitempty"`
	CancelReason     string     `json:"cancel_reason,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func MapContract(c *domaincontracts.Contract) ContractView {
	return ContractView{
		ID:                 string(c.ID),
		BookingID:          string(c.BookingID),
		Status:             string(c.Status()),
		Lessor:             mapParty(c.Lessor),
		Lessee:             mapParty(c.Lessee),
		OfferID:            string(c.OfferID),
		OfferTitle:         c.OfferTitle,
		OfferDescription:   c.OfferDescription,
		OfferType:          string(c.OfferType),
		Start:              domainrange.FormatDay(c.Range.Start),
		End:                domainrange.FormatDay(c.Range.End),
		Days:               c.DaysCount,
		TotalPrice:         MapMoney(c.TotalPrice),
		DepositAmount:      MapMoney(c.DepositAmount),
		PricePerDay:        MapMoney(c.PricePerDay),
		TermsAndConditions: c.TermsAndConditions,
		SignedByLessorAt:   optionalTime(c.SignedByLessorAt),
		SignedByLesseeAt:   optionalTime(c.SignedByLesseeAt),
		CancelReason:       c.CancelReason,
		CancelledAt:        optionalTime(c.CancelledAt),
		CompletedAt:        optionalTime(c.CompletedAt),
		CreatedAt:          c.CreatedAt,
	}
}

func mapParty(p domaincontracts.Party) ContractParty {
	return ContractParty{UserID: p.UserID, Name: p.Name, Email: p.Email}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
