package offers

import (
	"context"
	"errors"
	"strings"
	"time"

	"leihbar/internal/domain/shared/money"
)

var (
	ErrNotFound     = errors.New("offers: offer not found")
	ErrInactive     = errors.New("offers: offer is not active")
	ErrNoPrice      = errors.New("offers: offer has neither a daily nor an hourly price")
	ErrTitleMissing = errors.New("offers: title is required")
	ErrOwnerMissing = errors.New("offers: owner id is required")
)

type OfferID string
type OwnerID string

// OfferType selects the terms boilerplate used in generated contracts.
type OfferType string

const (
	TypeItem    OfferType = "ITEM"
	TypeService OfferType = "SERVICE"
)

// hoursPerRentalDay converts hourly prices into a daily rate.
const hoursPerRentalDay = 8

// Currency is the single settlement currency of the marketplace.
const Currency = "EUR"

// Offer is the engine's read-mostly view of a listing. The engine never
// mutates offers; it only checks the active flag and derives pricing.
type Offer struct {
	ID                OfferID
	Owner             OwnerID
	Title             string
	Description       string
	Type              OfferType
	PricePerDayCents  int64
	PricePerHourCents int64
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Repository interface {
	ByID(ctx context.Context, id OfferID) (*Offer, error)
	ByOwner(ctx context.Context, owner OwnerID) ([]*Offer, error)
	Save(ctx context.Context, offer *Offer) error
}

type CreateParams struct {
	ID                OfferID
	Owner             OwnerID
	Title             string
	Description       string
	Type              OfferType
	PricePerDayCents  int64
	PricePerHourCents int64
	Active            bool
	Now               time.Time
}

func New(params CreateParams) (*Offer, error) {
	if strings.TrimSpace(string(params.Owner)) == "" {
		return nil, ErrOwnerMissing
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleMissing
	}
	if params.PricePerDayCents <= 0 && params.PricePerHourCents <= 0 {
		return nil, ErrNoPrice
	}
	offerType := params.Type
	if offerType == "" {
		offerType = TypeItem
	}
	now := params.Now.UTC()
	return &Offer{
		ID:                params.ID,
		Owner:             params.Owner,
		Title:             strings.TrimSpace(params.Title),
		Description:       params.Description,
		Type:              offerType,
		PricePerDayCents:  params.PricePerDayCents,
		PricePerHourCents: params.PricePerHourCents,
		Active:            params.Active,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// DailyRateCents derives the per-day price: the daily price when set,
// otherwise the hourly price at eight billable hours per day.
func (o *Offer) DailyRateCents() (int64, error) {
	if o.PricePerDayCents > 0 {
		return o.PricePerDayCents, nil
	}
	if o.PricePerHourCents > 0 {
		return o.PricePerHourCents * hoursPerRentalDay, nil
	}
	return 0, ErrNoPrice
}

// DailyRate wraps DailyRateCents into a money value.
func (o *Offer) DailyRate() (money.Money, error) {
	cents, err := o.DailyRateCents()
	if err != nil {
		return money.Money{}, err
	}
	return money.Money{Amount: cents, Currency: Currency}, nil
}

func (o *Offer) OwnedBy(userID string) bool {
	return string(o.Owner) == userID
}
