package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "leihbar/internal/domain/booking"
	domaincontracts "leihbar/internal/domain/contracts"
	domainoffers "leihbar/internal/domain/offers"
	domainrange "leihbar/internal/domain/shared/daterange"
	"leihbar/internal/domain/shared/money"
)

// ContractRepository persists contract snapshots. A unique index on
// booking_id (see EnsureIndexes) backs the one-contract-per-booking rule.
type ContractRepository struct {
	col *mongo.Collection
}

func NewContractRepository(db *mongo.Database) *ContractRepository {
	return &ContractRepository{col: db.Collection("agg_contract")}
}

// EnsureIndexes creates the unique booking index. Call once at startup.
func (r *ContractRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"booking_id": 1},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *ContractRepository) ByID(ctx context.Context, id domaincontracts.ContractID) (*domaincontracts.Contract, error) {
	var doc contractDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincontracts.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ContractRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) (*domaincontracts.Contract, error) {
	var doc contractDocument
	if err := r.col.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincontracts.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ContractRepository) Insert(ctx context.Context, c *domaincontracts.Contract) error {
	doc := newContractDocument(c)
	doc.Version = c.Version + 1
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domaincontracts.ErrAlreadyGenerated
		}
		return err
	}
	c.Version = doc.Version
	return nil
}

func (r *ContractRepository) Save(ctx context.Context, c *domaincontracts.Contract) error {
	doc := newContractDocument(c)
	filter := bson.M{"_id": doc.ID, "version": c.Version}
	doc.Version = c.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrConcurrentUpdate
	}
	c.Version = doc.Version
	return nil
}

type partyDocument struct {
	UserID string `bson:"user_id"`
	Name   string `bson:"name,omitempty"`
	Email  string `bson:"email,omitempty"`
}

type contractDocument struct {
	ID        string        `bson:"_id"`
	BookingID string        `bson:"booking_id"`
	Lessor    partyDocument `bson:"lessor"`
	Lessee    partyDocument `bson:"lessee"`

	OfferID          string `bson:"offer_id"`
	OfferTitle       string `bson:"offer_title"`
	OfferDescription string `bson:"offer_description"`
	OfferType        string `bson:"offer_type"`

	Range         rangeDocument `bson:"range"`
	Days          int           `bson:"days"`
	TotalCents    int64         `bson:"total_cents"`
	DepositCents  int64         `bson:"deposit_cents"`
	PerDayCents   int64         `bson:"per_day_cents"`
	Currency      string        `bson:"currency"`
	Terms         string        `bson:"terms"`
	SignedLessor  int64         `bson:"signed_by_lessor_at,omitempty"`
	SignedLessee  int64         `bson:"signed_by_lessee_at,omitempty"`
	CancelReason  string        `bson:"cancel_reason,omitempty"`
	CancelledAt   int64         `bson:"cancelled_at,omitempty"`
	CompletedAt   int64         `bson:"completed_at,omitempty"`
	CreatedAt     int64         `bson:"created_at"`
	Version       int64         `bson:"version"`
}

func newContractDocument(c *domaincontracts.Contract) contractDocument {
	return contractDocument{
		ID:               string(c.ID),
		BookingID:        string(c.BookingID),
		Lessor:           partyDocument{UserID: c.Lessor.UserID, Name: c.Lessor.Name, Email: c.Lessor.Email},
		Lessee:           partyDocument{UserID: c.Lessee.UserID, Name: c.Lessee.Name, Email: c.Lessee.Email},
		OfferID:          string(c.OfferID),
		OfferTitle:       c.OfferTitle,
		OfferDescription: c.OfferDescription,
		OfferType:        string(c.OfferType),
		Range:            rangeDocument{Start: c.Range.Start.UnixMilli(), End: c.Range.End.UnixMilli()},
		Days:             c.DaysCount,
		TotalCents:       c.TotalPrice.Amount,
		DepositCents:     c.DepositAmount.Amount,
		PerDayCents:      c.PricePerDay.Amount,
		Currency:         c.TotalPrice.Currency,
		Terms:            c.TermsAndConditions,
		SignedLessor:     optionalMilli(c.SignedByLessorAt),
		SignedLessee:     optionalMilli(c.SignedByLesseeAt),
		CancelReason:     c.CancelReason,
		CancelledAt:      optionalMilli(c.CancelledAt),
		CompletedAt:      optionalMilli(c.CompletedAt),
		CreatedAt:        c.CreatedAt.UnixMilli(),
		Version:          c.Version,
	}
}

func (d contractDocument) toAggregate() *domaincontracts.Contract {
	return &domaincontracts.Contract{
		ID:                 domaincontracts.ContractID(d.ID),
		BookingID:          domainbooking.BookingID(d.BookingID),
		Lessor:             domaincontracts.Party{UserID: d.Lessor.UserID, Name: d.Lessor.Name, Email: d.Lessor.Email},
		Lessee:             domaincontracts.Party{UserID: d.Lessee.UserID, Name: d.Lessee.Name, Email: d.Lessee.Email},
		OfferID:            domainoffers.OfferID(d.OfferID),
		OfferTitle:         d.OfferTitle,
		OfferDescription:   d.OfferDescription,
		OfferType:          domainoffers.OfferType(d.OfferType),
		Range:              domainrange.DateRange{Start: timestampToTime(d.Range.Start), End: timestampToTime(d.Range.End)},
		DaysCount:          d.Days,
		TotalPrice:         money.Money{Amount: d.TotalCents, Currency: d.Currency},
		DepositAmount:      money.Money{Amount: d.DepositCents, Currency: d.Currency},
		PricePerDay:        money.Money{Amount: d.PerDayCents, Currency: d.Currency},
		TermsAndConditions: d.Terms,
		SignedByLessorAt:   optionalTime(d.SignedLessor),
		SignedByLesseeAt:   optionalTime(d.SignedLessee),
		CancelReason:       d.CancelReason,
		CancelledAt:        optionalTime(d.CancelledAt),
		CompletedAt:        optionalTime(d.CompletedAt),
		CreatedAt:          timestampToTime(d.CreatedAt),
		Version:            d.Version,
	}
}

var _ domaincontracts.Repository = (*ContractRepository)(nil)
