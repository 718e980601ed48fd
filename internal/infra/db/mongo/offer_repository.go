package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainoffers "leihbar/internal/domain/offers"
)

type OfferRepository struct {
	col *mongo.Collection
}

func NewOfferRepository(db *mongo.Database) *OfferRepository {
	return &OfferRepository{col: db.Collection("agg_offer")}
}

func (r *OfferRepository) ByID(ctx context.Context, id domainoffers.OfferID) (*domainoffers.Offer, error) {
	var doc offerDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainoffers.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *OfferRepository) ByOwner(ctx context.Context, owner domainoffers.OwnerID) ([]*domainoffers.Offer, error) {
	cursor, err := r.col.Find(ctx, bson.M{"owner_id": owner}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domainoffers.Offer, 0)
	for cursor.Next(ctx) {
		var doc offerDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OfferRepository) Save(ctx context.Context, offer *domainoffers.Offer) error {
	doc := newOfferDocument(offer)
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, update, opts)
	return err
}

type offerDocument struct {
	ID                string `bson:"_id"`
	OwnerID           string `bson:"owner_id"`
	Title             string `bson:"title"`
	Description       string `bson:"description"`
	Type              string `bson:"type"`
	PricePerDayCents  int64  `bson:"price_per_day_cents"`
	PricePerHourCents int64  `bson:"price_per_hour_cents"`
	Active            bool   `bson:"active"`
	CreatedAt         int64  `bson:"created_at"`
	UpdatedAt         int64  `bson:"updated_at"`
}

func newOfferDocument(o *domainoffers.Offer) offerDocument {
	return offerDocument{
		ID:                string(o.ID),
		OwnerID:           string(o.Owner),
		Title:             o.Title,
		Description:       o.Description,
		Type:              string(o.Type),
		PricePerDayCents:  o.PricePerDayCents,
		PricePerHourCents: o.PricePerHourCents,
		Active:            o.Active,
		CreatedAt:         o.CreatedAt.UnixMilli(),
		UpdatedAt:         o.UpdatedAt.UnixMilli(),
	}
}

func (d offerDocument) toAggregate() *domainoffers.Offer {
	return &domainoffers.Offer{
		ID:                domainoffers.OfferID(d.ID),
		Owner:             domainoffers.OwnerID(d.OwnerID),
		Title:             d.Title,
		Description:       d.Description,
		Type:              domainoffers.OfferType(d.Type),
		PricePerDayCents:  d.PricePerDayCents,
		PricePerHourCents: d.PricePerHourCents,
		Active:            d.Active,
		CreatedAt:         timestampToTime(d.CreatedAt),
		UpdatedAt:         timestampToTime(d.UpdatedAt),
	}
}

var _ domainoffers.Repository = (*OfferRepository)(nil)
