package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "leihbar/internal/domain/availability"
	domainoffers "leihbar/internal/domain/offers"
	domainrange "leihbar/internal/domain/shared/daterange"
)

// OverrideLedger stores one document per (offer, day) override. The _id is
// the composite key, so upserts can never produce duplicate rows.
type OverrideLedger struct {
	col *mongo.Collection
}

func NewOverrideLedger(db *mongo.Database) *OverrideLedger {
	return &OverrideLedger{col: db.Collection("availability_overrides")}
}

func (l *OverrideLedger) Upsert(ctx context.Context, o domainavailability.Override) error {
	doc := newOverrideDocument(o)
	update := bson.M{
		"$set": bson.M{
			"offer_id":   doc.OfferID,
			"date":       doc.Date,
			"available":  doc.Available,
			"reason":     doc.Reason,
			"updated_at": doc.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": doc.CreatedAt},
	}
	opts := options.Update().SetUpsert(true)
	_, err := l.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, update, opts)
	return err
}

func (l *OverrideLedger) Delete(ctx context.Context, offerID domainoffers.OfferID, dr domainrange.DateRange) error {
	ids := make([]string, 0, dr.Days())
	for _, day := range dr.EachDay() {
		ids = append(ids, overrideID(offerID, day))
	}
	_, err := l.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

func (l *OverrideLedger) InRange(ctx context.Context, offerID domainoffers.OfferID, dr domainrange.DateRange) ([]domainavailability.Override, error) {
	filter := bson.M{
		"offer_id": offerID,
		"date":     bson.M{"$gte": dr.Start.UnixMilli(), "$lte": dr.End.UnixMilli()},
	}
	cursor, err := l.col.Find(ctx, filter, options.Find().SetSort(bson.M{"date": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]domainavailability.Override, 0)
	for cursor.Next(ctx) {
		var doc overrideDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toOverride())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type overrideDocument struct {
	ID        string `bson:"_id"`
	OfferID   string `bson:"offer_id"`
	Date      int64  `bson:"date"`
	Available bool   `bson:"available"`
	Reason    string `bson:"reason,omitempty"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func newOverrideDocument(o domainavailability.Override) overrideDocument {
	day := domainrange.Day(o.Date)
	return overrideDocument{
		ID:        overrideID(o.OfferID, day),
		OfferID:   string(o.OfferID),
		Date:      day.UnixMilli(),
		Available: o.Available,
		Reason:    o.Reason,
		CreatedAt: o.CreatedAt.UnixMilli(),
		UpdatedAt: o.UpdatedAt.UnixMilli(),
	}
}

func (d overrideDocument) toOverride() domainavailability.Override {
	return domainavailability.Override{
		OfferID:   domainoffers.OfferID(d.OfferID),
		Date:      timestampToTime(d.Date),
		Available: d.Available,
		Reason:    d.Reason,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
}

func overrideID(offerID domainoffers.OfferID, day time.Time) string {
	return string(offerID) + ":" + domainrange.FormatDay(day)
}

var _ domainavailability.Ledger = (*OverrideLedger)(nil)
