package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "leihbar/internal/domain/booking"
	domainoffers "leihbar/internal/domain/offers"
	domainrange "leihbar/internal/domain/shared/daterange"
	"leihbar/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingLedger struct {
	col *mongo.Collection
}

func NewBookingLedger(db *mongo.Database) *BookingLedger {
	return &BookingLedger{col: db.Collection("agg_booking")}
}

func (l *BookingLedger) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := l.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Insert re-checks for confirmed overlaps and writes the booking. Both
// steps run inside the session transaction injected by the unit of work, so
// a racing insert on the same offer aborts instead of double-booking.
func (l *BookingLedger) Insert(ctx context.Context, b *domainbooking.Booking) error {
	count, err := l.col.CountDocuments(ctx, overlapFilter(b.OfferID, b.Range))
	if err != nil {
		return err
	}
	if count > 0 {
		return domainbooking.ErrDatesUnavailable
	}
	doc := newBookingDocument(b)
	doc.Version = b.Version + 1
	if _, err := l.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainbooking.ErrDatesUnavailable
		}
		return err
	}
	b.Version = doc.Version
	return nil
}

func (l *BookingLedger) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := l.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (l *BookingLedger) ConfirmedOverlapping(ctx context.Context, offerID domainoffers.OfferID, dr domainrange.DateRange) ([]*domainbooking.Booking, error) {
	cursor, err := l.col.Find(ctx, overlapFilter(offerID, dr), options.Find().SetSort(bson.M{"range.start": 1}))
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cursor)
}

func (l *BookingLedger) ListByCustomer(ctx context.Context, customerID string) ([]*domainbooking.Booking, error) {
	cursor, err := l.col.Find(ctx, bson.M{"customer_id": customerID}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cursor)
}

func (l *BookingLedger) ListByOffer(ctx context.Context, offerID domainoffers.OfferID) ([]*domainbooking.Booking, error) {
	cursor, err := l.col.Find(ctx, bson.M{"offer_id": offerID}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cursor)
}

// overlapFilter matches confirmed bookings whose inclusive day range shares
// at least one day with dr.
func overlapFilter(offerID domainoffers.OfferID, dr domainrange.DateRange) bson.M {
	return bson.M{
		"offer_id":    offerID,
		"status":      string(domainbooking.StatusConfirmed),
		"range.start": bson.M{"$lte": dr.End.UnixMilli()},
		"range.end":   bson.M{"$gte": dr.Start.UnixMilli()},
	}
}

func decodeBookings(ctx context.Context, cursor *mongo.Cursor) ([]*domainbooking.Booking, error) {
	defer cursor.Close(ctx)
	out := make([]*domainbooking.Booking, 0)
	for cursor.Next(ctx) {
		var doc bookingDocument
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

type bookingDocument struct {
	ID           string        `bson:"_id"`
	OfferID      string        `bson:"offer_id"`
	CustomerID   string        `bson:"customer_id"`
	Range        rangeDocument `bson:"range"`
	Days         int           `bson:"days"`
	TotalCents   int64         `bson:"total_cents"`
	Currency     string        `bson:"currency"`
	Status       string        `bson:"status"`
	CancelReason string        `bson:"cancel_reason,omitempty"`
	TermsAt      int64         `bson:"terms_accepted_at"`
	WithdrawalAt int64         `bson:"withdrawal_acknowledged_at"`
	CreatedAt    int64         `bson:"created_at"`
	ConfirmedAt  int64         `bson:"confirmed_at"`
	CancelledAt  int64         `bson:"cancelled_at,omitempty"`
	CompletedAt  int64         `bson:"completed_at,omitempty"`
	Version      int64         `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:           string(b.ID),
		OfferID:      string(b.OfferID),
		CustomerID:   b.CustomerID,
		Range:        rangeDocument{Start: b.Range.Start.UnixMilli(), End: b.Range.End.UnixMilli()},
		Days:         b.DaysCount,
		TotalCents:   b.TotalPrice.Amount,
		Currency:     b.TotalPrice.Currency,
		Status:       string(b.Status),
		CancelReason: b.CancelReason,
		TermsAt:      b.TermsAcceptedAt.UnixMilli(),
		WithdrawalAt: b.WithdrawalAcknowledgedAt.UnixMilli(),
		CreatedAt:    b.CreatedAt.UnixMilli(),
		ConfirmedAt:  b.ConfirmedAt.UnixMilli(),
		CancelledAt:  optionalMilli(b.CancelledAt),
		CompletedAt:  optionalMilli(b.CompletedAt),
		Version:      b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:                       domainbooking.BookingID(d.ID),
		OfferID:                  domainoffers.OfferID(d.OfferID),
		CustomerID:               d.CustomerID,
		Range:                    domainrange.DateRange{Start: timestampToTime(d.Range.Start), End: timestampToTime(d.Range.End)},
		DaysCount:                d.Days,
		TotalPrice:               money.Money{Amount: d.TotalCents, Currency: d.Currency},
		Status:                   domainbooking.Status(d.Status),
		CancelReason:             d.CancelReason,
		TermsAcceptedAt:          timestampToTime(d.TermsAt),
		WithdrawalAcknowledgedAt: timestampToTime(d.WithdrawalAt),
		CreatedAt:                timestampToTime(d.CreatedAt),
		ConfirmedAt:              timestampToTime(d.ConfirmedAt),
		CancelledAt:              optionalTime(d.CancelledAt),
		CompletedAt:              optionalTime(d.CompletedAt),
		Version:                  d.Version,
	}
}

type rangeDocument struct {
	Start int64 `bson:"start"`
	End   int64 `bson:"end"`
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func optionalMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func optionalTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return timestampToTime(ms)
}

var _ domainbooking.Ledger = (*BookingLedger)(nil)
