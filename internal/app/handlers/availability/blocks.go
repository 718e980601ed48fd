package availability

import (
	"context"
	"errors"
	"strings"
	"time"

	"leihbar/internal/app/commands"
	"leihbar/internal/app/outbox"
	"leihbar/internal/app/uow"
	domainavailability "leihbar/internal/domain/availability"
	domainoffers "leihbar/internal/domain/offers"
	domainrange "leihbar/internal/domain/shared/daterange"
	"leihbar/internal/domain/shared/events"
)

const (
	blockDatesKey   = "availability.block"
	unblockDatesKey = "availability.unblock"
)

var ErrNotOfferOwner = errors.New("availability: only the offer owner may manage blocked dates")

type BlockDatesCommand struct {
	ProviderID string
	OfferID    string
	Start      string
	End        string
	Reason     string
}

func (c BlockDatesCommand) Key() string { return blockDatesKey }

type BlockDatesResult struct {
	OfferID     string   `json:"offer_id"`
	BlockedDays []string `json:"blocked_days"`
}

type BlockDatesHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

func (h *BlockDatesHandler) Handle(ctx context.Context, cmd BlockDatesCommand) (*BlockDatesResult, error) {
	offer, dr, err := ownedOfferAndRange(ctx, cmd.ProviderID, cmd.OfferID, cmd.Start, cmd.End)
	if err != nil {
		return nil, err
	}
	unit, _ := uow.FromContext(ctx)

	now := h.now()
	days := make([]string, 0, dr.Days())
	for _, day := range dr.EachDay() {
		override := domainavailability.Override{
			OfferID:   offer.ID,
			Date:      day,
			Available: false,
			Reason:    strings.TrimSpace(cmd.Reason),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := unit.Overrides().Upsert(ctx, override); err != nil {
			return nil, err
		}
		days = append(days, domainrange.FormatDay(day))
	}

	ev := domainavailability.DatesBlocked{OfferID: offer.ID, Range: dr, Reason: strings.TrimSpace(cmd.Reason), At: now}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, []events.DomainEvent{ev}); err != nil {
		return nil, err
	}

	return &BlockDatesResult{OfferID: string(offer.ID), BlockedDays: days}, nil
}

func (h *BlockDatesHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

type UnblockDatesCommand struct {
	ProviderID string
	OfferID    string
	Start      string
	End        string
}

func (c UnblockDatesCommand) Key() string { return unblockDatesKey }

type UnblockDatesResult struct {
	OfferID string `json:"offer_id"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type UnblockDatesHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

func (h *UnblockDatesHandler) Handle(ctx context.Context, cmd UnblockDatesCommand) (*UnblockDatesResult, error) {
	offer, dr, err := ownedOfferAndRange(ctx, cmd.ProviderID, cmd.OfferID, cmd.Start, cmd.End)
	if err != nil {
		return nil, err
	}
	unit, _ := uow.FromContext(ctx)

	if err := unit.Overrides().Delete(ctx, offer.ID, dr); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}
	ev := domainavailability.DatesUnblocked{OfferID: offer.ID, Range: dr, At: now}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, []events.DomainEvent{ev}); err != nil {
		return nil, err
	}

	return &UnblockDatesResult{
		OfferID: string(offer.ID),
		Start:   domainrange.FormatDay(dr.Start),
		End:     domainrange.FormatDay(dr.End),
	}, nil
}

// ownedOfferAndRange loads the offer, enforces ownership and parses the
// inclusive day range shared by both block commands.
func ownedOfferAndRange(ctx context.Context, providerID, offerID, start, end string) (*domainoffers.Offer, domainrange.DateRange, error) {
	if strings.TrimSpace(offerID) == "" {
		return nil, domainrange.DateRange{}, ErrOfferIDRequired
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, domainrange.DateRange{}, uow.ErrUnitOfWorkMissing
	}
	offer, err := unit.Offers().ByID(ctx, domainoffers.OfferID(offerID))
	if err != nil {
		return nil, domainrange.DateRange{}, err
	}
	if !offer.OwnedBy(strings.TrimSpace(providerID)) {
		return nil, domainrange.DateRange{}, ErrNotOfferOwner
	}
	dr, err := domainrange.Parse(start, end)
	if err != nil {
		return nil, domainrange.DateRange{}, err
	}
	return offer, dr, nil
}

var _ commands.Handler[BlockDatesCommand, *BlockDatesResult] = (*BlockDatesHandler)(nil)
var _ commands.Handler[UnblockDatesCommand, *UnblockDatesResult] = (*UnblockDatesHandler)(nil)
