package contracts

import (
	"context"
	"errors"
	"strings"
	"time"

	"leihbar/internal/app/commands"
	"leihbar/internal/app/middleware"
	"leihbar/internal/app/outbox"
	"leihbar/internal/app/uow"
	domainbooking "leihbar/internal/domain/booking"
	domaincontracts "leihbar/internal/domain/contracts"
	domainuser "leihbar/internal/domain/user"
)

const generateContractKey = "contracts.generate"

var (
	ErrBookingIDRequired  = errors.New("contracts: booking id is required")
	ErrRequesterNotParty  = errors.New("contracts: requester is not a party to the booking")
	ErrBookingNotEligible = errors.New("contracts: contracts are generated for confirmed bookings only")
)

type GenerateContractCommand struct {
	CommandID       string
	RequesterID     string
	BookingID       string
	IdempotencyKeyV string
}

func (c GenerateContractCommand) Key() string { return generateContractKey }

func (c GenerateContractCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c GenerateContractCommand) ResultPrototype() any { return &GenerateContractResult{} }

type GenerateContractResult struct {
	ContractID string `json:"contract_id"`
	Status     string `json:"status"`
	Existing   bool   `json:"existing"`
}

type GenerateContractHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

// Handle creates the contract for a booking, or returns the one already
// generated. One contract per booking; repeated calls are a lookup, never a
// duplicate.
func (h *GenerateContractHandler) Handle(ctx context.Context, cmd GenerateContractCommand) (*GenerateContractResult, error) {
	bookingID := strings.TrimSpace(cmd.BookingID)
	if bookingID == "" {
		return nil, ErrBookingIDRequired
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(bookingID))
	if err != nil {
		return nil, err
	}
	offer, err := unit.Offers().ByID(ctx, b.OfferID)
	if err != nil {
		return nil, err
	}
	requesterID := strings.TrimSpace(cmd.RequesterID)
	if requesterID != b.CustomerID && !offer.OwnedBy(requesterID) {
		return nil, ErrRequesterNotParty
	}

	// An already generated contract is returned unchanged, whatever happened
	// to the booking since. The eligibility gate only guards first-time
	// generation.
	existing, err := unit.Contracts().ByBooking(ctx, b.ID)
	switch {
	case err == nil:
		return &GenerateContractResult{ContractID: string(existing.ID), Status: string(existing.Status()), Existing: true}, nil
	case !errors.Is(err, domaincontracts.ErrNotFound):
		return nil, err
	}
	if b.Status != domainbooking.StatusConfirmed {
		return nil, ErrBookingNotEligible
	}

	rate, err := offer.DailyRate()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}
	contract, err := domaincontracts.NewFromBooking(domaincontracts.CreateParams{
		ID:        domaincontracts.ContractID(cmd.CommandID),
		Booking:   b,
		Offer:     offer,
		Lessor:    partyFor(ctx, unit, string(offer.Owner)),
		Lessee:    partyFor(ctx, unit, b.CustomerID),
		DailyRate: rate,
		Now:       now,
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Contracts().Insert(ctx, contract); err != nil {
		return nil, err
	}

	pending := contract.PendingEvents()
	contract.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	return &GenerateContractResult{ContractID: string(contract.ID), Status: string(contract.Status())}, nil
}

// partyFor snapshots the user's identity into the contract. An unknown user
// still yields a valid party carrying just the id; the directory is a
// convenience, not a gate.
func partyFor(ctx context.Context, unit uow.UnitOfWork, userID string) domaincontracts.Party {
	u, err := unit.Users().ByID(ctx, domainuser.ID(userID))
	if err != nil {
		return domaincontracts.Party{UserID: userID}
	}
	return domaincontracts.Party{UserID: string(u.ID), Name: u.Name, Email: u.Email}
}

var _ commands.Handler[GenerateContractCommand, *GenerateContractResult] = (*GenerateContractHandler)(nil)
var _ middleware.IdempotentCommand = (*GenerateContractCommand)(nil)
