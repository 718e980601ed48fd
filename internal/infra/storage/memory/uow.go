package memory

import (
	"context"
	"errors"

	"leihbar/internal/app/uow"
	domainavailability "leihbar/internal/domain/availability"
	domainbooking "leihbar/internal/domain/booking"
	domaincontracts "leihbar/internal/domain/contracts"
	domainoffers "leihbar/internal/domain/offers"
	domainuser "leihbar/internal/domain/user"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	Offers    domainoffers.Repository
	Bookings  domainbooking.Ledger
	Overrides domainavailability.Ledger
	Contracts domaincontracts.Repository
	Users     domainuser.Directory
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided
// but the abstraction matches the application ports; the booking ledger's
// own locking carries the overlap guarantee.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.Offers == nil || f.Bookings == nil || f.Overrides == nil || f.Contracts == nil || f.Users == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		offers:    f.Offers,
		bookings:  f.Bookings,
		overrides: f.Overrides,
		contracts: f.Contracts,
		users:     f.Users,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	offers    domainoffers.Repository
	bookings  domainbooking.Ledger
	overrides domainavailability.Ledger
	contracts domaincontracts.Repository
	users     domainuser.Directory
}

func (u *Unit) Offers() domainoffers.Repository {
	return u.offers
}

func (u *Unit) Bookings() domainbooking.Ledger {
	return u.bookings
}

func (u *Unit) Overrides() domainavailability.Ledger {
	return u.overrides
}

func (u *Unit) Contracts() domaincontracts.Repository {
	return u.contracts
}

func (u *Unit) Users() domainuser.Directory {
	return u.users
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}
