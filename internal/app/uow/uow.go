package uow

import (
	"context"

	domainavailability "leihbar/internal/domain/availability"
	domainbooking "leihbar/internal/domain/booking"
	domaincontracts "leihbar/internal/domain/contracts"
	domainoffers "leihbar/internal/domain/offers"
	domainuser "leihbar/internal/domain/user"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Offers() domainoffers.Repository
	Bookings() domainbooking.Ledger
	Overrides() domainavailability.Ledger
	Contracts() domaincontracts.Repository
	Users() domainuser.Directory

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
