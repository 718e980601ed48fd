package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"leihbar/internal/app/uow"
	domainavailability "leihbar/internal/domain/availability"
	domainbooking "leihbar/internal/domain/booking"
	domaincontracts "leihbar/internal/domain/contracts"
	domainoffers "leihbar/internal/domain/offers"
	domainuser "leihbar/internal/domain/user"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	Offers    domainoffers.Repository
	Bookings  domainbooking.Ledger
	Overrides domainavailability.Ledger
	Contracts domaincontracts.Repository
	Users     domainuser.Directory
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if opts.ReadOnly {
		txnOpts = txnOpts.SetReadConcern(f.DB.ReadConcern())
	}
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:        f.DB,
		session:   session,
		offers:    f.Offers,
		bookings:  f.Bookings,
		overrides: f.Overrides,
		contracts: f.Contracts,
		users:     f.Users,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

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
	defer u.session.EndSession(ctx)
	if err := u.session.CommitTransaction(ctx); err != nil {
		return err
	}
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
