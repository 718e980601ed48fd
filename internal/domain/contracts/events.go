package contracts

import (
	"time"

	"leihbar/internal/domain/booking"
	"leihbar/internal/domain/offers"
)

type ContractCreated struct {
	ContractID ContractID
	BookingID  booking.BookingID
	OfferID    offers.OfferID
	At         time.Time
}

func (e ContractCreated) EventName() string     { return "contract.created" }
func (e ContractCreated) AggregateID() string   { return string(e.ContractID) }
func (e ContractCreated) OccurredAt() time.Time { return e.At }

type ContractSigned struct {
	ContractID ContractID
	SignerID   string
	At         time.Time
}

func (e ContractSigned) EventName() string     { return "contract.signed" }
func (e ContractSigned) AggregateID() string   { return string(e.ContractID) }
func (e ContractSigned) OccurredAt() time.Time { return e.At }

type ContractActivated struct {
	ContractID ContractID
	At         time.Time
}

func (e ContractActivated) EventName() string     { return "contract.activated" }
func (e ContractActivated) AggregateID() string   { return string(e.ContractID) }
func (e ContractActivated) OccurredAt() time.Time { return e.At }

type ContractCancelled struct {
	ContractID ContractID
	Reason     string
	At         time.Time
}

func (e ContractCancelled) EventName() string     { return "contract.cancelled" }
func (e ContractCancelled) AggregateID() string   { return string(e.ContractID) }
func (e ContractCancelled) OccurredAt() time.Time { return e.At }

type ContractCompleted struct {
	ContractID ContractID
	At         time.Time
}

func (e ContractCompleted) EventName() string     { return "contract.completed" }
func (e ContractCompleted) AggregateID() string   { return string(e.ContractID) }
func (e ContractCompleted) OccurredAt() time.Time { return e.At }
