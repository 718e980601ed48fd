package contracts

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"leihbar/internal/app/commands"
	"leihbar/internal/app/outbox"
	"leihbar/internal/app/uow"
	domaincontracts "leihbar/internal/domain/contracts"
)

var ErrContractIDRequired = errors.New("contracts: contract id is required")

const signContractKey = "contracts.sign"

type SignContractCommand struct {
	SignerID   string
	ContractID string
}

func (c SignContractCommand) Key() string { return signContractKey }

type SignContractResult struct {
	ContractID string `json:"contract_id"`
	Status     string `json:"status"`
}

type SignContractHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *SignContractHandler) Handle(ctx context.Context, cmd SignContractCommand) (*SignContractResult, error) {
	contract, unit, err := loadContract(ctx, cmd.ContractID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}
	if err := contract.Sign(strings.TrimSpace(cmd.SignerID), now); err != nil {
		return nil, err
	}
	if err := unit.Contracts().Save(ctx, contract); err != nil {
		return nil, err
	}

	pending := contract.PendingEvents()
	contract.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("contract signed", "contract_id", contract.ID, "signer_id", cmd.SignerID, "status", contract.Status())
	}
	return &SignContractResult{ContractID: string(contract.ID), Status: string(contract.Status())}, nil
}

const cancelContractKey = "contracts.cancel"

type CancelContractCommand struct {
	RequesterID string
	ContractID  string
	Reason      string
}

func (c CancelContractCommand) Key() string { return cancelContractKey }

type CancelContractResult struct {
	ContractID string `json:"contract_id"`
	Status     string `json:"status"`
}

type CancelContractHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *CancelContractHandler) Handle(ctx context.Context, cmd CancelContractCommand) (*CancelContractResult, error) {
	contract, unit, err := loadContract(ctx, cmd.ContractID)
	if err != nil {
		return nil, err
	}
	requesterID := strings.TrimSpace(cmd.RequesterID)
	if !contract.IsParty(requesterID) {
		return nil, domaincontracts.ErrNotParty
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}
	reason := strings.TrimSpace(cmd.Reason)
	if reason == "" {
		reason = "cancelled-by-party"
	}
	if err := contract.Cancel(reason, now); err != nil {
		return nil, err
	}
	if err := unit.Contracts().Save(ctx, contract); err != nil {
		return nil, err
	}

	pending := contract.PendingEvents()
	contract.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("contract cancelled", "contract_id", contract.ID, "requester_id", requesterID, "reason", reason)
	}
	return &CancelContractResult{ContractID: string(contract.ID), Status: string(contract.Status())}, nil
}

func loadContract(ctx context.Context, contractID string) (*domaincontracts.Contract, uow.UnitOfWork, error) {
	id := strings.TrimSpace(contractID)
	if id == "" {
		return nil, nil, ErrContractIDRequired
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, nil, uow.ErrUnitOfWorkMissing
	}
	contract, err := unit.Contracts().ByID(ctx, domaincontracts.ContractID(id))
	if err != nil {
		return nil, nil, err
	}
	return contract, unit, nil
}

var _ commands.Handler[SignContractCommand, *SignContractResult] = (*SignContractHandler)(nil)
var _ commands.Handler[CancelContractCommand, *CancelContractResult] = (*CancelContractHandler)(nil)
