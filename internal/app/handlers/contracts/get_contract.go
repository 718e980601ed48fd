package contracts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"leihbar/internal/app/dto"
	handlersupport "leihbar/internal/app/handlers/support"
	"leihbar/internal/app/policies"
	"leihbar/internal/app/queries"
	"leihbar/internal/app/uow"
	domaincontracts "leihbar/internal/domain/contracts"
)

const getContractKey = "contracts.get"

type GetContractQuery struct {
	RequesterID string
	ContractID  string
}

func (q GetContractQuery) Key() string { return getContractKey }

type GetContractHandler struct {
	UoWFactory uow.UoWFactory
}

// Handle returns the contract view. Contracts are private to their two
// parties; anyone else gets the not-a-party error, not a redacted view.
func (h *GetContractHandler) Handle(ctx context.Context, q GetContractQuery) (dto.ContractView, error) {
	id := strings.TrimSpace(q.ContractID)
	if id == "" {
		return dto.ContractView{}, ErrContractIDRequired
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ContractView{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	contract, err := unit.Contracts().ByID(execCtx, domaincontracts.ContractID(id))
	if err != nil {
		return dto.ContractView{}, err
	}
	if !contract.IsParty(strings.TrimSpace(q.RequesterID)) {
		return dto.ContractView{}, domaincontracts.ErrNotParty
	}
	return dto.MapContract(contract), nil
}

const renderContractKey = "contracts.render"

type RenderContractQuery struct {
	RequesterID string
	ContractID  string
}

func (q RenderContractQuery) Key() string { return renderContractKey }

type RenderedContract struct {
	Filename    string
	ContentType string
	Data        []byte
}

type RenderContractHandler struct {
	UoWFactory uow.UoWFactory
	Renderer   policies.DocumentRenderer
	Archive    policies.DocumentArchive
	Logger     *slog.Logger
}

// Handle renders the contract document on demand. The archive copy is
// best-effort: a failed upload is logged and the caller still gets the
// freshly rendered bytes.
func (h *RenderContractHandler) Handle(ctx context.Context, q RenderContractQuery) (RenderedContract, error) {
	id := strings.TrimSpace(q.ContractID)
	if id == "" {
		return RenderedContract{}, ErrContractIDRequired
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return RenderedContract{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	contract, err := unit.Contracts().ByID(execCtx, domaincontracts.ContractID(id))
	if err != nil {
		return RenderedContract{}, err
	}
	if !contract.IsParty(strings.TrimSpace(q.RequesterID)) {
		return RenderedContract{}, domaincontracts.ErrNotParty
	}

	data, err := h.Renderer.Render(execCtx, contract)
	if err != nil {
		return RenderedContract{}, err
	}

	if h.Archive != nil {
		key := fmt.Sprintf("contracts/%s.pdf", contract.ID)
		if _, err := h.Archive.Store(execCtx, key, data); err != nil && h.Logger != nil {
			h.Logger.Warn("contract archive upload failed", "contract_id", contract.ID, "error", err)
		}
	}

	return RenderedContract{
		Filename:    fmt.Sprintf("rental-contract-%s.pdf", contract.ID),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

var _ queries.Handler[GetContractQuery, dto.ContractView] = (*GetContractHandler)(nil)
var _ queries.Handler[RenderContractQuery, RenderedContract] = (*RenderContractHandler)(nil)
