package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"leihbar/internal/app/commands"
	"leihbar/internal/app/dto"
	contractapp "leihbar/internal/app/handlers/contracts"
	"leihbar/internal/app/queries"
)

type ContractHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h ContractHandler) Generate(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := contractapp.GenerateContractCommand{
		CommandID:       generateCommandID(),
		RequesterID:     user,
		BookingID:       c.Param("id"),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[contractapp.GenerateContractCommand, *contractapp.GenerateContractResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if result.Existing {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

func (h ContractHandler) Get(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	q := contractapp.GetContractQuery{RequesterID: user, ContractID: c.Param("id")}
	result, err := queries.Ask[contractapp.GetContractQuery, dto.ContractView](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ContractHandler) Sign(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := contractapp.SignContractCommand{SignerID: user, ContractID: c.Param("id")}
	result, err := commands.Dispatch[contractapp.SignContractCommand, *contractapp.SignContractResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type cancelContractRequest struct {
	Reason string `json:"reason"`
}

func (h ContractHandler) Cancel(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req cancelContractRequest
	// The reason body is optional.
	_ = c.ShouldBindJSON(&req)
	cmd := contractapp.CancelContractCommand{
		RequesterID: user,
		ContractID:  c.Param("id"),
		Reason:      req.Reason,
	}
	result, err := commands.Dispatch[contractapp.CancelContractCommand, *contractapp.CancelContractResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ContractHandler) Document(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	q := contractapp.RenderContractQuery{RequesterID: user, ContractID: c.Param("id")}
	result, err := queries.Ask[contractapp.RenderContractQuery, contractapp.RenderedContract](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

var _ ContractHTTP = ContractHandler{}
