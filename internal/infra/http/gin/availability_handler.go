package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"leihbar/internal/app/commands"
	"leihbar/internal/app/dto"
	availabilityapp "leihbar/internal/app/handlers/availability"
	"leihbar/internal/app/queries"
)

type AvailabilityHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h AvailabilityHandler) Check(c *gin.Context) {
	q := availabilityapp.CheckAvailabilityQuery{
		OfferID: c.Param("id"),
		Start:   c.Query("start"),
		End:     c.Query("end"),
	}
	result, err := queries.Ask[availabilityapp.CheckAvailabilityQuery, dto.Availability](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) Calendar(c *gin.Context) {
	q := availabilityapp.GetCalendarQuery{
		OfferID: c.Param("id"),
		From:    c.Query("from"),
		To:      c.Query("to"),
	}
	result, err := queries.Ask[availabilityapp.GetCalendarQuery, dto.Calendar](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type blockDatesRequest struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Reason string `json:"reason"`
}

func (h AvailabilityHandler) Block(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req blockDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := availabilityapp.BlockDatesCommand{
		ProviderID: user,
		OfferID:    c.Param("id"),
		Start:      req.Start,
		End:        req.End,
		Reason:     req.Reason,
	}
	result, err := commands.Dispatch[availabilityapp.BlockDatesCommand, *availabilityapp.BlockDatesResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h AvailabilityHandler) Unblock(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := availabilityapp.UnblockDatesCommand{
		ProviderID: user,
		OfferID:    c.Param("id"),
		Start:      c.Query("start"),
		End:        c.Query("end"),
	}
	result, err := commands.Dispatch[availabilityapp.UnblockDatesCommand, *availabilityapp.UnblockDatesResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ AvailabilityHTTP = AvailabilityHandler{}
