package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leihbar/internal/app/commands"
	"leihbar/internal/app/dto"
	bookingapp "leihbar/internal/app/handlers/booking"
	"leihbar/internal/app/queries"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createBookingRequest struct {
	OfferID                     string `json:"offer_id"`
	Start                       string `json:"start"`
	End                         string `json:"end"`
	TermsAccepted               bool   `json:"terms_accepted"`
	WithdrawalRightAcknowledged bool   `json:"withdrawal_right_acknowledged"`
}

func (h BookingHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.CreateBookingCommand{
		CommandID:                   generateCommandID(),
		OfferID:                     req.OfferID,
		CustomerID:                  user,
		Start:                       req.Start,
		End:                         req.End,
		TermsAccepted:               req.TermsAccepted,
		WithdrawalRightAcknowledged: req.WithdrawalRightAcknowledged,
		IdempotencyKeyV:             c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.CreateBookingCommand, *bookingapp.CreateBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h BookingHandler) Cancel(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req cancelBookingRequest
	// The reason body is optional.
	_ = c.ShouldBindJSON(&req)
	cmd := bookingapp.CancelBookingCommand{
		OwnerID:   user,
		BookingID: c.Param("id"),
		Reason:    req.Reason,
	}
	result, err := commands.Dispatch[bookingapp.CancelBookingCommand, *bookingapp.CancelBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) ListMine(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	q := bookingapp.ListCustomerBookingsQuery{CustomerID: user, Status: c.Query("status")}
	result, err := queries.Ask[bookingapp.ListCustomerBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) ListOwned(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	q := bookingapp.ListOwnerBookingsQuery{OwnerID: user, Status: c.Query("status")}
	result, err := queries.Ask[bookingapp.ListOwnerBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ BookingHTTP = BookingHandler{}
