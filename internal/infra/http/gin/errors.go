package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	appavailability "leihbar/internal/app/availability"
	availabilityhandlers "leihbar/internal/app/handlers/availability"
	bookinghandlers "leihbar/internal/app/handlers/booking"
	contracthandlers "leihbar/internal/app/handlers/contracts"
	domainbooking "leihbar/internal/domain/booking"
	domaincontracts "leihbar/internal/domain/contracts"
	domainoffers "leihbar/internal/domain/offers"
	domainrange "leihbar/internal/domain/shared/daterange"
	domainuser "leihbar/internal/domain/user"
)

// respondError translates domain sentinels into HTTP statuses: malformed
// input is 400, authorization failures 403, unknown resources 404 and state
// conflicts 409. Anything unrecognized is a 500 so storage failures never
// masquerade as caller mistakes.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domainrange.ErrInvalidFormat),
		errors.Is(err, domainrange.ErrInvalidRange),
		errors.Is(err, appavailability.ErrStartInPast),
		errors.Is(err, appavailability.ErrSameDayCutoff),
		errors.Is(err, appavailability.ErrSpanTooLong),
		errors.Is(err, domainoffers.ErrNoPrice),
		errors.Is(err, domainbooking.ErrTermsNotAccepted),
		errors.Is(err, domainbooking.ErrWithdrawalNotAcknowledged),
		errors.Is(err, domainbooking.ErrCustomerRequired),
		errors.Is(err, availabilityhandlers.ErrOfferIDRequired),
		errors.Is(err, bookinghandlers.ErrBookingIDRequired),
		errors.Is(err, bookinghandlers.ErrUserIDRequired),
		errors.Is(err, contracthandlers.ErrBookingIDRequired),
		errors.Is(err, contracthandlers.ErrContractIDRequired):
		return http.StatusBadRequest
	case errors.Is(err, domainbooking.ErrNotOwner),
		errors.Is(err, domainbooking.ErrSelfBooking),
		errors.Is(err, domaincontracts.ErrNotParty),
		errors.Is(err, availabilityhandlers.ErrNotOfferOwner),
		errors.Is(err, contracthandlers.ErrRequesterNotParty):
		return http.StatusForbidden
	case errors.Is(err, domainoffers.ErrNotFound),
		errors.Is(err, domainbooking.ErrNotFound),
		errors.Is(err, domaincontracts.ErrNotFound),
		errors.Is(err, domainuser.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainbooking.ErrDatesUnavailable),
		errors.Is(err, domainbooking.ErrNotCancellable),
		errors.Is(err, domainbooking.ErrInvalidState),
		errors.Is(err, domainoffers.ErrInactive),
		errors.Is(err, domaincontracts.ErrAlreadySigned),
		errors.Is(err, domaincontracts.ErrAlreadyGenerated),
		errors.Is(err, domaincontracts.ErrNotSignable),
		errors.Is(err, domaincontracts.ErrNotCancellable),
		errors.Is(err, domaincontracts.ErrNotActive),
		errors.Is(err, contracthandlers.ErrBookingNotEligible):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
