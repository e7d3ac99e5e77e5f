package handlers

import (
	request "cargo_cover/internal/adapter/http/dto/request"
	response "cargo_cover/internal/adapter/http/dto/response"
	"cargo_cover/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	usecase usecase.IBookingUseCase
}

func NewBookingHandler(uc usecase.IBookingUseCase) *BookingHandler {
	return &BookingHandler{usecase: uc}
}

// SubmitBooking publishes booking-requested for a previously priced quote.
//
// @Summary      Book coverage for a quote
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        request body request.BookingRequest true "Booking request"
// @Success      202 {object} response.SubmittedResponse
// @Failure      400 {object} pkg.HTTPError
// @Failure      404 {object} pkg.HTTPError
// @Router       /bookings [post]
func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	var payload request.BookingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidBookingPayload)
		return
	}

	correlationID, err := h.usecase.Submit(c.Request.Context(), payload.ToEntity())
	if err != nil {
		writeError(c, mapError(err))
		return
	}

	c.JSON(http.StatusAccepted, response.Accepted(correlationID))
}

// GetBooking returns the booking owning a policy number and its certificate.
//
// @Summary      Get a booking by policy number
// @Tags         bookings
// @Produce      json
// @Param        policy_number path string true "Provider policy number"
// @Success      200 {object} response.BookingResponse
// @Failure      404 {object} pkg.HTTPError
// @Router       /bookings/{policy_number} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	view, err := h.usecase.GetByPolicyNumber(c.Request.Context(), c.Param("policy_number"))
	if err != nil {
		writeError(c, mapError(err))
		return
	}

	c.JSON(http.StatusOK, response.FromBookingView(view))
}
