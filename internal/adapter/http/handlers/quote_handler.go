package handlers

import (
	request "cargo_cover/internal/adapter/http/dto/request"
	response "cargo_cover/internal/adapter/http/dto/response"
	"cargo_cover/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
)

// QuoteHandler handles quote submission and lookup.

type QuoteHandler struct {
	usecase usecase.IQuoteUseCase
}

func NewQuoteHandler(uc usecase.IQuoteUseCase) *QuoteHandler {
	return &QuoteHandler{usecase: uc}
}

// SubmitQuote publishes quote-requested and answers before the provider is called.
//
// @Summary      Request a cargo insurance quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        request body request.QuoteRequest true "Quote request"
// @Success      202 {object} response.SubmittedResponse
// @Failure      400 {object} pkg.HTTPError
// @Failure      503 {object} pkg.HTTPError
// @Router       /quotes [post]
func (h *QuoteHandler) SubmitQuote(c *gin.Context) {
	var payload request.QuoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidQuotePayload)
		return
	}

	correlationID, err := h.usecase.Submit(c.Request.Context(), payload.ToEntity())
	if err != nil {
		writeError(c, mapError(err))
		return
	}

	c.JSON(http.StatusAccepted, response.Accepted(correlationID))
}

// GetQuote returns the stored outcome of a quote request.
//
// @Summary      Get a quote by correlation id
// @Tags         quotes
// @Produce      json
// @Param        correlation_id path string true "Correlation id"
// @Success      200 {object} response.QuoteResponse
// @Failure      404 {object} pkg.HTTPError
// @Router       /quotes/{correlation_id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	q, err := h.usecase.Get(c.Request.Context(), c.Param("correlation_id"))
	if err != nil {
		writeError(c, mapError(err))
		return
	}

	c.JSON(http.StatusOK, response.FromQuote(q))
}
