package handlers

import (
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/usecase"
	"cargo_cover/pkg"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidQuotePayload   = pkg.NewDomainErrorSimple("INVALID_QUOTE_INPUT", "Invalid quote payload", http.StatusBadRequest)
	errInvalidBookingPayload = pkg.NewDomainErrorSimple("INVALID_BOOKING_INPUT", "Invalid booking payload", http.StatusBadRequest)
)

func writeError(c *gin.Context, appErr *pkg.AppError) {
	if appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

// mapError translates usecase and domain errors into the HTTP error shape.
func mapError(err error) *pkg.AppError {
	var ve *entities.ValidationError
	var pe *entities.PersistenceError
	var de *entities.ReconciliationDriftError
	var provErr *entities.ProviderError

	switch {
	case errors.As(err, &ve):
		return pkg.NewDomainErrorSimple("VALIDATION_ERROR", ve.Error(), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidCorrelationID),
		errors.Is(err, usecase.ErrInvalidPolicyNumber),
		errors.Is(err, usecase.ErrInvalidQuoteID),
		errors.Is(err, usecase.ErrInvalidReferenceID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrUnknownEntityType):
		return pkg.NewDomainErrorSimple("UNKNOWN_ENTITY_TYPE", "Unknown reference entity type", http.StatusNotFound)
	case errors.Is(err, usecase.ErrQuoteNotFound):
		return pkg.NewDomainErrorSimple("QUOTE_NOT_FOUND", "Quote not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrBookingNotFound):
		return pkg.NewDomainErrorSimple("BOOKING_NOT_FOUND", "Booking not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrReferenceNotFound):
		return pkg.NewDomainErrorSimple("REFERENCE_NOT_FOUND", "Reference entity not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrReferenceNotLoaded):
		return pkg.NewDomainError("REFERENCE_NOT_LOADED", "Reference data not loaded yet", err, http.StatusServiceUnavailable)
	case errors.As(err, &de):
		return pkg.NewDomainError("RECONCILIATION_DRIFT", de.Error(), err, http.StatusConflict)
	case errors.Is(err, entities.ErrVersionConflict):
		return pkg.NewDomainError("CONFLICT", "Concurrent update, retry the request", err, http.StatusConflict)
	case errors.As(err, &provErr):
		if provErr.IsTimeout() {
			return pkg.NewDomainError("PROVIDER_TIMEOUT", "Provider did not answer in time", err, http.StatusGatewayTimeout)
		}
		return pkg.NewDomainError("PROVIDER_ERROR", "Provider rejected the request", err, http.StatusBadGateway)
	case errors.Is(err, context.DeadlineExceeded):
		return pkg.NewDomainError("TIMEOUT", "Request timed out", err, http.StatusGatewayTimeout)
	case errors.As(err, &pe), errors.Is(err, usecase.ErrPublisherUnavailable):
		return pkg.NewDomainError("SERVICE_UNAVAILABLE", "Service temporarily unavailable", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
