package usecase

import "errors"

var (
	ErrQuoteNotFound        = errors.New("quote not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrInvalidCorrelationID = errors.New("invalid correlation id")
	ErrInvalidPolicyNumber  = errors.New("invalid policy number")
	ErrInvalidQuoteID       = errors.New("invalid quote id")
	ErrPublisherUnavailable = errors.New("publisher not configured")
	ErrUnknownEntityType    = errors.New("unknown reference entity type")
	ErrInvalidReferenceID   = errors.New("invalid reference id")
)
