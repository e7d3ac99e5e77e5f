package request

import (
	"cargo_cover/internal/domain/entities"
	"strings"
)

type BookingPayload struct {
	InsuredName  string            `json:"insuredName" binding:"required"`
	InsuredEmail string            `json:"insuredEmail"`
	Reference    string            `json:"reference"`
	Notes        string            `json:"notes"`
	Extra        map[string]string `json:"extra"`
}

// BookingRequest is the POST /v1/bookings payload. CorrelationID may be omitted; the
// booking then continues the correlation of the referenced quote.
type BookingRequest struct {
	CorrelationID  string         `json:"correlationId"`
	QuoteID        string         `json:"quoteId" binding:"required"`
	BookingPayload BookingPayload `json:"bookingPayload"`
}

func (r BookingRequest) ToEntity() entities.BookingRequest {
	return entities.BookingRequest{
		CorrelationID: strings.TrimSpace(r.CorrelationID),
		QuoteID:       strings.TrimSpace(r.QuoteID),
		Payload: entities.BookingPayload{
			InsuredName:  strings.TrimSpace(r.BookingPayload.InsuredName),
			InsuredEmail: strings.TrimSpace(r.BookingPayload.InsuredEmail),
			Reference:    strings.TrimSpace(r.BookingPayload.Reference),
			Notes:        r.BookingPayload.Notes,
			Extra:        r.BookingPayload.Extra,
		},
	}
}
