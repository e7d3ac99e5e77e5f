package entities

import "time"

// BookingStatus represents the outcome of binding coverage.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusFailed    BookingStatus = "failed"
)

// BookingPayload holds the booking specific fields sent alongside the quote reference.
type BookingPayload struct {
	InsuredName  string            `json:"insuredName" validate:"required,max=256"`
	InsuredEmail string            `json:"insuredEmail,omitempty" validate:"omitempty,email"`
	Reference    string            `json:"reference,omitempty" validate:"omitempty,max=128"`
	Notes        string            `json:"notes,omitempty" validate:"omitempty,max=1024"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// BookingRequest references a previously issued quote by its provider quote id.
type BookingRequest struct {
	CorrelationID string         `json:"correlationId" validate:"required"`
	QuoteID       string         `json:"quoteId" validate:"required"`
	Payload       BookingPayload `json:"bookingPayload"`
}

// ProviderBooking is the provider confirmation of a bound policy.
type ProviderBooking struct {
	PolicyNumber string
	ConfirmedAt  time.Time
}

// Booking is the locally persisted result of a confirmed binding.
//
// Storage model (DynamoDB):
//   - PK: id (uuid, local surrogate)
//   - GSI policy_number-index: policy_number (business key)
//   - GSI correlation_id-index: correlation_id (replay detection)
//
// The policy number is the durable cross-system identifier; id never leaves this service.
type Booking struct {
	ID            string        `json:"id"`
	CorrelationID string        `json:"correlation_id"`
	PolicyNumber  string        `json:"policy_number"`
	QuoteID       string        `json:"quote_id"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
