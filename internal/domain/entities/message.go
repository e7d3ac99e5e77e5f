package entities

import "github.com/shopspring/decimal"

// Logical queue channels. Each one has a dead-letter companion named <channel>.dlq.
const (
	ChannelQuoteRequested   = "quote-requested"
	ChannelQuoteReceived    = "quote-received"
	ChannelBookingRequested = "booking-requested"
	ChannelBookingConfirmed = "booking-confirmed"
)

// Channels lists the four logical channels.
func Channels() []string {
	return []string{ChannelQuoteRequested, ChannelQuoteReceived, ChannelBookingRequested, ChannelBookingConfirmed}
}

// DeadLetterChannel returns the dead-letter destination of a logical channel.
func DeadLetterChannel(channel string) string {
	return channel + ".dlq"
}

// FailureReason is the machine readable cause carried by failure outcomes.
type FailureReason string

const (
	FailureValidation          FailureReason = "validation_error"
	FailureProvider            FailureReason = "provider_error"
	FailureProviderTimeout     FailureReason = "provider_timeout"
	FailureQuoteNotFound       FailureReason = "quote_not_found"
	FailureQuoteNotPriced      FailureReason = "quote_not_priced"
	FailureQuoteExpired        FailureReason = "quote_expired"
	FailureReconciliationDrift FailureReason = "reconciliation_drift"
)

// QuoteRequestedMessage is published by callers on quote-requested.
type QuoteRequestedMessage struct {
	CorrelationID string       `json:"correlationId"`
	Request       QuoteRequest `json:"requestPayload"`
}

// QuoteReceivedMessage is the outcome of a quote request.
type QuoteReceivedMessage struct {
	CorrelationID string           `json:"correlationId"`
	QuoteID       string           `json:"quoteId,omitempty"`
	Status        QuoteStatus      `json:"status"`
	Premium       *decimal.Decimal `json:"premium,omitempty"`
	FailureReason FailureReason    `json:"failureReason,omitempty"`
}

// BookingRequestedMessage is published by callers once a quote is priced.
type BookingRequestedMessage struct {
	CorrelationID string         `json:"correlationId"`
	QuoteID       string         `json:"quoteId"`
	Payload       BookingPayload `json:"bookingPayload"`
}

// BookingConfirmedMessage is the outcome of a booking request.
type BookingConfirmedMessage struct {
	CorrelationID     string        `json:"correlationId"`
	PolicyNumber      string        `json:"policyNumber,omitempty"`
	CertificateNumber string        `json:"certificateNumber,omitempty"`
	Status            BookingStatus `json:"status"`
	FailureReason     FailureReason `json:"failureReason,omitempty"`
}

// QuoteReceivedFrom builds the outcome message for a persisted quote.
func QuoteReceivedFrom(q Quote) QuoteReceivedMessage {
	msg := QuoteReceivedMessage{
		CorrelationID: q.CorrelationID,
		QuoteID:       q.QuoteID,
		Status:        q.Status,
		FailureReason: q.FailureReason,
	}
	if q.Status == QuoteStatusPriced {
		premium := q.Premium
		msg.Premium = &premium
	}
	return msg
}
