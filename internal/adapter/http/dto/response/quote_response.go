package response

import (
	"cargo_cover/internal/domain/entities"
	"time"
)

// SubmittedResponse acknowledges an accepted asynchronous request.
type SubmittedResponse struct {
	CorrelationID string `json:"correlation_id"`
	Status        string `json:"status"`
}

func Accepted(correlationID string) SubmittedResponse {
	return SubmittedResponse{CorrelationID: correlationID, Status: "accepted"}
}

type QuoteResponse struct {
	CorrelationID string     `json:"correlation_id"`
	QuoteID       string     `json:"quote_id,omitempty"`
	Status        string     `json:"status"`
	Premium       string     `json:"premium,omitempty"`
	Currency      string     `json:"currency,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func FromQuote(q entities.Quote) QuoteResponse {
	resp := QuoteResponse{
		CorrelationID: q.CorrelationID,
		QuoteID:       q.QuoteID,
		Status:        string(q.Status),
		Currency:      q.Currency,
		FailureReason: string(q.FailureReason),
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
	if q.Status != entities.QuoteStatusFailed {
		resp.Premium = q.Premium.StringFixed(2)
	}
	if !q.ExpiresAt.IsZero() {
		expires := q.ExpiresAt
		resp.ExpiresAt = &expires
	}
	return resp
}
