package response

import (
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/usecase"
	"time"
)

type CertificateResponse struct {
	CertificateNumber string    `json:"certificate_number"`
	DocumentURL       string    `json:"document_url,omitempty"`
	IssuedAt          time.Time `json:"issued_at"`
	NeedsReview       bool      `json:"needs_review,omitempty"`
	ReviewReason      string    `json:"review_reason,omitempty"`
}

type BookingResponse struct {
	PolicyNumber  string               `json:"policy_number"`
	CorrelationID string               `json:"correlation_id"`
	QuoteID       string               `json:"quote_id"`
	Status        string               `json:"status"`
	Certificate   *CertificateResponse `json:"certificate,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// FromBookingView leaves the local booking id out; the policy number is the only
// identifier exposed.
func FromBookingView(v usecase.BookingView) BookingResponse {
	resp := BookingResponse{
		PolicyNumber:  v.Booking.PolicyNumber,
		CorrelationID: v.Booking.CorrelationID,
		QuoteID:       v.Booking.QuoteID,
		Status:        string(v.Booking.Status),
		CreatedAt:     v.Booking.CreatedAt,
		UpdatedAt:     v.Booking.UpdatedAt,
	}
	if v.Certificate.CertificateNumber != "" {
		resp.Certificate = fromCertificate(v.Certificate)
	}
	return resp
}

func fromCertificate(c entities.Certificate) *CertificateResponse {
	return &CertificateResponse{
		CertificateNumber: c.CertificateNumber,
		DocumentURL:       c.DocumentURL,
		IssuedAt:          c.IssuedAt,
		NeedsReview:       c.NeedsReview,
		ReviewReason:      c.ReviewReason,
	}
}

type ReconciliationResponse struct {
	PolicyNumber      string `json:"policy_number"`
	CertificateNumber string `json:"certificate_number"`
	Action            string `json:"action"`
}

func FromReconciliation(r entities.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		PolicyNumber:      r.Booking.PolicyNumber,
		CertificateNumber: r.Certificate.CertificateNumber,
		Action:            string(r.Action),
	}
}
