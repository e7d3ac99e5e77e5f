package entities

import (
	"strings"
	"time"
)

// Certificate is the proof-of-coverage document issued by the provider.
//
// Storage model (DynamoDB):
//   - PK: certificate_number (business key)
//   - booking_id is a cached link to the owning booking, never trusted on its own:
//     the owner is the booking whose policy number matches PolicyNumberFor(certificate_number).
//   - version guards link rewrites (optimistic concurrency).
type Certificate struct {
	CertificateNumber string    `json:"certificate_number"`
	BookingID         string    `json:"booking_id,omitempty"`
	PolicyNumber      string    `json:"policy_number,omitempty"`
	DocumentURL       string    `json:"document_url,omitempty"`
	IssuedAt          time.Time `json:"issued_at"`
	Version           int64     `json:"version"`
	NeedsReview       bool      `json:"needs_review,omitempty"`
	ReviewReason      string    `json:"review_reason,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NumberingConvention relates provider policy numbers to certificate numbers.
//
// The provider issues one certificate per policy and derives its number by swapping the
// policy prefix for the certificate prefix (POL-9001 -> CERT-9001). Numbers that do not
// carry the policy prefix are used as-is.
type NumberingConvention struct {
	PolicyPrefix      string
	CertificatePrefix string
}

func DefaultNumberingConvention() NumberingConvention {
	return NumberingConvention{PolicyPrefix: "POL-", CertificatePrefix: "CERT-"}
}

func (n NumberingConvention) CertificateNumberFor(policyNumber string) string {
	policyNumber = strings.TrimSpace(policyNumber)
	if n.PolicyPrefix != "" && strings.HasPrefix(policyNumber, n.PolicyPrefix) {
		return n.CertificatePrefix + strings.TrimPrefix(policyNumber, n.PolicyPrefix)
	}
	return policyNumber
}

func (n NumberingConvention) PolicyNumberFor(certificateNumber string) string {
	certificateNumber = strings.TrimSpace(certificateNumber)
	if n.CertificatePrefix != "" && strings.HasPrefix(certificateNumber, n.CertificatePrefix) {
		return n.PolicyPrefix + strings.TrimPrefix(certificateNumber, n.CertificatePrefix)
	}
	return certificateNumber
}
