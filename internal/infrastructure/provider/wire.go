package provider

import (
	"cargo_cover/internal/domain/entities"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Provider API payloads. Field names follow the provider contract, not our entities.

type quoteResponse struct {
	QuoteID   string          `json:"quoteId"`
	Premium   decimal.Decimal `json:"premium"`
	Currency  string          `json:"currency,omitempty"`
	ExpiresAt *time.Time      `json:"expiresAt,omitempty"`
}

type bookingRequest struct {
	CorrelationID string                  `json:"correlationId"`
	QuoteID       string                  `json:"quoteId"`
	Premium       decimal.Decimal         `json:"premium"`
	Currency      string                  `json:"currency,omitempty"`
	Payload       entities.BookingPayload `json:"bookingPayload"`
}

type bookingResponse struct {
	PolicyNumber string     `json:"policyNumber"`
	ConfirmedAt  *time.Time `json:"confirmedAt,omitempty"`
}

type certificateResponse struct {
	CertificateNumber string     `json:"certificateNumber"`
	PolicyNumber      string     `json:"policyNumber,omitempty"`
	DocumentURL       string     `json:"documentUrl,omitempty"`
	IssuedAt          *time.Time `json:"issuedAt,omitempty"`
}

type referenceResponse struct {
	Items []map[string]json.RawMessage `json:"items"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (q quoteResponse) toEntity() entities.ProviderQuote {
	pq := entities.ProviderQuote{QuoteID: q.QuoteID, Premium: q.Premium, Currency: q.Currency}
	if q.ExpiresAt != nil {
		pq.ExpiresAt = q.ExpiresAt.UTC()
	}
	return pq
}

func (b bookingResponse) toEntity() entities.ProviderBooking {
	pb := entities.ProviderBooking{PolicyNumber: strings.TrimSpace(b.PolicyNumber)}
	if b.ConfirmedAt != nil {
		pb.ConfirmedAt = b.ConfirmedAt.UTC()
	}
	return pb
}

func (c certificateResponse) toEntity() entities.Certificate {
	cert := entities.Certificate{
		CertificateNumber: strings.TrimSpace(c.CertificateNumber),
		PolicyNumber:      strings.TrimSpace(c.PolicyNumber),
		DocumentURL:       c.DocumentURL,
	}
	if c.IssuedAt != nil {
		cert.IssuedAt = c.IssuedAt.UTC()
	}
	return cert
}

// referenceRows maps listing rows to entities. The id comes only from the type's provider
// key field; rows without it keep an empty id and are dropped by the cache.
func referenceRows(entityType entities.EntityType, rows []map[string]json.RawMessage) ([]entities.ReferenceEntity, error) {
	keyField := entityType.ProviderKeyField()
	out := make([]entities.ReferenceEntity, 0, len(rows))
	for i, row := range rows {
		e := entities.ReferenceEntity{Type: entityType}
		if raw, ok := row[keyField]; ok {
			if err := json.Unmarshal(raw, &e.ID); err != nil {
				return nil, fmt.Errorf("row %d: %s: %w", i, keyField, err)
			}
		}
		for k, raw := range row {
			switch k {
			case keyField:
			case "name", "description":
				if e.Name == "" || k == "name" {
					var s string
					if json.Unmarshal(raw, &s) == nil {
						e.Name = s
					}
				}
			default:
				if e.Attributes == nil {
					e.Attributes = map[string]string{}
				}
				e.Attributes[k] = attributeString(raw)
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func attributeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
