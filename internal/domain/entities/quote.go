package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus represents the lifecycle of a quote.
//
// Domain notes:
//   - pending is only observed while a request is in flight.
//   - priced and failed are terminal outcomes of a quote request.
//   - expired is reached from priced only, once ExpiresAt has passed.
type QuoteStatus string

const (
	QuoteStatusPending QuoteStatus = "pending"
	QuoteStatusPriced  QuoteStatus = "priced"
	QuoteStatusFailed  QuoteStatus = "failed"
	QuoteStatusExpired QuoteStatus = "expired"
)

func (s QuoteStatus) IsTerminal() bool {
	return s == QuoteStatusPriced || s == QuoteStatusFailed || s == QuoteStatusExpired
}

// QuoteRequest carries the caller supplied shipment and coverage parameters.
// It is immutable once submitted and travels inside quote-requested.
type QuoteRequest struct {
	CorrelationID   string          `json:"correlationId" validate:"required"`
	CommodityID     RefID           `json:"commodityId" validate:"required"`
	EquipmentTypeID RefID           `json:"equipmentTypeId" validate:"required"`
	LoadTypeID      RefID           `json:"loadTypeId,omitempty"`
	FreightClassID  RefID           `json:"freightClassId,omitempty"`
	TermsOfSaleID   RefID           `json:"termsOfSaleId,omitempty"`
	Value           decimal.Decimal `json:"value"`
	Currency        string          `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
	Origin          string          `json:"origin,omitempty" validate:"omitempty,max=128"`
	Destination     string          `json:"destination,omitempty" validate:"omitempty,max=128"`
	ShipmentDate    *time.Time      `json:"shipmentDate,omitempty"`
	ArrivalDate     *time.Time      `json:"arrivalDate,omitempty"`
}

// ReferenceIDs returns the reference entities the request points at, skipping optional
// references that were left empty.
func (r QuoteRequest) ReferenceIDs() map[EntityType]RefID {
	refs := map[EntityType]RefID{
		EntityTypeCommodity:     r.CommodityID,
		EntityTypeEquipmentType: r.EquipmentTypeID,
	}
	if !r.LoadTypeID.IsZero() {
		refs[EntityTypeLoadType] = r.LoadTypeID
	}
	if !r.FreightClassID.IsZero() {
		refs[EntityTypeFreightClass] = r.FreightClassID
	}
	if !r.TermsOfSaleID.IsZero() {
		refs[EntityTypeTermsOfSale] = r.TermsOfSaleID
	}
	return refs
}

// ProviderQuote is the pricing answer returned by the underwriting provider.
type ProviderQuote struct {
	QuoteID   string
	Premium   decimal.Decimal
	Currency  string
	ExpiresAt time.Time
}

// Quote is the provider priced answer to a QuoteRequest.
//
// Storage model (DynamoDB):
//   - PK: correlation_id (one quote per request)
//   - GSI quote_id-index: quote_id
//   - GSI status-index: status (expiry sweep)
type Quote struct {
	CorrelationID string          `json:"correlation_id"`
	QuoteID       string          `json:"quote_id,omitempty"`
	Premium       decimal.Decimal `json:"premium"`
	Currency      string          `json:"currency,omitempty"`
	ExpiresAt     time.Time       `json:"expires_at"`
	Status        QuoteStatus     `json:"status"`
	FailureReason FailureReason   `json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsExpired reports whether the quote can no longer be booked at the given instant.
func (q Quote) IsExpired(now time.Time) bool {
	if q.Status == QuoteStatusExpired {
		return true
	}
	return !q.ExpiresAt.IsZero() && !now.Before(q.ExpiresAt)
}
