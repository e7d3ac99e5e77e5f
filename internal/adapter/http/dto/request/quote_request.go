package request

import (
	"cargo_cover/internal/domain/entities"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// QuoteRequest is the POST /v1/quotes payload. correlationId is optional; the service
// generates one when it is missing.
type QuoteRequest struct {
	CorrelationID   string          `json:"correlationId"`
	CommodityID     entities.RefID  `json:"commodityId" binding:"required"`
	EquipmentTypeID entities.RefID  `json:"equipmentTypeId" binding:"required"`
	LoadTypeID      entities.RefID  `json:"loadTypeId"`
	FreightClassID  entities.RefID  `json:"freightClassId"`
	TermsOfSaleID   entities.RefID  `json:"termsOfSaleId"`
	Value           decimal.Decimal `json:"value"`
	Currency        string          `json:"currency"`
	Origin          string          `json:"origin"`
	Destination     string          `json:"destination"`
	ShipmentDate    *time.Time      `json:"shipmentDate"`
	ArrivalDate     *time.Time      `json:"arrivalDate"`
}

func (r QuoteRequest) ToEntity() entities.QuoteRequest {
	return entities.QuoteRequest{
		CorrelationID:   strings.TrimSpace(r.CorrelationID),
		CommodityID:     r.CommodityID,
		EquipmentTypeID: r.EquipmentTypeID,
		LoadTypeID:      r.LoadTypeID,
		FreightClassID:  r.FreightClassID,
		TermsOfSaleID:   r.TermsOfSaleID,
		Value:           r.Value,
		Currency:        strings.ToUpper(strings.TrimSpace(r.Currency)),
		Origin:          strings.TrimSpace(r.Origin),
		Destination:     strings.TrimSpace(r.Destination),
		ShipmentDate:    r.ShipmentDate,
		ArrivalDate:     r.ArrivalDate,
	}
}
