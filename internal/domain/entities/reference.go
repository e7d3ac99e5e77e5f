package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// EntityType names a family of provider-owned support data.
type EntityType string

const (
	EntityTypeCommodity     EntityType = "commodity"
	EntityTypeEquipmentType EntityType = "equipment_type"
	EntityTypeLoadType      EntityType = "load_type"
	EntityTypeFreightClass  EntityType = "freight_class"
	EntityTypeTermsOfSale   EntityType = "terms_of_sale"
)

// AllEntityTypes lists every reference family in refresh order.
func AllEntityTypes() []EntityType {
	return []EntityType{
		EntityTypeCommodity,
		EntityTypeEquipmentType,
		EntityTypeLoadType,
		EntityTypeFreightClass,
		EntityTypeTermsOfSale,
	}
}

// ParseEntityType accepts the canonical name and the plural/kebab forms used in URLs.
func ParseEntityType(raw string) (EntityType, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	t, ok := entityTypeAliases[s]
	return t, ok
}

var entityTypeAliases = map[string]EntityType{
	"commodity":       EntityTypeCommodity,
	"commodities":     EntityTypeCommodity,
	"equipment_type":  EntityTypeEquipmentType,
	"equipment_types": EntityTypeEquipmentType,
	"load_type":       EntityTypeLoadType,
	"load_types":      EntityTypeLoadType,
	"freight_class":   EntityTypeFreightClass,
	"freight_classes": EntityTypeFreightClass,
	"terms_of_sale":   EntityTypeTermsOfSale,
	"terms_of_sales":  EntityTypeTermsOfSale,
}

// ProviderKeyField is the attribute of a provider listing row that identifies the entity.
// The provider id is the only key; listing rows carry no local surrogate id.
func (t EntityType) ProviderKeyField() string {
	switch t {
	case EntityTypeCommodity:
		return "commodityId"
	case EntityTypeEquipmentType:
		return "equipmentTypeId"
	case EntityTypeLoadType:
		return "loadTypeId"
	case EntityTypeFreightClass:
		return "freightClassId"
	case EntityTypeTermsOfSale:
		return "termsOfSaleId"
	default:
		return "id"
	}
}

// RefID is a provider-issued identifier. Some families are integer keyed on the provider
// side, so JSON numbers are accepted and kept digit for digit. Strings are kept verbatim.
type RefID string

func (r RefID) String() string { return string(r) }

func (r RefID) IsZero() bool { return strings.TrimSpace(string(r)) == "" }

func (r *RefID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = RefID(s)
		return nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("reference id must be a string or a number: %w", err)
	}
	*r = RefID(n.String())
	return nil
}

// ReferenceEntity is a read-only support row (commodity, equipment type, ...).
//
// Storage model (DynamoDB):
//   - PK: entity_key (<type>#<generation>)
//   - SK: id (provider id, verbatim)
type ReferenceEntity struct {
	Type       EntityType        `json:"type"`
	ID         RefID             `json:"id"`
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
}
