package usecase

import (
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/usecase/interfaces"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

// validateStruct runs tag validation and reports the first failing field as a ValidationError.
func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		return entities.NewValidationError(field, "failed on "+fe.Tag())
	}
	return entities.NewValidationError("", err.Error())
}

func validateQuoteRequest(v *validator.Validate, req entities.QuoteRequest) error {
	if err := validateStruct(v, req); err != nil {
		return err
	}
	if !req.Value.IsPositive() {
		return entities.NewValidationError("value", "must be positive")
	}
	if req.ShipmentDate != nil && req.ArrivalDate != nil && req.ArrivalDate.Before(*req.ShipmentDate) {
		return entities.NewValidationError("arrivalDate", "must not be before shipmentDate")
	}
	return nil
}

// checkReferences resolves every referenced entity through the cache. Unknown ids are a
// ValidationError; any other cache error is returned as-is.
func checkReferences(cache interfaces.IReferenceCache, req entities.QuoteRequest) error {
	if cache == nil {
		return nil
	}
	refs := req.ReferenceIDs()
	for _, t := range entities.AllEntityTypes() {
		id, ok := refs[t]
		if !ok {
			continue
		}
		if _, err := cache.Get(t, id); err != nil {
			if errors.Is(err, entities.ErrReferenceNotFound) {
				return entities.NewValidationError(t.ProviderKeyField(), fmt.Sprintf("unknown %s %q", t, id))
			}
			return fmt.Errorf("reference lookup %s: %w", t, err)
		}
	}
	return nil
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
