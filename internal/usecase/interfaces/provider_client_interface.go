package interfaces

import (
	"cargo_cover/internal/domain/entities"
	"context"
)

// IProviderClient abstracts the external underwriting provider.
//
// Implementations retry transient failures themselves and surface either a result or an
// *entities.ProviderError. Quote and booking calls carry the correlation id so a replayed
// call is recognized by the provider.
type IProviderClient interface {
	RequestQuote(ctx context.Context, req entities.QuoteRequest) (entities.ProviderQuote, error)
	ConfirmBooking(ctx context.Context, req entities.BookingRequest, quote entities.Quote) (entities.ProviderBooking, error)
	FetchCertificate(ctx context.Context, policyNumber string) (entities.Certificate, error)
	ListReference(ctx context.Context, entityType entities.EntityType) ([]entities.ReferenceEntity, error)
}
