package interfaces

import (
	"cargo_cover/internal/domain/entities"
	"context"
	"time"
)

// IQuoteRepository abstracts DynamoDB persistence for Quote.
//
// The orchestration must be able to:
//   - create the quote once per correlation id (replays find the existing row)
//   - resolve a quote by the provider quote id when a booking references it
//   - sweep priced quotes whose expiration has passed
//
// Lookups return a zero Quote (empty CorrelationID) when nothing matches.
// MarkExpired only moves priced quotes and returns entities.ErrVersionConflict otherwise.

type IQuoteRepository interface {
	Create(ctx context.Context, q entities.Quote) (entities.Quote, error)
	GetByCorrelationID(ctx context.Context, correlationID string) (entities.Quote, error)
	GetByQuoteID(ctx context.Context, quoteID string) (entities.Quote, error)
	ListByStatus(ctx context.Context, status entities.QuoteStatus) ([]entities.Quote, error)
	MarkExpired(ctx context.Context, correlationID string, now time.Time) (entities.Quote, error)
}
