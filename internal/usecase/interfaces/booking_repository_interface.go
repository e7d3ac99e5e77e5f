package interfaces

import (
	"cargo_cover/internal/domain/entities"
	"context"
)

// IBookingRepository abstracts DynamoDB persistence for Booking.
//
// Bookings are looked up by business key (policy number) for reconciliation and by
// correlation id to detect replayed booking requests.

type IBookingRepository interface {
	Create(ctx context.Context, b entities.Booking) (entities.Booking, error)
	GetByID(ctx context.Context, id string) (entities.Booking, error)
	GetByCorrelationID(ctx context.Context, correlationID string) (entities.Booking, error)
	ListByPolicyNumber(ctx context.Context, policyNumber string) ([]entities.Booking, error)
	List(ctx context.Context, cursor string, limit int) ([]entities.Booking, string, error)
}
