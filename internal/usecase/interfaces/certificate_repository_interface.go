package interfaces

import (
	"cargo_cover/internal/domain/entities"
	"context"
)

// ICertificateRepository abstracts DynamoDB persistence for Certificate.
//
// UpdateLink is a conditional write on version and returns entities.ErrVersionConflict
// when another writer got there first. Create returns entities.ErrAlreadyExists.

type ICertificateRepository interface {
	Create(ctx context.Context, c entities.Certificate) (entities.Certificate, error)
	GetByNumber(ctx context.Context, certificateNumber string) (entities.Certificate, error)
	UpdateLink(ctx context.Context, certificateNumber, bookingID string, expectedVersion int64) (entities.Certificate, error)
	FlagForReview(ctx context.Context, certificateNumber, reason string) error
	List(ctx context.Context, cursor string, limit int) ([]entities.Certificate, string, error)
}
