package interfaces

import (
	"cargo_cover/internal/domain/entities"
	"context"
)

// IReferenceRefresher reloads a reference family from the provider and returns the size
// of the new snapshot. Refreshes of the same family never overlap.
type IReferenceRefresher interface {
	Refresh(ctx context.Context, entityType entities.EntityType) (int, error)
}
