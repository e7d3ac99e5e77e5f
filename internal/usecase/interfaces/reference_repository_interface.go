package interfaces

import (
	"cargo_cover/internal/domain/entities"
	"context"
)

// IReferenceRepository persists the last synchronized set of each reference family.
// ReplaceAll swaps the whole set at once; readers see either the old or the new set.

type IReferenceRepository interface {
	ReplaceAll(ctx context.Context, entityType entities.EntityType, items []entities.ReferenceEntity) error
	ListAll(ctx context.Context, entityType entities.EntityType) ([]entities.ReferenceEntity, error)
}
