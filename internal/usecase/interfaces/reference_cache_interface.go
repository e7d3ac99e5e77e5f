package interfaces

import "cargo_cover/internal/domain/entities"

// IReferenceCache answers reference lookups from the in-memory snapshot.
type IReferenceCache interface {
	Get(entityType entities.EntityType, id entities.RefID) (entities.ReferenceEntity, error)
}
