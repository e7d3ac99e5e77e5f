package usecase

import (
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/usecase/interfaces"
	"context"
	"errors"
	"strings"
)

// IReferenceUseCase exposes reference lookups and explicit invalidation.
//
//   - GET /v1/reference/:entity_type/:id => Get()
//   - POST /v1/admin/reference/:entity_type/refresh => Refresh()

type IReferenceUseCase interface {
	Get(ctx context.Context, entityType, id string) (entities.ReferenceEntity, error)
	Refresh(ctx context.Context, entityType string) (int, error)
}

type ReferenceUseCase struct {
	cache     interfaces.IReferenceCache
	refresher interfaces.IReferenceRefresher
}

var _ IReferenceUseCase = (*ReferenceUseCase)(nil)

func NewReferenceUseCase(cache interfaces.IReferenceCache, refresher interfaces.IReferenceRefresher) *ReferenceUseCase {
	return &ReferenceUseCase{cache: cache, refresher: refresher}
}

func (u *ReferenceUseCase) Get(ctx context.Context, entityType, id string) (entities.ReferenceEntity, error) {
	t, ok := entities.ParseEntityType(entityType)
	if !ok {
		return entities.ReferenceEntity{}, ErrUnknownEntityType
	}
	if strings.TrimSpace(id) == "" {
		return entities.ReferenceEntity{}, ErrInvalidReferenceID
	}
	if err := ctx.Err(); err != nil {
		return entities.ReferenceEntity{}, err
	}
	return u.cache.Get(t, entities.RefID(id))
}

func (u *ReferenceUseCase) Refresh(ctx context.Context, entityType string) (int, error) {
	t, ok := entities.ParseEntityType(entityType)
	if !ok {
		return 0, ErrUnknownEntityType
	}
	if u.refresher == nil {
		return 0, errors.New("reference refresher not configured")
	}
	return u.refresher.Refresh(ctx, t)
}
