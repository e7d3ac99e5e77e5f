// Package cache holds the in-memory reference data snapshot shared by every worker.
package cache

import (
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/infrastructure/clock"
	"cargo_cover/internal/infrastructure/metrics"
	"cargo_cover/internal/usecase/interfaces"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type snapshot struct {
	items    map[entities.RefID]entities.ReferenceEntity
	loadedAt time.Time
}

// family is the state of one entity type. mu serializes refreshes only; readers go
// through current and never block.
type family struct {
	mu      sync.Mutex
	current atomic.Pointer[snapshot]
}

// ReferenceCache is a read-through cache of provider reference data.
//
// Each entity type is replaced as a whole: a refresh builds a new map and swaps the
// pointer, so a reader sees either the previous set or the next one, never a mix.
type ReferenceCache struct {
	provider interfaces.IProviderClient
	store    interfaces.IReferenceRepository
	clock    clock.Clock
	metrics  *metrics.Metrics
	logger   *zap.Logger

	families map[entities.EntityType]*family
}

var (
	_ interfaces.IReferenceCache     = (*ReferenceCache)(nil)
	_ interfaces.IReferenceRefresher = (*ReferenceCache)(nil)
)

// NewReferenceCache builds an empty cache. store may be nil, in which case refreshed
// sets are kept in memory only and Warm is a no-op.
func NewReferenceCache(provider interfaces.IProviderClient, store interfaces.IReferenceRepository, clk clock.Clock, m *metrics.Metrics, logger *zap.Logger) *ReferenceCache {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &ReferenceCache{
		provider: provider,
		store:    store,
		clock:    clk,
		metrics:  m,
		logger:   logger.Named("reference-cache"),
		families: make(map[entities.EntityType]*family, len(entities.AllEntityTypes())),
	}
	for _, t := range entities.AllEntityTypes() {
		c.families[t] = &family{}
	}
	return c
}

func (c *ReferenceCache) Get(entityType entities.EntityType, id entities.RefID) (entities.ReferenceEntity, error) {
	f, ok := c.families[entityType]
	if !ok {
		return entities.ReferenceEntity{}, fmt.Errorf("%w: unknown entity type %q", entities.ErrReferenceNotFound, entityType)
	}
	snap := f.current.Load()
	if snap == nil {
		return entities.ReferenceEntity{}, fmt.Errorf("%w: %s", entities.ErrReferenceNotLoaded, entityType)
	}
	e, ok := snap.items[id]
	if !ok {
		return entities.ReferenceEntity{}, fmt.Errorf("%w: %s %s", entities.ErrReferenceNotFound, entityType, id)
	}
	return e, nil
}

// Refresh replaces the whole set of entityType with the provider listing and returns its size.
func (c *ReferenceCache) Refresh(ctx context.Context, entityType entities.EntityType) (int, error) {
	f, ok := c.families[entityType]
	if !ok {
		return 0, fmt.Errorf("refresh: unknown entity type %q", entityType)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	n, err := c.refreshLocked(ctx, entityType, f)
	c.metrics.ReferenceRefreshed(string(entityType), n, err)
	return n, err
}

func (c *ReferenceCache) refreshLocked(ctx context.Context, entityType entities.EntityType, f *family) (int, error) {
	log := c.logger.With(zap.String("entity_type", string(entityType)))

	listed, err := c.provider.ListReference(ctx, entityType)
	if err != nil {
		log.Warn("reference listing failed; keeping previous snapshot", zap.Error(err))
		return 0, fmt.Errorf("list %s: %w", entityType, err)
	}

	items, skipped := keyByProviderID(entityType, listed)
	if skipped > 0 {
		log.Warn("reference rows without provider id skipped", zap.Int("skipped", skipped), zap.String("key_field", entityType.ProviderKeyField()))
	}

	if c.store != nil {
		if err := c.store.ReplaceAll(ctx, entityType, sortedValues(items)); err != nil {
			log.Error("reference persistence failed; keeping previous snapshot", zap.Error(err))
			return 0, entities.NewPersistenceError("replace "+string(entityType), err)
		}
	}

	f.current.Store(&snapshot{items: items, loadedAt: c.clock.Now()})
	log.Info("reference snapshot swapped", zap.Int("size", len(items)))
	return len(items), nil
}

// RefreshAll refreshes every entity type; one failing type does not stop the others.
func (c *ReferenceCache) RefreshAll(ctx context.Context) error {
	var errs []error
	for _, t := range entities.AllEntityTypes() {
		if _, err := c.Refresh(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Invalidate forces a reload of entityType ahead of the schedule.
func (c *ReferenceCache) Invalidate(ctx context.Context, entityType entities.EntityType) error {
	_, err := c.Refresh(ctx, entityType)
	return err
}

// Warm loads the last persisted generation of every type that is not loaded yet, so a
// restarted worker can validate requests before the provider answers.
func (c *ReferenceCache) Warm(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	var errs []error
	for _, t := range entities.AllEntityTypes() {
		f := c.families[t]
		f.mu.Lock()
		if f.current.Load() == nil {
			stored, err := c.store.ListAll(ctx, t)
			switch {
			case err != nil:
				errs = append(errs, fmt.Errorf("warm %s: %w", t, err))
			case len(stored) > 0:
				items, _ := keyByProviderID(t, stored)
				f.current.Store(&snapshot{items: items, loadedAt: c.clock.Now()})
				c.logger.Info("reference snapshot warmed", zap.String("entity_type", string(t)), zap.Int("size", len(items)))
			}
		}
		f.mu.Unlock()
	}
	return errors.Join(errs...)
}

// Snapshot lists the current set of entityType ordered by id; nil when never loaded.
func (c *ReferenceCache) Snapshot(entityType entities.EntityType) []entities.ReferenceEntity {
	f, ok := c.families[entityType]
	if !ok {
		return nil
	}
	snap := f.current.Load()
	if snap == nil {
		return nil
	}
	return sortedValues(snap.items)
}

// LoadedAt reports when entityType was last swapped in.
func (c *ReferenceCache) LoadedAt(entityType entities.EntityType) (time.Time, bool) {
	f, ok := c.families[entityType]
	if !ok {
		return time.Time{}, false
	}
	snap := f.current.Load()
	if snap == nil {
		return time.Time{}, false
	}
	return snap.loadedAt, true
}

func keyByProviderID(entityType entities.EntityType, listed []entities.ReferenceEntity) (map[entities.RefID]entities.ReferenceEntity, int) {
	items := make(map[entities.RefID]entities.ReferenceEntity, len(listed))
	skipped := 0
	for _, e := range listed {
		id := e.ID
		if id.IsZero() {
			skipped++
			continue
		}
		e.Type = entityType
		items[id] = e
	}
	return items, skipped
}

func sortedValues(items map[entities.RefID]entities.ReferenceEntity) []entities.ReferenceEntity {
	out := make([]entities.ReferenceEntity, 0, len(items))
	for _, e := range items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
