package usecase

import (
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/usecase/interfaces"
	"context"
)

// IAdminUseCase exposes the repair tooling.
//
//   - POST /v1/admin/reconcile/:policy_number => Reconcile()
//   - POST /v1/admin/repair => RepairAll()
//   - POST /v1/admin/quotes/expire => SweepExpiredQuotes()

type IAdminUseCase interface {
	Reconcile(ctx context.Context, policyNumber string) (entities.Reconciliation, error)
	RepairAll(ctx context.Context) (entities.RepairReport, error)
	SweepExpiredQuotes(ctx context.Context) (int, error)
}

type AdminUseCase struct {
	resolver interfaces.IReconciliationResolver
	sweeper  *QuoteExpirySweeper
}

var _ IAdminUseCase = (*AdminUseCase)(nil)

func NewAdminUseCase(resolver interfaces.IReconciliationResolver, sweeper *QuoteExpirySweeper) *AdminUseCase {
	return &AdminUseCase{resolver: resolver, sweeper: sweeper}
}

func (u *AdminUseCase) Reconcile(ctx context.Context, policyNumber string) (entities.Reconciliation, error) {
	return u.resolver.Reconcile(ctx, policyNumber)
}

func (u *AdminUseCase) RepairAll(ctx context.Context) (entities.RepairReport, error) {
	return u.resolver.RepairAll(ctx)
}

func (u *AdminUseCase) SweepExpiredQuotes(ctx context.Context) (int, error) {
	return u.sweeper.SweepExpired(ctx)
}
