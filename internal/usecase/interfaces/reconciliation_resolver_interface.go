package interfaces

import (
	"cargo_cover/internal/domain/entities"
	"context"
)

// IReconciliationResolver joins a policy's Booking and Certificate by business key and
// repairs the cached certificate link when it drifted.
//
// Reconcile returns *entities.ReconciliationDriftError for mismatches it must not fix
// on its own. RepairAll reapplies Reconcile to every stored certificate.

type IReconciliationResolver interface {
	Reconcile(ctx context.Context, policyNumber string) (entities.Reconciliation, error)
	RepairAll(ctx context.Context) (entities.RepairReport, error)
}
