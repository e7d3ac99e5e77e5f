package usecase

import (
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/infrastructure/clock"
	"cargo_cover/internal/usecase/interfaces"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const defaultRepairPageSize = 100

type ReconciliationResolverConfig struct {
	Numbering entities.NumberingConvention
	PageSize  int
}

// ReconciliationResolver treats Certificate.BookingID as a cache of the business-key join
// and rewrites it whenever it stops matching the booking that owns the policy number.
//
// Writes for one policy number are serialized by the key locker; certificate rewrites are
// additionally guarded by the stored version.
type ReconciliationResolver struct {
	bookings     interfaces.IBookingRepository
	certificates interfaces.ICertificateRepository
	provider     interfaces.IProviderClient
	locker       interfaces.IKeyLocker
	clock        clock.Clock
	numbering    entities.NumberingConvention
	pageSize     int
	logger       *zap.Logger
}

var _ interfaces.IReconciliationResolver = (*ReconciliationResolver)(nil)

func NewReconciliationResolver(
	bookings interfaces.IBookingRepository,
	certificates interfaces.ICertificateRepository,
	provider interfaces.IProviderClient,
	locker interfaces.IKeyLocker,
	clk clock.Clock,
	cfg ReconciliationResolverConfig,
	logger *zap.Logger,
) *ReconciliationResolver {
	if cfg.Numbering == (entities.NumberingConvention{}) {
		cfg.Numbering = entities.DefaultNumberingConvention()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultRepairPageSize
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconciliationResolver{
		bookings:     bookings,
		certificates: certificates,
		provider:     provider,
		locker:       locker,
		clock:        clk,
		numbering:    cfg.Numbering,
		pageSize:     cfg.PageSize,
		logger:       logger.Named("reconcile"),
	}
}

func policyLockKey(policyNumber string) string {
	return "policy:" + policyNumber
}

func (r *ReconciliationResolver) Reconcile(ctx context.Context, policyNumber string) (entities.Reconciliation, error) {
	policyNumber = strings.TrimSpace(policyNumber)
	if policyNumber == "" {
		return entities.Reconciliation{}, ErrInvalidPolicyNumber
	}

	unlock, err := r.locker.Lock(ctx, policyLockKey(policyNumber))
	if err != nil {
		return entities.Reconciliation{}, fmt.Errorf("lock policy %s: %w", policyNumber, err)
	}
	defer unlock()

	return r.reconcileLocked(ctx, policyNumber)
}

func (r *ReconciliationResolver) reconcileLocked(ctx context.Context, policyNumber string) (entities.Reconciliation, error) {
	log := r.logger.With(zap.String("policy_number", policyNumber))
	certificateNumber := r.numbering.CertificateNumberFor(policyNumber)

	owners, err := r.bookings.ListByPolicyNumber(ctx, policyNumber)
	if err != nil {
		return entities.Reconciliation{}, entities.NewPersistenceError("list bookings by policy", err)
	}
	switch {
	case len(owners) == 0:
		return entities.Reconciliation{}, fmt.Errorf("%w: policy %s", ErrBookingNotFound, policyNumber)
	case len(owners) > 1:
		ids := make([]string, 0, len(owners))
		for _, b := range owners {
			ids = append(ids, b.ID)
		}
		drift := &entities.ReconciliationDriftError{
			PolicyNumber:      policyNumber,
			CertificateNumber: certificateNumber,
			BookingIDs:        ids,
			Reason:            fmt.Sprintf("%d bookings claim the policy number", len(owners)),
		}
		return entities.Reconciliation{}, r.flag(ctx, drift, log)
	}
	booking := owners[0]

	// One re-read is allowed when a concurrent writer wins the create or the version check.
	for attempt := 0; attempt < 2; attempt++ {
		cert, err := r.certificates.GetByNumber(ctx, certificateNumber)
		if err != nil {
			return entities.Reconciliation{}, entities.NewPersistenceError("load certificate", err)
		}

		if cert.CertificateNumber == "" {
			created, err := r.createFromProvider(ctx, booking, certificateNumber, log)
			if errors.Is(err, entities.ErrAlreadyExists) {
				log.Info("certificate created concurrently; re-reading", zap.String("certificate_number", certificateNumber))
				continue
			}
			var drift *entities.ReconciliationDriftError
			if errors.As(err, &drift) {
				return entities.Reconciliation{}, r.flag(ctx, drift, log)
			}
			if err != nil {
				return entities.Reconciliation{}, err
			}
			return entities.Reconciliation{Booking: booking, Certificate: created, Action: entities.ReconcileCreated}, nil
		}

		if cert.PolicyNumber != "" && cert.PolicyNumber != policyNumber {
			drift := &entities.ReconciliationDriftError{
				PolicyNumber:      policyNumber,
				CertificateNumber: cert.CertificateNumber,
				BookingIDs:        []string{booking.ID},
				Reason:            fmt.Sprintf("certificate was issued for policy %s", cert.PolicyNumber),
			}
			return entities.Reconciliation{}, r.flag(ctx, drift, log)
		}

		if cert.BookingID == booking.ID {
			return entities.Reconciliation{Booking: booking, Certificate: cert, Action: entities.ReconcileUnchanged}, nil
		}

		updated, err := r.certificates.UpdateLink(ctx, cert.CertificateNumber, booking.ID, cert.Version)
		if errors.Is(err, entities.ErrVersionConflict) {
			log.Info("certificate changed concurrently; re-reading", zap.String("certificate_number", cert.CertificateNumber))
			continue
		}
		if err != nil {
			return entities.Reconciliation{}, entities.NewPersistenceError("update certificate link", err)
		}
		log.Warn("certificate link repaired",
			zap.String("certificate_number", cert.CertificateNumber),
			zap.String("stale_booking_id", cert.BookingID),
			zap.String("booking_id", booking.ID))
		return entities.Reconciliation{Booking: booking, Certificate: updated, Action: entities.ReconcileRelinked}, nil
	}

	return entities.Reconciliation{}, entities.NewPersistenceError("reconcile "+policyNumber, entities.ErrVersionConflict)
}

func (r *ReconciliationResolver) createFromProvider(ctx context.Context, booking entities.Booking, certificateNumber string, log *zap.Logger) (entities.Certificate, error) {
	issued, err := r.provider.FetchCertificate(ctx, booking.PolicyNumber)
	if err != nil {
		return entities.Certificate{}, fmt.Errorf("fetch certificate for %s: %w", booking.PolicyNumber, err)
	}

	number := strings.TrimSpace(issued.CertificateNumber)
	if number == "" {
		number = certificateNumber
	}
	if number != certificateNumber {
		return entities.Certificate{}, &entities.ReconciliationDriftError{
			PolicyNumber:      booking.PolicyNumber,
			CertificateNumber: number,
			BookingIDs:        []string{booking.ID},
			Reason:            fmt.Sprintf("provider issued certificate %s, expected %s", number, certificateNumber),
		}
	}

	now := r.clock.Now()
	cert := entities.Certificate{
		CertificateNumber: number,
		BookingID:         booking.ID,
		PolicyNumber:      booking.PolicyNumber,
		DocumentURL:       issued.DocumentURL,
		IssuedAt:          issued.IssuedAt,
		Version:           1,
		UpdatedAt:         now,
	}
	if cert.IssuedAt.IsZero() {
		cert.IssuedAt = now
	}

	created, err := r.certificates.Create(ctx, cert)
	if errors.Is(err, entities.ErrAlreadyExists) {
		return entities.Certificate{}, err
	}
	if err != nil {
		return entities.Certificate{}, entities.NewPersistenceError("create certificate", err)
	}
	log.Info("certificate stored", zap.String("certificate_number", number), zap.String("booking_id", booking.ID))
	return created, nil
}

// flag marks the stored certificate for manual review and returns the drift error.
func (r *ReconciliationResolver) flag(ctx context.Context, drift *entities.ReconciliationDriftError, log *zap.Logger) error {
	log.Error("reconciliation drift",
		zap.String("certificate_number", drift.CertificateNumber),
		zap.Strings("booking_ids", drift.BookingIDs),
		zap.String("reason", drift.Reason))

	cert, err := r.certificates.GetByNumber(ctx, drift.CertificateNumber)
	if err != nil {
		return entities.NewPersistenceError("load certificate", err)
	}
	if cert.CertificateNumber == "" {
		return drift
	}
	if err := r.certificates.FlagForReview(ctx, cert.CertificateNumber, drift.Reason); err != nil {
		return entities.NewPersistenceError("flag certificate", err)
	}
	return drift
}

// RepairAll reconciles the policy behind every stored certificate, then every confirmed
// booking whose certificate was never stored. Failures are counted and do not stop the
// pass; only context cancellation does.
func (r *ReconciliationResolver) RepairAll(ctx context.Context) (entities.RepairReport, error) {
	var report entities.RepairReport
	cursor := ""
	for {
		page, next, err := r.certificates.List(ctx, cursor, r.pageSize)
		if err != nil {
			return report, entities.NewPersistenceError("list certificates", err)
		}

		for _, cert := range page {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			report.Scanned++
			r.repairOne(ctx, cert, &report)
		}

		if next == "" {
			break
		}
		cursor = next
	}

	if err := r.repairUncertified(ctx, &report); err != nil {
		return report, err
	}

	r.logger.Info("repair pass finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("bookings_scanned", report.BookingsScanned),
		zap.Int("created", report.Created),
		zap.Int("relinked", report.Relinked),
		zap.Int("unchanged", report.Unchanged),
		zap.Int("drifted", report.Drifted),
		zap.Int("failed", report.Failed))
	return report, nil
}

// repairUncertified stores the certificate of confirmed bookings that have none, e.g.
// when the provider failed to return it while the booking was being confirmed.
func (r *ReconciliationResolver) repairUncertified(ctx context.Context, report *entities.RepairReport) error {
	cursor := ""
	for {
		page, next, err := r.bookings.List(ctx, cursor, r.pageSize)
		if err != nil {
			return entities.NewPersistenceError("list bookings", err)
		}

		for _, b := range page {
			if err := ctx.Err(); err != nil {
				return err
			}
			if b.Status != entities.BookingStatusConfirmed || b.PolicyNumber == "" {
				continue
			}
			report.BookingsScanned++

			certificateNumber := r.numbering.CertificateNumberFor(b.PolicyNumber)
			cert, err := r.certificates.GetByNumber(ctx, certificateNumber)
			if err != nil {
				report.Failed++
				r.logger.Error("repair failed", zap.String("policy_number", b.PolicyNumber), zap.Error(err))
				continue
			}
			if cert.CertificateNumber != "" {
				continue
			}

			rec, err := r.Reconcile(ctx, b.PolicyNumber)
			var drift *entities.ReconciliationDriftError
			switch {
			case err == nil:
				report.Add(rec.Action)
			case errors.As(err, &drift):
				report.Drifted++
			default:
				report.Failed++
				r.logger.Error("repair failed", zap.String("policy_number", b.PolicyNumber), zap.Error(err))
			}
		}

		if next == "" {
			return nil
		}
		cursor = next
	}
}

func (r *ReconciliationResolver) repairOne(ctx context.Context, cert entities.Certificate, report *entities.RepairReport) {
	policyNumber := r.numbering.PolicyNumberFor(cert.CertificateNumber)
	rec, err := r.Reconcile(ctx, policyNumber)
	if err == nil {
		report.Add(rec.Action)
		return
	}

	var drift *entities.ReconciliationDriftError
	switch {
	case errors.As(err, &drift):
		report.Drifted++
	case errors.Is(err, ErrBookingNotFound):
		report.Drifted++
		reason := "no booking holds policy " + policyNumber
		r.logger.Error("orphan certificate", zap.String("certificate_number", cert.CertificateNumber), zap.String("reason", reason))
		if !cert.NeedsReview {
			if ferr := r.certificates.FlagForReview(ctx, cert.CertificateNumber, reason); ferr != nil {
				r.logger.Error("flag orphan certificate failed", zap.String("certificate_number", cert.CertificateNumber), zap.Error(ferr))
			}
		}
	default:
		report.Failed++
		r.logger.Error("repair failed", zap.String("certificate_number", cert.CertificateNumber), zap.Error(err))
	}
}
