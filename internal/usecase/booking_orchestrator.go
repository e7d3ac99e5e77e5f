package usecase

import (
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/infrastructure/clock"
	"cargo_cover/internal/usecase/interfaces"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingState is a step of the booking state machine.
//
//	received -> validating -> confirming -> reconciling -> confirmed
//	received -> validating -> rejected
//	... -> failed
type BookingState string

const (
	BookingStateReceived    BookingState = "received"
	BookingStateValidating  BookingState = "validating"
	BookingStateConfirming  BookingState = "confirming"
	BookingStateReconciling BookingState = "reconciling"
	BookingStateConfirmed   BookingState = "confirmed"
	BookingStateRejected    BookingState = "rejected"
	BookingStateFailed      BookingState = "failed"
)

// BookingResult is the path a booking request took and the outcome to publish.
type BookingResult struct {
	States      []BookingState
	Booking     entities.Booking
	Certificate entities.Certificate
	Message     entities.BookingConfirmedMessage
}

func (r BookingResult) Final() BookingState {
	if len(r.States) == 0 {
		return ""
	}
	return r.States[len(r.States)-1]
}

func (r *BookingResult) enter(s BookingState) {
	r.States = append(r.States, s)
}

type BookingOrchestratorConfig struct {
	ProviderDeadline time.Duration
}

func DefaultBookingOrchestratorConfig() BookingOrchestratorConfig {
	return BookingOrchestratorConfig{ProviderDeadline: 30 * time.Second}
}

// BookingOrchestrator consumes booking-requested, binds coverage with the provider,
// reconciles the certificate and publishes booking-confirmed.
type BookingOrchestrator struct {
	quotes    interfaces.IQuoteRepository
	bookings  interfaces.IBookingRepository
	provider  interfaces.IProviderClient
	resolver  interfaces.IReconciliationResolver
	publisher interfaces.IPublisher
	clock     clock.Clock
	validate  *validator.Validate
	cfg       BookingOrchestratorConfig
	logger    *zap.Logger
}

func NewBookingOrchestrator(
	quotes interfaces.IQuoteRepository,
	bookings interfaces.IBookingRepository,
	provider interfaces.IProviderClient,
	resolver interfaces.IReconciliationResolver,
	publisher interfaces.IPublisher,
	clk clock.Clock,
	cfg BookingOrchestratorConfig,
	logger *zap.Logger,
) *BookingOrchestrator {
	if cfg.ProviderDeadline <= 0 {
		cfg.ProviderDeadline = DefaultBookingOrchestratorConfig().ProviderDeadline
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingOrchestrator{
		quotes:    quotes,
		bookings:  bookings,
		provider:  provider,
		resolver:  resolver,
		publisher: publisher,
		clock:     clk,
		validate:  newValidator(),
		cfg:       cfg,
		logger:    logger.Named("booking"),
	}
}

// HandleBookingRequested is the booking-requested consumer.
func (o *BookingOrchestrator) HandleBookingRequested(ctx context.Context, body []byte) error {
	var msg entities.BookingRequestedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		o.logger.Warn("booking-requested payload undecodable", zap.Int("payload_len", len(body)), zap.Error(err))
		return fmt.Errorf("%w: decode booking-requested: %v", interfaces.ErrUnprocessable, err)
	}

	res, err := o.Process(ctx, msg)
	if err != nil {
		o.logger.Error("booking request not completed",
			zap.String("correlation_id", msg.CorrelationID),
			zap.Strings("states", statesToStrings(res.States)),
			zap.Error(err))
		return err
	}
	return publishJSON(ctx, o.publisher, entities.ChannelBookingConfirmed, res.Message)
}

// Process walks the booking state machine. A returned error means the message must be
// redelivered (storage failures, lock timeouts); every other path, provider failures
// included, ends with res.Message set.
func (o *BookingOrchestrator) Process(ctx context.Context, msg entities.BookingRequestedMessage) (BookingResult, error) {
	var res BookingResult
	res.enter(BookingStateReceived)

	req := entities.BookingRequest{
		CorrelationID: strings.TrimSpace(msg.CorrelationID),
		QuoteID:       strings.TrimSpace(msg.QuoteID),
		Payload:       msg.Payload,
	}
	if req.CorrelationID == "" {
		return res, fmt.Errorf("%w: %v", interfaces.ErrUnprocessable, ErrInvalidCorrelationID)
	}
	log := o.logger.With(zap.String("correlation_id", req.CorrelationID), zap.String("quote_id", req.QuoteID))
	log.Info("booking request received")

	res.enter(BookingStateValidating)

	// A redelivery after the provider already bound the policy resumes at reconciliation.
	prior, err := o.bookings.GetByCorrelationID(ctx, req.CorrelationID)
	if err != nil {
		return res, entities.NewPersistenceError("load booking", err)
	}
	if prior.ID != "" {
		log.Info("booking already bound; resuming reconciliation", zap.String("policy_number", prior.PolicyNumber))
		res.Booking = prior
		return o.reconcile(ctx, res, log)
	}

	quote, reason, err := o.validateRequest(ctx, req)
	if err != nil {
		return res, err
	}
	if reason != "" {
		log.Warn("booking request rejected", zap.String("reason", string(reason)))
		res.enter(BookingStateRejected)
		res.Message = o.failure(req.CorrelationID, reason)
		return res, nil
	}

	res.enter(BookingStateConfirming)
	providerCtx, cancel := context.WithTimeout(ctx, o.cfg.ProviderDeadline)
	bound, err := o.provider.ConfirmBooking(providerCtx, req, quote)
	deadlineHit := errors.Is(providerCtx.Err(), context.DeadlineExceeded)
	cancel()
	if err == nil && strings.TrimSpace(bound.PolicyNumber) == "" {
		err = &entities.ProviderError{Op: "confirm booking", Message: "empty policy number"}
	}
	if err != nil {
		reason := entities.FailureReasonFor(err)
		if deadlineHit {
			reason = entities.FailureProviderTimeout
		}
		log.Warn("provider booking failed", zap.String("reason", string(reason)), zap.Error(err))
		res.enter(BookingStateFailed)
		res.Message = o.failure(req.CorrelationID, reason)
		return res, nil
	}

	now := o.clock.Now()
	b := entities.Booking{
		ID:            uuid.NewString(),
		CorrelationID: req.CorrelationID,
		PolicyNumber:  strings.TrimSpace(bound.PolicyNumber),
		QuoteID:       quote.QuoteID,
		Status:        entities.BookingStatusConfirmed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	created, err := o.bookings.Create(ctx, b)
	if err != nil {
		return res, entities.NewPersistenceError("create booking", err)
	}
	res.Booking = created
	log.Info("booking bound", zap.String("policy_number", created.PolicyNumber), zap.String("booking_id", created.ID))

	return o.reconcile(ctx, res, log)
}

// validateRequest returns the referenced quote, or the rejection reason.
func (o *BookingOrchestrator) validateRequest(ctx context.Context, req entities.BookingRequest) (entities.Quote, entities.FailureReason, error) {
	if err := validateStruct(o.validate, req); err != nil {
		return entities.Quote{}, entities.FailureValidation, nil
	}

	quote, err := o.quotes.GetByQuoteID(ctx, req.QuoteID)
	if err != nil {
		return entities.Quote{}, "", entities.NewPersistenceError("load quote", err)
	}
	switch {
	case quote.CorrelationID == "":
		return entities.Quote{}, entities.FailureQuoteNotFound, nil
	case quote.CorrelationID != req.CorrelationID:
		return entities.Quote{}, entities.FailureValidation, nil
	case quote.Status == entities.QuoteStatusExpired:
		return entities.Quote{}, entities.FailureQuoteExpired, nil
	case quote.Status != entities.QuoteStatusPriced:
		return entities.Quote{}, entities.FailureQuoteNotPriced, nil
	case quote.IsExpired(o.clock.Now()):
		return entities.Quote{}, entities.FailureQuoteExpired, nil
	}
	return quote, "", nil
}

func (o *BookingOrchestrator) reconcile(ctx context.Context, res BookingResult, log *zap.Logger) (BookingResult, error) {
	res.enter(BookingStateReconciling)
	rec, err := o.resolver.Reconcile(ctx, res.Booking.PolicyNumber)
	if err != nil {
		var drift *entities.ReconciliationDriftError
		if errors.As(err, &drift) {
			log.Error("booking reconciliation drifted; flagged for review",
				zap.String("policy_number", res.Booking.PolicyNumber),
				zap.Strings("booking_ids", drift.BookingIDs),
				zap.String("reason", drift.Reason))
			res.enter(BookingStateFailed)
			msg := o.failure(res.Booking.CorrelationID, entities.FailureReconciliationDrift)
			msg.PolicyNumber = res.Booking.PolicyNumber
			res.Message = msg
			return res, nil
		}
		// The policy is bound but the provider refused the certificate; the repair pass
		// stores it later.
		var provErr *entities.ProviderError
		if errors.As(err, &provErr) {
			reason := entities.FailureReasonFor(err)
			log.Error("certificate not available; booking left for repair",
				zap.String("policy_number", res.Booking.PolicyNumber),
				zap.String("reason", string(reason)),
				zap.Error(err))
			res.enter(BookingStateFailed)
			msg := o.failure(res.Booking.CorrelationID, reason)
			msg.PolicyNumber = res.Booking.PolicyNumber
			res.Message = msg
			return res, nil
		}
		return res, fmt.Errorf("reconcile %s: %w", res.Booking.PolicyNumber, err)
	}

	res.Certificate = rec.Certificate
	res.enter(BookingStateConfirmed)
	res.Message = entities.BookingConfirmedMessage{
		CorrelationID:     res.Booking.CorrelationID,
		PolicyNumber:      res.Booking.PolicyNumber,
		CertificateNumber: rec.Certificate.CertificateNumber,
		Status:            entities.BookingStatusConfirmed,
	}
	log.Info("booking confirmed",
		zap.String("policy_number", res.Booking.PolicyNumber),
		zap.String("certificate_number", rec.Certificate.CertificateNumber),
		zap.String("action", string(rec.Action)))
	return res, nil
}

func (o *BookingOrchestrator) failure(correlationID string, reason entities.FailureReason) entities.BookingConfirmedMessage {
	return entities.BookingConfirmedMessage{
		CorrelationID: correlationID,
		Status:        entities.BookingStatusFailed,
		FailureReason: reason,
	}
}

func statesToStrings(states []BookingState) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}
