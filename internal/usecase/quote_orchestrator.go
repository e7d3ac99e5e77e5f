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
	"go.uber.org/zap"
)

// QuoteOrchestratorConfig bounds the provider call and sets the fallback quote lifetime.
type QuoteOrchestratorConfig struct {
	ProviderDeadline time.Duration
	DefaultQuoteTTL  time.Duration
}

func DefaultQuoteOrchestratorConfig() QuoteOrchestratorConfig {
	return QuoteOrchestratorConfig{
		ProviderDeadline: 20 * time.Second,
		DefaultQuoteTTL:  72 * time.Hour,
	}
}

// QuoteOrchestrator consumes quote-requested, prices the request with the provider,
// persists the quote and publishes quote-received.
//
// Every decoded request ends in exactly one quote-received message (priced or failed).
// Only persistence and publish failures are returned, so the transport requeues them.
type QuoteOrchestrator struct {
	quotes     interfaces.IQuoteRepository
	provider   interfaces.IProviderClient
	references interfaces.IReferenceCache
	refresher  interfaces.IReferenceRefresher
	publisher  interfaces.IPublisher
	clock      clock.Clock
	validate   *validator.Validate
	cfg        QuoteOrchestratorConfig
	logger     *zap.Logger
}

func NewQuoteOrchestrator(
	quotes interfaces.IQuoteRepository,
	provider interfaces.IProviderClient,
	references interfaces.IReferenceCache,
	refresher interfaces.IReferenceRefresher,
	publisher interfaces.IPublisher,
	clk clock.Clock,
	cfg QuoteOrchestratorConfig,
	logger *zap.Logger,
) *QuoteOrchestrator {
	if cfg.ProviderDeadline <= 0 {
		cfg.ProviderDeadline = DefaultQuoteOrchestratorConfig().ProviderDeadline
	}
	if cfg.DefaultQuoteTTL <= 0 {
		cfg.DefaultQuoteTTL = DefaultQuoteOrchestratorConfig().DefaultQuoteTTL
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteOrchestrator{
		quotes:     quotes,
		provider:   provider,
		references: references,
		refresher:  refresher,
		publisher:  publisher,
		clock:      clk,
		validate:   newValidator(),
		cfg:        cfg,
		logger:     logger.Named("quote"),
	}
}

// HandleQuoteRequested is the quote-requested consumer.
func (o *QuoteOrchestrator) HandleQuoteRequested(ctx context.Context, body []byte) error {
	var msg entities.QuoteRequestedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		o.logger.Warn("quote-requested payload undecodable", zap.Int("payload_len", len(body)), zap.Error(err))
		return fmt.Errorf("%w: decode quote-requested: %v", interfaces.ErrUnprocessable, err)
	}

	out, err := o.Process(ctx, msg)
	if err != nil {
		o.logger.Error("quote request not completed", zap.String("correlation_id", msg.CorrelationID), zap.Error(err))
		return err
	}
	return publishJSON(ctx, o.publisher, entities.ChannelQuoteReceived, out)
}

// Process runs the quote state transition and returns the outcome to publish.
func (o *QuoteOrchestrator) Process(ctx context.Context, msg entities.QuoteRequestedMessage) (entities.QuoteReceivedMessage, error) {
	correlationID := strings.TrimSpace(msg.CorrelationID)
	if correlationID == "" {
		correlationID = strings.TrimSpace(msg.Request.CorrelationID)
	}
	if correlationID == "" {
		return entities.QuoteReceivedMessage{}, fmt.Errorf("%w: %v", interfaces.ErrUnprocessable, ErrInvalidCorrelationID)
	}
	req := msg.Request
	req.CorrelationID = correlationID
	log := o.logger.With(zap.String("correlation_id", correlationID))
	log.Info("quote request received")

	existing, err := o.quotes.GetByCorrelationID(ctx, correlationID)
	if err != nil {
		return entities.QuoteReceivedMessage{}, entities.NewPersistenceError("load quote", err)
	}
	if existing.CorrelationID != "" && existing.Status.IsTerminal() {
		log.Info("quote already settled; replaying outcome", zap.String("status", string(existing.Status)))
		return entities.QuoteReceivedFrom(existing), nil
	}

	if err := o.validateRequest(ctx, req, log); err != nil {
		var ve *entities.ValidationError
		if errors.As(err, &ve) {
			log.Warn("quote request rejected", zap.Error(err))
			return o.fail(ctx, req, entities.FailureValidation)
		}
		return entities.QuoteReceivedMessage{}, err
	}

	providerCtx, cancel := context.WithTimeout(ctx, o.cfg.ProviderDeadline)
	priced, err := o.provider.RequestQuote(providerCtx, req)
	deadlineHit := errors.Is(providerCtx.Err(), context.DeadlineExceeded)
	cancel()
	if err != nil {
		reason := entities.FailureReasonFor(err)
		if deadlineHit {
			reason = entities.FailureProviderTimeout
		}
		log.Warn("provider quote failed", zap.String("reason", string(reason)), zap.Error(err))
		return o.fail(ctx, req, reason)
	}
	if strings.TrimSpace(priced.QuoteID) == "" || !priced.Premium.IsPositive() {
		log.Warn("provider returned an incomplete quote", zap.String("quote_id", priced.QuoteID))
		return o.fail(ctx, req, entities.FailureProvider)
	}

	now := o.clock.Now()
	expiresAt := priced.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = now.Add(o.cfg.DefaultQuoteTTL)
	}
	currency := priced.Currency
	if currency == "" {
		currency = req.Currency
	}
	q := entities.Quote{
		CorrelationID: correlationID,
		QuoteID:       strings.TrimSpace(priced.QuoteID),
		Premium:       priced.Premium,
		Currency:      currency,
		ExpiresAt:     expiresAt.UTC(),
		Status:        entities.QuoteStatusPriced,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	saved, err := o.save(ctx, q)
	if err != nil {
		return entities.QuoteReceivedMessage{}, err
	}
	log.Info("quote priced", zap.String("quote_id", saved.QuoteID), zap.String("premium", saved.Premium.String()))
	return entities.QuoteReceivedFrom(saved), nil
}

// validateRequest checks the payload and its reference ids. A family that was never loaded
// is refreshed once; if it is still missing the request is rejected rather than requeued.
func (o *QuoteOrchestrator) validateRequest(ctx context.Context, req entities.QuoteRequest, log *zap.Logger) error {
	if err := validateQuoteRequest(o.validate, req); err != nil {
		return err
	}
	err := checkReferences(o.references, req)
	if !errors.Is(err, entities.ErrReferenceNotLoaded) {
		return err
	}

	if o.refresher != nil {
		refs := req.ReferenceIDs()
		for _, t := range entities.AllEntityTypes() {
			id, ok := refs[t]
			if !ok {
				continue
			}
			if _, getErr := o.references.Get(t, id); !errors.Is(getErr, entities.ErrReferenceNotLoaded) {
				continue
			}
			if _, refreshErr := o.refresher.Refresh(ctx, t); refreshErr != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn("reference refresh on miss failed", zap.String("entity_type", string(t)), zap.Error(refreshErr))
			}
		}
		err = checkReferences(o.references, req)
	}
	if errors.Is(err, entities.ErrReferenceNotLoaded) {
		return entities.NewValidationError("", "reference data unavailable: "+err.Error())
	}
	return err
}

func (o *QuoteOrchestrator) fail(ctx context.Context, req entities.QuoteRequest, reason entities.FailureReason) (entities.QuoteReceivedMessage, error) {
	now := o.clock.Now()
	q := entities.Quote{
		CorrelationID: req.CorrelationID,
		Currency:      req.Currency,
		Status:        entities.QuoteStatusFailed,
		FailureReason: reason,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	saved, err := o.save(ctx, q)
	if err != nil {
		return entities.QuoteReceivedMessage{}, err
	}
	return entities.QuoteReceivedFrom(saved), nil
}

// save creates the quote; a concurrent delivery that already stored one wins.
func (o *QuoteOrchestrator) save(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	created, err := o.quotes.Create(ctx, q)
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, entities.ErrAlreadyExists) {
		return entities.Quote{}, entities.NewPersistenceError("create quote", err)
	}
	existing, getErr := o.quotes.GetByCorrelationID(ctx, q.CorrelationID)
	if getErr != nil {
		return entities.Quote{}, entities.NewPersistenceError("reload quote", getErr)
	}
	if existing.CorrelationID == "" {
		return entities.Quote{}, entities.NewPersistenceError("reload quote", err)
	}
	return existing, nil
}

func publishJSON(ctx context.Context, publisher interfaces.IPublisher, channel string, v any) error {
	if publisher == nil {
		return ErrPublisherUnavailable
	}
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", channel, err)
	}
	if err := publisher.Publish(ctx, channel, body); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}
