package usecase

import (
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/usecase/interfaces"
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IQuoteUseCase exposes quote submission and lookup to the HTTP surface.
//
//   - POST /v1/quotes => Submit() (publishes quote-requested, returns the correlation id)
//   - GET /v1/quotes/:correlation_id => Get()

type IQuoteUseCase interface {
	Submit(ctx context.Context, req entities.QuoteRequest) (string, error)
	Get(ctx context.Context, correlationID string) (entities.Quote, error)
}

type QuoteUseCase struct {
	quotes     interfaces.IQuoteRepository
	references interfaces.IReferenceCache
	publisher  interfaces.IPublisher
	validate   *validator.Validate
	logger     *zap.Logger
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

func NewQuoteUseCase(quotes interfaces.IQuoteRepository, references interfaces.IReferenceCache, publisher interfaces.IPublisher, logger *zap.Logger) *QuoteUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteUseCase{
		quotes:     quotes,
		references: references,
		publisher:  publisher,
		validate:   newValidator(),
		logger:     logger.Named("quote"),
	}
}

func (u *QuoteUseCase) Submit(ctx context.Context, req entities.QuoteRequest) (string, error) {
	req.CorrelationID = strings.TrimSpace(req.CorrelationID)
	if req.CorrelationID == "" {
		req.CorrelationID = uuid.NewString()
	}
	if err := validateQuoteRequest(u.validate, req); err != nil {
		return "", err
	}
	// Until the first refresh lands the orchestrator performs the reference check.
	if err := checkReferences(u.references, req); err != nil && !errors.Is(err, entities.ErrReferenceNotLoaded) {
		return "", err
	}

	existing, err := u.quotes.GetByCorrelationID(ctx, req.CorrelationID)
	if err != nil {
		return "", err
	}
	if existing.CorrelationID != "" {
		u.logger.Info("quote already submitted", zap.String("correlation_id", req.CorrelationID), zap.String("status", string(existing.Status)))
		return req.CorrelationID, nil
	}

	msg := entities.QuoteRequestedMessage{CorrelationID: req.CorrelationID, Request: req}
	if err := publishJSON(ctx, u.publisher, entities.ChannelQuoteRequested, msg); err != nil {
		return "", err
	}
	u.logger.Info("quote requested", zap.String("correlation_id", req.CorrelationID))
	return req.CorrelationID, nil
}

func (u *QuoteUseCase) Get(ctx context.Context, correlationID string) (entities.Quote, error) {
	correlationID = strings.TrimSpace(correlationID)
	if correlationID == "" {
		return entities.Quote{}, ErrInvalidCorrelationID
	}

	q, err := u.quotes.GetByCorrelationID(ctx, correlationID)
	if err != nil {
		return entities.Quote{}, err
	}
	if q.CorrelationID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return q, nil
}
