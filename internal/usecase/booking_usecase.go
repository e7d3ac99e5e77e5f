package usecase

import (
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/usecase/interfaces"
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// BookingView is a booking joined with its certificate by business key.
// Certificate is zero while reconciliation has not stored it yet.
type BookingView struct {
	Booking     entities.Booking
	Certificate entities.Certificate
}

// IBookingUseCase exposes booking submission and lookup to the HTTP surface.
//
//   - POST /v1/bookings => Submit() (publishes booking-requested)
//   - GET /v1/bookings/:policy_number => GetByPolicyNumber()

type IBookingUseCase interface {
	Submit(ctx context.Context, req entities.BookingRequest) (string, error)
	GetByPolicyNumber(ctx context.Context, policyNumber string) (BookingView, error)
}

type BookingUseCase struct {
	quotes       interfaces.IQuoteRepository
	bookings     interfaces.IBookingRepository
	certificates interfaces.ICertificateRepository
	publisher    interfaces.IPublisher
	numbering    entities.NumberingConvention
	validate     *validator.Validate
	logger       *zap.Logger
}

var _ IBookingUseCase = (*BookingUseCase)(nil)

func NewBookingUseCase(
	quotes interfaces.IQuoteRepository,
	bookings interfaces.IBookingRepository,
	certificates interfaces.ICertificateRepository,
	publisher interfaces.IPublisher,
	numbering entities.NumberingConvention,
	logger *zap.Logger,
) *BookingUseCase {
	if numbering == (entities.NumberingConvention{}) {
		numbering = entities.DefaultNumberingConvention()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingUseCase{
		quotes:       quotes,
		bookings:     bookings,
		certificates: certificates,
		publisher:    publisher,
		numbering:    numbering,
		validate:     newValidator(),
		logger:       logger.Named("booking"),
	}
}

// Submit publishes booking-requested once the referenced quote is known to this service
// and returns the correlation id the booking travels under. A blank correlation id
// continues the one of the quote; a different one is rejected. Status and expiry are
// checked by the orchestrator.
func (u *BookingUseCase) Submit(ctx context.Context, req entities.BookingRequest) (string, error) {
	req.CorrelationID = strings.TrimSpace(req.CorrelationID)
	req.QuoteID = strings.TrimSpace(req.QuoteID)
	if req.QuoteID == "" {
		return "", ErrInvalidQuoteID
	}

	q, err := u.quotes.GetByQuoteID(ctx, req.QuoteID)
	if err != nil {
		return "", err
	}
	if q.CorrelationID == "" {
		return "", ErrQuoteNotFound
	}
	switch req.CorrelationID {
	case "":
		req.CorrelationID = q.CorrelationID
	case q.CorrelationID:
	default:
		return "", entities.NewValidationError("correlationId", "does not match the correlation id of quote "+req.QuoteID)
	}

	if err := validateStruct(u.validate, req); err != nil {
		return "", err
	}

	msg := entities.BookingRequestedMessage{
		CorrelationID: req.CorrelationID,
		QuoteID:       req.QuoteID,
		Payload:       req.Payload,
	}
	if err := publishJSON(ctx, u.publisher, entities.ChannelBookingRequested, msg); err != nil {
		return "", err
	}
	u.logger.Info("booking requested", zap.String("correlation_id", req.CorrelationID), zap.String("quote_id", req.QuoteID))
	return req.CorrelationID, nil
}

func (u *BookingUseCase) GetByPolicyNumber(ctx context.Context, policyNumber string) (BookingView, error) {
	policyNumber = strings.TrimSpace(policyNumber)
	if policyNumber == "" {
		return BookingView{}, ErrInvalidPolicyNumber
	}

	owners, err := u.bookings.ListByPolicyNumber(ctx, policyNumber)
	if err != nil {
		return BookingView{}, err
	}
	if len(owners) == 0 {
		return BookingView{}, ErrBookingNotFound
	}
	if len(owners) > 1 {
		u.logger.Warn("several bookings share a policy number", zap.String("policy_number", policyNumber), zap.Int("count", len(owners)))
	}

	cert, err := u.certificates.GetByNumber(ctx, u.numbering.CertificateNumberFor(policyNumber))
	if err != nil {
		return BookingView{}, err
	}
	return BookingView{Booking: owners[0], Certificate: cert}, nil
}
