package usecase

import (
	"context"
	"errors"
	"testing"

	"cargo_cover/internal/domain/entities"
	mock_interfaces "cargo_cover/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestBookingUseCase_Submit(t *testing.T) {
	req := entities.BookingRequest{
		CorrelationID: "corr-1",
		QuoteID:       "Q-1001",
		Payload:       entities.BookingPayload{InsuredName: "Acme Freight"},
	}

	t.Run("invalid quote id", func(t *testing.T) {
		uc := NewBookingUseCase(nil, nil, nil, nil, entities.NumberingConvention{}, nil)
		bad := req
		bad.QuoteID = "  "
		if _, err := uc.Submit(context.Background(), bad); !errors.Is(err, ErrInvalidQuoteID) {
			t.Fatalf("expected ErrInvalidQuoteID, got %v", err)
		}
	})

	t.Run("invalid payload", func(t *testing.T) {
		uc := NewBookingUseCase(newMemQuoteRepo(pricedQuote("corr-1", "Q-1001")), nil, nil, &memPublisher{}, entities.NumberingConvention{}, nil)
		bad := req
		bad.Payload.InsuredEmail = "not-an-email"
		_, err := uc.Submit(context.Background(), bad)
		var ve *entities.ValidationError
		if !errors.As(err, &ve) || ve.Field != "bookingPayload.insuredEmail" {
			t.Fatalf("expected insuredEmail validation error, got %v", err)
		}
	})

	t.Run("unknown quote", func(t *testing.T) {
		uc := NewBookingUseCase(newMemQuoteRepo(), nil, nil, &memPublisher{}, entities.NumberingConvention{}, nil)
		if _, err := uc.Submit(context.Background(), req); !errors.Is(err, ErrQuoteNotFound) {
			t.Fatalf("expected ErrQuoteNotFound, got %v", err)
		}
	})

	t.Run("correlation id of another quote", func(t *testing.T) {
		pub := &memPublisher{}
		uc := NewBookingUseCase(newMemQuoteRepo(pricedQuote("corr-other", "Q-1001")), nil, nil, pub, entities.NumberingConvention{}, nil)
		_, err := uc.Submit(context.Background(), req)
		var ve *entities.ValidationError
		if !errors.As(err, &ve) || ve.Field != "correlationId" {
			t.Fatalf("expected correlationId validation error, got %v", err)
		}
		if len(pub.on(entities.ChannelBookingRequested)) != 0 {
			t.Fatalf("expected nothing published")
		}
	})

	t.Run("publishes booking-requested", func(t *testing.T) {
		pub := &memPublisher{}
		uc := NewBookingUseCase(newMemQuoteRepo(pricedQuote("corr-1", "Q-1001")), nil, nil, pub, entities.NumberingConvention{}, nil)

		correlationID, err := uc.Submit(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if correlationID != "corr-1" {
			t.Fatalf("expected corr-1, got %q", correlationID)
		}
		out := pub.on(entities.ChannelBookingRequested)
		if len(out) != 1 {
			t.Fatalf("expected one booking-requested, got %d", len(out))
		}
		msg := decodeMessage[entities.BookingRequestedMessage](t, out[0].body)
		if msg.QuoteID != "Q-1001" || msg.Payload.InsuredName != "Acme Freight" {
			t.Fatalf("unexpected message: %+v", msg)
		}
	})

	t.Run("blank correlation id continues the quote and is confirmed", func(t *testing.T) {
		f := newBookingFixture(t, pricedQuote("corr-1", "Q-1001"))
		pub := &memPublisher{}
		uc := NewBookingUseCase(f.quotes, f.bookings, f.certificates, pub, entities.NumberingConvention{}, nil)

		blank := req
		blank.CorrelationID = ""
		correlationID, err := uc.Submit(context.Background(), blank)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if correlationID != "corr-1" {
			t.Fatalf("expected the quote correlation id, got %q", correlationID)
		}

		f.provider.EXPECT().ConfirmBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(entities.ProviderBooking{PolicyNumber: "POL-9001"}, nil)
		f.provider.EXPECT().FetchCertificate(gomock.Any(), "POL-9001").
			Return(entities.Certificate{CertificateNumber: "CERT-9001"}, nil)

		out := pub.on(entities.ChannelBookingRequested)
		if len(out) != 1 {
			t.Fatalf("expected one booking-requested, got %d", len(out))
		}
		if err := f.orchestrator.HandleBookingRequested(context.Background(), out[0].body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		msg := f.outcome(t)
		if msg.Status != entities.BookingStatusConfirmed || msg.CorrelationID != "corr-1" || msg.CertificateNumber != "CERT-9001" {
			t.Fatalf("unexpected message: %+v", msg)
		}
	})
}

func TestBookingUseCase_GetByPolicyNumber(t *testing.T) {
	t.Run("invalid policy number", func(t *testing.T) {
		uc := NewBookingUseCase(nil, nil, nil, nil, entities.NumberingConvention{}, nil)
		if _, err := uc.GetByPolicyNumber(context.Background(), ""); !errors.Is(err, ErrInvalidPolicyNumber) {
			t.Fatalf("expected ErrInvalidPolicyNumber, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		bookings := mock_interfaces.NewMockIBookingRepository(ctrl)
		uc := NewBookingUseCase(nil, bookings, nil, nil, entities.NumberingConvention{}, nil)

		bookings.EXPECT().ListByPolicyNumber(gomock.Any(), "POL-1").Return(nil, nil)

		if _, err := uc.GetByPolicyNumber(context.Background(), "POL-1"); !errors.Is(err, ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
	})

	t.Run("joins certificate by business key", func(t *testing.T) {
		bookings := newMemBookingRepo(confirmedBooking("b-1", "POL-9001"))
		certs := newMemCertificateRepo(entities.Certificate{CertificateNumber: "CERT-9001", BookingID: "b-1", Version: 1})
		uc := NewBookingUseCase(nil, bookings, certs, nil, entities.NumberingConvention{}, nil)

		view, err := uc.GetByPolicyNumber(context.Background(), "POL-9001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if view.Booking.ID != "b-1" || view.Certificate.CertificateNumber != "CERT-9001" {
			t.Fatalf("unexpected view: %+v", view)
		}
	})

	t.Run("custom numbering", func(t *testing.T) {
		bookings := newMemBookingRepo(confirmedBooking("b-1", "P9001"))
		certs := newMemCertificateRepo(entities.Certificate{CertificateNumber: "C9001", BookingID: "b-1"})
		uc := NewBookingUseCase(nil, bookings, certs, nil, entities.NumberingConvention{PolicyPrefix: "P", CertificatePrefix: "C"}, nil)

		view, err := uc.GetByPolicyNumber(context.Background(), "P9001")
		if err != nil || view.Certificate.CertificateNumber != "C9001" {
			t.Fatalf("unexpected view: %+v %v", view, err)
		}
	})
}
