package usecase

import (
	"context"
	"errors"
	"testing"

	"cargo_cover/internal/domain/entities"
	mock_interfaces "cargo_cover/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func validQuoteRequest() entities.QuoteRequest {
	return entities.QuoteRequest{
		CommodityID:     "7",
		EquipmentTypeID: "2",
		Value:           decimal.NewFromInt(10000),
	}
}

func TestQuoteUseCase_Submit(t *testing.T) {
	t.Run("generates correlation id and publishes", func(t *testing.T) {
		pub := &memPublisher{}
		uc := NewQuoteUseCase(newMemQuoteRepo(), defaultReferences(), pub, nil)

		id, err := uc.Submit(context.Background(), validQuoteRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id == "" {
			t.Fatalf("expected generated correlation id")
		}
		out := pub.on(entities.ChannelQuoteRequested)
		if len(out) != 1 {
			t.Fatalf("expected one quote-requested, got %d", len(out))
		}
		msg := decodeMessage[entities.QuoteRequestedMessage](t, out[0].body)
		if msg.CorrelationID != id || msg.Request.CorrelationID != id || msg.Request.CommodityID != "7" {
			t.Fatalf("unexpected message: %+v", msg)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		uc := NewQuoteUseCase(newMemQuoteRepo(), nil, &memPublisher{}, nil)
		req := validQuoteRequest()
		req.Value = decimal.Zero

		_, err := uc.Submit(context.Background(), req)
		var ve *entities.ValidationError
		if !errors.As(err, &ve) || ve.Field != "value" {
			t.Fatalf("expected value validation error, got %v", err)
		}
	})

	t.Run("unknown reference", func(t *testing.T) {
		uc := NewQuoteUseCase(newMemQuoteRepo(), defaultReferences(), &memPublisher{}, nil)
		req := validQuoteRequest()
		req.EquipmentTypeID = "404"

		_, err := uc.Submit(context.Background(), req)
		var ve *entities.ValidationError
		if !errors.As(err, &ve) || ve.Field != "equipmentTypeId" {
			t.Fatalf("expected equipmentTypeId validation error, got %v", err)
		}
	})

	t.Run("references not loaded yet still publishes", func(t *testing.T) {
		pub := &memPublisher{}
		uc := NewQuoteUseCase(newMemQuoteRepo(), staticReferences{}, pub, nil)

		if _, err := uc.Submit(context.Background(), validQuoteRequest()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(pub.on(entities.ChannelQuoteRequested)) != 1 {
			t.Fatalf("expected publish")
		}
	})

	t.Run("resubmitted correlation id is not republished", func(t *testing.T) {
		pub := &memPublisher{}
		uc := NewQuoteUseCase(newMemQuoteRepo(pricedQuote("corr-1", "Q-1")), nil, pub, nil)
		req := validQuoteRequest()
		req.CorrelationID = "corr-1"

		id, err := uc.Submit(context.Background(), req)
		if err != nil || id != "corr-1" {
			t.Fatalf("unexpected result: %q %v", id, err)
		}
		if len(pub.msgs) != 0 {
			t.Fatalf("expected nothing published")
		}
	})

	t.Run("publish error", func(t *testing.T) {
		uc := NewQuoteUseCase(newMemQuoteRepo(), nil, &memPublisher{err: errors.New("broker down")}, nil)
		if _, err := uc.Submit(context.Background(), validQuoteRequest()); err == nil {
			t.Fatalf("expected publish error")
		}
	})
}

func TestQuoteUseCase_Get(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		uc := NewQuoteUseCase(nil, nil, nil, nil)
		if _, err := uc.Get(context.Background(), " "); !errors.Is(err, ErrInvalidCorrelationID) {
			t.Fatalf("expected ErrInvalidCorrelationID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, nil, nil, nil)

		repo.EXPECT().GetByCorrelationID(gomock.Any(), "corr-1").Return(entities.Quote{}, nil)

		if _, err := uc.Get(context.Background(), "corr-1"); !errors.Is(err, ErrQuoteNotFound) {
			t.Fatalf("expected ErrQuoteNotFound, got %v", err)
		}
	})

	t.Run("repo error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, nil, nil, nil)

		repo.EXPECT().GetByCorrelationID(gomock.Any(), "corr-1").Return(entities.Quote{}, errors.New("db"))

		if _, err := uc.Get(context.Background(), "corr-1"); err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("found", func(t *testing.T) {
		uc := NewQuoteUseCase(newMemQuoteRepo(pricedQuote("corr-1", "Q-1")), nil, nil, nil)
		q, err := uc.Get(context.Background(), "corr-1")
		if err != nil || q.QuoteID != "Q-1" {
			t.Fatalf("unexpected result: %+v %v", q, err)
		}
	})
}
