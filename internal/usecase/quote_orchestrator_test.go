package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/infrastructure/clock"
	"cargo_cover/internal/usecase/interfaces"
	mock_interfaces "cargo_cover/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func newQuoteOrchestratorForTest(t *testing.T, quotes interfaces.IQuoteRepository, refs interfaces.IReferenceCache) (*QuoteOrchestrator, *mock_interfaces.MockIProviderClient, *memPublisher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	provider := mock_interfaces.NewMockIProviderClient(ctrl)
	pub := &memPublisher{}
	o := NewQuoteOrchestrator(quotes, provider, refs, nil, pub, clock.NewManual(testNow), QuoteOrchestratorConfig{
		ProviderDeadline: time.Second,
		DefaultQuoteTTL:  time.Hour,
	}, nil)
	return o, provider, pub
}

func TestQuoteOrchestrator_HandleQuoteRequested(t *testing.T) {
	t.Run("priced quote is persisted and published", func(t *testing.T) {
		quotes := newMemQuoteRepo()
		o, provider, pub := newQuoteOrchestratorForTest(t, quotes, defaultReferences())

		provider.EXPECT().RequestQuote(gomock.Any(), gomock.AssignableToTypeOf(entities.QuoteRequest{})).DoAndReturn(
			func(_ context.Context, req entities.QuoteRequest) (entities.ProviderQuote, error) {
				if req.CorrelationID != "corr-1" || req.CommodityID != "7" || req.EquipmentTypeID != "2" {
					t.Fatalf("unexpected request: %+v", req)
				}
				if !req.Value.Equal(decimal.NewFromInt(10000)) {
					t.Fatalf("unexpected value: %s", req.Value)
				}
				return entities.ProviderQuote{QuoteID: "Q-1001", Premium: decimal.RequireFromString("125.50"), Currency: "USD"}, nil
			})

		body := []byte(`{"correlationId":"corr-1","requestPayload":{"commodityId":7,"equipmentTypeId":2,"value":10000}}`)
		if err := o.HandleQuoteRequested(context.Background(), body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := pub.on(entities.ChannelQuoteReceived)
		if len(out) != 1 {
			t.Fatalf("expected exactly one quote-received, got %d", len(out))
		}
		msg := decodeMessage[entities.QuoteReceivedMessage](t, out[0].body)
		if msg.CorrelationID != "corr-1" || msg.QuoteID != "Q-1001" || msg.Status != entities.QuoteStatusPriced {
			t.Fatalf("unexpected message: %+v", msg)
		}
		if msg.Premium == nil || !msg.Premium.Equal(decimal.RequireFromString("125.50")) {
			t.Fatalf("expected premium 125.50, got %v", msg.Premium)
		}

		stored := quotes.get("corr-1")
		if stored.Status != entities.QuoteStatusPriced || stored.QuoteID != "Q-1001" {
			t.Fatalf("unexpected stored quote: %+v", stored)
		}
		if !stored.ExpiresAt.Equal(testNow.Add(time.Hour)) {
			t.Fatalf("expected default ttl expiry, got %v", stored.ExpiresAt)
		}
	})

	t.Run("unknown reference fails without provider call", func(t *testing.T) {
		quotes := newMemQuoteRepo()
		o, _, pub := newQuoteOrchestratorForTest(t, quotes, defaultReferences())

		body := []byte(`{"correlationId":"corr-2","requestPayload":{"commodityId":99,"equipmentTypeId":2,"value":10000}}`)
		if err := o.HandleQuoteRequested(context.Background(), body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := pub.on(entities.ChannelQuoteReceived)
		if len(out) != 1 {
			t.Fatalf("expected one message, got %d", len(out))
		}
		msg := decodeMessage[entities.QuoteReceivedMessage](t, out[0].body)
		if msg.Status != entities.QuoteStatusFailed || msg.FailureReason != entities.FailureValidation || msg.Premium != nil {
			t.Fatalf("unexpected message: %+v", msg)
		}
		if quotes.get("corr-2").Status != entities.QuoteStatusFailed {
			t.Fatalf("expected failed quote to be stored")
		}
	})

	t.Run("structural validation failure", func(t *testing.T) {
		o, _, pub := newQuoteOrchestratorForTest(t, newMemQuoteRepo(), defaultReferences())

		body := []byte(`{"correlationId":"corr-3","requestPayload":{"commodityId":7,"equipmentTypeId":2,"value":0}}`)
		if err := o.HandleQuoteRequested(context.Background(), body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		msg := decodeMessage[entities.QuoteReceivedMessage](t, pub.on(entities.ChannelQuoteReceived)[0].body)
		if msg.FailureReason != entities.FailureValidation {
			t.Fatalf("expected validation_error, got %+v", msg)
		}
	})

	t.Run("provider error publishes failure", func(t *testing.T) {
		o, provider, pub := newQuoteOrchestratorForTest(t, newMemQuoteRepo(), defaultReferences())

		provider.EXPECT().RequestQuote(gomock.Any(), gomock.Any()).
			Return(entities.ProviderQuote{}, &entities.ProviderError{Op: "request quote", StatusCode: 500, Attempts: 3})

		body := []byte(`{"correlationId":"corr-4","requestPayload":{"commodityId":7,"equipmentTypeId":2,"value":10000}}`)
		if err := o.HandleQuoteRequested(context.Background(), body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		msg := decodeMessage[entities.QuoteReceivedMessage](t, pub.on(entities.ChannelQuoteReceived)[0].body)
		if msg.Status != entities.QuoteStatusFailed || msg.FailureReason != entities.FailureProvider {
			t.Fatalf("unexpected message: %+v", msg)
		}
	})

	t.Run("provider deadline maps to provider_timeout", func(t *testing.T) {
		quotes := newMemQuoteRepo()
		ctrl := gomock.NewController(t)
		provider := mock_interfaces.NewMockIProviderClient(ctrl)
		pub := &memPublisher{}
		o := NewQuoteOrchestrator(quotes, provider, defaultReferences(), nil, pub, clock.NewManual(testNow), QuoteOrchestratorConfig{
			ProviderDeadline: 20 * time.Millisecond,
		}, nil)

		provider.EXPECT().RequestQuote(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ entities.QuoteRequest) (entities.ProviderQuote, error) {
				<-ctx.Done()
				return entities.ProviderQuote{}, ctx.Err()
			})

		body := []byte(`{"correlationId":"corr-5","requestPayload":{"commodityId":7,"equipmentTypeId":2,"value":10000}}`)
		if err := o.HandleQuoteRequested(context.Background(), body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		msg := decodeMessage[entities.QuoteReceivedMessage](t, pub.on(entities.ChannelQuoteReceived)[0].body)
		if msg.FailureReason != entities.FailureProviderTimeout {
			t.Fatalf("expected provider_timeout, got %+v", msg)
		}
	})

	t.Run("settled quote is replayed without provider call", func(t *testing.T) {
		quotes := newMemQuoteRepo(entities.Quote{
			CorrelationID: "corr-6",
			QuoteID:       "Q-6",
			Premium:       decimal.RequireFromString("10.00"),
			Status:        entities.QuoteStatusPriced,
		})
		o, _, pub := newQuoteOrchestratorForTest(t, quotes, defaultReferences())

		body := []byte(`{"correlationId":"corr-6","requestPayload":{"commodityId":7,"equipmentTypeId":2,"value":10000}}`)
		if err := o.HandleQuoteRequested(context.Background(), body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		msg := decodeMessage[entities.QuoteReceivedMessage](t, pub.on(entities.ChannelQuoteReceived)[0].body)
		if msg.QuoteID != "Q-6" || msg.Status != entities.QuoteStatusPriced {
			t.Fatalf("unexpected replay: %+v", msg)
		}
	})

	t.Run("undecodable payload is unprocessable", func(t *testing.T) {
		o, _, pub := newQuoteOrchestratorForTest(t, newMemQuoteRepo(), defaultReferences())

		err := o.HandleQuoteRequested(context.Background(), []byte("{"))
		if !errors.Is(err, interfaces.ErrUnprocessable) {
			t.Fatalf("expected ErrUnprocessable, got %v", err)
		}
		if len(pub.on(entities.ChannelQuoteReceived)) != 0 {
			t.Fatalf("expected nothing published")
		}
	})

	t.Run("missing correlation id is unprocessable", func(t *testing.T) {
		o, _, _ := newQuoteOrchestratorForTest(t, newMemQuoteRepo(), defaultReferences())

		err := o.HandleQuoteRequested(context.Background(), []byte(`{"requestPayload":{"commodityId":7}}`))
		if !errors.Is(err, interfaces.ErrUnprocessable) {
			t.Fatalf("expected ErrUnprocessable, got %v", err)
		}
	})

	t.Run("reference data not loaded is refreshed on miss", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := mock_interfaces.NewMockIProviderClient(ctrl)
		refresher := mock_interfaces.NewMockIReferenceRefresher(ctrl)
		refs := staticReferences{}
		pub := &memPublisher{}
		o := NewQuoteOrchestrator(newMemQuoteRepo(), provider, refs, refresher, pub, clock.NewManual(testNow), QuoteOrchestratorConfig{}, nil)

		loaded := defaultReferences()
		refresher.EXPECT().Refresh(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(
			func(_ context.Context, typ entities.EntityType) (int, error) {
				refs[typ] = loaded[typ]
				return len(loaded[typ]), nil
			})
		provider.EXPECT().RequestQuote(gomock.Any(), gomock.Any()).
			Return(entities.ProviderQuote{QuoteID: "Q-7", Premium: decimal.NewFromInt(40)}, nil)

		body := []byte(`{"correlationId":"corr-7","requestPayload":{"commodityId":7,"equipmentTypeId":2,"value":10000}}`)
		if err := o.HandleQuoteRequested(context.Background(), body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		msg := decodeMessage[entities.QuoteReceivedMessage](t, pub.on(entities.ChannelQuoteReceived)[0].body)
		if msg.Status != entities.QuoteStatusPriced || msg.QuoteID != "Q-7" {
			t.Fatalf("unexpected message: %+v", msg)
		}
	})

	t.Run("reference data still unavailable fails the quote", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		provider := mock_interfaces.NewMockIProviderClient(ctrl)
		refresher := mock_interfaces.NewMockIReferenceRefresher(ctrl)
		quotes := newMemQuoteRepo()
		pub := &memPublisher{}
		o := NewQuoteOrchestrator(quotes, provider, staticReferences{}, refresher, pub, clock.NewManual(testNow), QuoteOrchestratorConfig{}, nil)

		refresher.EXPECT().Refresh(gomock.Any(), gomock.Any()).Return(0, errors.New("provider listing down")).AnyTimes()
		provider.EXPECT().RequestQuote(gomock.Any(), gomock.Any()).Times(0)

		body := []byte(`{"correlationId":"corr-7","requestPayload":{"commodityId":7,"equipmentTypeId":2,"value":10000}}`)
		if err := o.HandleQuoteRequested(context.Background(), body); err != nil {
			t.Fatalf("expected ack, got %v", err)
		}
		out := pub.on(entities.ChannelQuoteReceived)
		if len(out) != 1 {
			t.Fatalf("expected exactly one quote-received, got %d", len(out))
		}
		msg := decodeMessage[entities.QuoteReceivedMessage](t, out[0].body)
		if msg.Status != entities.QuoteStatusFailed || msg.FailureReason != entities.FailureValidation {
			t.Fatalf("unexpected message: %+v", msg)
		}
		if quotes.get("corr-7").Status != entities.QuoteStatusFailed {
			t.Fatalf("expected failed quote stored")
		}
	})

	t.Run("persistence failure requeues without outcome", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		o, provider, pub := newQuoteOrchestratorForTest(t, repo, defaultReferences())

		repo.EXPECT().GetByCorrelationID(gomock.Any(), "corr-8").Return(entities.Quote{}, nil)
		provider.EXPECT().RequestQuote(gomock.Any(), gomock.Any()).
			Return(entities.ProviderQuote{QuoteID: "Q-8", Premium: decimal.NewFromInt(5)}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Quote{}, errors.New("dynamo down"))

		body := []byte(`{"correlationId":"corr-8","requestPayload":{"commodityId":7,"equipmentTypeId":2,"value":10000}}`)
		err := o.HandleQuoteRequested(context.Background(), body)
		var pe *entities.PersistenceError
		if !errors.As(err, &pe) {
			t.Fatalf("expected PersistenceError, got %v", err)
		}
		if len(pub.on(entities.ChannelQuoteReceived)) != 0 {
			t.Fatalf("expected nothing published")
		}
	})

	t.Run("concurrent delivery keeps the stored quote", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		o, provider, pub := newQuoteOrchestratorForTest(t, repo, defaultReferences())

		stored := entities.Quote{CorrelationID: "corr-9", QuoteID: "Q-9a", Premium: decimal.NewFromInt(7), Status: entities.QuoteStatusPriced}
		gomock.InOrder(
			repo.EXPECT().GetByCorrelationID(gomock.Any(), "corr-9").Return(entities.Quote{}, nil),
			repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Quote{}, entities.ErrAlreadyExists),
			repo.EXPECT().GetByCorrelationID(gomock.Any(), "corr-9").Return(stored, nil),
		)
		provider.EXPECT().RequestQuote(gomock.Any(), gomock.Any()).
			Return(entities.ProviderQuote{QuoteID: "Q-9b", Premium: decimal.NewFromInt(8)}, nil)

		body := []byte(`{"correlationId":"corr-9","requestPayload":{"commodityId":7,"equipmentTypeId":2,"value":10000}}`)
		if err := o.HandleQuoteRequested(context.Background(), body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		msg := decodeMessage[entities.QuoteReceivedMessage](t, pub.on(entities.ChannelQuoteReceived)[0].body)
		if msg.QuoteID != "Q-9a" {
			t.Fatalf("expected stored quote to win, got %+v", msg)
		}
	})
}
