package provider

import (
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/infrastructure/clock"
	"cargo_cover/internal/infrastructure/metrics"
	"cargo_cover/internal/usecase/interfaces"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MockClient is a deterministic in-process provider for local runs.
//
// Premiums are value * MockRate, quote ids are Q-<n>, policies POL-<n> and certificates
// follow the configured numbering convention.
type MockClient struct {
	rate      decimal.Decimal
	quoteTTL  time.Duration
	numbering entities.NumberingConvention
	clock     clock.Clock
	logger    *zap.Logger

	seq atomic.Int64

	mu       sync.Mutex
	policies map[string]entities.ProviderBooking
	bindings map[string]string
}

var _ interfaces.IProviderClient = (*MockClient)(nil)

var MockRate = decimal.RequireFromString("0.0025")

func NewMockClient(numbering entities.NumberingConvention, clk clock.Clock, logger *zap.Logger) *MockClient {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &MockClient{
		rate:      MockRate,
		quoteTTL:  72 * time.Hour,
		numbering: numbering,
		clock:     clk,
		logger:    logger.Named("provider-mock"),
		policies:  map[string]entities.ProviderBooking{},
		bindings:  map[string]string{},
	}
	c.seq.Store(1000)
	return c
}

func (c *MockClient) RequestQuote(_ context.Context, req entities.QuoteRequest) (entities.ProviderQuote, error) {
	premium := req.Value.Mul(c.rate).Round(2)
	q := entities.ProviderQuote{
		QuoteID:   fmt.Sprintf("Q-%d", c.seq.Add(1)),
		Premium:   premium,
		Currency:  req.Currency,
		ExpiresAt: c.clock.Now().Add(c.quoteTTL),
	}
	c.logger.Info("mock quote issued", zap.String("correlation_id", req.CorrelationID), zap.String("quote_id", q.QuoteID), zap.String("premium", premium.String()))
	return q, nil
}

// ConfirmBooking binds one policy per correlation id, like the real provider does with
// its Idempotency-Key.
func (c *MockClient) ConfirmBooking(_ context.Context, req entities.BookingRequest, _ entities.Quote) (entities.ProviderBooking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if policy, ok := c.bindings[req.CorrelationID]; ok {
		return c.policies[policy], nil
	}
	b := entities.ProviderBooking{
		PolicyNumber: fmt.Sprintf("%s%d", c.numbering.PolicyPrefix, c.seq.Add(1)),
		ConfirmedAt:  c.clock.Now(),
	}
	c.policies[b.PolicyNumber] = b
	c.bindings[req.CorrelationID] = b.PolicyNumber
	c.logger.Info("mock booking confirmed", zap.String("correlation_id", req.CorrelationID), zap.String("policy_number", b.PolicyNumber))
	return b, nil
}

func (c *MockClient) FetchCertificate(_ context.Context, policyNumber string) (entities.Certificate, error) {
	c.mu.Lock()
	b, ok := c.policies[policyNumber]
	c.mu.Unlock()
	if !ok {
		return entities.Certificate{}, &entities.ProviderError{Op: opFetchCertificate, StatusCode: 404, Code: "policy_not_found", Message: policyNumber}
	}
	number := c.numbering.CertificateNumberFor(policyNumber)
	return entities.Certificate{
		CertificateNumber: number,
		PolicyNumber:      policyNumber,
		DocumentURL:       "https://provider.invalid/certificates/" + number + ".pdf",
		IssuedAt:          b.ConfirmedAt,
	}, nil
}

func (c *MockClient) ListReference(_ context.Context, entityType entities.EntityType) ([]entities.ReferenceEntity, error) {
	rows, ok := mockReferenceData[entityType]
	if !ok {
		return nil, &entities.ProviderError{Op: opListReference, StatusCode: 404, Message: string(entityType)}
	}
	out := make([]entities.ReferenceEntity, 0, len(rows))
	for _, r := range rows {
		out = append(out, entities.ReferenceEntity{Type: entityType, ID: entities.RefID(r[0]), Name: r[1]})
	}
	return out, nil
}

var mockReferenceData = map[entities.EntityType][][2]string{
	entities.EntityTypeCommodity: {
		{"1", "General merchandise"}, {"7", "Electronics"}, {"8", "Machinery"}, {"12", "Perishables"},
	},
	entities.EntityTypeEquipmentType: {
		{"1", "Flatbed"}, {"2", "Dry van"}, {"3", "Reefer"},
	},
	entities.EntityTypeLoadType: {
		{"1", "Full truckload"}, {"2", "Less than truckload"},
	},
	entities.EntityTypeFreightClass: {
		{"50", "Class 50"}, {"70", "Class 70"}, {"100", "Class 100"},
	},
	entities.EntityTypeTermsOfSale: {
		{"FOB", "Free on board"}, {"CIF", "Cost, insurance and freight"},
	},
}

type Deps struct {
	Clock   clock.Clock
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// New returns the mock provider when cfg.Mock or PROVIDER_MOCK is set, the HTTP client
// otherwise.
func New(cfg Config, numbering entities.NumberingConvention, deps Deps) (interfaces.IProviderClient, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Mock || isProviderMockEnabled() {
		logger.Info("provider mock mode enabled")
		return NewMockClient(numbering, deps.Clock, logger), nil
	}
	return NewHTTPClient(cfg, deps.Metrics, logger)
}

func isProviderMockEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("PROVIDER_MOCK")))
	switch v {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}
