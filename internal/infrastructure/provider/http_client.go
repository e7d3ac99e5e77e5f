// Package provider talks to the external underwriting provider over HTTP.
package provider

import (
	"bytes"
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/infrastructure/metrics"
	"cargo_cover/internal/usecase/interfaces"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	opRequestQuote     = "request_quote"
	opConfirmBooking   = "confirm_booking"
	opFetchCertificate = "fetch_certificate"
	opListReference    = "list_reference"

	maxErrorBody = 4 << 10
)

var ErrMissingProviderBaseURL = errors.New("missing provider base url")

type Config struct {
	BaseURL string
	Token   string
	// Timeout bounds a single HTTP attempt.
	Timeout     time.Duration
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	// RateLimit is the sustained requests per second; zero disables limiting.
	RateLimit float64
	Burst     int
	Mock      bool
}

func DefaultConfig() Config {
	return Config{
		Timeout:     10 * time.Second,
		MaxAttempts: 3,
		BaseBackoff: 200 * time.Millisecond,
		MaxBackoff:  5 * time.Second,
		RateLimit:   20,
		Burst:       5,
	}
}

// HTTPClient implements IProviderClient against the provider REST API.
//
// Transient failures (network errors, 5xx, 429) are retried with exponential backoff and
// jitter, honouring Retry-After. Other 4xx answers fail immediately.
type HTTPClient struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	limiter *rate.Limiter
	cfg     Config
	metrics *metrics.Metrics
	logger  *zap.Logger

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

var _ interfaces.IProviderClient = (*HTTPClient)(nil)

func NewHTTPClient(cfg Config, m *metrics.Metrics, logger *zap.Logger) (*HTTPClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrMissingProviderBaseURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("provider base url: %w", err)
	}

	d := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = d.Timeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = d.MaxAttempts
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = d.BaseBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = d.MaxBackoff
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPClient{
		baseURL: base,
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		cfg:     cfg,
		metrics: m,
		logger:  logger.Named("provider"),
		sleep:   sleepCtx,
	}, nil
}

func (c *HTTPClient) RequestQuote(ctx context.Context, req entities.QuoteRequest) (entities.ProviderQuote, error) {
	var out quoteResponse
	if err := c.do(ctx, opRequestQuote, http.MethodPost, "quotes", req.CorrelationID, req, &out); err != nil {
		return entities.ProviderQuote{}, err
	}
	return out.toEntity(), nil
}

func (c *HTTPClient) ConfirmBooking(ctx context.Context, req entities.BookingRequest, quote entities.Quote) (entities.ProviderBooking, error) {
	body := bookingRequest{
		CorrelationID: req.CorrelationID,
		QuoteID:       req.QuoteID,
		Premium:       quote.Premium,
		Currency:      quote.Currency,
		Payload:       req.Payload,
	}
	var out bookingResponse
	if err := c.do(ctx, opConfirmBooking, http.MethodPost, "bookings", req.CorrelationID, body, &out); err != nil {
		return entities.ProviderBooking{}, err
	}
	return out.toEntity(), nil
}

func (c *HTTPClient) FetchCertificate(ctx context.Context, policyNumber string) (entities.Certificate, error) {
	var out certificateResponse
	path := "policies/" + url.PathEscape(policyNumber) + "/certificate"
	if err := c.do(ctx, opFetchCertificate, http.MethodGet, path, "", nil, &out); err != nil {
		return entities.Certificate{}, err
	}
	cert := out.toEntity()
	if cert.PolicyNumber == "" {
		cert.PolicyNumber = policyNumber
	}
	return cert, nil
}

func (c *HTTPClient) ListReference(ctx context.Context, entityType entities.EntityType) ([]entities.ReferenceEntity, error) {
	var out referenceResponse
	path := "reference/" + url.PathEscape(string(entityType))
	if err := c.do(ctx, opListReference, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	rows, err := referenceRows(entityType, out.Items)
	if err != nil {
		return nil, &entities.ProviderError{Op: opListReference, Message: "malformed listing", Err: err}
	}
	return rows, nil
}

// do runs one logical call with retries and decodes a 2xx body into out.
func (c *HTTPClient) do(ctx context.Context, op, method, path, idempotencyKey string, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &entities.ProviderError{Op: op, Message: "encode request", Err: err}
		}
		payload = b
	}

	log := c.logger.With(zap.String("op", op))
	if idempotencyKey != "" {
		log = log.With(zap.String("correlation_id", idempotencyKey))
	}

	var last *entities.ProviderTransientError
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return c.giveUp(op, attempt-1, last, err)
		}

		started := time.Now()
		err := c.attempt(ctx, op, method, path, idempotencyKey, payload, out)
		took := time.Since(started)

		var transient *entities.ProviderTransientError
		switch {
		case err == nil:
			c.metrics.ProviderAttempt(op, "ok", took)
			return nil
		case errors.As(err, &transient):
			c.metrics.ProviderAttempt(op, "transient", took)
			last = transient
		default:
			c.metrics.ProviderAttempt(op, "rejected", took)
			var pe *entities.ProviderError
			if errors.As(err, &pe) {
				pe.Attempts = attempt
			}
			return err
		}

		if ctx.Err() != nil {
			return c.giveUp(op, attempt, last, ctx.Err())
		}
		if attempt == c.cfg.MaxAttempts {
			break
		}

		delay := c.backoff(attempt, last.RetryAfter)
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < delay {
			log.Warn("backoff exceeds the call deadline; giving up",
				zap.Int("attempt", attempt),
				zap.Int("status", last.StatusCode),
				zap.Duration("backoff", delay))
			return c.giveUp(op, attempt, last, nil)
		}
		log.Warn("transient provider failure; retrying",
			zap.Int("attempt", attempt),
			zap.Int("status", last.StatusCode),
			zap.Duration("backoff", delay),
			zap.Error(last.Err))
		if err := c.sleep(ctx, delay); err != nil {
			return c.giveUp(op, attempt, last, err)
		}
	}

	log.Error("provider retries exhausted", zap.Int("attempts", c.cfg.MaxAttempts), zap.Error(last))
	return c.giveUp(op, c.cfg.MaxAttempts, last, nil)
}

// giveUp turns the last transient failure (or the context error that stopped us) into a
// ProviderError. A context deadline stays visible through errors.Is.
func (c *HTTPClient) giveUp(op string, attempts int, last *entities.ProviderTransientError, ctxErr error) error {
	pe := &entities.ProviderError{Op: op, Attempts: attempts}
	if last != nil {
		pe.StatusCode = last.StatusCode
	}
	switch {
	case ctxErr != nil:
		pe.Err = ctxErr
	case last != nil:
		pe.Err = last
	}
	return pe
}

func (c *HTTPClient) attempt(ctx context.Context, op, method, path, idempotencyKey string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return &entities.ProviderError{Op: op, Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &entities.ProviderTransientError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &entities.ProviderError{Op: op, StatusCode: resp.StatusCode, Message: "decode response", Err: err}
		}
		return nil

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return &entities.ProviderTransientError{
			Op:         op,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
			Err:        errors.New(readErrorBody(resp.Body).describe(resp.Status)),
		}

	default:
		e := readErrorBody(resp.Body)
		return &entities.ProviderError{Op: op, StatusCode: resp.StatusCode, Code: e.Code, Message: e.describe(resp.Status)}
	}
}

// backoff is base * 2^(attempt-1) plus up to 50% jitter, never shorter than the
// provider's Retry-After. The result never exceeds MaxBackoff.
func (c *HTTPClient) backoff(attempt int, retryAfter time.Duration) time.Duration {
	d := c.cfg.BaseBackoff << (attempt - 1)
	if d <= 0 || d > c.cfg.MaxBackoff {
		d = c.cfg.MaxBackoff
	}
	d += time.Duration(rand.Int64N(int64(d)/2 + 1))
	if retryAfter > d {
		d = retryAfter
	}
	return min(d, c.cfg.MaxBackoff)
}

func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}

func readErrorBody(r io.Reader) errorResponse {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var e errorResponse
	if json.Unmarshal(raw, &e) != nil || (e.Code == "" && e.Message == "") {
		e.Message = strings.TrimSpace(string(raw))
	}
	return e
}

func (e errorResponse) describe(status string) string {
	if e.Message == "" {
		return status
	}
	return e.Message
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
