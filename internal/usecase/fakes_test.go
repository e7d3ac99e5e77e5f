package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/usecase/interfaces"
)

// In-memory stores used where a test needs to observe state across calls.

type memQuoteRepo struct {
	mu     sync.Mutex
	quotes map[string]entities.Quote
}

var _ interfaces.IQuoteRepository = (*memQuoteRepo)(nil)

func newMemQuoteRepo(seed ...entities.Quote) *memQuoteRepo {
	r := &memQuoteRepo{quotes: map[string]entities.Quote{}}
	for _, q := range seed {
		r.quotes[q.CorrelationID] = q
	}
	return r
}

func (r *memQuoteRepo) Create(_ context.Context, q entities.Quote) (entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quotes[q.CorrelationID]; ok {
		return entities.Quote{}, entities.ErrAlreadyExists
	}
	r.quotes[q.CorrelationID] = q
	return q, nil
}

func (r *memQuoteRepo) GetByCorrelationID(_ context.Context, correlationID string) (entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quotes[correlationID], nil
}

func (r *memQuoteRepo) GetByQuoteID(_ context.Context, quoteID string) (entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.quotes {
		if q.QuoteID == quoteID {
			return q, nil
		}
	}
	return entities.Quote{}, nil
}

func (r *memQuoteRepo) ListByStatus(_ context.Context, status entities.QuoteStatus) ([]entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Quote
	for _, q := range r.quotes {
		if q.Status == status {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *memQuoteRepo) MarkExpired(_ context.Context, correlationID string, now time.Time) (entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quotes[correlationID]
	if !ok {
		return entities.Quote{}, nil
	}
	if q.Status != entities.QuoteStatusPriced {
		return entities.Quote{}, entities.ErrVersionConflict
	}
	q.Status = entities.QuoteStatusExpired
	q.UpdatedAt = now
	r.quotes[correlationID] = q
	return q, nil
}

func (r *memQuoteRepo) get(correlationID string) entities.Quote {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quotes[correlationID]
}

type memBookingRepo struct {
	mu       sync.Mutex
	bookings []entities.Booking
}

var _ interfaces.IBookingRepository = (*memBookingRepo)(nil)

func newMemBookingRepo(seed ...entities.Booking) *memBookingRepo {
	return &memBookingRepo{bookings: append([]entities.Booking(nil), seed...)}
}

func (r *memBookingRepo) Create(_ context.Context, b entities.Booking) (entities.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bookings {
		if existing.ID == b.ID {
			return entities.Booking{}, entities.ErrAlreadyExists
		}
	}
	r.bookings = append(r.bookings, b)
	return b, nil
}

func (r *memBookingRepo) GetByID(_ context.Context, id string) (entities.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return entities.Booking{}, nil
}

func (r *memBookingRepo) GetByCorrelationID(_ context.Context, correlationID string) (entities.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.CorrelationID == correlationID {
			return b, nil
		}
	}
	return entities.Booking{}, nil
}

func (r *memBookingRepo) ListByPolicyNumber(_ context.Context, policyNumber string) ([]entities.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Booking
	for _, b := range r.bookings {
		if b.PolicyNumber == policyNumber {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) List(_ context.Context, cursor string, limit int) ([]entities.Booking, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, "", err
		}
		start = n
	}
	end := start + limit
	if end > len(r.bookings) {
		end = len(r.bookings)
	}
	out := append([]entities.Booking(nil), r.bookings[start:end]...)
	next := ""
	if end < len(r.bookings) {
		next = strconv.Itoa(end)
	}
	return out, next, nil
}

func (r *memBookingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

type memCertificateRepo struct {
	mu    sync.Mutex
	certs map[string]entities.Certificate
}

var _ interfaces.ICertificateRepository = (*memCertificateRepo)(nil)

func newMemCertificateRepo(seed ...entities.Certificate) *memCertificateRepo {
	r := &memCertificateRepo{certs: map[string]entities.Certificate{}}
	for _, c := range seed {
		r.certs[c.CertificateNumber] = c
	}
	return r
}

func (r *memCertificateRepo) Create(_ context.Context, c entities.Certificate) (entities.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.certs[c.CertificateNumber]; ok {
		return entities.Certificate{}, entities.ErrAlreadyExists
	}
	r.certs[c.CertificateNumber] = c
	return c, nil
}

func (r *memCertificateRepo) GetByNumber(_ context.Context, certificateNumber string) (entities.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.certs[certificateNumber], nil
}

func (r *memCertificateRepo) UpdateLink(_ context.Context, certificateNumber, bookingID string, expectedVersion int64) (entities.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.certs[certificateNumber]
	if !ok || c.Version != expectedVersion {
		return entities.Certificate{}, entities.ErrVersionConflict
	}
	c.BookingID = bookingID
	c.Version++
	r.certs[certificateNumber] = c
	return c, nil
}

func (r *memCertificateRepo) FlagForReview(_ context.Context, certificateNumber, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.certs[certificateNumber]
	if !ok {
		return nil
	}
	c.NeedsReview = true
	c.ReviewReason = reason
	r.certs[certificateNumber] = c
	return nil
}

func (r *memCertificateRepo) List(_ context.Context, cursor string, limit int) ([]entities.Certificate, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.certs))
	for k := range r.certs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, "", err
		}
		start = n
	}
	end := start + limit
	if end > len(keys) {
		end = len(keys)
	}
	out := make([]entities.Certificate, 0, end-start)
	for _, k := range keys[start:end] {
		out = append(out, r.certs[k])
	}
	next := ""
	if end < len(keys) {
		next = strconv.Itoa(end)
	}
	return out, next, nil
}

func (r *memCertificateRepo) get(number string) entities.Certificate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.certs[number]
}

type memLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	taken []string
}

var _ interfaces.IKeyLocker = (*memLocker)(nil)

func newMemLocker() *memLocker {
	return &memLocker{locks: map[string]*sync.Mutex{}}
}

func (l *memLocker) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.taken = append(l.taken, key)
	l.mu.Unlock()
	m.Lock()
	return m.Unlock, nil
}

type published struct {
	channel string
	body    []byte
}

type memPublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

var _ interfaces.IPublisher = (*memPublisher)(nil)

func (p *memPublisher) Publish(_ context.Context, channel string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{channel: channel, body: append([]byte(nil), body...)})
	return nil
}

func (p *memPublisher) on(channel string) []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []published
	for _, m := range p.msgs {
		if m.channel == channel {
			out = append(out, m)
		}
	}
	return out
}

type staticReferences map[entities.EntityType]map[entities.RefID]entities.ReferenceEntity

var _ interfaces.IReferenceCache = staticReferences(nil)

func (s staticReferences) Get(t entities.EntityType, id entities.RefID) (entities.ReferenceEntity, error) {
	set, ok := s[t]
	if !ok {
		return entities.ReferenceEntity{}, entities.ErrReferenceNotLoaded
	}
	e, ok := set[id]
	if !ok {
		return entities.ReferenceEntity{}, entities.ErrReferenceNotFound
	}
	return e, nil
}

func defaultReferences() staticReferences {
	refs := staticReferences{}
	add := func(t entities.EntityType, ids ...string) {
		set := map[entities.RefID]entities.ReferenceEntity{}
		for _, id := range ids {
			set[entities.RefID(id)] = entities.ReferenceEntity{Type: t, ID: entities.RefID(id), Name: string(t) + " " + id}
		}
		refs[t] = set
	}
	add(entities.EntityTypeCommodity, "7", "8")
	add(entities.EntityTypeEquipmentType, "2")
	add(entities.EntityTypeLoadType, "1")
	add(entities.EntityTypeFreightClass, "50")
	add(entities.EntityTypeTermsOfSale, "FOB")
	return refs
}

func decodeMessage[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return v
}

var testNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
