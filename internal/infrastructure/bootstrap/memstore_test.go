package bootstrap

import (
	"context"
	"sort"
	"sync"
	"time"

	"cargo_cover/internal/domain/entities"
)

// memStore keeps every table in maps so the wiring can run without DynamoDB.
type memStore struct {
	mu           sync.Mutex
	quotes       map[string]entities.Quote
	bookings     map[string]entities.Booking
	certificates map[string]entities.Certificate
	reference    map[entities.EntityType][]entities.ReferenceEntity
}

func newMemStore() *memStore {
	return &memStore{
		quotes:       map[string]entities.Quote{},
		bookings:     map[string]entities.Booking{},
		certificates: map[string]entities.Certificate{},
		reference:    map[entities.EntityType][]entities.ReferenceEntity{},
	}
}

func (s *memStore) stores() Stores {
	return Stores{
		Quotes:       memQuotes{s},
		Bookings:     memBookings{s},
		Certificates: memCertificates{s},
		Reference:    memReference{s},
	}
}

type memQuotes struct{ *memStore }

func (s memQuotes) Create(_ context.Context, q entities.Quote) (entities.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quotes[q.CorrelationID]; ok {
		return entities.Quote{}, entities.ErrAlreadyExists
	}
	s.quotes[q.CorrelationID] = q
	return q, nil
}

func (s memQuotes) GetByCorrelationID(_ context.Context, id string) (entities.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quotes[id], nil
}

func (s memQuotes) GetByQuoteID(_ context.Context, quoteID string) (entities.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.quotes {
		if q.QuoteID == quoteID {
			return q, nil
		}
	}
	return entities.Quote{}, nil
}

func (s memQuotes) ListByStatus(_ context.Context, status entities.QuoteStatus) ([]entities.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.Quote
	for _, q := range s.quotes {
		if q.Status == status {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s memQuotes) MarkExpired(_ context.Context, id string, now time.Time) (entities.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotes[id]
	if !ok || q.Status != entities.QuoteStatusPriced {
		return entities.Quote{}, entities.ErrVersionConflict
	}
	q.Status = entities.QuoteStatusExpired
	q.UpdatedAt = now
	s.quotes[id] = q
	return q, nil
}

type memBookings struct{ *memStore }

func (s memBookings) Create(_ context.Context, b entities.Booking) (entities.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[b.ID]; ok {
		return entities.Booking{}, entities.ErrAlreadyExists
	}
	s.bookings[b.ID] = b
	return b, nil
}

func (s memBookings) GetByID(_ context.Context, id string) (entities.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id], nil
}

func (s memBookings) GetByCorrelationID(_ context.Context, id string) (entities.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.CorrelationID == id {
			return b, nil
		}
	}
	return entities.Booking{}, nil
}

func (s memBookings) ListByPolicyNumber(_ context.Context, policyNumber string) ([]entities.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.Booking
	for _, b := range s.bookings {
		if b.PolicyNumber == policyNumber {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s memBookings) List(_ context.Context, cursor string, limit int) ([]entities.Booking, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.bookings))
	for id := range s.bookings {
		if id > cursor {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	next := ""
	if len(ids) > limit {
		ids = ids[:limit]
		next = ids[limit-1]
	}
	out := make([]entities.Booking, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.bookings[id])
	}
	return out, next, nil
}

type memCertificates struct{ *memStore }

func (s memCertificates) Create(_ context.Context, c entities.Certificate) (entities.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.certificates[c.CertificateNumber]; ok {
		return entities.Certificate{}, entities.ErrAlreadyExists
	}
	s.certificates[c.CertificateNumber] = c
	return c, nil
}

func (s memCertificates) GetByNumber(_ context.Context, number string) (entities.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.certificates[number], nil
}

func (s memCertificates) UpdateLink(_ context.Context, number, bookingID string, expected int64) (entities.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.certificates[number]
	if !ok || c.Version != expected {
		return entities.Certificate{}, entities.ErrVersionConflict
	}
	c.BookingID = bookingID
	c.Version++
	s.certificates[number] = c
	return c, nil
}

func (s memCertificates) FlagForReview(_ context.Context, number, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.certificates[number]; ok {
		c.NeedsReview = true
		c.ReviewReason = reason
		s.certificates[number] = c
	}
	return nil
}

func (s memCertificates) List(_ context.Context, cursor string, limit int) ([]entities.Certificate, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	numbers := make([]string, 0, len(s.certificates))
	for n := range s.certificates {
		if n > cursor {
			numbers = append(numbers, n)
		}
	}
	sort.Strings(numbers)
	next := ""
	if len(numbers) > limit {
		numbers = numbers[:limit]
		next = numbers[limit-1]
	}
	out := make([]entities.Certificate, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, s.certificates[n])
	}
	return out, next, nil
}

type memReference struct{ *memStore }

func (s memReference) ReplaceAll(_ context.Context, t entities.EntityType, items []entities.ReferenceEntity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reference[t] = append([]entities.ReferenceEntity(nil), items...)
	return nil
}

func (s memReference) ListAll(_ context.Context, t entities.EntityType) ([]entities.ReferenceEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.ReferenceEntity(nil), s.reference[t]...), nil
}
