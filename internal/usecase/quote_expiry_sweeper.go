package usecase

import (
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/infrastructure/clock"
	"cargo_cover/internal/usecase/interfaces"
	"context"
	"errors"

	"go.uber.org/zap"
)

// QuoteExpirySweeper moves priced quotes past their expiry to expired. Booking validation
// checks expiry on its own, so the sweep only keeps stored statuses honest.
type QuoteExpirySweeper struct {
	quotes interfaces.IQuoteRepository
	clock  clock.Clock
	logger *zap.Logger
}

func NewQuoteExpirySweeper(quotes interfaces.IQuoteRepository, clk clock.Clock, logger *zap.Logger) *QuoteExpirySweeper {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteExpirySweeper{quotes: quotes, clock: clk, logger: logger.Named("quote-expiry")}
}

// SweepExpired returns how many quotes were transitioned.
func (s *QuoteExpirySweeper) SweepExpired(ctx context.Context) (int, error) {
	priced, err := s.quotes.ListByStatus(ctx, entities.QuoteStatusPriced)
	if err != nil {
		return 0, entities.NewPersistenceError("list priced quotes", err)
	}

	now := s.clock.Now()
	expired := 0
	for _, q := range priced {
		if !q.IsExpired(now) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return expired, err
		}
		_, err := s.quotes.MarkExpired(ctx, q.CorrelationID, now)
		if errors.Is(err, entities.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return expired, entities.NewPersistenceError("expire quote", err)
		}
		expired++
	}
	if expired > 0 {
		s.logger.Info("quotes expired", zap.Int("count", expired))
	}
	return expired, nil
}
