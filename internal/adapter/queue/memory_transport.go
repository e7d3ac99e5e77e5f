package queue

import (
	"cargo_cover/internal/infrastructure/metrics"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemoryTransport is an in-process Transport with the same delivery rules as the redis
// one. Messages do not survive a restart; it backs tests and single-process runs.
type MemoryTransport struct {
	cfg     Config
	metrics *metrics.Metrics
	logger  *zap.Logger

	// mu guards the channel set; publishers hold it shared while sending so Stop
	// cannot close a queue under them.
	mu       sync.RWMutex
	handlers map[string]Handler
	queues   map[string]chan Message
	started  bool
	stopped  bool

	logMu       sync.Mutex
	history     map[string][]Message
	deadLetters map[string][]DeadLetter

	timerMu sync.Mutex
	timers  map[*time.Timer]struct{}

	handlerCancel context.CancelFunc
	wg            sync.WaitGroup
}

var _ Transport = (*MemoryTransport)(nil)

func NewMemoryTransport(cfg Config, m *metrics.Metrics, logger *zap.Logger) *MemoryTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryTransport{
		cfg:         cfg.withDefaults(),
		metrics:     m,
		logger:      logger.Named("queue"),
		handlers:    map[string]Handler{},
		queues:      map[string]chan Message{},
		history:     map[string][]Message{},
		deadLetters: map[string][]DeadLetter{},
		timers:      map[*time.Timer]struct{}{},
	}
}

func (t *MemoryTransport) Publish(ctx context.Context, channel string, body []byte) error {
	msg := Message{
		ID:          uuid.NewString(),
		Channel:     channel,
		Body:        append([]byte(nil), body...),
		Attempt:     1,
		PublishedAt: time.Now().UTC(),
	}
	return t.enqueue(ctx, msg)
}

// enqueue hands msg to the workers of its channel. Channels nobody subscribed to only
// keep the History record.
func (t *MemoryTransport) enqueue(ctx context.Context, msg Message) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.stopped {
		return ErrStopped
	}

	if msg.Attempt == 1 {
		t.logMu.Lock()
		t.history[msg.Channel] = append(t.history[msg.Channel], msg)
		t.logMu.Unlock()
	}

	q, ok := t.queues[msg.Channel]
	if !ok {
		return nil
	}
	select {
	case q <- msg:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("queue: publish %s: %w", msg.Channel, ctx.Err())
	}
}

func (t *MemoryTransport) Subscribe(channel string, h Handler) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return ErrAlreadyStarted
	}
	if _, ok := t.handlers[channel]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, channel)
	}
	t.handlers[channel] = h
	t.queues[channel] = make(chan Message, t.cfg.Buffer)
	return nil
}

func (t *MemoryTransport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return ErrAlreadyStarted
	}
	t.started = true

	handlerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	t.handlerCancel = cancel
	for channel, h := range t.handlers {
		q := t.queues[channel]
		for i := 0; i < t.cfg.Workers; i++ {
			t.wg.Add(1)
			go func() {
				defer t.wg.Done()
				for msg := range q {
					t.process(handlerCtx, h, msg)
				}
			}()
		}
	}
	return nil
}

// Stop rejects new publishes, drops scheduled retries and waits for the workers to
// drain what is already queued.
func (t *MemoryTransport) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.started || t.stopped {
		t.mu.Unlock()
		return nil
	}
	t.stopped = true
	for channel := range t.handlers {
		close(t.queues[channel])
	}
	t.mu.Unlock()

	t.timerMu.Lock()
	for timer := range t.timers {
		timer.Stop()
	}
	t.timers = map[*time.Timer]struct{}{}
	t.timerMu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		t.handlerCancel()
		return nil
	case <-ctx.Done():
		t.handlerCancel()
		<-done
		return ctx.Err()
	}
}

func (t *MemoryTransport) process(ctx context.Context, h Handler, msg Message) {
	log := t.logger.With(zap.String("channel", msg.Channel), zap.String("id", msg.ID), zap.Int("attempt", msg.Attempt))
	t.metrics.QueueDelivered(msg.Channel)

	started := time.Now()
	err := invoke(ctx, h, msg)
	took := time.Since(started)

	switch decide(err, msg.Attempt, t.cfg.MaxDeliveries) {
	case outcomeAck:
		t.metrics.QueueAcked(msg.Channel, took)

	case outcomeRetry:
		delay := t.cfg.Backoff(msg.Attempt)
		log.Warn("handler failed; retry scheduled", zap.Duration("backoff", delay), zap.Error(err))
		t.metrics.QueueRetried(msg.Channel, took)
		next := msg
		next.Attempt++
		t.scheduleRetry(next, delay, log)

	case outcomeDeadLetter:
		log.Error("message dead-lettered", zap.Error(err))
		t.logMu.Lock()
		t.deadLetters[msg.Channel] = append(t.deadLetters[msg.Channel], DeadLetter{
			OriginalID: msg.ID,
			Channel:    msg.Channel,
			Body:       msg.Body,
			Error:      err.Error(),
			Attempts:   msg.Attempt,
			FailedAt:   time.Now().UTC(),
		})
		t.logMu.Unlock()
		t.metrics.QueueDeadLettered(msg.Channel)
	}
}

func (t *MemoryTransport) scheduleRetry(next Message, delay time.Duration, log *zap.Logger) {
	t.timerMu.Lock()
	defer t.timerMu.Unlock()
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		t.timerMu.Lock()
		delete(t.timers, timer)
		t.timerMu.Unlock()
		if err := t.enqueue(context.Background(), next); err != nil {
			log.Warn("retry dropped", zap.Error(err))
		}
	})
	t.timers[timer] = struct{}{}
}

// DeadLetters returns a copy of the dead-lettered messages of channel.
func (t *MemoryTransport) DeadLetters(channel string) []DeadLetter {
	t.logMu.Lock()
	defer t.logMu.Unlock()
	return append([]DeadLetter(nil), t.deadLetters[channel]...)
}

// History returns every message first published on channel, in publish order.
func (t *MemoryTransport) History(channel string) []Message {
	t.logMu.Lock()
	defer t.logMu.Unlock()
	return append([]Message(nil), t.history[channel]...)
}
