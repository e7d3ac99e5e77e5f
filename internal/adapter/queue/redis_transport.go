package queue

import (
	"cargo_cover/internal/domain/entities"
	"cargo_cover/internal/infrastructure/metrics"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	fieldBody        = "body"
	fieldAttempt     = "attempt"
	fieldPublishedAt = "published_at"
	fieldOriginalID  = "_original_id"
	fieldError       = "_error"
	fieldFailedAt    = "_failed_at"
	fieldChannel     = "_channel"
)

// requeueScript moves one due retry back onto its stream exactly once, even with several
// workers polling the same sorted set.
var requeueScript = redis.NewScript(`
if redis.call('ZREM', KEYS[1], ARGV[1]) == 1 then
  return redis.call('XADD', KEYS[2], '*', 'body', ARGV[2], 'attempt', ARGV[3], 'published_at', ARGV[4], '_original_id', ARGV[5])
end
return false
`)

// retryEntry is the sorted-set member of a parked retry; the score is its due time.
type retryEntry struct {
	OriginalID  string `json:"original_id"`
	Body        string `json:"body"`
	Attempt     int    `json:"attempt"`
	PublishedAt string `json:"published_at"`
}

// delivery is one stream entry handed to a worker. redelivered counts the earlier
// deliveries of the same entry that ended without an ack (consumer crash or kill).
type delivery struct {
	xm          redis.XMessage
	redelivered int
}

func retryKey(channel string) string {
	return channel + ":retry"
}

// RedisTransport runs every channel as a redis stream with one consumer group.
//
//   - XREADGROUP feeds a pool of Workers goroutines per channel.
//   - A failed delivery is acked and parked in "<channel>:retry" until its backoff expires.
//   - Entries left pending by a crashed consumer are reclaimed with XAUTOCLAIM after ClaimIdle.
//     Their XPENDING delivery count is added to the attempt, so an entry that keeps
//     killing its consumer is dead-lettered after MaxDeliveries.
type RedisTransport struct {
	client  redis.UniversalClient
	cfg     Config
	metrics *metrics.Metrics
	logger  *zap.Logger

	mu       sync.Mutex
	handlers map[string]Handler
	started  bool
	stopped  bool

	loopCancel    context.CancelFunc
	handlerCancel context.CancelFunc
	wg            sync.WaitGroup
}

var _ Transport = (*RedisTransport)(nil)

func NewRedisTransport(client redis.UniversalClient, cfg Config, m *metrics.Metrics, logger *zap.Logger) *RedisTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisTransport{
		client:   client,
		cfg:      cfg.withDefaults(),
		metrics:  m,
		logger:   logger.Named("queue"),
		handlers: map[string]Handler{},
	}
}

func (t *RedisTransport) Publish(ctx context.Context, channel string, body []byte) error {
	err := t.client.XAdd(ctx, &redis.XAddArgs{
		Stream: channel,
		Values: map[string]interface{}{
			fieldBody:        string(body),
			fieldAttempt:     1,
			fieldPublishedAt: time.Now().UTC().Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("queue: publish %s: %w", channel, err)
	}
	return nil
}

// Subscribe registers the handler of a channel. It must be called before Start.
func (t *RedisTransport) Subscribe(channel string, h Handler) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return ErrAlreadyStarted
	}
	if _, ok := t.handlers[channel]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, channel)
	}
	t.handlers[channel] = h
	return nil
}

func (t *RedisTransport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return ErrAlreadyStarted
	}

	for channel := range t.handlers {
		// "0" so entries published before the first start are still consumed.
		err := t.client.XGroupCreateMkStream(ctx, channel, t.cfg.Group, "0").Err()
		if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
			return fmt.Errorf("queue: create group %s on %s: %w", t.cfg.Group, channel, err)
		}
	}

	loopCtx, loopCancel := context.WithCancel(context.WithoutCancel(ctx))
	handlerCtx, handlerCancel := context.WithCancel(context.WithoutCancel(ctx))
	t.loopCancel = loopCancel
	t.handlerCancel = handlerCancel
	t.started = true

	for channel, h := range t.handlers {
		t.runChannel(loopCtx, handlerCtx, channel, h)
	}
	t.logger.Info("queue transport started",
		zap.Int("channels", len(t.handlers)),
		zap.String("group", t.cfg.Group),
		zap.String("consumer", t.cfg.Consumer),
		zap.Int("workers", t.cfg.Workers))
	return nil
}

// Stop stops reading, lets in-flight handlers finish and waits for every goroutine.
// When ctx expires first, in-flight handlers are cancelled; their messages stay pending
// and are reclaimed later.
func (t *RedisTransport) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.started || t.stopped {
		t.mu.Unlock()
		return nil
	}
	t.stopped = true
	t.loopCancel()
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		t.handlerCancel()
		t.logger.Info("queue transport stopped")
		return nil
	case <-ctx.Done():
		t.handlerCancel()
		<-done
		return ctx.Err()
	}
}

func (t *RedisTransport) runChannel(loopCtx, handlerCtx context.Context, channel string, h Handler) {
	jobs := make(chan delivery, t.cfg.Workers)
	var producers sync.WaitGroup

	producers.Add(2)
	t.wg.Add(3)
	go func() {
		defer t.wg.Done()
		defer producers.Done()
		t.readLoop(loopCtx, channel, jobs)
	}()
	go func() {
		defer t.wg.Done()
		defer producers.Done()
		t.claimLoop(loopCtx, channel, jobs)
	}()
	go func() {
		defer t.wg.Done()
		producers.Wait()
		close(jobs)
	}()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.retryLoop(loopCtx, channel)
	}()

	for i := 0; i < t.cfg.Workers; i++ {
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			for d := range jobs {
				t.process(handlerCtx, channel, h, d)
			}
		}()
	}
}

func (t *RedisTransport) readLoop(ctx context.Context, channel string, jobs chan<- delivery) {
	for ctx.Err() == nil {
		streams, err := t.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    t.cfg.Group,
			Consumer: t.cfg.Consumer,
			Streams:  []string{channel, ">"},
			Count:    int64(t.cfg.Workers),
			Block:    t.cfg.Block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			t.logger.Warn("xreadgroup failed", zap.String("channel", channel), zap.Error(err))
			sleepCtx(ctx, time.Second)
			continue
		}
		for _, s := range streams {
			for _, xm := range s.Messages {
				select {
				case jobs <- delivery{xm: xm}:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func (t *RedisTransport) claimLoop(ctx context.Context, channel string, jobs chan<- delivery) {
	interval := t.cfg.ClaimIdle / 2
	if interval < t.cfg.PollInterval {
		interval = t.cfg.PollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		start := "0-0"
		for ctx.Err() == nil {
			claimed, next, err := t.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
				Stream:   channel,
				Group:    t.cfg.Group,
				Consumer: t.cfg.Consumer,
				MinIdle:  t.cfg.ClaimIdle,
				Start:    start,
				Count:    int64(t.cfg.Workers),
			}).Result()
			if err != nil {
				if ctx.Err() == nil {
					t.logger.Warn("xautoclaim failed", zap.String("channel", channel), zap.Error(err))
				}
				break
			}
			for _, xm := range claimed {
				redelivered := t.redeliveries(ctx, channel, xm.ID)
				t.logger.Info("reclaimed idle message",
					zap.String("channel", channel),
					zap.String("id", xm.ID),
					zap.Int("redelivered", redelivered))
				select {
				case jobs <- delivery{xm: xm, redelivered: redelivered}:
				case <-ctx.Done():
					return
				}
			}
			if next == "0-0" || next == "" {
				break
			}
			start = next
		}
	}
}

// redeliveries reads the delivery count of a reclaimed entry. The count includes the
// reclaim itself, so an entry read once and reclaimed once reports one redelivery.
// A claimed entry has been abandoned at least once, which is the fallback.
func (t *RedisTransport) redeliveries(ctx context.Context, channel, id string) int {
	pending, err := t.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: channel,
		Group:  t.cfg.Group,
		Start:  id,
		End:    id,
		Count:  1,
	}).Result()
	if err != nil || len(pending) == 0 {
		if err != nil && ctx.Err() == nil {
			t.logger.Warn("xpending failed", zap.String("channel", channel), zap.String("id", id), zap.Error(err))
		}
		return 1
	}
	return max(int(pending[0].RetryCount)-1, 1)
}

func (t *RedisTransport) retryLoop(ctx context.Context, channel string) {
	ticker := time.NewTicker(t.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if _, err := t.requeueDue(ctx, channel, time.Now()); err != nil && ctx.Err() == nil {
			t.logger.Warn("retry requeue failed", zap.String("channel", channel), zap.Error(err))
		}
	}
}

// requeueDue moves every retry due at now back onto the stream.
func (t *RedisTransport) requeueDue(ctx context.Context, channel string, now time.Time) (int, error) {
	members, err := t.client.ZRangeByScore(ctx, retryKey(channel), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: 100,
	}).Result()
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, member := range members {
		var e retryEntry
		if err := json.Unmarshal([]byte(member), &e); err != nil {
			t.logger.Error("dropping malformed retry entry", zap.String("channel", channel), zap.Error(err))
			t.client.ZRem(ctx, retryKey(channel), member)
			continue
		}
		err := requeueScript.Run(ctx, t.client,
			[]string{retryKey(channel), channel},
			member, e.Body, e.Attempt, e.PublishedAt, e.OriginalID,
		).Err()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

func (t *RedisTransport) process(ctx context.Context, channel string, h Handler, d delivery) {
	xm := d.xm
	msg := decodeStreamMessage(channel, xm)
	msg.Attempt += d.redelivered
	log := t.logger.With(zap.String("channel", channel), zap.String("id", xm.ID), zap.Int("attempt", msg.Attempt))

	if msg.Attempt > t.cfg.MaxDeliveries {
		msg.Attempt--
		cause := fmt.Errorf("abandoned after %d deliveries without an outcome", msg.Attempt)
		log.Error("message dead-lettered", zap.Error(cause))
		if derr := t.deadLetter(ctx, channel, xm.ID, msg, cause); derr != nil {
			log.Error("dead-letter failed", zap.Error(derr))
			return
		}
		t.metrics.QueueDeadLettered(channel)
		return
	}
	t.metrics.QueueDelivered(channel)

	started := time.Now()
	err := invoke(ctx, h, msg)
	took := time.Since(started)

	switch decide(err, msg.Attempt, t.cfg.MaxDeliveries) {
	case outcomeAck:
		if ackErr := t.client.XAck(ctx, channel, t.cfg.Group, xm.ID).Err(); ackErr != nil {
			log.Error("xack failed", zap.Error(ackErr))
		}
		t.metrics.QueueAcked(channel, took)

	case outcomeRetry:
		delay := t.cfg.Backoff(msg.Attempt)
		log.Warn("handler failed; retry scheduled", zap.Duration("backoff", delay), zap.Error(err))
		if rerr := t.scheduleRetry(ctx, channel, xm.ID, msg, delay); rerr != nil {
			// Left pending: XAUTOCLAIM redelivers it after ClaimIdle.
			log.Error("retry scheduling failed", zap.Error(rerr))
			return
		}
		t.metrics.QueueRetried(channel, took)

	case outcomeDeadLetter:
		log.Error("message dead-lettered", zap.Error(err))
		if derr := t.deadLetter(ctx, channel, xm.ID, msg, err); derr != nil {
			log.Error("dead-letter failed", zap.Error(derr))
			return
		}
		t.metrics.QueueDeadLettered(channel)
	}
}

func (t *RedisTransport) scheduleRetry(ctx context.Context, channel, id string, msg Message, delay time.Duration) error {
	member, err := json.Marshal(retryEntry{
		OriginalID:  originalID(id, msg),
		Body:        string(msg.Body),
		Attempt:     msg.Attempt + 1,
		PublishedAt: msg.PublishedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	due := time.Now().Add(delay).UnixMilli()
	_, err = t.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZAdd(ctx, retryKey(channel), redis.Z{Score: float64(due), Member: string(member)})
		p.XAck(ctx, channel, t.cfg.Group, id)
		return nil
	})
	return err
}

func (t *RedisTransport) deadLetter(ctx context.Context, channel, id string, msg Message, cause error) error {
	_, err := t.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.XAdd(ctx, &redis.XAddArgs{
			Stream: entities.DeadLetterChannel(channel),
			Values: map[string]interface{}{
				fieldBody:        string(msg.Body),
				fieldAttempt:     msg.Attempt,
				fieldPublishedAt: msg.PublishedAt.Format(time.RFC3339Nano),
				fieldOriginalID:  originalID(id, msg),
				fieldChannel:     channel,
				fieldError:       cause.Error(),
				fieldFailedAt:    time.Now().UTC().Format(time.RFC3339),
			},
		})
		p.XAck(ctx, channel, t.cfg.Group, id)
		return nil
	})
	return err
}

// DeadLetters reads up to count entries of the dead-letter stream of channel.
func (t *RedisTransport) DeadLetters(ctx context.Context, channel string, count int64) ([]DeadLetter, error) {
	entries, err := t.client.XRangeN(ctx, entities.DeadLetterChannel(channel), "-", "+", count).Result()
	if err != nil {
		return nil, fmt.Errorf("queue: read dead letters of %s: %w", channel, err)
	}
	out := make([]DeadLetter, 0, len(entries))
	for _, xm := range entries {
		msg := decodeStreamMessage(channel, xm)
		failedAt, _ := time.Parse(time.RFC3339, stringValue(xm.Values, fieldFailedAt))
		out = append(out, DeadLetter{
			OriginalID: stringValue(xm.Values, fieldOriginalID),
			Channel:    channel,
			Body:       msg.Body,
			Error:      stringValue(xm.Values, fieldError),
			Attempts:   msg.Attempt,
			FailedAt:   failedAt,
		})
	}
	return out, nil
}

// originalID keeps the id of the first delivery across retries.
func originalID(id string, msg Message) string {
	if msg.ID != "" && msg.ID != id {
		return msg.ID
	}
	return id
}

func decodeStreamMessage(channel string, xm redis.XMessage) Message {
	msg := Message{
		ID:      xm.ID,
		Channel: channel,
		Body:    []byte(stringValue(xm.Values, fieldBody)),
		Attempt: 1,
	}
	if orig := stringValue(xm.Values, fieldOriginalID); orig != "" {
		msg.ID = orig
	}
	if n, err := strconv.Atoi(stringValue(xm.Values, fieldAttempt)); err == nil && n > 0 {
		msg.Attempt = n
	}
	if ts, err := time.Parse(time.RFC3339Nano, stringValue(xm.Values, fieldPublishedAt)); err == nil {
		msg.PublishedAt = ts
	}
	return msg
}

func stringValue(values map[string]interface{}, key string) string {
	switch v := values[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
