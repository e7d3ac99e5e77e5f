package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"cargo_cover/internal/infrastructure/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func startRedis(t *testing.T, client *redis.Client, m *metrics.Metrics, channel string, h Handler) *RedisTransport {
	t.Helper()
	tr := NewRedisTransport(client, fastConfig(), m, nil)
	require.NoError(t, tr.Subscribe(channel, h))
	require.NoError(t, tr.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = tr.Stop(ctx)
	})
	return tr
}

func pendingCount(t *testing.T, client *redis.Client, channel string) int64 {
	t.Helper()
	p, err := client.XPending(context.Background(), channel, DefaultConfig().Group).Result()
	require.NoError(t, err)
	return p.Count
}

func TestRedisTransport_DeliversAndAcks(t *testing.T) {
	_, client := newRedis(t)
	m := metrics.New()
	got := make(chan Message, 1)
	tr := startRedis(t, client, m, "quote-requested", func(_ context.Context, msg Message) error {
		got <- msg
		return nil
	})

	require.NoError(t, tr.Publish(context.Background(), "quote-requested", []byte(`{"correlationId":"c-1"}`)))

	select {
	case msg := <-got:
		assert.Equal(t, `{"correlationId":"c-1"}`, string(msg.Body))
		assert.Equal(t, 1, msg.Attempt)
		assert.Equal(t, "quote-requested", msg.Channel)
		assert.False(t, msg.PublishedAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
	require.Eventually(t, func() bool { return pendingCount(t, client, "quote-requested") == 0 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		n, err := testutil.GatherAndCount(m.Registry(), "cargo_cover_queue_acked_total")
		return err == nil && n == 1
	}, time.Second, 5*time.Millisecond)
}

func TestRedisTransport_RetriesWithBackoff(t *testing.T) {
	mr, client := newRedis(t)
	var calls atomic.Int32
	attempts := make(chan int, 3)
	startRedis(t, client, nil, "booking-requested", func(_ context.Context, msg Message) error {
		attempts <- msg.Attempt
		if calls.Add(1) < 3 {
			return errors.New("provider unavailable")
		}
		return nil
	})

	require.NoError(t, client.XAdd(context.Background(), &redis.XAddArgs{
		Stream: "booking-requested",
		Values: map[string]interface{}{"body": "b-1", "attempt": 1},
	}).Err())

	require.Eventually(t, func() bool { return calls.Load() == 3 }, 3*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, <-attempts)
	assert.Equal(t, 2, <-attempts)
	assert.Equal(t, 3, <-attempts)

	require.Eventually(t, func() bool { return !mr.Exists(retryKey("booking-requested")) }, time.Second, 5*time.Millisecond)
	assert.False(t, mr.Exists("booking-requested.dlq"))
}

func TestRedisTransport_DeadLettersAfterMaxDeliveries(t *testing.T) {
	_, client := newRedis(t)
	var calls atomic.Int32
	tr := startRedis(t, client, nil, "booking-requested", func(context.Context, Message) error {
		calls.Add(1)
		return errors.New("still down")
	})

	require.NoError(t, tr.Publish(context.Background(), "booking-requested", []byte(`{"quoteId":"Q-1"}`)))

	var dls []DeadLetter
	require.Eventually(t, func() bool {
		var err error
		dls, err = tr.DeadLetters(context.Background(), "booking-requested", 10)
		return err == nil && len(dls) == 1
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, `{"quoteId":"Q-1"}`, string(dls[0].Body))
	assert.Equal(t, "still down", dls[0].Error)
	assert.Equal(t, 3, dls[0].Attempts)
	assert.NotEmpty(t, dls[0].OriginalID)
	assert.False(t, dls[0].FailedAt.IsZero())
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, int64(0), pendingCount(t, client, "booking-requested"))
}

func TestRedisTransport_PermanentErrorIsDeadLetteredOnce(t *testing.T) {
	_, client := newRedis(t)
	var calls atomic.Int32
	tr := startRedis(t, client, nil, "quote-requested", func(context.Context, Message) error {
		calls.Add(1)
		return Permanent(errors.New("undecodable"))
	})

	require.NoError(t, tr.Publish(context.Background(), "quote-requested", []byte("{")))

	require.Eventually(t, func() bool {
		dls, err := tr.DeadLetters(context.Background(), "quote-requested", 10)
		return err == nil && len(dls) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRedisTransport_RequeueDueIsExclusive(t *testing.T) {
	mr, client := newRedis(t)
	tr := NewRedisTransport(client, fastConfig(), nil, nil)
	msg := Message{ID: "1-0", Body: []byte("x"), Attempt: 1, PublishedAt: time.Now()}

	require.NoError(t, client.XGroupCreateMkStream(context.Background(), "c", tr.cfg.Group, "0").Err())
	require.NoError(t, tr.scheduleRetry(context.Background(), "c", "1-0", msg, 0))

	moved, err := tr.requeueDue(context.Background(), "c", time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	moved, err = tr.requeueDue(context.Background(), "c", time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.Zero(t, moved)

	entries, err := client.XRange(context.Background(), "c", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	requeued := decodeStreamMessage("c", entries[0])
	assert.Equal(t, 2, requeued.Attempt)
	assert.Equal(t, "1-0", requeued.ID)
	assert.False(t, mr.Exists(retryKey("c")))
}

func TestRedisTransport_SubscribeAfterStart(t *testing.T) {
	_, client := newRedis(t)
	tr := startRedis(t, client, nil, "quote-requested", func(context.Context, Message) error { return nil })

	assert.ErrorIs(t, tr.Subscribe("booking-requested", func(context.Context, Message) error { return nil }), ErrAlreadyStarted)
	assert.ErrorIs(t, tr.Start(context.Background()), ErrAlreadyStarted)
}

// abandon leaves one entry pending for a consumer that never acks, read deliveries times.
func abandon(t *testing.T, client *redis.Client, channel, body string, deliveries int) string {
	t.Helper()
	ctx := context.Background()
	group := DefaultConfig().Group
	require.NoError(t, client.XGroupCreateMkStream(ctx, channel, group, "0").Err())
	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: channel,
		Values: map[string]interface{}{"body": body, "attempt": 1},
	}).Result()
	require.NoError(t, err)
	_, err = client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: "crashed",
		Streams:  []string{channel, ">"},
		Count:    1,
	}).Result()
	require.NoError(t, err)
	for i := 1; i < deliveries; i++ {
		require.NoError(t, client.XClaim(ctx, &redis.XClaimArgs{
			Stream:   channel,
			Group:    group,
			Consumer: "crashed",
			Messages: []string{id},
		}).Err())
	}
	return id
}

func startReclaiming(t *testing.T, client *redis.Client, channel string, h Handler) *RedisTransport {
	t.Helper()
	cfg := fastConfig()
	cfg.ClaimIdle = 10 * time.Millisecond
	tr := NewRedisTransport(client, cfg, nil, nil)
	require.NoError(t, tr.Subscribe(channel, h))
	require.NoError(t, tr.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = tr.Stop(ctx)
	})
	return tr
}

func TestRedisTransport_ReclaimCountsAbandonedDeliveries(t *testing.T) {
	_, client := newRedis(t)
	id := abandon(t, client, "booking-requested", `{"quoteId":"Q-1"}`, 1)

	attempts := make(chan int, 1)
	startReclaiming(t, client, "booking-requested", func(_ context.Context, msg Message) error {
		attempts <- msg.Attempt
		return nil
	})

	select {
	case attempt := <-attempts:
		assert.Equal(t, 2, attempt)
	case <-time.After(2 * time.Second):
		t.Fatalf("abandoned entry %s was not reclaimed", id)
	}
	require.Eventually(t, func() bool { return pendingCount(t, client, "booking-requested") == 0 }, time.Second, 5*time.Millisecond)
}

func TestRedisTransport_RepeatedlyAbandonedEntryIsDeadLettered(t *testing.T) {
	_, client := newRedis(t)
	id := abandon(t, client, "booking-requested", `{"quoteId":"Q-1"}`, fastConfig().MaxDeliveries)

	var calls atomic.Int32
	tr := startReclaiming(t, client, "booking-requested", func(context.Context, Message) error {
		calls.Add(1)
		return nil
	})

	var dls []DeadLetter
	require.Eventually(t, func() bool {
		var err error
		dls, err = tr.DeadLetters(context.Background(), "booking-requested", 10)
		return err == nil && len(dls) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, id, dls[0].OriginalID)
	assert.Equal(t, `{"quoteId":"Q-1"}`, string(dls[0].Body))
	assert.Equal(t, 3, dls[0].Attempts)
	assert.Contains(t, dls[0].Error, "without an outcome")
	assert.Zero(t, calls.Load())
	require.Eventually(t, func() bool { return pendingCount(t, client, "booking-requested") == 0 }, time.Second, 5*time.Millisecond)
}
