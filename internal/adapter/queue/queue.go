// Package queue implements the at-least-once channel transport used between the HTTP
// surface, the orchestrators and their callers.
//
// Handler failures are requeued with exponential backoff until MaxDeliveries, then the
// message is moved to "<channel>.dlq". Errors wrapping interfaces.ErrUnprocessable skip
// the retries.
package queue

import (
	"cargo_cover/internal/usecase/interfaces"
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

// Message is one delivery of a published body. Attempt starts at 1.
type Message struct {
	ID          string
	Channel     string
	Body        []byte
	Attempt     int
	PublishedAt time.Time
}

// Handler processes one delivery. Returning nil acknowledges the message.
type Handler func(ctx context.Context, msg Message) error

// Transport is a durable publish/subscribe channel set with manual acknowledgment.
type Transport interface {
	interfaces.IPublisher
	Subscribe(channel string, h Handler) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// DeadLetter is a message that exhausted its deliveries or was unprocessable.
type DeadLetter struct {
	OriginalID string
	Channel    string
	Body       []byte
	Error      string
	Attempts   int
	FailedAt   time.Time
}

var (
	ErrAlreadyStarted   = errors.New("queue: transport already started")
	ErrNotStarted       = errors.New("queue: transport not started")
	ErrDuplicateHandler = errors.New("queue: channel already has a handler")
	ErrStopped          = errors.New("queue: transport stopped")
)

type Config struct {
	// Workers is the number of concurrent handlers per channel.
	Workers int
	// MaxDeliveries bounds handler invocations per message, the first included.
	MaxDeliveries int
	BaseBackoff   time.Duration
	MaxBackoff    time.Duration

	// Redis streams only.
	Group        string
	Consumer     string
	Block        time.Duration
	ClaimIdle    time.Duration
	PollInterval time.Duration

	// In-memory only.
	Buffer int
}

func DefaultConfig() Config {
	return Config{
		Workers:       4,
		MaxDeliveries: 5,
		BaseBackoff:   time.Second,
		MaxBackoff:    time.Minute,
		Group:         "cargo-cover",
		Consumer:      "worker-1",
		Block:         2 * time.Second,
		ClaimIdle:     5 * time.Minute,
		PollInterval:  500 * time.Millisecond,
		Buffer:        1024,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.MaxDeliveries <= 0 {
		c.MaxDeliveries = d.MaxDeliveries
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = d.BaseBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = d.MaxBackoff
	}
	if c.Group == "" {
		c.Group = d.Group
	}
	if c.Consumer == "" {
		c.Consumer = d.Consumer
	}
	if c.Block <= 0 {
		c.Block = d.Block
	}
	if c.ClaimIdle <= 0 {
		c.ClaimIdle = d.ClaimIdle
	}
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.Buffer <= 0 {
		c.Buffer = d.Buffer
	}
	return c
}

// Backoff is the delay before delivery attempt+1: base * 2^(attempt-1), capped at max.
func (c Config) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := c.BaseBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= c.MaxBackoff || d <= 0 {
			return c.MaxBackoff
		}
	}
	if d > c.MaxBackoff {
		return c.MaxBackoff
	}
	return d
}

// Permanent marks err so the message is dead-lettered without further deliveries.
func Permanent(err error) error {
	if err == nil || errors.Is(err, interfaces.ErrUnprocessable) {
		return err
	}
	return fmt.Errorf("%w: %w", interfaces.ErrUnprocessable, err)
}

func isPermanent(err error) bool {
	return errors.Is(err, interfaces.ErrUnprocessable)
}

type outcome int

const (
	outcomeAck outcome = iota
	outcomeRetry
	outcomeDeadLetter
)

func decide(err error, attempt, maxDeliveries int) outcome {
	switch {
	case err == nil:
		return outcomeAck
	case isPermanent(err), attempt >= maxDeliveries:
		return outcomeDeadLetter
	default:
		return outcomeRetry
	}
}

// invoke runs h and turns a panic into an error.
func invoke(ctx context.Context, h Handler, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("queue: handler panic on %s: %v\n%s", msg.Channel, r, debug.Stack())
		}
	}()
	return h(ctx, msg)
}
