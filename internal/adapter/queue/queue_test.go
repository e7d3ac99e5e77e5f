package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"cargo_cover/internal/usecase/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Backoff(t *testing.T) {
	cfg := Config{BaseBackoff: time.Second, MaxBackoff: 10 * time.Second}

	assert.Equal(t, time.Second, cfg.Backoff(0))
	assert.Equal(t, time.Second, cfg.Backoff(1))
	assert.Equal(t, 2*time.Second, cfg.Backoff(2))
	assert.Equal(t, 4*time.Second, cfg.Backoff(3))
	assert.Equal(t, 8*time.Second, cfg.Backoff(4))
	assert.Equal(t, 10*time.Second, cfg.Backoff(5))
	assert.Equal(t, 10*time.Second, cfg.Backoff(80))
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{Workers: 2}.withDefaults()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, DefaultConfig().MaxDeliveries, cfg.MaxDeliveries)
	assert.Equal(t, DefaultConfig().Group, cfg.Group)
}

func TestPermanent(t *testing.T) {
	assert.NoError(t, Permanent(nil))

	cause := errors.New("bad json")
	err := Permanent(cause)
	assert.ErrorIs(t, err, interfaces.ErrUnprocessable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, err, Permanent(err))
}

func TestDecide(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name    string
		err     error
		attempt int
		want    outcome
	}{
		{"success", nil, 1, outcomeAck},
		{"first failure", boom, 1, outcomeRetry},
		{"last failure", boom, 3, outcomeDeadLetter},
		{"permanent", Permanent(boom), 1, outcomeDeadLetter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, decide(tc.err, tc.attempt, 3))
		})
	}
}

func TestInvoke_RecoversPanic(t *testing.T) {
	err := invoke(context.Background(), func(context.Context, Message) error {
		panic("nil map")
	}, Message{Channel: "quote-requested"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler panic on quote-requested: nil map")
}
