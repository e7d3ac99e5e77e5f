package interfaces

import (
	"context"
	"errors"
)

// ErrUnprocessable marks a message that no redelivery can fix (e.g. malformed payload).
// Transports dead-letter it immediately instead of requeueing.
var ErrUnprocessable = errors.New("unprocessable message")

// IPublisher enqueues a message body on a logical channel.
type IPublisher interface {
	Publish(ctx context.Context, channel string, body []byte) error
}
