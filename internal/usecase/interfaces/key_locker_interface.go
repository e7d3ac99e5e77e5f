package interfaces

import "context"

// IKeyLocker serializes work on a business key across workers.
type IKeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
