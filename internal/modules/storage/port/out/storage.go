package out

import "context"

// KV is a string key-value substrate. Adapters that also implement
// tx.Manager honour the transaction carried in ctx.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// StateReloader is told to re-read storage after it was replaced wholesale.
type StateReloader interface {
	Reload(ctx context.Context) error
}
