package tx

import "context"

// Manager wraps transactional boundaries for multi-key writes. Adapters that
// support transactions carry the open transaction inside the context passed to fn.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// ManagerFunc adapts a plain function to Manager.
type ManagerFunc func(ctx context.Context, fn func(context.Context) error) error

func (f ManagerFunc) Within(ctx context.Context, fn func(context.Context) error) error {
	return f(ctx, fn)
}
