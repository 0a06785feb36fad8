package globals

import (
	"context"
	"tennisscout/internal/cache"
	"tennisscout/internal/scout"
	"tennisscout/internal/telemetry"
)

type key struct{}

type Value struct {
	Telemetry telemetry.API
	Cache     cache.Maintainable
	Scout     scout.Service
	// Close releases the cache and flushes telemetry.
	Close func() error
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key{}, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key{}).(*Value)
}
