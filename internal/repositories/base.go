package repositories

import (
	"time"

	"go.uber.org/zap"

	"storefront/pkg/httpapi"
)

const defaultConcurrency = 8

type base struct {
	api         *httpapi.Client
	paths       Paths
	logger      *zap.Logger
	now         func() time.Time
	concurrency int
}

// Option customises an HTTP repository.
type Option func(*base)

// WithPaths overrides the backend resource prefixes.
func WithPaths(p Paths) Option {
	return func(b *base) {
		b.paths = p.withDefaults()
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *base) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithClock replaces the clock used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		if now != nil {
			b.now = now
		}
	}
}

// WithConcurrency bounds the number of in-flight calls of batch operations.
func WithConcurrency(n int) Option {
	return func(b *base) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

func newBase(api *httpapi.Client, opts []Option) base {
	b := base{
		api:         api,
		paths:       DefaultPaths(),
		logger:      zap.NewNop(),
		now:         time.Now,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}
