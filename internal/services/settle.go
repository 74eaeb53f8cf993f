package services

import (
	"context"
	"time"
)

// DefaultSettleInterval is the grace period the backend needs between
// attaching lines and completing an order.
const DefaultSettleInterval = 3 * time.Second

// Settler waits until the backend has settled the lines of an order.
type Settler interface {
	Settle(ctx context.Context, orderID int64) error
}

// SettlerFunc adapts a function to Settler.
type SettlerFunc func(ctx context.Context, orderID int64) error

// Settle calls f.
func (f SettlerFunc) Settle(ctx context.Context, orderID int64) error {
	return f(ctx, orderID)
}

// FixedDelaySettler waits a fixed interval, or until ctx is done.
type FixedDelaySettler struct {
	Delay time.Duration
}

// Settle implements Settler.
func (s FixedDelaySettler) Settle(ctx context.Context, _ int64) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
