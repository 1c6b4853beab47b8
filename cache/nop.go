package cache

import (
	"context"
	"time"
)

// Nop is used when Redis is disabled: every read misses, writes are dropped
// and counters never trip a limit.
type Nop struct{}

func (Nop) Get(context.Context, string, interface{}) error                { return ErrMiss }
func (Nop) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (Nop) Delete(context.Context, ...string) error                       { return nil }
func (Nop) DeletePattern(context.Context, string) error                   { return nil }
func (Nop) Ping(context.Context) error                                    { return nil }
func (Nop) Close() error                                                  { return nil }

func (Nop) IncrementCounter(context.Context, string, time.Duration) (int64, error) {
	return 0, nil
}
