package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Registry holds the process-wide counters. A nil Registry is valid
// and counts nothing.
type Registry struct {
	RequestsServed Counter
	OrdersCreated  Counter
	AuthFailures   Counter
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Snapshot returns the current counter values keyed by name, for the
// health endpoint.
func (r *Registry) Snapshot() map[string]uint64 {
	if r == nil {
		return nil
	}
	return map[string]uint64{
		"requests_served": r.RequestsServed.Load(),
		"orders_created":  r.OrdersCreated.Load(),
		"auth_failures":   r.AuthFailures.Load(),
	}
}
