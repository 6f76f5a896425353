package backend

import (
	"context"
	"sync"
	"time"
)

// pacer spaces kernel requests shared by all pollers of a watcher. After a
// failed fetch the gap doubles, up to max, until a fetch succeeds again.
type pacer struct {
	gap time.Duration
	max time.Duration

	mu      sync.Mutex
	next    time.Time
	backoff time.Duration
}

func newPacer(gap, max time.Duration) *pacer {
	if max < gap {
		max = gap
	}
	return &pacer{gap: gap, max: max}
}

// wait blocks until the next request slot is free or ctx is done.
func (p *pacer) wait(ctx context.Context) error {
	if p == nil || p.gap <= 0 {
		return ctx.Err()
	}
	p.mu.Lock()
	now := time.Now()
	slot := p.next
	if slot.Before(now) {
		slot = now
	}
	p.next = slot.Add(p.gap + p.backoff)
	p.mu.Unlock()

	delay := time.Until(slot)
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// record adjusts the backoff after a fetch.
func (p *pacer) record(err error) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		p.backoff = 0
		return
	}
	switch {
	case p.backoff == 0:
		p.backoff = p.gap
	case p.backoff < p.max:
		p.backoff *= 2
	}
	if p.backoff > p.max {
		p.backoff = p.max
	}
}
