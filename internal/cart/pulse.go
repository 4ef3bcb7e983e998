package cart

import (
	"sync"
	"time"
)

// DefaultPulseDelay is how long the "just added" marker stays set.
const DefaultPulseDelay = 1500 * time.Millisecond

// Pulse clears the store's LastAdded marker a fixed delay after each add.
// Another add before the delay elapses restarts the countdown.
type Pulse struct {
	store       *Store
	delay       time.Duration
	unsubscribe func()

	mu      sync.Mutex
	timer   *time.Timer
	gen     int
	stopped bool
}

// NewPulse attaches a Pulse to store.
func NewPulse(store *Store, delay time.Duration) *Pulse {
	if delay <= 0 {
		delay = DefaultPulseDelay
	}
	p := &Pulse{store: store, delay: delay}
	p.unsubscribe = store.Subscribe(p.observe)
	return p
}

func (p *Pulse) observe(s State) {
	if s.LastAdded.IsZero() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.gen++
	gen := p.gen
	p.timer = time.AfterFunc(p.delay, func() { p.fire(gen) })
}

// fire resets the marker unless the pulse was stopped or a newer add
// rescheduled it.
func (p *Pulse) fire(gen int) {
	p.mu.Lock()
	current := !p.stopped && gen == p.gen
	if current {
		p.timer = nil
	}
	p.mu.Unlock()
	if current {
		p.store.ResetTimestamp()
	}
}

// Stop detaches the Pulse and cancels any pending reset.
func (p *Pulse) Stop() {
	// Unsubscribe first: observe runs under the store lock and takes p.mu.
	p.unsubscribe()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
