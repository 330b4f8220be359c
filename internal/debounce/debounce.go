// Package debounce delays search text promotion until typing pauses.
package debounce

import (
	"sync"
	"time"
)

// Timer is the subset of *time.Timer the debouncer needs
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d; time.AfterFunc in production
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer promotes the latest input once no new input arrived for the
// quiet period. Each accepted input supersedes every earlier one.
type Debouncer struct {
	mu        sync.Mutex
	delay     time.Duration
	promote   func(string)
	afterFunc AfterFunc

	timer   Timer
	pending string
	hasPend bool
	gen     uint64
	stopped bool

	// newest generation handed to promote, and its text
	deliveredGen  uint64
	deliveredText string
}

// Option configures a Debouncer
type Option func(*Debouncer)

// WithAfterFunc replaces the timer source (tests)
func WithAfterFunc(f AfterFunc) Option {
	return func(d *Debouncer) {
		d.afterFunc = f
	}
}

// New creates a debouncer calling promote with the settled text. A zero
// delay promotes synchronously on every input.
func New(delay time.Duration, promote func(string), opts ...Option) *Debouncer {
	d := &Debouncer{
		delay:     delay,
		promote:   promote,
		afterFunc: realAfterFunc,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Input records text and restarts the quiet period
func (d *Debouncer) Input(text string) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = text
	d.hasPend = true

	if d.delay <= 0 {
		d.hasPend = false
		gen := d.gen
		d.mu.Unlock()
		d.deliver(gen, text)
		return
	}

	gen := d.gen
	d.timer = d.afterFunc(d.delay, func() { d.fire(gen) })
	d.mu.Unlock()
}

// fire promotes if no newer input or flush happened since gen was issued
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen || !d.hasPend {
		d.mu.Unlock()
		return
	}
	text := d.pending
	d.hasPend = false
	d.timer = nil
	d.mu.Unlock()

	d.deliver(gen, text)
}

// Flush promotes pending text now. Reports whether anything was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.stopped || !d.hasPend {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	gen := d.gen
	text := d.pending
	d.hasPend = false
	d.mu.Unlock()

	d.deliver(gen, text)
	return true
}

// deliver calls promote and keeps the last promoted value the newest one:
// when a newer generation was delivered while this call was running, the
// newer text is promoted again once this call returns.
func (d *Debouncer) deliver(gen uint64, text string) {
	d.mu.Lock()
	if gen > d.deliveredGen {
		d.deliveredGen = gen
		d.deliveredText = text
	}
	d.mu.Unlock()

	d.promote(text)

	d.mu.Lock()
	if d.stopped || d.deliveredGen <= gen {
		d.mu.Unlock()
		return
	}
	newer, newerText := d.deliveredGen, d.deliveredText
	d.mu.Unlock()

	d.deliver(newer, newerText)
}

// Pending returns the text waiting to be promoted
func (d *Debouncer) Pending() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending, d.hasPend
}

// Stop cancels any pending promotion; later calls are ignored
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.stopped = true
	d.hasPend = false
	d.gen++
}
