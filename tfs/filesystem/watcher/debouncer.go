package watcher

import (
	"sort"
	"sync"
	"time"
)

type pending struct {
	names map[string]struct{}
	all   bool
	first time.Time
	timer *time.Timer
}

// Debouncer coalesces arrivals per directory until the directory has been
// quiet for the delay, or until the max delay since the first arrival passed.
type Debouncer struct {
	delay    time.Duration
	maxDelay time.Duration
	out      chan Batch
	done     chan struct{}
	closed   bool
	mu       sync.Mutex
	pending  map[string]*pending
	now      func() time.Time
}

// NewDebouncer creates a new debouncer
func NewDebouncer(delay, maxDelay time.Duration, queueCapacity int) *Debouncer {
	if maxDelay < delay {
		maxDelay = delay
	}
	return &Debouncer{
		delay:    delay,
		maxDelay: maxDelay,
		out:      make(chan Batch, queueCapacity),
		done:     make(chan struct{}),
		pending:  make(map[string]*pending),
		now:      time.Now,
	}
}

// Add records that name arrived in dir. An empty name marks the whole
// directory.
func (d *Debouncer) Add(dir, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	p, ok := d.pending[dir]
	if !ok {
		p = &pending{names: make(map[string]struct{}), first: d.now()}
		d.pending[dir] = p
	}
	if name == "" {
		p.all = true
	} else {
		p.names[name] = struct{}{}
	}

	wait := d.delay
	if remaining := d.maxDelay - d.now().Sub(p.first); remaining < wait {
		wait = max(remaining, 0)
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(wait, func() { d.flush(dir, p) })
}

// Batches returns the debounced batches.
func (d *Debouncer) Batches() <-chan Batch {
	return d.out
}

func (d *Debouncer) flush(dir string, p *pending) {
	d.mu.Lock()
	// A newer arrival may have replaced the batch this timer belonged to
	if d.closed || d.pending[dir] != p {
		d.mu.Unlock()
		return
	}
	delete(d.pending, dir)
	d.mu.Unlock()

	b := Batch{Dir: dir, All: p.all}
	for n := range p.names {
		b.Names = append(b.Names, n)
	}
	sort.Strings(b.Names)

	select {
	case d.out <- b:
	case <-d.done:
	}
}

// Close stops the debouncer and drops pending arrivals.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for _, p := range d.pending {
		if p.timer != nil {
			p.timer.Stop()
		}
	}
	d.pending = map[string]*pending{}
	close(d.done)
}
