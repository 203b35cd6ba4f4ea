// Package sysscheme reports the host OS "prefers dark color scheme" signal.
//
// Change detection is poll-based: desktops expose the current setting but
// rarely a portable notification, so the provider compares probe results on
// a timer and notifies subscribers on transitions.
package sysscheme

import (
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
)

// DefaultInterval is the poll interval used when none is configured.
const DefaultInterval = 5 * time.Second

// Provider probes the host color-scheme preference and notifies subscribers
// when it changes.
type Provider struct {
	probe    func() bool
	interval time.Duration

	mu     sync.Mutex
	subs   map[int]func(bool)
	nextID int
	last   bool
	stop   chan struct{}
}

// New creates a provider probing the host OS, polling at the given interval.
// Zero or negative interval selects DefaultInterval.
func New(interval time.Duration) *Provider {
	return NewWithProbe(prefersDark, interval)
}

// NewWithProbe creates a provider with a custom probe, for tests and hosts
// with their own detection.
func NewWithProbe(probe func() bool, interval time.Duration) *Provider {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Provider{probe: probe, interval: interval, subs: map[int]func(bool){}}
}

// PrefersDark reports the current host preference. Idempotent, no side
// effects.
func (p *Provider) PrefersDark() bool { return p.probe() }

// Subscribe registers fn for preference changes and returns an unsubscribe
// function. The poll loop starts with the first subscriber and stops once
// the last one unsubscribes.
func (p *Provider) Subscribe(fn func(dark bool)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	if p.stop == nil {
		p.stop = make(chan struct{})
		p.last = p.probe()
		go p.loop(p.stop)
	}
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
		if len(p.subs) == 0 && p.stop != nil {
			close(p.stop)
			p.stop = nil
		}
	}
}

func (p *Provider) loop(stop chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		dark := p.probe()
		p.mu.Lock()
		if dark == p.last {
			p.mu.Unlock()
			continue
		}
		p.last = dark
		fns := make([]func(bool), 0, len(p.subs))
		for _, fn := range p.subs {
			fns = append(fns, fn)
		}
		p.mu.Unlock()

		log.Printf("[DEBUG] host color scheme changed, dark=%v", dark)
		for _, fn := range fns {
			fn(dark)
		}
	}
}
