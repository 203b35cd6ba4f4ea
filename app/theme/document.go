package theme

import "sync"

// PageState is an in-memory Document implementation: a single dark marker on
// the page root plus a one-shot ready signal. The zero marker state is
// light.
type PageState struct {
	mu    sync.RWMutex
	dark  bool
	ready chan struct{}
	once  sync.Once
}

// NewPageState creates a page state with the ready signal not yet fired.
func NewPageState() *PageState {
	return &PageState{ready: make(chan struct{})}
}

// NewReadyPageState creates a page state whose content is already parsed.
func NewReadyPageState() *PageState {
	p := NewPageState()
	p.MarkReady()
	return p
}

// SetDarkMarker sets or removes the dark marker.
func (p *PageState) SetDarkMarker(on bool) {
	p.mu.Lock()
	p.dark = on
	p.mu.Unlock()
}

// DarkMarker reports whether the dark marker is present.
func (p *PageState) DarkMarker() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dark
}

// Ready returns a channel closed once the document structure is parsed.
func (p *PageState) Ready() <-chan struct{} { return p.ready }

// MarkReady fires the ready signal; repeated calls are no-ops.
func (p *PageState) MarkReady() {
	p.once.Do(func() { close(p.ready) })
}
