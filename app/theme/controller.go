// Package theme implements the theme controller: the single authority for
// resolving, applying, persisting and toggling the page theme.
//
// The controller owns no I/O of its own. Storage, the system color-scheme
// signal, the document root and the toggle controls are injected, so hosts
// can back them with cookies, a database, OS probes or test fakes.
package theme

import (
	"context"
	"sync"

	log "github.com/go-pkgz/lgr"

	"github.com/go-shade/shade/app/enum"
)

// Storage persists the explicit theme preference under a single fixed key.
type Storage interface {
	Load() (string, error)
	Save(value string) error
}

// SystemScheme reports the ambient "prefers dark" signal and notifies
// subscribers on changes. Reads must be idempotent and side-effect free.
type SystemScheme interface {
	PrefersDark() bool
	Subscribe(fn func(dark bool)) (unsubscribe func())
}

// Document is the page root holding the theme marker. Marker present means
// dark, marker absent means light - there is no explicit light marker, and
// other styling may depend on the absence.
type Document interface {
	SetDarkMarker(on bool)
	DarkMarker() bool
	Ready() <-chan struct{} // closed once structural content is parsed
}

// Key identifies a keyboard activation key delivered to a bound trigger.
type Key int

// activation keys; anything else must not activate a trigger
const (
	KeyOther Key = iota
	KeySelect
	KeySpace
)

// Trigger is a UI control that toggles the theme once bound.
type Trigger interface {
	Reveal()               // drop the initial-hidden affordance
	Describe(label string) // expose as an interactive, labeled, focusable control
	OnPointer(fn func())
	OnKey(fn func(k Key) (consumed bool))
}

// Controller resolves, applies, persists and toggles the theme. All state it
// owns is guarded, so it is safe for concurrent use, though a page normally
// drives it from a single event loop.
type Controller struct {
	doc Document
	st  Storage
	sys SystemScheme

	mu     sync.Mutex
	subs   map[int]func(enum.Theme)
	nextID int
}

// New creates a controller over the given collaborators.
func New(doc Document, st Storage, sys SystemScheme) *Controller {
	return &Controller{doc: doc, st: st, sys: sys, subs: map[int]func(enum.Theme){}}
}

// Explicit reports whether v is a valid explicit preference. Only the exact
// enum strings count; anything else, including empty and corrupted values,
// is treated as no preference.
func Explicit(v string) (enum.Theme, bool) {
	switch v {
	case enum.ThemeDark.String():
		return enum.ThemeDark, true
	case enum.ThemeLight.String():
		return enum.ThemeLight, true
	}
	return enum.Theme{}, false
}

// Resolve returns the initial theme: the stored explicit value when present,
// the system preference otherwise. Pure read, never fails; storage errors
// are treated as "no stored value".
func (c *Controller) Resolve() enum.Theme {
	if v, err := c.st.Load(); err == nil {
		if t, ok := Explicit(v); ok {
			return t
		}
	}
	if c.sys.PrefersDark() {
		return enum.ThemeDark
	}
	return enum.ThemeLight
}

// Stored returns the persisted explicit preference, if any.
func (c *Controller) Stored() (enum.Theme, bool) {
	v, err := c.st.Load()
	if err != nil {
		return enum.Theme{}, false
	}
	return Explicit(v)
}

// Apply projects the theme onto the document marker: dark sets the marker,
// light removes it. Repeated application of the same value is a no-op.
func (c *Controller) Apply(t enum.Theme) {
	c.doc.SetDarkMarker(t == enum.ThemeDark)
}

// Persist writes the theme to storage. Failures are logged and swallowed;
// the applied theme stays correct for the session even when the write is
// lost.
func (c *Controller) Persist(t enum.Theme) {
	if err := c.st.Save(t.String()); err != nil {
		log.Printf("[WARN] failed to persist theme %s: %v", t, err)
	}
}

// Current returns the theme currently applied to the document.
func (c *Controller) Current() enum.Theme {
	if c.doc.DarkMarker() {
		return enum.ThemeDark
	}
	return enum.ThemeLight
}

// Toggle flips the currently applied theme, persists the new value and
// notifies listeners. The current value is read from the document marker,
// never from storage.
func (c *Controller) Toggle() enum.Theme {
	next := c.Current().Toggle()
	c.Apply(next)
	c.Persist(next)
	c.notify(next)
	return next
}

// Set force-sets a specific theme: applies and persists it. Listeners are
// notified only when the applied value actually changes.
func (c *Controller) Set(t enum.Theme) {
	changed := c.Current() != t
	c.Apply(t)
	c.Persist(t)
	if changed {
		c.notify(t)
	}
}

// Bind wires triggers to the controller: reveals each control, marks it as
// an accessible interactive element and attaches pointer and keyboard
// activation. Only the select and space keys activate; a consumed key
// suppresses its default action, so space does not scroll the page.
// Bind each trigger exactly once, at initialization.
func (c *Controller) Bind(triggers ...Trigger) {
	for _, tr := range triggers {
		tr.Reveal()
		tr.Describe("toggle dark mode")
		tr.OnPointer(func() { c.Toggle() })
		tr.OnKey(func(k Key) bool {
			if k != KeySelect && k != KeySpace {
				return false
			}
			c.Toggle()
			return true
		})
	}
}

// Watch follows system preference changes for the life of ctx. A change is
// applied only when no explicit preference is stored; an explicit choice
// always wins over the system signal. The applied value is not persisted,
// so clearing storage keeps the page following the system.
func (c *Controller) Watch(ctx context.Context) {
	unsub := c.sys.Subscribe(func(dark bool) {
		if _, ok := c.Stored(); ok {
			return
		}
		if dark {
			c.Apply(enum.ThemeDark)
			return
		}
		c.Apply(enum.ThemeLight)
	})
	context.AfterFunc(ctx, unsub)
}

// Start runs the startup sequence. The initial theme is resolved and applied
// synchronously before Start returns, so nothing renders with the wrong
// theme; trigger binding and the system-preference watch are deferred until
// the document reports ready, proceeding immediately if it already is.
func (c *Controller) Start(ctx context.Context, triggers ...Trigger) {
	c.Apply(c.Resolve())
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-c.doc.Ready():
		}
		c.Bind(triggers...)
		c.Watch(ctx)
	}()
}

// OnChange registers a listener called with the new theme after every
// change. Returns an unsubscribe function.
func (c *Controller) OnChange(fn func(enum.Theme)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Controller) notify(t enum.Theme) {
	c.mu.Lock()
	fns := make([]func(enum.Theme), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		c.safeCall(fn, t)
	}
}

func (c *Controller) safeCall(fn func(enum.Theme), t enum.Theme) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WARN] theme listener panicked: %v", r)
		}
	}()
	fn(t)
}
