package theme

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-shade/shade/app/enum"
)

// fakeStorage is an in-memory Storage with injectable failures.
type fakeStorage struct {
	mu      sync.Mutex
	value   string
	has     bool
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeStorage) Load() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return "", f.loadErr
	}
	if !f.has {
		return "", nil
	}
	return f.value, nil
}

func (f *fakeStorage) Save(v string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.value, f.has = v, true
	f.saves++
	return nil
}

func (f *fakeStorage) stored() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.has
}

// fakeScheme is a SystemScheme whose value flips on demand, delivering
// change notifications to subscribers synchronously.
type fakeScheme struct {
	mu   sync.Mutex
	dark bool
	subs map[int]func(bool)
	next int
}

func newFakeScheme(dark bool) *fakeScheme {
	return &fakeScheme{dark: dark, subs: map[int]func(bool){}}
}

func (f *fakeScheme) PrefersDark() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dark
}

func (f *fakeScheme) Subscribe(fn func(bool)) func() {
	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

func (f *fakeScheme) flip(dark bool) {
	f.mu.Lock()
	f.dark = dark
	fns := make([]func(bool), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(dark)
	}
}

func (f *fakeScheme) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// fakeTrigger records binding interactions and exposes the attached handlers.
type fakeTrigger struct {
	revealed bool
	label    string
	pointer  func()
	key      func(Key) bool
}

func (f *fakeTrigger) Reveal()                 { f.revealed = true }
func (f *fakeTrigger) Describe(label string)   { f.label = label }
func (f *fakeTrigger) OnPointer(fn func())     { f.pointer = fn }
func (f *fakeTrigger) OnKey(fn func(Key) bool) { f.key = fn }

func newTestController(st *fakeStorage, sys *fakeScheme) (*Controller, *PageState) {
	page := NewReadyPageState()
	return New(page, st, sys), page
}

func TestController_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		has      bool
		loadErr  error
		sysDark  bool
		expected enum.Theme
	}{
		{name: "stored dark wins over light system", stored: "dark", has: true, sysDark: false, expected: enum.ThemeDark},
		{name: "stored light wins over dark system", stored: "light", has: true, sysDark: true, expected: enum.ThemeLight},
		{name: "no stored value, system dark", sysDark: true, expected: enum.ThemeDark},
		{name: "no stored value, no system preference", sysDark: false, expected: enum.ThemeLight},
		{name: "corrupted value falls back to system", stored: "blue", has: true, sysDark: true, expected: enum.ThemeDark},
		{name: "wrong case is not explicit", stored: "Dark", has: true, sysDark: false, expected: enum.ThemeLight},
		{name: "padded value is not explicit", stored: " dark", has: true, sysDark: false, expected: enum.ThemeLight},
		{name: "system literal is not explicit", stored: "system", has: true, sysDark: true, expected: enum.ThemeDark},
		{name: "storage failure falls back to system", loadErr: assert.AnError, sysDark: true, expected: enum.ThemeDark},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := &fakeStorage{value: tc.stored, has: tc.has, loadErr: tc.loadErr}
			ctrl, _ := newTestController(st, newFakeScheme(tc.sysDark))
			assert.Equal(t, tc.expected, ctrl.Resolve())
		})
	}
}

func TestController_ApplyIdempotent(t *testing.T) {
	ctrl, page := newTestController(&fakeStorage{}, newFakeScheme(false))

	ctrl.Apply(enum.ThemeLight)
	assert.False(t, page.DarkMarker(), "light must leave the marker absent")
	ctrl.Apply(enum.ThemeLight)
	assert.False(t, page.DarkMarker(), "repeated light application must not toggle")

	ctrl.Apply(enum.ThemeDark)
	assert.True(t, page.DarkMarker())
	ctrl.Apply(enum.ThemeDark)
	assert.True(t, page.DarkMarker(), "repeated dark application must not toggle")
}

func TestController_PersistResolveRoundTrip(t *testing.T) {
	st := &fakeStorage{}
	ctrl, _ := newTestController(st, newFakeScheme(false))
	ctrl.Persist(enum.ThemeDark)

	// fresh controller over the same storage simulates a reload
	reloaded, _ := newTestController(st, newFakeScheme(false))
	assert.Equal(t, enum.ThemeDark, reloaded.Resolve())
}

func TestController_Toggle(t *testing.T) {
	t.Run("involution returns document and storage to original state", func(t *testing.T) {
		st := &fakeStorage{value: "light", has: true}
		ctrl, page := newTestController(st, newFakeScheme(false))
		ctrl.Apply(ctrl.Resolve())

		got := ctrl.Toggle()
		assert.Equal(t, enum.ThemeDark, got)
		assert.True(t, page.DarkMarker())
		v, _ := st.stored()
		assert.Equal(t, "dark", v)

		got = ctrl.Toggle()
		assert.Equal(t, enum.ThemeLight, got)
		assert.False(t, page.DarkMarker())
		v, _ = st.stored()
		assert.Equal(t, "light", v)
	})

	t.Run("reads applied theme from document, not storage", func(t *testing.T) {
		// storage claims dark but the document shows light; toggle must flip
		// the applied state, i.e. go to dark
		st := &fakeStorage{value: "dark", has: true}
		ctrl, page := newTestController(st, newFakeScheme(false))
		require.False(t, page.DarkMarker())

		assert.Equal(t, enum.ThemeDark, ctrl.Toggle())
		assert.True(t, page.DarkMarker())
	})

	t.Run("storage failure keeps session theme correct", func(t *testing.T) {
		st := &fakeStorage{saveErr: assert.AnError}
		ctrl, page := newTestController(st, newFakeScheme(false))

		got := ctrl.Toggle()
		assert.Equal(t, enum.ThemeDark, got)
		assert.True(t, page.DarkMarker(), "theme applies even when persistence fails")
		_, has := st.stored()
		assert.False(t, has, "failed write leaves storage untouched")
	})
}

func TestController_Set(t *testing.T) {
	st := &fakeStorage{}
	ctrl, page := newTestController(st, newFakeScheme(false))

	var events []enum.Theme
	defer ctrl.OnChange(func(th enum.Theme) { events = append(events, th) })()

	ctrl.Set(enum.ThemeDark)
	assert.True(t, page.DarkMarker())
	v, _ := st.stored()
	assert.Equal(t, "dark", v)
	assert.Equal(t, []enum.Theme{enum.ThemeDark}, events)

	ctrl.Set(enum.ThemeDark) // same value, no extra event
	assert.Equal(t, []enum.Theme{enum.ThemeDark}, events)
}

func TestController_Watch(t *testing.T) {
	t.Run("follows system when no explicit preference", func(t *testing.T) {
		st := &fakeStorage{}
		sys := newFakeScheme(false)
		ctrl, page := newTestController(st, sys)
		ctrl.Apply(ctrl.Resolve())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ctrl.Watch(ctx)

		sys.flip(true)
		assert.True(t, page.DarkMarker(), "system change applies immediately")
		_, has := st.stored()
		assert.False(t, has, "system-derived theme is not persisted")

		sys.flip(false)
		assert.False(t, page.DarkMarker())
	})

	t.Run("explicit preference wins over system change", func(t *testing.T) {
		st := &fakeStorage{value: "light", has: true}
		sys := newFakeScheme(false)
		ctrl, page := newTestController(st, sys)
		ctrl.Apply(ctrl.Resolve())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ctrl.Watch(ctx)

		sys.flip(true)
		assert.False(t, page.DarkMarker(), "stored light must not be overridden")
	})

	t.Run("subscription released on context teardown", func(t *testing.T) {
		sys := newFakeScheme(false)
		ctrl, _ := newTestController(&fakeStorage{}, sys)

		ctx, cancel := context.WithCancel(context.Background())
		ctrl.Watch(ctx)
		require.Equal(t, 1, sys.subscribers())

		cancel()
		assert.Eventually(t, func() bool { return sys.subscribers() == 0 },
			time.Second, 10*time.Millisecond)
	})
}

func TestController_Bind(t *testing.T) {
	ctrl, page := newTestController(&fakeStorage{}, newFakeScheme(false))
	tr := &fakeTrigger{}
	ctrl.Bind(tr)

	assert.True(t, tr.revealed, "bound trigger must be revealed")
	assert.NotEmpty(t, tr.label, "bound trigger must carry an accessible label")
	require.NotNil(t, tr.pointer)
	require.NotNil(t, tr.key)

	t.Run("pointer activation toggles once", func(t *testing.T) {
		tr.pointer()
		assert.True(t, page.DarkMarker())
	})

	t.Run("space key toggles exactly once and is consumed", func(t *testing.T) {
		consumed := tr.key(KeySpace)
		assert.True(t, consumed, "space must be consumed to suppress scrolling")
		assert.False(t, page.DarkMarker())
	})

	t.Run("select key toggles and is consumed", func(t *testing.T) {
		consumed := tr.key(KeySelect)
		assert.True(t, consumed)
		assert.True(t, page.DarkMarker())
	})

	t.Run("other keys do not activate", func(t *testing.T) {
		consumed := tr.key(KeyOther)
		assert.False(t, consumed)
		assert.True(t, page.DarkMarker(), "non-activation key must not toggle")
	})
}

func TestController_Start(t *testing.T) {
	t.Run("applies resolved theme synchronously, defers binding until ready", func(t *testing.T) {
		page := NewPageState() // content still loading
		sys := newFakeScheme(true)
		ctrl := New(page, &fakeStorage{}, sys)
		tr := &fakeTrigger{}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ctrl.Start(ctx, tr)

		assert.True(t, page.DarkMarker(), "initial theme applied before ready signal")
		assert.False(t, tr.revealed, "binding deferred until content parsed")
		assert.Equal(t, 0, sys.subscribers(), "watch deferred until content parsed")

		page.MarkReady()
		assert.Eventually(t, func() bool { return tr.revealed && sys.subscribers() == 1 },
			time.Second, 10*time.Millisecond)
	})

	t.Run("proceeds immediately when document already ready", func(t *testing.T) {
		page := NewReadyPageState()
		sys := newFakeScheme(false)
		ctrl := New(page, &fakeStorage{}, sys)
		tr := &fakeTrigger{}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ctrl.Start(ctx, tr)

		assert.Eventually(t, func() bool { return tr.revealed && sys.subscribers() == 1 },
			time.Second, 10*time.Millisecond)
	})
}

func TestController_OnChange(t *testing.T) {
	ctrl, _ := newTestController(&fakeStorage{}, newFakeScheme(false))

	t.Run("toggle notifies with new theme", func(t *testing.T) {
		var got []enum.Theme
		unsub := ctrl.OnChange(func(th enum.Theme) { got = append(got, th) })
		ctrl.Toggle()
		ctrl.Toggle()
		unsub()
		ctrl.Toggle()
		assert.Equal(t, []enum.Theme{enum.ThemeDark, enum.ThemeLight}, got)
	})

	t.Run("panicking listener does not break others", func(t *testing.T) {
		var called bool
		defer ctrl.OnChange(func(enum.Theme) { panic("boom") })()
		defer ctrl.OnChange(func(enum.Theme) { called = true })()
		assert.NotPanics(t, func() { ctrl.Toggle() })
		assert.True(t, called)
	})
}

func TestExplicit(t *testing.T) {
	tests := []struct {
		value    string
		expected enum.Theme
		ok       bool
	}{
		{"dark", enum.ThemeDark, true},
		{"light", enum.ThemeLight, true},
		{"", enum.Theme{}, false},
		{"system", enum.Theme{}, false},
		{"DARK", enum.Theme{}, false},
		{"dark ", enum.Theme{}, false},
		{"auto", enum.Theme{}, false},
	}

	for _, tc := range tests {
		t.Run("value "+tc.value, func(t *testing.T) {
			got, ok := Explicit(tc.value)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}
