package sysscheme

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// switchableProbe is a thread-safe bool for driving NewWithProbe in tests.
type switchableProbe struct{ dark atomic.Bool }

func (s *switchableProbe) probe() bool { return s.dark.Load() }

func TestProvider_PrefersDark(t *testing.T) {
	probe := &switchableProbe{}
	p := NewWithProbe(probe.probe, 10*time.Millisecond)

	assert.False(t, p.PrefersDark())
	probe.dark.Store(true)
	assert.True(t, p.PrefersDark())
}

func TestProvider_DefaultInterval(t *testing.T) {
	p := NewWithProbe(func() bool { return false }, 0)
	assert.Equal(t, DefaultInterval, p.interval)
}

func TestProvider_Subscribe(t *testing.T) {
	t.Run("notifies on change only", func(t *testing.T) {
		probe := &switchableProbe{}
		p := NewWithProbe(probe.probe, 5*time.Millisecond)

		var mu sync.Mutex
		var got []bool
		unsub := p.Subscribe(func(dark bool) {
			mu.Lock()
			got = append(got, dark)
			mu.Unlock()
		})
		defer unsub()

		// unchanged value produces no notifications
		time.Sleep(30 * time.Millisecond)
		mu.Lock()
		assert.Empty(t, got)
		mu.Unlock()

		probe.dark.Store(true)
		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(got) == 1 && got[0]
		}, time.Second, 5*time.Millisecond)

		probe.dark.Store(false)
		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(got) == 2 && !got[1]
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("unsubscribe stops notifications and poll loop", func(t *testing.T) {
		probe := &switchableProbe{}
		p := NewWithProbe(probe.probe, 5*time.Millisecond)

		var count atomic.Int32
		unsub := p.Subscribe(func(bool) { count.Add(1) })
		unsub()

		p.mu.Lock()
		assert.Nil(t, p.stop, "poll loop stops with the last subscriber")
		p.mu.Unlock()

		probe.dark.Store(true)
		time.Sleep(30 * time.Millisecond)
		assert.Zero(t, count.Load())
	})

	t.Run("multiple subscribers share one poll loop", func(t *testing.T) {
		probe := &switchableProbe{}
		p := NewWithProbe(probe.probe, 5*time.Millisecond)

		var first, second atomic.Int32
		unsub1 := p.Subscribe(func(bool) { first.Add(1) })
		defer unsub1()
		unsub2 := p.Subscribe(func(bool) { second.Add(1) })
		defer unsub2()

		probe.dark.Store(true)
		require.Eventually(t, func() bool {
			return first.Load() == 1 && second.Load() == 1
		}, time.Second, 5*time.Millisecond)
	})
}
