package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualClock hands out timers that only fire when the test says so
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *manualClock) AfterFunc(_ time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

// fireAll runs every timer ever scheduled, stopped ones included, the way a
// timer that already started its callback would
func (c *manualClock) fireAll() {
	c.mu.Lock()
	timers := append([]*manualTimer(nil), c.timers...)
	c.mu.Unlock()
	for _, t := range timers {
		t.f()
	}
}

type sink struct {
	mu  sync.Mutex
	got []string
}

func (s *sink) promote(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, text)
}

func (s *sink) values() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.got...)
}

func TestBurstPromotesLastInputOnce(t *testing.T) {
	clock := &manualClock{}
	out := &sink{}
	d := New(300*time.Millisecond, out.promote, WithAfterFunc(clock.AfterFunc))

	for _, text := range []string{"p", "pr", "pro", "proj"} {
		d.Input(text)
	}
	clock.fireAll()

	assert.Equal(t, []string{"proj"}, out.values())
	_, pending := d.Pending()
	assert.False(t, pending)
}

func TestFlushPromotesImmediately(t *testing.T) {
	clock := &manualClock{}
	out := &sink{}
	d := New(time.Hour, out.promote, WithAfterFunc(clock.AfterFunc))

	d.Input("drill")
	assert.True(t, d.Flush())
	assert.Equal(t, []string{"drill"}, out.values())

	clock.fireAll()
	assert.Equal(t, []string{"drill"}, out.values(), "flushed text is not promoted twice")
	assert.False(t, d.Flush())
}

func TestStopCancelsPending(t *testing.T) {
	clock := &manualClock{}
	out := &sink{}
	d := New(time.Second, out.promote, WithAfterFunc(clock.AfterFunc))

	d.Input("tent")
	d.Stop()
	clock.fireAll()
	d.Input("late")

	assert.Empty(t, out.values())
	assert.False(t, d.Flush())
}

func TestZeroDelayIsSynchronous(t *testing.T) {
	out := &sink{}
	d := New(0, out.promote)

	d.Input("a")
	d.Input("ab")
	assert.Equal(t, []string{"a", "ab"}, out.values())
}

func TestRealTimerConverges(t *testing.T) {
	out := &sink{}
	d := New(20*time.Millisecond, out.promote)
	defer d.Stop()

	d.Input("lad")
	d.Input("ladder")

	require.Eventually(t, func() bool { return len(out.values()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"ladder"}, out.values())
}

func TestSlowTimerPromotionDoesNotOutliveFlush(t *testing.T) {
	clock := &manualClock{}
	entered := make(chan struct{})
	release := make(chan struct{})
	out := &sink{}
	promote := func(text string) {
		if text == "a" {
			close(entered)
			<-release
		}
		out.promote(text)
	}
	d := New(time.Hour, promote, WithAfterFunc(clock.AfterFunc))

	d.Input("a")
	done := make(chan struct{})
	go func() {
		defer close(done)
		clock.fireAll()
	}()
	<-entered

	// newer text flushed while the timer callback is still promoting "a"
	d.Input("ab")
	require.True(t, d.Flush())
	close(release)
	<-done

	got := out.values()
	require.NotEmpty(t, got)
	assert.Equal(t, "ab", got[len(got)-1])
}
