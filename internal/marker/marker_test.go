package marker

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource hands out counters that advance by a fixed step per event on
// every read.
type fakeSource struct {
	openErr error
	opened  int
	closed  int
}

func (s *fakeSource) hardware() bool { return true }

func (s *fakeSource) open(events []EventKind) (counterGroup, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	s.opened++
	return &fakeGroup{src: s, values: make([]uint64, len(events))}, nil
}

type fakeGroup struct {
	src    *fakeSource
	values []uint64
}

func (g *fakeGroup) read(dst []uint64) error {
	for i := range g.values {
		g.values[i] += uint64(10 * (i + 1))
		dst[i] = g.values[i]
	}
	return nil
}

func (g *fakeGroup) close() error {
	g.src.closed++
	return nil
}

func withSource(s counterSource) Option {
	return func(c *config) { c.source = s }
}

// stepClock advances by step on every call.
func stepClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestInitWithoutCounters(t *testing.T) {
	ctx, err := Init(WithoutCounters())
	require.NoError(t, err)
	defer ctx.Close()

	assert.False(t, ctx.Enabled())
	assert.Empty(t, ctx.Events())

	require.NoError(t, ctx.ThreadInit())
	require.NoError(t, ctx.Region("work", func() error { return nil }))

	m, err := ctx.Get("work")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count)
	assert.Empty(t, m.Events)
}

func TestInitUnavailable(t *testing.T) {
	_, err := Init(withSource(&fakeSource{openErr: errors.New("permission denied")}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestInitProbeIsClosed(t *testing.T) {
	src := &fakeSource{}
	ctx, err := Init(withSource(src))
	require.NoError(t, err)
	defer ctx.Close()

	assert.Equal(t, 1, src.opened)
	assert.Equal(t, 1, src.closed)
	assert.True(t, ctx.Enabled())
	assert.Equal(t, []string{"instructions", "cycles", "cache-references", "cache-misses", "branch-misses"}, ctx.Events())
}

func TestStartStopAccumulates(t *testing.T) {
	ctx, err := Init(
		withSource(&fakeSource{}),
		WithEvents(Instructions, Cycles),
		WithClock(stepClock(time.Millisecond)),
	)
	require.NoError(t, err)
	defer ctx.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, ctx.Start("loop"))
		require.NoError(t, ctx.Stop("loop"))
	}

	m, err := ctx.Get("loop")
	require.NoError(t, err)
	assert.Equal(t, 3, m.Count)
	assert.Equal(t, 3*time.Millisecond, m.Elapsed)

	// Each start/stop pair sees one step of every counter.
	ins, ok := m.Event("instructions")
	require.True(t, ok)
	assert.Equal(t, uint64(30), ins)
	cyc, ok := m.Event("cycles")
	require.True(t, ok)
	assert.Equal(t, uint64(60), cyc)

	_, ok = m.Event("cache-misses")
	assert.False(t, ok)
}

func TestStateErrors(t *testing.T) {
	ctx, err := Init(WithoutCounters())
	require.NoError(t, err)
	defer ctx.Close()

	err = ctx.Stop("never")
	assert.ErrorIs(t, err, ErrRegionNotRunning)

	require.NoError(t, ctx.Start("r"))
	assert.ErrorIs(t, ctx.Start("r"), ErrRegionRunning)
	require.NoError(t, ctx.Stop("r"))
	assert.ErrorIs(t, ctx.Stop("r"), ErrRegionNotRunning)

	_, err = ctx.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownRegion)
}

func TestRegisterCreatesEmptyRegion(t *testing.T) {
	ctx, err := Init(WithoutCounters())
	require.NoError(t, err)
	defer ctx.Close()

	require.NoError(t, ctx.Register("later"))
	m, err := ctx.Get("later")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Count)
	assert.Zero(t, m.Elapsed)
}

func TestNestedRegions(t *testing.T) {
	ctx, err := Init(withSource(&fakeSource{}), WithEvents(Instructions))
	require.NoError(t, err)
	defer ctx.Close()

	err = ctx.Region("outer", func() error {
		return ctx.Region("inner", func() error { return nil })
	})
	require.NoError(t, err)

	outer, err := ctx.Get("outer")
	require.NoError(t, err)
	inner, err := ctx.Get("inner")
	require.NoError(t, err)

	o, _ := outer.Event("instructions")
	i, _ := inner.Event("instructions")
	assert.Greater(t, o, i)
}

func TestRegionReturnsError(t *testing.T) {
	ctx, err := Init(WithoutCounters())
	require.NoError(t, err)
	defer ctx.Close()

	boom := errors.New("boom")
	err = ctx.Region("fails", func() error { return boom })
	assert.ErrorIs(t, err, boom)

	m, err := ctx.Get("fails")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count)

	// The region was stopped, so it can be entered again.
	require.NoError(t, ctx.Region("fails", func() error { return nil }))
}

func TestRegionStopsOnPanic(t *testing.T) {
	ctx, err := Init(WithoutCounters())
	require.NoError(t, err)
	defer ctx.Close()

	assert.Panics(t, func() {
		_ = ctx.Region("panics", func() error { panic("kaboom") })
	})

	m, err := ctx.Get("panics")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count)
	require.NoError(t, ctx.Start("panics"))
	require.NoError(t, ctx.Stop("panics"))
}

func TestCloseStopsRunningRegions(t *testing.T) {
	src := &fakeSource{}
	ctx, err := Init(withSource(src), WithClock(stepClock(time.Second)))
	require.NoError(t, err)

	require.NoError(t, ctx.Start("open"))
	require.NoError(t, ctx.Close())
	require.NoError(t, ctx.Close())

	m, err := ctx.Get("open")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count)
	assert.Equal(t, time.Second, m.Elapsed)

	// Probe group and thread group.
	assert.Equal(t, 2, src.closed)

	assert.ErrorIs(t, ctx.Start("open"), ErrClosed)
	assert.ErrorIs(t, ctx.Stop("open"), ErrClosed)
	assert.ErrorIs(t, ctx.ThreadInit(), ErrClosed)
	assert.ErrorIs(t, ctx.Register("x"), ErrClosed)
}

func TestCloseUnpinsThreadInitGoroutine(t *testing.T) {
	ctx, err := Init(withSource(&fakeSource{}))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, ctx.ThreadInit())
		assert.True(t, ctx.locked)
		assert.NoError(t, ctx.Close())
		assert.False(t, ctx.locked)
	}()
	<-done
}

func TestReport(t *testing.T) {
	ctx, err := Init(
		withSource(&fakeSource{}),
		WithEvents(Instructions),
		WithClock(stepClock(500*time.Microsecond)),
	)
	require.NoError(t, err)
	defer ctx.Close()

	require.NoError(t, ctx.Region("b", func() error { return nil }))
	require.NoError(t, ctx.Region("a", func() error { return nil }))

	assert.Equal(t, []string{"a", "b"}, ctx.Regions())

	var buf bytes.Buffer
	require.NoError(t, ctx.Report(&buf))
	want := "Region a: count 1, time 0.000500 s\n" +
		"  instructions       10\n" +
		"Region b: count 1, time 0.000500 s\n" +
		"  instructions       10\n"
	assert.Equal(t, want, buf.String())
}

func TestParseEventKind(t *testing.T) {
	for _, ev := range DefaultEvents() {
		got, err := ParseEventKind(ev.String())
		require.NoError(t, err)
		assert.Equal(t, ev, got)
	}
	_, err := ParseEventKind("flops")
	assert.Error(t, err)
	assert.Equal(t, "event(42)", EventKind(42).String())
}
