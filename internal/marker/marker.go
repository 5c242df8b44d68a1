// Package marker brackets named code regions with wall-clock timing and
// hardware performance counters.
//
// A Context is created with Init and released with Close. Between the two,
// regions are opened and closed by name:
//
//	ctx, err := marker.Init()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Close()
//
//	ctx.ThreadInit()
//	err = ctx.Region("to_float16", func() error {
//	    t = t.To(tensor.Float16)
//	    return nil
//	})
//
// Counters are sampled when a region starts and again when it stops; the
// difference is added to the region's totals, so regions may nest and may be
// entered any number of times.
//
// Hardware counters are read through perf_event_open and are compiled in only
// with the perfmon build tag on Linux. Every other build uses a source that
// reports no events. Region bookkeeping (elapsed time, call counts and state
// errors) behaves the same in both builds.
package marker

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Common errors.
var (
	ErrUnavailable      = errors.New("hardware counters unavailable")
	ErrRegionRunning    = errors.New("region already running")
	ErrRegionNotRunning = errors.New("region not running")
	ErrUnknownRegion    = errors.New("unknown region")
	ErrClosed           = errors.New("marker context closed")
)

// Event is the accumulated count of one hardware event.
type Event struct {
	Name  string
	Count uint64
}

// Metrics are the totals of a region over all its start/stop pairs.
type Metrics struct {
	Events  []Event
	Elapsed time.Duration
	Count   int
}

// Event returns the count recorded for the named event.
func (m Metrics) Event(name string) (uint64, bool) {
	for _, e := range m.Events {
		if e.Name == name {
			return e.Count, true
		}
	}
	return 0, false
}

type config struct {
	events []EventKind
	now    func() time.Time
	source counterSource
}

// Option configures Init.
type Option func(*config)

// WithEvents selects the hardware events to count. The default is
// DefaultEvents.
func WithEvents(events ...EventKind) Option {
	return func(c *config) {
		c.events = append([]EventKind(nil), events...)
	}
}

// WithClock replaces time.Now as the source of region timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// WithoutCounters disables hardware counters even when they are compiled in.
func WithoutCounters() Option {
	return func(c *config) {
		c.source = noopSource{}
	}
}

type region struct {
	running  bool
	started  time.Time
	baseline []uint64
	counts   []uint64
	elapsed  time.Duration
	calls    int
}

// Context owns the counter file descriptors and the per-region totals.
//
// Counters measure the OS thread that called ThreadInit. A Context is safe
// for concurrent use, but counts are only meaningful for regions run on that
// thread.
type Context struct {
	mu      sync.Mutex
	cfg     config
	group   counterGroup
	locked  bool
	closed  bool
	regions map[string]*region
	scratch []uint64
}

// Init creates a marker context. If the hardware backend is compiled in and
// the counters cannot be opened, Init returns an error wrapping
// ErrUnavailable.
func Init(opts ...Option) (*Context, error) {
	cfg := config{
		events: DefaultEvents(),
		now:    time.Now,
		source: defaultSource(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.source.hardware() {
		cfg.events = nil
	}

	// Probe once so a missing permission is reported here and not on the
	// first Start.
	probe, err := cfg.source.open(cfg.events)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := probe.close(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return &Context{
		cfg:     cfg,
		regions: make(map[string]*region),
		scratch: make([]uint64, len(cfg.events)),
	}, nil
}

// Enabled reports whether regions are measured with hardware counters.
func (c *Context) Enabled() bool {
	return c.cfg.source.hardware()
}

// Events returns the names of the counted events in report order.
func (c *Context) Events() []string {
	names := make([]string, len(c.cfg.events))
	for i, ev := range c.cfg.events {
		names[i] = ev.String()
	}
	return names
}

// ThreadInit pins the calling goroutine to its OS thread and opens the
// counters for that thread. Calling it again is a no-op.
func (c *Context) ThreadInit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.threadInit()
}

func (c *Context) threadInit() error {
	if c.group != nil {
		return nil
	}
	if !c.locked {
		runtime.LockOSThread()
		c.locked = true
	}
	group, err := c.cfg.source.open(c.cfg.events)
	if err != nil {
		return fmt.Errorf("open counters: %w", err)
	}
	c.group = group
	return nil
}

// Register creates the bookkeeping for a region ahead of its first Start,
// keeping setup cost out of the first measurement.
func (c *Context) Register(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := c.threadInit(); err != nil {
		return err
	}
	c.region(name)
	return nil
}

func (c *Context) region(name string) *region {
	r, ok := c.regions[name]
	if !ok {
		n := len(c.cfg.events)
		r = &region{baseline: make([]uint64, n), counts: make([]uint64, n)}
		c.regions[name] = r
	}
	return r
}

// Start begins a measurement of the named region.
func (c *Context) Start(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := c.threadInit(); err != nil {
		return err
	}

	r := c.region(name)
	if r.running {
		return fmt.Errorf("start %q: %w", name, ErrRegionRunning)
	}
	if err := c.group.read(r.baseline); err != nil {
		return fmt.Errorf("start %q: %w", name, err)
	}
	r.running = true
	r.started = c.cfg.now()
	return nil
}

// Stop ends the current measurement of the named region and adds it to the
// region's totals.
func (c *Context) Stop(name string) error {
	now := c.cfg.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	r, ok := c.regions[name]
	if !ok || !r.running {
		return fmt.Errorf("stop %q: %w", name, ErrRegionNotRunning)
	}
	return c.stop(r, now)
}

func (c *Context) stop(r *region, now time.Time) error {
	r.running = false
	r.elapsed += now.Sub(r.started)
	r.calls++
	if err := c.group.read(c.scratch); err != nil {
		return err
	}
	for i, v := range c.scratch {
		r.counts[i] += v - r.baseline[i]
	}
	return nil
}

// Get returns the totals of the named region.
func (c *Context) Get(name string) (Metrics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.regions[name]
	if !ok {
		return Metrics{}, fmt.Errorf("get %q: %w", name, ErrUnknownRegion)
	}
	m := Metrics{
		Events:  make([]Event, len(c.cfg.events)),
		Elapsed: r.elapsed,
		Count:   r.calls,
	}
	for i, ev := range c.cfg.events {
		m.Events[i] = Event{Name: ev.String(), Count: r.counts[i]}
	}
	return m, nil
}

// Regions returns the names of all known regions, sorted.
func (c *Context) Regions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := maps.Keys(c.regions)
	slices.Sort(names)
	return names
}

// Region runs fn between Start and Stop. Stop runs on every exit path,
// including a panic in fn; its error is joined with the error from fn.
func (c *Context) Region(name string, fn func() error) (err error) {
	if err := c.Start(name); err != nil {
		return err
	}
	defer func() {
		if stopErr := c.Stop(name); stopErr != nil {
			err = errors.Join(err, stopErr)
		}
	}()
	return fn()
}

// Close stops every running region, closes the counters and unpins the
// thread. Totals stay readable through Get. Closing twice is a no-op.
//
// After ThreadInit, Close must be called from the goroutine that called
// ThreadInit; unpinning from any other goroutine leaves the original thread
// locked.
func (c *Context) Close() error {
	now := c.cfg.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	for name, r := range c.regions {
		if r.running {
			if err := c.stop(r, now); err != nil {
				errs = append(errs, fmt.Errorf("stop %q: %w", name, err))
			}
		}
	}
	if c.group != nil {
		if err := c.group.close(); err != nil {
			errs = append(errs, err)
		}
		c.group = nil
	}
	if c.locked {
		runtime.UnlockOSThread()
		c.locked = false
	}
	return errors.Join(errs...)
}

// Report writes the totals of every region in name order.
func (c *Context) Report(w io.Writer) error {
	for _, name := range c.Regions() {
		m, err := c.Get(name)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Region %s: count %d, time %.6f s\n", name, m.Count, m.Elapsed.Seconds()); err != nil {
			return err
		}
		for _, e := range m.Events {
			if _, err := fmt.Fprintf(w, "  %-18s %d\n", e.Name, e.Count); err != nil {
				return err
			}
		}
	}
	return nil
}
