package marker

import "fmt"

// EventKind identifies a hardware event.
type EventKind int

// Hardware events.
const (
	Instructions EventKind = iota
	Cycles
	CacheReferences
	CacheMisses
	BranchMisses
)

var eventNames = [...]string{
	Instructions:    "instructions",
	Cycles:          "cycles",
	CacheReferences: "cache-references",
	CacheMisses:     "cache-misses",
	BranchMisses:    "branch-misses",
}

// String returns the perf name of the event.
func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return fmt.Sprintf("event(%d)", int(k))
	}
	return eventNames[k]
}

// DefaultEvents returns the events counted when WithEvents is not given.
func DefaultEvents() []EventKind {
	return []EventKind{Instructions, Cycles, CacheReferences, CacheMisses, BranchMisses}
}

// ParseEventKind returns the event with the given perf name.
func ParseEventKind(name string) (EventKind, error) {
	for k, n := range eventNames {
		if n == name {
			return EventKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown event %q", name)
}

// counterSource opens groups of free-running counters for the calling thread.
type counterSource interface {
	hardware() bool
	open(events []EventKind) (counterGroup, error)
}

// counterGroup is an open set of counters, one per requested event.
type counterGroup interface {
	// read stores the current value of every counter in dst.
	read(dst []uint64) error
	close() error
}

type noopSource struct{}

func (noopSource) hardware() bool { return false }

func (noopSource) open([]EventKind) (counterGroup, error) { return noopGroup{}, nil }

type noopGroup struct{}

func (noopGroup) read([]uint64) error { return nil }
func (noopGroup) close() error        { return nil }
