//go:build perfmon && linux

package marker

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

func defaultSource() counterSource { return perfSource{} }

// perfSource counts user-space events of the calling thread through
// perf_event_open(2).
type perfSource struct{}

func (perfSource) hardware() bool { return true }

func (perfSource) open(events []EventKind) (counterGroup, error) {
	g := &perfGroup{fds: make([]int, 0, len(events))}
	for _, ev := range events {
		perfEv, ok := perfConfig(ev)
		if !ok {
			g.close()
			return nil, fmt.Errorf("event %s has no perf mapping", ev)
		}
		attr := unix.PerfEventAttr{
			Type:   unix.PERF_TYPE_HARDWARE,
			Size:   uint32(unsafe.Sizeof(unix.PerfEventAttr{})),
			Config: perfEv,
			Bits:   unix.PerfBitDisabled | unix.PerfBitExcludeKernel | unix.PerfBitExcludeHv,
		}
		fd, err := unix.PerfEventOpen(&attr, 0, -1, -1, unix.PERF_FLAG_FD_CLOEXEC)
		if err != nil {
			g.close()
			return nil, fmt.Errorf("perf_event_open %s: %w", ev, err)
		}
		g.fds = append(g.fds, fd)
	}

	for _, fd := range g.fds {
		if err := unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_RESET, 0); err != nil {
			g.close()
			return nil, fmt.Errorf("reset counter: %w", err)
		}
		if err := unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_ENABLE, 0); err != nil {
			g.close()
			return nil, fmt.Errorf("enable counter: %w", err)
		}
	}
	return g, nil
}

func perfConfig(ev EventKind) (uint64, bool) {
	switch ev {
	case Instructions:
		return unix.PERF_COUNT_HW_INSTRUCTIONS, true
	case Cycles:
		return unix.PERF_COUNT_HW_CPU_CYCLES, true
	case CacheReferences:
		return unix.PERF_COUNT_HW_CACHE_REFERENCES, true
	case CacheMisses:
		return unix.PERF_COUNT_HW_CACHE_MISSES, true
	case BranchMisses:
		return unix.PERF_COUNT_HW_BRANCH_MISSES, true
	}
	return 0, false
}

type perfGroup struct {
	fds []int
	buf [8]byte
}

func (g *perfGroup) read(dst []uint64) error {
	for i, fd := range g.fds {
		n, err := unix.Read(fd, g.buf[:])
		if err != nil {
			return fmt.Errorf("read counter: %w", err)
		}
		if n != len(g.buf) {
			return fmt.Errorf("read counter: short read of %d bytes", n)
		}
		dst[i] = binary.NativeEndian.Uint64(g.buf[:])
	}
	return nil
}

func (g *perfGroup) close() error {
	var errs []error
	for _, fd := range g.fds {
		// Disabling is best effort; the close below releases the counter.
		_ = unix.IoctlSetInt(fd, unix.PERF_EVENT_IOC_DISABLE, 0)
		if err := unix.Close(fd); err != nil {
			errs = append(errs, err)
		}
	}
	g.fds = nil
	return errors.Join(errs...)
}
