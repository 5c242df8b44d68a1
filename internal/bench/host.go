package bench

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// HostInfo describes the machine a benchmark ran on.
type HostInfo struct {
	GOOS      string
	GOARCH    string
	GoVersion string
	NumCPU    int

	// Features lists the SIMD extensions relevant to float kernels.
	Features []string

	// NativeHalf and NativeBFloat16 report hardware arithmetic support for
	// the reduced types. The CPU backend widens to float32 either way.
	NativeHalf     bool
	NativeBFloat16 bool
}

// Host reports the current machine.
func Host() HostInfo {
	h := HostInfo{
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
		GoVersion: runtime.Version(),
		NumCPU:    runtime.NumCPU(),
	}

	switch runtime.GOARCH {
	case "amd64", "386":
		add := func(name string, ok bool) {
			if ok {
				h.Features = append(h.Features, name)
			}
		}
		add("AVX", cpu.X86.HasAVX)
		add("AVX2", cpu.X86.HasAVX2)
		add("FMA", cpu.X86.HasFMA)
		add("AVX512F", cpu.X86.HasAVX512F)
		add("AVX512BF16", cpu.X86.HasAVX512BF16)
		h.NativeBFloat16 = cpu.X86.HasAVX512BF16
	case "arm64":
		if cpu.ARM64.HasASIMD {
			h.Features = append(h.Features, "ASIMD")
		}
		if cpu.ARM64.HasFPHP && cpu.ARM64.HasASIMDHP {
			h.Features = append(h.Features, "FP16")
			h.NativeHalf = true
		}
		if cpu.ARM64.HasSVE {
			h.Features = append(h.Features, "SVE")
		}
	}
	return h
}

// Fprint writes a short host summary.
func (h HostInfo) Fprint(w io.Writer) {
	fmt.Fprintf(w, "Host: %s/%s, %d CPUs, %s\n", h.GOOS, h.GOARCH, h.NumCPU, h.GoVersion)
	features := "none"
	if len(h.Features) > 0 {
		features = strings.Join(h.Features, " ")
	}
	fmt.Fprintf(w, "CPU features: %s\n", features)
	fmt.Fprintf(w, "Native half: %t, native bfloat16: %t\n", h.NativeHalf, h.NativeBFloat16)
}
