package tensor

import (
	"math"
	"sync"
)

// DefaultSeed is the seed of the default generator before ManualSeed is called.
const DefaultSeed uint64 = 67280421310721

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

// Generator is a 32-bit Mersenne Twister (MT19937) random source.
// Draws from a generator seeded with the same value are identical across
// runs and platforms. A Generator is safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	seed  uint64
	state [mtN]uint32
	index int

	// Cached second Box-Muller sample for scalar normal draws.
	nextNormal    float64
	hasNextNormal bool
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	g := &Generator{}
	g.reseed(seed)
	return g
}

var defaultGenerator = NewGenerator(DefaultSeed)

// DefaultGenerator returns the process-wide generator used by Rand, Randn
// and parameter initialization.
func DefaultGenerator() *Generator {
	return defaultGenerator
}

// ManualSeed reseeds the default generator.
func ManualSeed(seed uint64) {
	defaultGenerator.Seed(seed)
}

// Seed resets the generator state. Only the low 32 bits feed the twister.
func (g *Generator) Seed(seed uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reseed(seed)
}

// InitialSeed returns the seed the generator was last seeded with.
func (g *Generator) InitialSeed() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seed
}

func (g *Generator) reseed(seed uint64) {
	g.seed = seed
	g.state[0] = uint32(seed & 0xffffffff)
	for i := 1; i < mtN; i++ {
		prev := g.state[i-1]
		g.state[i] = 1812433253*(prev^(prev>>30)) + uint32(i) //nolint:gosec // G115: i < 624
	}
	g.index = mtN
	g.hasNextNormal = false
}

func (g *Generator) twist() {
	for i := 0; i < mtN; i++ {
		y := (g.state[i] & mtUpperMask) | (g.state[(i+1)%mtN] & mtLowerMask)
		next := g.state[(i+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			next ^= mtMatrixA
		}
		g.state[i] = next
	}
	g.index = 0
}

func (g *Generator) next32() uint32 {
	if g.index >= mtN {
		g.twist()
	}
	y := g.state[g.index]
	g.index++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// Uint32 returns the next raw 32-bit output.
func (g *Generator) Uint32() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.next32()
}

// Uint64 combines two consecutive outputs, the first forming the high word.
func (g *Generator) Uint64() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.next64()
}

func (g *Generator) next64() uint64 {
	hi := uint64(g.next32())
	lo := uint64(g.next32())
	return hi<<32 | lo
}

func (g *Generator) float32Locked() float32 {
	return float32(g.next32()&(1<<24-1)) * (1.0 / (1 << 24))
}

func (g *Generator) float64Locked() float64 {
	return float64(g.next64()&(1<<53-1)) * (1.0 / (1 << 53))
}

// Float32 returns a uniform sample in [0, 1) with 24 random mantissa bits.
func (g *Generator) Float32() float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.float32Locked()
}

// Float64 returns a uniform sample in [0, 1) with 53 random mantissa bits.
func (g *Generator) Float64() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.float64Locked()
}

// FillUniform32 fills dst with Float32 draws, holding the lock once.
func (g *Generator) FillUniform32(dst []float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range dst {
		dst[i] = g.float32Locked()
	}
}

// FillUniform64 fills dst with Float64 draws, holding the lock once.
func (g *Generator) FillUniform64(dst []float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range dst {
		dst[i] = g.float64Locked()
	}
}

// NormFloat64 returns a standard normal sample (Box-Muller).
// The sine branch of each pair is cached and returned by the next call.
func (g *Generator) NormFloat64() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.normLocked()
}

func (g *Generator) normLocked() float64 {
	if g.hasNextNormal {
		g.hasNextNormal = false
		return g.nextNormal
	}
	u1 := g.float64Locked()
	u2 := g.float64Locked()
	r := math.Sqrt(-2 * math.Log1p(-u2))
	theta := 2 * math.Pi * u1
	g.nextNormal = r * math.Sin(theta)
	g.hasNextNormal = true
	return r * math.Cos(theta)
}

// FillNormal32 fills dst with standard normal samples.
//
// Buffers of 16 or more elements are filled with uniforms first and then
// transformed in blocks of 16 (the first 8 values pair with the last 8).
// A trailing partial block is redrawn as a full block over the last 16
// elements. Shorter buffers use scalar draws.
func (g *Generator) FillNormal32(dst []float32) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(dst) < 16 {
		for i := range dst {
			dst[i] = float32(g.normLocked())
		}
		return
	}
	for i := range dst {
		dst[i] = g.float32Locked()
	}
	for i := 0; i+16 <= len(dst); i += 16 {
		normalBlock16(dst[i : i+16])
	}
	if rem := len(dst) % 16; rem != 0 {
		tail := dst[len(dst)-16:]
		for i := range tail {
			tail[i] = g.float32Locked()
		}
		normalBlock16(tail)
	}
}

func normalBlock16(block []float32) {
	for j := 0; j < 8; j++ {
		u1 := 1 - float64(block[j])
		u2 := float64(block[j+8])
		radius := math.Sqrt(-2 * math.Log(u1))
		theta := 2 * math.Pi * u2
		block[j] = float32(radius * math.Cos(theta))
		block[j+8] = float32(radius * math.Sin(theta))
	}
}
