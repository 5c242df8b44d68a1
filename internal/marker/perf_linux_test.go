//go:build perfmon && linux

package marker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerfCountersCountWork(t *testing.T) {
	ctx, err := Init()
	if errors.Is(err, ErrUnavailable) {
		t.Skipf("perf counters not available: %v", err)
	}
	require.NoError(t, err)
	defer ctx.Close()

	require.NoError(t, ctx.ThreadInit())
	assert.True(t, ctx.Enabled())

	sum := 0.0
	require.NoError(t, ctx.Region("loop", func() error {
		for i := 0; i < 1_000_000; i++ {
			sum += float64(i)
		}
		return nil
	}))
	assert.Positive(t, sum)

	m, err := ctx.Get("loop")
	require.NoError(t, err)
	ins, ok := m.Event("instructions")
	require.True(t, ok)
	assert.Greater(t, ins, uint64(1_000_000))
}
