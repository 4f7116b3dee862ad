package common

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandRange(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	cases := []struct {
		name     string
		min, max float64
	}{
		{"jump", 0.95, 1.05},
		{"land", 0.98, 1.02},
		{"reversed", 1.05, 0.95},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			lo, hi := math.Min(c.min, c.max), math.Max(c.min, c.max)
			for i := 0; i < 1000; i++ {
				v := RandRange(r, c.min, c.max)
				require.GreaterOrEqual(t, v, lo)
				require.LessOrEqual(t, v, hi)
			}
		})
	}

	assert.Equal(t, 1.0, RandRange(r, 1, 1))
	assert.Equal(t, 0.5, RandRange(nil, 0.5, 2))
}

func TestSmoothDamp2Converges(t *testing.T) {
	x, y, vx, vy := 0.0, 0.0, 0.0, 0.0
	for i := 0; i < TPS*3; i++ {
		x, y = SmoothDamp2(x, y, 100, 0, &vx, &vy, 0.15, FixedDelta)
		require.LessOrEqual(t, x, 100.0, "overshot at step %d", i)
	}
	assert.InDelta(t, 100, x, 0.01)
	assert.Zero(t, y)
}

func TestSmoothDamp2ZeroSmoothTimeSnaps(t *testing.T) {
	vx, vy := 0.0, 0.0
	x, y := SmoothDamp2(0, 0, 50, 20, &vx, &vy, 0, FixedDelta)
	assert.InDelta(t, 50, x, 0.01)
	assert.InDelta(t, 20, y, 0.01)
}

func TestSmoothDamp2NeverOvershoots(t *testing.T) {
	x, y := 0.0, 10.0
	vx, vy := 400.0, 0.0 // moving fast toward the target already
	for i := 0; i < TPS; i++ {
		x, y = SmoothDamp2(x, y, 64, 10, &vx, &vy, 0.15, FixedDelta)
		require.LessOrEqual(t, x, 64.0)
		assert.Equal(t, 10.0, y)
	}
	assert.InDelta(t, 64, x, 0.5)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(5, 0, 1))
	assert.Equal(t, 0.0, Clamp(-5, 0, 1))
	assert.Equal(t, 0.25, Clamp(0.25, 0, 1))
}
