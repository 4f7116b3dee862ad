package common

import (
	"math"
	"math/rand/v2"
)

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// TPS is the fixed simulation rate; one Update is one physics step.
	TPS = 60
	// UnitsPerMeter converts prefab tunables in metres to world pixels.
	UnitsPerMeter = 32.0

	// Gravity is standard gravity in pixels per second squared, Y down.
	Gravity = 9.81 * UnitsPerMeter
)

// FixedDelta is the simulation step in seconds.
const FixedDelta = 1.0 / TPS

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RandRange returns a value uniformly drawn from [min, max]. Reversed bounds
// are swapped and equal bounds return min without consuming randomness.
func RandRange(r *rand.Rand, min, max float64) float64 {
	if max < min {
		min, max = max, min
	}
	if min == max || r == nil {
		return min
	}
	return min + r.Float64()*(max-min)
}

// SmoothDamp2 moves (cx, cy) toward (tx, ty) with a critically damped
// spring. vx and vy carry state between calls. smoothTime is roughly the time
// to reach the target; it is floored at 0.0001. Overshoot is judged along the
// approach direction rather than per axis.
func SmoothDamp2(cx, cy, tx, ty float64, vx, vy *float64, smoothTime, dt float64) (float64, float64) {
	if dt <= 0 {
		return cx, cy
	}
	smoothTime = math.Max(0.0001, smoothTime)
	omega := 2 / smoothTime
	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	changeX := cx - tx
	changeY := cy - ty

	tempX := (*vx + omega*changeX) * dt
	tempY := (*vy + omega*changeY) * dt

	*vx = (*vx - omega*tempX) * exp
	*vy = (*vy - omega*tempY) * exp

	outX := tx + (changeX+tempX)*exp
	outY := ty + (changeY+tempY)*exp

	toX, toY := tx-cx, ty-cy
	pastX, pastY := outX-tx, outY-ty
	if toX*pastX+toY*pastY > 0 {
		outX, outY = tx, ty
		*vx, *vy = 0, 0
	}
	return outX, outY
}
