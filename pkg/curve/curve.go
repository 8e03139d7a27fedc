// Package curve provides scalar response curves evaluated over a normalized parameter.
package curve

import (
	"sort"

	"github.com/Faultbox/strandsim/pkg/math"
)

// Curve evaluates a scalar response at t in [0, 1].
type Curve interface {
	Evaluate(t float32) float32
}

// Constant returns the same value everywhere.
type Constant float32

// Evaluate implements Curve.
func (c Constant) Evaluate(float32) float32 {
	return float32(c)
}

// Linear ramps from From at t=0 to To at t=1.
type Linear struct {
	From, To float32
}

// Evaluate implements Curve.
func (l Linear) Evaluate(t float32) float32 {
	t = math.Clamp01(t)
	return l.From + t*(l.To-l.From)
}

// Key is a single curve sample.
type Key struct {
	Time  float32
	Value float32
}

// Keyframes interpolates linearly between sorted keys.
// Values before the first key and after the last one are held.
type Keyframes struct {
	keys []Key
}

// NewKeyframes creates a keyframe curve. Keys are sorted by time.
func NewKeyframes(keys ...Key) *Keyframes {
	sorted := make([]Key, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})
	return &Keyframes{keys: sorted}
}

// Keys returns a copy of the curve's keys.
func (k *Keyframes) Keys() []Key {
	out := make([]Key, len(k.keys))
	copy(out, k.keys)
	return out
}

// Evaluate implements Curve.
func (k *Keyframes) Evaluate(t float32) float32 {
	keys := k.keys
	if len(keys) == 0 {
		return 0
	}
	if len(keys) == 1 || t <= keys[0].Time {
		return keys[0].Value
	}

	// Find surrounding keys
	var prev, next int
	for i := range keys {
		if keys[i].Time > t {
			next = i
			break
		}
		prev = i
		next = i
	}

	if prev == next {
		return keys[prev].Value
	}

	k0 := keys[prev]
	k1 := keys[next]
	f := float32(0)
	if k1.Time != k0.Time {
		f = (t - k0.Time) / (k1.Time - k0.Time)
	}
	return k0.Value + f*(k1.Value-k0.Value)
}

// Scaled multiplies a curve by a coefficient.
type Scaled struct {
	Scale float32
	Curve Curve
}

// Evaluate implements Curve.
func (s Scaled) Evaluate(t float32) float32 {
	if s.Curve == nil {
		return s.Scale
	}
	return s.Scale * s.Curve.Evaluate(t)
}
