package curve

import (
	"math"
	"testing"
)

func TestConstant(t *testing.T) {
	c := Constant(0.4)
	for _, x := range []float32{0, 0.5, 1} {
		if got := c.Evaluate(x); got != 0.4 {
			t.Errorf("Constant.Evaluate(%v) = %v, want 0.4", x, got)
		}
	}
}

func TestLinear(t *testing.T) {
	l := Linear{From: 1, To: 3}
	tests := []struct {
		in, want float32
	}{
		{0, 1},
		{0.5, 2},
		{1, 3},
		{2, 3},
		{-1, 1},
	}
	for _, tt := range tests {
		if got := l.Evaluate(tt.in); got != tt.want {
			t.Errorf("Linear.Evaluate(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKeyframes(t *testing.T) {
	// Keys given out of order on purpose
	k := NewKeyframes(Key{Time: 1, Value: 0}, Key{Time: 0, Value: 1}, Key{Time: 0.5, Value: 0.5})

	tests := []struct {
		in, want float32
	}{
		{0, 1},
		{0.25, 0.75},
		{0.5, 0.5},
		{0.75, 0.25},
		{1, 0},
		{1.5, 0},
		{-0.5, 1},
	}
	for _, tt := range tests {
		got := k.Evaluate(tt.in)
		if math.Abs(float64(got-tt.want)) > 0.0001 {
			t.Errorf("Keyframes.Evaluate(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKeyframesEmpty(t *testing.T) {
	if got := NewKeyframes().Evaluate(0.3); got != 0 {
		t.Errorf("empty keyframes should evaluate to 0, got %v", got)
	}
}

func TestSpecBuild(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		at   float32
		want float32
	}{
		{"flat", Flat(2), 0.7, 2},
		{"ramp", Ramp(1, 0), 0.25, 0.75},
		{"scaled keys", Spec{Value: 2, Keys: [][2]float32{{0, 0}, {1, 1}}}, 0.5, 1},
		{"unscaled keys", Spec{Keys: [][2]float32{{0, 3}, {1, 3}}}, 0.5, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.spec.Build().Evaluate(tt.at)
			if math.Abs(float64(got-tt.want)) > 0.0001 {
				t.Errorf("Build().Evaluate(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}
