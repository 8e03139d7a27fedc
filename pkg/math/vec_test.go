package math

import (
	"math"
	"testing"
)

func TestVec3Length(t *testing.T) {
	v := Vec3{2, 3, 6}
	got := v.Length()
	want := float32(7)
	if got != want {
		t.Errorf("Vec3.Length() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, 20, 30}
	got := a.Lerp(b, 0.5)
	want := Vec3{5, 10, 15}
	if got != want {
		t.Errorf("Vec3.Lerp() = %v, want %v", got, want)
	}
}

func TestVec3ClampLength(t *testing.T) {
	v := Vec3{0, 10, 0}
	got := v.ClampLength(2)
	if got != (Vec3{0, 2, 0}) {
		t.Errorf("ClampLength(2) = %v, want (0,2,0)", got)
	}
	if v.ClampLength(20) != v {
		t.Error("ClampLength above length should not change vector")
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("expected finite vector")
	}
	nan := float32(math.NaN())
	if (Vec3{1, nan, 3}).IsFinite() {
		t.Error("expected NaN vector to be non-finite")
	}
}

func TestAngleBetween(t *testing.T) {
	got := AngleBetween(Vec3{1, 0, 0}, Vec3{0, 1, 0})
	if math.Abs(float64(got)-math.Pi/2) > 0.0001 {
		t.Errorf("AngleBetween = %v, want pi/2", got)
	}
	if AngleBetween(Vec3{}, Vec3{1, 0, 0}) != 0 {
		t.Error("angle with zero vector should be 0")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{-1, 0},
		{0.5, 0.5},
		{2, 1},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if Clamp(7, 1, 5) != 5 {
		t.Error("Clamp on ints should clamp to high")
	}
}
