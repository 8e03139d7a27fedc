package sim

import (
	"testing"

	"github.com/Faultbox/strandsim/internal/rig"
	"github.com/Faultbox/strandsim/internal/topology"
	"github.com/Faultbox/strandsim/pkg/math"
)

func TestClosestOnTriangle(t *testing.T) {
	a := math.Vec3{}
	b := math.Vec3{X: 1}
	c := math.Vec3{Y: 1}

	tests := []struct {
		name string
		p    math.Vec3
		want math.Vec3
	}{
		{"vertex a", math.Vec3{X: -1, Y: -1}, a},
		{"vertex b", math.Vec3{X: 2, Y: -0.5}, b},
		{"vertex c", math.Vec3{X: -0.5, Y: 2}, c},
		{"edge ab", math.Vec3{X: 0.5, Y: -1}, math.Vec3{X: 0.5}},
		{"edge ac", math.Vec3{X: -1, Y: 0.5}, math.Vec3{Y: 0.5}},
		{"edge bc", math.Vec3{X: 1, Y: 1}, math.Vec3{X: 0.5, Y: 0.5}},
		{"interior", math.Vec3{X: 0.25, Y: 0.25, Z: 3}, math.Vec3{X: 0.25, Y: 0.25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := closestOnTriangle(tt.p, a, b, c); !near(got, tt.want, 1e-5) {
				t.Errorf("closestOnTriangle(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestDistribute(t *testing.T) {
	a := &rig.Point{Coefficients: rig.Coefficients{Weight: 1}}
	b := &rig.Point{Coefficients: rig.Coefficients{Weight: 1}, Position: math.Vec3{X: 1}}
	push := math.Vec3{Y: 0.3}

	distribute(push, []*rig.Point{a, b}, []float32{0.5, 0.5})

	// The sample at the midpoint must move by exactly push.
	mid := a.Position.Lerp(b.Position, 0.5)
	if !near(mid, math.Vec3{X: 0.5, Y: 0.3}, 1e-5) {
		t.Errorf("midpoint moved to %v", mid)
	}
}

func TestDistributeSkipsFixed(t *testing.T) {
	fixed := &rig.Point{}
	free := &rig.Point{Coefficients: rig.Coefficients{Weight: 1}, Position: math.Vec3{X: 1}}

	distribute(math.Vec3{Y: 0.1}, []*rig.Point{fixed, free}, []float32{0.5, 0.5})

	if fixed.Position != (math.Vec3{}) {
		t.Errorf("fixed point moved to %v", fixed.Position)
	}
	if !near(free.Position, math.Vec3{X: 1, Y: 0.2}, 1e-5) {
		t.Errorf("free point at %v, want (1, 0.2, 0)", free.Position)
	}
}

// quadEngine builds an engine over one flat unit face in the XY plane plus
// any extra points.
func quadEngine(extra ...rig.Point) *Engine {
	corner := func(x, y float32) rig.Point {
		return rig.Point{
			Parent: rig.NoIndex, Child: rig.NoIndex, Target: rig.NoIndex,
			Coefficients: rig.Coefficients{Weight: 1, Mass: 1},
			Position:     math.Vec3{X: x, Y: y},
		}
	}
	points := []rig.Point{corner(0, 0), corner(1, 0), corner(1, -1), corner(0, -1)}
	points = append(points, extra...)

	e := &Engine{
		points: points,
		faces:  []topology.SurfaceFace{{A: 0, B: 1, C: 2, D: 3}},
		faceOf: make([][]int, len(points)),
	}
	for c := 0; c < 4; c++ {
		e.faceOf[c] = []int{0}
	}
	return e
}

func TestCollideSelf(t *testing.T) {
	intruder := rig.Point{
		Parent: rig.NoIndex, Child: rig.NoIndex, Target: rig.NoIndex,
		Coefficients: rig.Coefficients{Weight: 1, Mass: 1},
		Position:     math.Vec3{X: 0.5, Y: -0.5, Z: 0.004},
	}
	e := quadEngine(intruder)

	e.collideSelf(0.01)

	got := e.points[4].Position
	if !near(got, math.Vec3{X: 0.5, Y: -0.5, Z: 0.01}, 1e-5) {
		t.Errorf("intruder at %v, want pushed to the face thickness", got)
	}
	for c := 0; c < 4; c++ {
		if e.points[c].Position.Z != 0 {
			t.Errorf("corner %d moved off its own face: %v", c, e.points[c].Position)
		}
	}
}

func TestCollideFaces(t *testing.T) {
	e := quadEngine()
	// A sphere just under the face centre that no corner touches.
	e.colliders = []Collider{&Capsule{
		Transform: newFake(math.Vec3{X: 0.5, Y: -0.5, Z: -0.05}),
		Radius:    0.1, TailRadius: 0.1,
	}}

	e.collideFaces(SurfaceConfig{Enabled: true, Detail: 2})

	for c := 0; c < 4; c++ {
		if z := e.points[c].Position.Z; z <= 0 {
			t.Errorf("corner %d z = %f, want pushed away from the sphere", c, z)
		}
	}
}
