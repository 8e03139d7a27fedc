package rig

import "github.com/Faultbox/strandsim/pkg/math"

// Stiffness is a pair of constraint response coefficients.
// Shrink applies when a constraint is longer than its rest length, Stretch when shorter.
type Stiffness struct {
	Stretch float32
	Shrink  float32
}

// Coefficients are the physical parameters derived for a point.
type Coefficients struct {
	Mass   float32
	Weight float32 // inverse-mass solving weight, 0 for fixed points

	Resistance   float32 // velocity retention factor
	Hardness     float32
	Friction     float32
	Gravity      float32
	Wind         float32
	LimitPower   float32
	SliderLength float32
	SliderSpring float32

	Stiffness [FamilyCount]Stiffness
}

// Point is one simulated mass.
type Point struct {
	Index  int
	Node   int
	Parent int
	Child  int
	Depth  int

	Fixed     bool
	Branching bool
	Surface   bool
	MassScale float32
	Radius    float32

	Target       int
	TargetRadius float32

	Coefficients

	Position math.Vec3
	Previous math.Vec3
	Rotation math.Quat
}

// HasChild reports whether the point continues vertically.
func (p *Point) HasChild() bool {
	return p.Child != NoIndex
}

// Velocity returns the per-step velocity implied by the verlet history.
func (p *Point) Velocity() math.Vec3 {
	return p.Position.Sub(p.Previous)
}
