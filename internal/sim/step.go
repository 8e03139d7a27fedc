package sim

import (
	"errors"
	gomath "math"

	"github.com/Faultbox/strandsim/pkg/math"
)

var (
	ErrNotInitialized = errors.New("engine is not initialized")
	ErrInvalidStep    = errors.New("invalid step parameters")
	ErrTransformCount = errors.New("transform count does not match point count")
)

// FloorConfig is the ground plane.
type FloorConfig struct {
	Enabled bool
	Height  float32
}

// ColliderConfig controls point and edge collision against colliders.
type ColliderConfig struct {
	Enabled  bool
	Friction float32
	// Detail is the number of segments each colliding edge is sampled with.
	Detail int
}

// SurfaceConfig controls collision of surface faces.
type SurfaceConfig struct {
	Enabled   bool
	Self      bool
	Thickness float32
	// Detail is the grid resolution each face is sampled with.
	Detail int
}

// AngleLimitConfig restricts how far a point may swing away from its animated direction.
type AngleLimitConfig struct {
	Enabled  bool
	FromRoot bool
	MaxAngle float32 // degrees
}

// RootLimitConfig caps how far the anchor may move in one step before the
// simulation is carried along with it. Negative values disable a limit.
type RootLimitConfig struct {
	MaxTranslation float32
	MaxRotation    float32 // degrees
}

// Step is the per-call simulation input.
type Step struct {
	Dt         float32
	SubSteps   int
	FixedDt    float32 // when positive, Update runs fixed steps of this size
	MaxDelta   float32 // clamp for unstabilized host deltas; 0 means no clamp
	Gravity    math.Vec3
	Wind       math.Vec3
	Iterations int
	SpringK    float32
	BlendRatio float32
	Paused     bool

	Floor      FloorConfig
	Colliders  ColliderConfig
	Surface    SurfaceConfig
	AngleLimit AngleLimitConfig
	RootLimit  RootLimitConfig
}

// DefaultStep returns a step at 60 Hz with earth gravity.
func DefaultStep() Step {
	return Step{
		Dt:         1.0 / 60,
		SubSteps:   1,
		MaxDelta:   1.0 / 15,
		Gravity:    math.Vec3{Y: -9.8},
		Iterations: 8,
		SpringK:    1,
		Colliders:  ColliderConfig{Enabled: true, Detail: 1},
		Surface:    SurfaceConfig{Thickness: 0.01, Detail: 2},
		AngleLimit: AngleLimitConfig{MaxAngle: 180},
		RootLimit:  RootLimitConfig{MaxTranslation: -1, MaxRotation: -1},
	}
}

// normalize clamps recoverable settings and rejects unusable ones.
func (s Step) normalize() (Step, error) {
	if gomath.IsNaN(float64(s.Dt)) || gomath.IsInf(float64(s.Dt), 0) {
		return s, ErrInvalidStep
	}
	if !s.Gravity.IsFinite() || !s.Wind.IsFinite() {
		return s, ErrInvalidStep
	}
	if s.Dt < 0 {
		s.Dt = 0
	}
	if s.SubSteps < 1 {
		s.SubSteps = 1
	}
	if s.Iterations < 0 {
		s.Iterations = 0
	}
	if s.Colliders.Detail < 1 {
		s.Colliders.Detail = 1
	}
	if s.Surface.Detail < 1 {
		s.Surface.Detail = 1
	}
	s.BlendRatio = math.Clamp01(s.BlendRatio)
	return s, nil
}
