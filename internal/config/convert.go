package config

import (
	"github.com/Faultbox/strandsim/internal/params"
	"github.com/Faultbox/strandsim/internal/rig"
	"github.com/Faultbox/strandsim/internal/sim"
	"github.com/Faultbox/strandsim/internal/topology"
	"github.com/Faultbox/strandsim/pkg/curve"
	"github.com/Faultbox/strandsim/pkg/math"
)

// Set converts the toggles to a rig.FamilySet.
func (f Families) Set() rig.FamilySet {
	var s rig.FamilySet
	s[rig.StructuralVertical] = f.StructuralVertical
	s[rig.StructuralHorizontal] = f.StructuralHorizontal
	s[rig.Shear] = f.Shear
	s[rig.BendingVertical] = f.BendingVertical
	s[rig.BendingHorizontal] = f.BendingHorizontal
	return s
}

func (f FamilyCurves) coefficients() [rig.FamilyCount]params.Coefficient {
	var out [rig.FamilyCount]params.Coefficient
	for fam, spec := range map[rig.Family]curve.Spec{
		rig.StructuralVertical:   f.StructuralVertical,
		rig.StructuralHorizontal: f.StructuralHorizontal,
		rig.Shear:                f.Shear,
		rig.BendingVertical:      f.BendingVertical,
		rig.BendingHorizontal:    f.BendingHorizontal,
	} {
		out[fam] = params.Coefficient{Scale: 1, Curve: spec.Build()}
	}
	return out
}

func override(spec *curve.Spec) params.Override {
	if spec == nil {
		return params.Override{}
	}
	return params.Override{
		Enabled:     true,
		Coefficient: params.Coefficient{Scale: 1, Curve: spec.Build()},
	}
}

// Settings builds the parameter derivation settings.
func (p ParametersConfig) Settings() params.Settings {
	return params.Settings{
		Mass:         p.Mass.Build(),
		Resistance:   p.Resistance.Build(),
		Hardness:     p.Hardness.Build(),
		Friction:     p.Friction.Build(),
		Gravity:      p.Gravity.Build(),
		Wind:         p.Wind.Build(),
		LimitPower:   p.LimitPower.Build(),
		SliderLength: p.SliderLength.Build(),
		SliderSpring: p.SliderSpring.Build(),
		AllStretch:   override(p.AllStretch),
		AllShrink:    override(p.AllShrink),
		Stretch:      p.Stretch.coefficients(),
		Shrink:       p.Shrink.coefficients(),
	}
}

// TopologyOptions returns the options for deriving constraints.
func (c ConstraintsConfig) TopologyOptions() topology.Options {
	return topology.Options{Loop: c.Loop, Collide: c.Collide.Set()}
}

func vec(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// Step builds the per-frame engine input. Dt is left for the caller.
func (c *Config) Step() sim.Step {
	s := c.Simulation
	step := sim.Step{
		SubSteps:   s.SubSteps,
		MaxDelta:   s.MaxDelta,
		Gravity:    vec(s.Gravity),
		Wind:       vec(s.Wind),
		Iterations: s.Iterations,
		SpringK:    s.SpringK,
		BlendRatio: s.BlendRatio,
		Paused:     s.Paused,
		Floor: sim.FloorConfig{
			Enabled: c.Collision.Floor,
			Height:  c.Collision.FloorHeight,
		},
		Colliders: sim.ColliderConfig{
			Enabled:  c.Collision.Colliders,
			Friction: c.Collision.Friction,
			Detail:   c.Collision.EdgeDetail,
		},
		Surface: sim.SurfaceConfig{
			Enabled:   c.Collision.Surface,
			Self:      c.Collision.SelfCollision,
			Thickness: c.Collision.Thickness,
			Detail:    c.Collision.SurfaceDetail,
		},
		AngleLimit: sim.AngleLimitConfig{
			Enabled:  c.Limits.AngleLimit,
			FromRoot: c.Limits.FromRoot,
			MaxAngle: c.Limits.MaxAngle,
		},
		RootLimit: sim.RootLimitConfig{
			MaxTranslation: c.Limits.MaxTranslation,
			MaxRotation:    c.Limits.MaxRotation,
		},
	}
	if s.FPS > 0 {
		step.FixedDt = 1 / s.FPS
		step.Dt = step.FixedDt
	}
	return step
}
