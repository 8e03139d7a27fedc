// Package params derives per-point physical coefficients from depth-indexed curves.
package params

import (
	"github.com/Faultbox/strandsim/internal/rig"
	"github.com/Faultbox/strandsim/pkg/curve"
	"github.com/Faultbox/strandsim/pkg/math"
)

// MinMass is the floor applied to derived masses.
const MinMass float32 = 0.001

// Coefficient is a scale multiplied by a curve.
type Coefficient struct {
	Scale float32
	Curve curve.Curve
}

func (c Coefficient) at(rate float32) float32 {
	if c.Curve == nil {
		return c.Scale
	}
	return c.Scale * c.Curve.Evaluate(rate)
}

// Override is a global coefficient that replaces the per-family values when enabled.
type Override struct {
	Enabled bool
	Coefficient
}

// Settings are the response curves sampled for every point.
type Settings struct {
	Mass         curve.Curve
	Resistance   curve.Curve
	Hardness     curve.Curve
	Friction     curve.Curve
	Gravity      curve.Curve
	Wind         curve.Curve
	LimitPower   curve.Curve
	SliderLength curve.Curve
	SliderSpring curve.Curve

	AllStretch Override
	AllShrink  Override
	Stretch    [rig.FamilyCount]Coefficient
	Shrink     [rig.FamilyCount]Coefficient
}

// DefaultSettings returns curves for a moderately stiff, lightly damped strand.
func DefaultSettings() Settings {
	s := Settings{
		Mass:         curve.Constant(1),
		Resistance:   curve.Constant(0.02),
		Hardness:     curve.Constant(0),
		Friction:     curve.Constant(0.5),
		Gravity:      curve.Constant(1),
		Wind:         curve.Constant(1),
		LimitPower:   curve.Constant(1),
		SliderLength: curve.Constant(0),
		SliderSpring: curve.Constant(0),
	}
	for f := range s.Stretch {
		s.Stretch[f] = Coefficient{Scale: 1, Curve: curve.Constant(1)}
		s.Shrink[f] = Coefficient{Scale: 1, Curve: curve.Constant(1)}
	}
	// Bending resists folding only gently by default
	for _, f := range []rig.Family{rig.BendingVertical, rig.BendingHorizontal} {
		s.Stretch[f].Scale = 0.5
		s.Shrink[f].Scale = 0.5
	}
	return s
}

// Rate maps depth onto [0, 1]: 0 at roots and 1 at the deepest tip.
func Rate(depth, maxDepth int) float32 {
	if maxDepth <= 0 {
		return 0
	}
	return float32(depth) / float32(maxDepth)
}

// Derive fills in the coefficients of every point in the model.
func Derive(m *rig.Model, s Settings) {
	for i := range m.Points {
		p := &m.Points[i]
		p.Coefficients = Evaluate(s, Rate(p.Depth, m.MaxDepth), p.MassScale, p.Fixed)
	}
}

// Evaluate computes the coefficients for a single point at rate.
func Evaluate(s Settings, rate, massScale float32, fixed bool) rig.Coefficients {
	if massScale <= 0 {
		massScale = 1
	}
	c := rig.Coefficients{
		Mass:         max(MinMass, sample(s.Mass, rate, 1)*massScale),
		Resistance:   1 - math.Clamp01(sample(s.Resistance, rate, 0)),
		Hardness:     math.Clamp01(sample(s.Hardness, rate, 0)),
		Friction:     sample(s.Friction, rate, 0),
		Gravity:      sample(s.Gravity, rate, 1),
		Wind:         sample(s.Wind, rate, 1) * rate,
		LimitPower:   sample(s.LimitPower, rate, 1),
		SliderLength: max(0, sample(s.SliderLength, rate, 0)),
		SliderSpring: math.Clamp01(sample(s.SliderSpring, rate, 0)),
	}
	if !fixed {
		c.Weight = 1 / c.Mass
	}

	for f := range c.Stiffness {
		stretch := s.Stretch[f]
		if s.AllStretch.Enabled {
			stretch = s.AllStretch.Coefficient
		}
		shrink := s.Shrink[f]
		if s.AllShrink.Enabled {
			shrink = s.AllShrink.Coefficient
		}
		c.Stiffness[f] = rig.Stiffness{
			Stretch: math.Clamp01(stretch.at(rate)),
			Shrink:  math.Clamp01(shrink.at(rate)),
		}
	}
	return c
}

func sample(c curve.Curve, rate, fallback float32) float32 {
	if c == nil {
		return fallback
	}
	return c.Evaluate(rate)
}
