package params

import (
	"math"
	"testing"

	"github.com/Faultbox/strandsim/internal/rig"
	"github.com/Faultbox/strandsim/internal/scene"
	"github.com/Faultbox/strandsim/pkg/curve"
)

func chainModel(t *testing.T, rows int) *rig.Model {
	t.Helper()
	g := scene.NewGraph()
	_, roots := scene.BuildSheet(g, scene.SheetOptions{Columns: 1, Rows: rows, Spacing: 1, Segment: 1})
	m, err := rig.Build(g, roots)
	if err != nil {
		t.Fatalf("rig.Build: %v", err)
	}
	return m
}

func TestRate(t *testing.T) {
	tests := []struct {
		depth, maxDepth int
		want            float32
	}{
		{0, 4, 0},
		{2, 4, 0.5},
		{4, 4, 1},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := Rate(tt.depth, tt.maxDepth); got != tt.want {
			t.Errorf("Rate(%d, %d) = %v, want %v", tt.depth, tt.maxDepth, got, tt.want)
		}
	}
}

func TestDeriveRootAndTip(t *testing.T) {
	m := chainModel(t, 5)
	s := DefaultSettings()
	s.Wind = curve.Constant(2)
	Derive(m, s)

	root := m.Points[0]
	tip := m.Points[len(m.Points)-1]

	if root.Weight != 0 {
		t.Errorf("fixed root weight = %v, want 0", root.Weight)
	}
	if tip.Weight != 1 {
		t.Errorf("tip weight = %v, want 1", tip.Weight)
	}
	if root.Wind != 0 {
		t.Errorf("wind at root = %v, want 0", root.Wind)
	}
	if tip.Wind != 2 {
		t.Errorf("wind at tip = %v, want 2", tip.Wind)
	}
	if math.Abs(float64(tip.Resistance-0.98)) > 0.0001 {
		t.Errorf("resistance = %v, want 0.98", tip.Resistance)
	}
}

func TestDeriveSinglePoint(t *testing.T) {
	m := chainModel(t, 1)
	Derive(m, DefaultSettings())
	p := m.Points[0]
	if math.IsNaN(float64(p.Wind)) || math.IsNaN(float64(p.Mass)) {
		t.Error("single point chain produced NaN coefficients")
	}
}

func TestMassFloor(t *testing.T) {
	s := DefaultSettings()
	s.Mass = curve.Constant(-3)
	c := Evaluate(s, 0.5, 1, false)
	if c.Mass != MinMass {
		t.Errorf("mass = %v, want floor %v", c.Mass, MinMass)
	}
	if math.IsInf(float64(c.Weight), 0) {
		t.Error("weight should stay finite")
	}
}

func TestClamping(t *testing.T) {
	s := DefaultSettings()
	s.Hardness = curve.Constant(4)
	s.Resistance = curve.Constant(2)
	c := Evaluate(s, 1, 1, false)
	if c.Hardness != 1 {
		t.Errorf("hardness = %v, want 1", c.Hardness)
	}
	if c.Resistance != 0 {
		t.Errorf("resistance = %v, want 0", c.Resistance)
	}
}

func TestMassScale(t *testing.T) {
	s := DefaultSettings()
	c := Evaluate(s, 0.5, 4, false)
	if c.Mass != 4 || c.Weight != 0.25 {
		t.Errorf("mass=%v weight=%v, want 4 and 0.25", c.Mass, c.Weight)
	}
}

func TestStiffnessOverrides(t *testing.T) {
	s := DefaultSettings()
	s.Shrink[rig.Shear] = Coefficient{Scale: 0.3, Curve: curve.Linear{From: 0, To: 1}}
	s.Stretch[rig.Shear] = Coefficient{Scale: 0.6}

	c := Evaluate(s, 0.5, 1, false)
	if got := c.Stiffness[rig.Shear].Shrink; math.Abs(float64(got-0.15)) > 0.0001 {
		t.Errorf("shear shrink = %v, want 0.15", got)
	}
	if got := c.Stiffness[rig.Shear].Stretch; got != 0.6 {
		t.Errorf("shear stretch = %v, want 0.6", got)
	}

	// Global toggles take precedence over per-family values
	s.AllShrink = Override{Enabled: true, Coefficient: Coefficient{Scale: 0.9}}
	c = Evaluate(s, 0.5, 1, false)
	for f := range c.Stiffness {
		if c.Stiffness[f].Shrink != 0.9 {
			t.Errorf("%s shrink = %v, want 0.9 from global toggle", rig.Family(f), c.Stiffness[f].Shrink)
		}
	}
	if c.Stiffness[rig.Shear].Stretch != 0.6 {
		t.Error("stretch should keep per-family value when only shrink is global")
	}
}
