// Package config handles simulation configuration loading and management.
package config

import "github.com/Faultbox/strandsim/pkg/curve"

// Config holds all simulation settings.
type Config struct {
	Simulation  SimulationConfig  `yaml:"simulation" toml:"simulation"`
	Collision   CollisionConfig   `yaml:"collision" toml:"collision"`
	Limits      LimitsConfig      `yaml:"limits" toml:"limits"`
	Constraints ConstraintsConfig `yaml:"constraints" toml:"constraints"`
	Parameters  ParametersConfig  `yaml:"parameters" toml:"parameters"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
}

// SimulationConfig holds stepping and force settings.
type SimulationConfig struct {
	FPS             float32    `yaml:"fps" toml:"fps"` // stabilization rate; 0 steps with the host delta
	MaxDelta        float32    `yaml:"max_delta" toml:"max_delta"`
	SubSteps        int        `yaml:"sub_steps" toml:"sub_steps"`
	Iterations      int        `yaml:"iterations" toml:"iterations"`
	Gravity         [3]float32 `yaml:"gravity,flow" toml:"gravity"`
	Wind            [3]float32 `yaml:"wind,flow" toml:"wind"`
	SpringK         float32    `yaml:"spring_k" toml:"spring_k"`
	BlendAnimation  bool       `yaml:"blend_animation" toml:"blend_animation"`
	BlendRatio      float32    `yaml:"blend_ratio" toml:"blend_ratio"`
	TwistCorrection bool       `yaml:"twist_correction" toml:"twist_correction"`
	ResetDelay      float32    `yaml:"reset_delay" toml:"reset_delay"`
	Workers         int        `yaml:"workers" toml:"workers"` // 0 uses every CPU
	Paused          bool       `yaml:"paused" toml:"paused"`
}

// CollisionConfig holds floor, collider and surface settings.
type CollisionConfig struct {
	Floor         bool    `yaml:"floor" toml:"floor"`
	FloorHeight   float32 `yaml:"floor_height" toml:"floor_height"`
	Colliders     bool    `yaml:"colliders" toml:"colliders"`
	Friction      float32 `yaml:"friction" toml:"friction"`
	EdgeDetail    int     `yaml:"edge_detail" toml:"edge_detail"`
	Surface       bool    `yaml:"surface" toml:"surface"`
	SelfCollision bool    `yaml:"self_collision" toml:"self_collision"`
	Thickness     float32 `yaml:"thickness" toml:"thickness"`
	SurfaceDetail int     `yaml:"surface_detail" toml:"surface_detail"`
}

// LimitsConfig holds angle and root motion limits.
type LimitsConfig struct {
	AngleLimit     bool    `yaml:"angle_limit" toml:"angle_limit"`
	FromRoot       bool    `yaml:"from_root" toml:"from_root"`
	MaxAngle       float32 `yaml:"max_angle" toml:"max_angle"`             // degrees
	MaxTranslation float32 `yaml:"max_translation" toml:"max_translation"` // negative disables
	MaxRotation    float32 `yaml:"max_rotation" toml:"max_rotation"`       // degrees, negative disables
}

// Families toggles something per constraint family.
type Families struct {
	StructuralVertical   bool `yaml:"structural_vertical" toml:"structural_vertical"`
	StructuralHorizontal bool `yaml:"structural_horizontal" toml:"structural_horizontal"`
	Shear                bool `yaml:"shear" toml:"shear"`
	BendingVertical      bool `yaml:"bending_vertical" toml:"bending_vertical"`
	BendingHorizontal    bool `yaml:"bending_horizontal" toml:"bending_horizontal"`
}

// ConstraintsConfig selects which constraint families are solved and collided.
type ConstraintsConfig struct {
	Loop    bool     `yaml:"loop" toml:"loop"`
	Compute Families `yaml:"compute" toml:"compute"`
	Collide Families `yaml:"collide" toml:"collide"`
}

// FamilyCurves holds one stiffness curve per constraint family.
type FamilyCurves struct {
	StructuralVertical   curve.Spec `yaml:"structural_vertical" toml:"structural_vertical"`
	StructuralHorizontal curve.Spec `yaml:"structural_horizontal" toml:"structural_horizontal"`
	Shear                curve.Spec `yaml:"shear" toml:"shear"`
	BendingVertical      curve.Spec `yaml:"bending_vertical" toml:"bending_vertical"`
	BendingHorizontal    curve.Spec `yaml:"bending_horizontal" toml:"bending_horizontal"`
}

// ParametersConfig holds the depth response curves.
type ParametersConfig struct {
	Mass         curve.Spec `yaml:"mass" toml:"mass"`
	Resistance   curve.Spec `yaml:"resistance" toml:"resistance"`
	Hardness     curve.Spec `yaml:"hardness" toml:"hardness"`
	Friction     curve.Spec `yaml:"friction" toml:"friction"`
	Gravity      curve.Spec `yaml:"gravity" toml:"gravity"`
	Wind         curve.Spec `yaml:"wind" toml:"wind"`
	LimitPower   curve.Spec `yaml:"limit_power" toml:"limit_power"`
	SliderLength curve.Spec `yaml:"slider_length" toml:"slider_length"`
	SliderSpring curve.Spec `yaml:"slider_spring" toml:"slider_spring"`

	Stretch FamilyCurves `yaml:"stretch" toml:"stretch"`
	Shrink  FamilyCurves `yaml:"shrink" toml:"shrink"`

	// When set, these replace every per-family curve.
	AllStretch *curve.Spec `yaml:"all_stretch,omitempty" toml:"all_stretch,omitempty"`
	AllShrink  *curve.Spec `yaml:"all_shrink,omitempty" toml:"all_shrink,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

func allFamilies() Families {
	return Families{
		StructuralVertical:   true,
		StructuralHorizontal: true,
		Shear:                true,
		BendingVertical:      true,
		BendingHorizontal:    true,
	}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	stiff := curve.Flat(1)
	soft := curve.Flat(0.5)
	return &Config{
		Simulation: SimulationConfig{
			FPS:        60,
			MaxDelta:   1.0 / 15,
			SubSteps:   1,
			Iterations: 8,
			Gravity:    [3]float32{0, -9.8, 0},
			SpringK:    1,
		},
		Collision: CollisionConfig{
			Colliders:     true,
			EdgeDetail:    1,
			Thickness:     0.01,
			SurfaceDetail: 2,
		},
		Limits: LimitsConfig{
			MaxAngle:       180,
			MaxTranslation: -1,
			MaxRotation:    -1,
		},
		Constraints: ConstraintsConfig{
			Compute: allFamilies(),
			Collide: Families{StructuralVertical: true, StructuralHorizontal: true},
		},
		Parameters: ParametersConfig{
			Mass:         curve.Flat(1),
			Resistance:   curve.Flat(0.02),
			Hardness:     curve.Flat(0),
			Friction:     curve.Flat(0.5),
			Gravity:      curve.Flat(1),
			Wind:         curve.Flat(1),
			LimitPower:   curve.Flat(1),
			SliderLength: curve.Flat(0),
			SliderSpring: curve.Flat(0),
			Stretch:      FamilyCurves{stiff, stiff, stiff, soft, soft},
			Shrink:       FamilyCurves{stiff, stiff, stiff, soft, soft},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
