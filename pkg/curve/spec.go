package curve

// Spec is the serializable form of a curve as it appears in config files.
//
// A spec with no keys is a constant Value. With keys, the curve is the keyframe
// interpolation of [time, value] pairs multiplied by Value (1 when Value is zero
// and keys are present).
type Spec struct {
	Value float32      `yaml:"value" toml:"value"`
	Keys  [][2]float32 `yaml:"keys,omitempty" toml:"keys,omitempty"`
}

// Flat returns a spec describing a constant curve.
func Flat(v float32) Spec {
	return Spec{Value: v}
}

// Ramp returns a spec interpolating linearly from a at the root to b at the tip.
func Ramp(a, b float32) Spec {
	return Spec{Value: 1, Keys: [][2]float32{{0, a}, {1, b}}}
}

// Build converts the spec to a Curve.
func (s Spec) Build() Curve {
	if len(s.Keys) == 0 {
		return Constant(s.Value)
	}
	keys := make([]Key, len(s.Keys))
	for i, k := range s.Keys {
		keys[i] = Key{Time: k[0], Value: k[1]}
	}
	scale := s.Value
	if scale == 0 {
		scale = 1
	}
	if scale == 1 {
		return NewKeyframes(keys...)
	}
	return Scaled{Scale: scale, Curve: NewKeyframes(keys...)}
}
