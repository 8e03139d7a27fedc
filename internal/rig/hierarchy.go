// Package rig models the simulated points built from a driven node hierarchy.
package rig

import "github.com/Faultbox/strandsim/pkg/math"

// NoIndex marks an absent point, node or target reference.
const NoIndex = -1

// Hierarchy is the read-only view of the host's node tree.
// Nodes are addressed by dense integer indices in [0, Len()).
type Hierarchy interface {
	Len() int
	Parent(node int) int
	Children(node int) []int
	Pose(node int) (math.Vec3, math.Quat)
	Flags(node int) NodeFlags
}

// NodeFlags holds per-node authoring settings.
type NodeFlags struct {
	Fixed      bool    `yaml:"fixed,omitempty"`
	MassScale  float32 `yaml:"mass_scale,omitempty"`
	Surface    bool    `yaml:"surface,omitempty"`
	Radius     float32 `yaml:"radius,omitempty"`
	ForceChild int     `yaml:"-"`

	// Leash to a movable target transform; NoIndex disables it.
	Target       int     `yaml:"-"`
	TargetRadius float32 `yaml:"target_radius,omitempty"`
}

// DefaultFlags returns flags with no overrides set.
func DefaultFlags() NodeFlags {
	return NodeFlags{
		MassScale:  1,
		ForceChild: NoIndex,
		Target:     NoIndex,
	}
}
