// Package sim advances simulated points every frame: integration, constraint
// relaxation, collision and limits.
package sim

import "github.com/Faultbox/strandsim/pkg/math"

// Transform is a host-owned handle the engine reads animated poses from and
// writes simulated poses back to.
type Transform interface {
	Position() math.Vec3
	Rotation() math.Quat
	SetPosition(math.Vec3)
	SetRotation(math.Quat)
}
