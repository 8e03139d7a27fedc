package sim

import (
	"github.com/Faultbox/strandsim/internal/rig"
	"github.com/Faultbox/strandsim/pkg/math"
)

// limitAngles pulls points back toward their animated direction when they
// swing past the configured angle. Points are visited parents first.
func (e *Engine) limitAngles(cfg AngleLimitConfig, t float32) {
	limit := math.Radians(cfg.MaxAngle)
	for i := range e.points {
		p := &e.points[i]
		if p.Fixed || p.Parent == rig.NoIndex || p.LimitPower <= 0 {
			continue
		}

		pivot := p.Parent
		if cfg.FromRoot {
			pivot = e.roots[i]
		}
		origin := e.points[pivot].Position
		cur := p.Position.Sub(origin)
		ref := e.animAt(i, t).Sub(e.animAt(pivot, t))

		angle := math.AngleBetween(cur, ref)
		if angle <= limit || angle < math.Epsilon {
			continue
		}
		frac := math.Clamp01((angle - limit) / angle * p.LimitPower)
		swing := math.QuatIdentity().Slerp(math.QuatFromTo(cur, ref), frac)
		p.Position = origin.Add(swing.Rotate(cur))
	}
}

// limitRoot carries free points along with the anchor by whatever part of
// its motion since the last step exceeds the configured maxima.
func (e *Engine) limitRoot(cfg RootLimitConfig, lastPos math.Vec3, lastRot math.Quat) {
	if cfg.MaxTranslation >= 0 {
		delta := e.anchorPos.Sub(lastPos)
		if excess := delta.Sub(delta.ClampLength(cfg.MaxTranslation)); excess.LengthSq() > 0 {
			e.shift(func(v math.Vec3) math.Vec3 { return v.Add(excess) })
		}
	}

	if cfg.MaxRotation >= 0 {
		delta := e.anchorRot.Mul(lastRot.Conjugate()).Normalize()
		angle := delta.Angle()
		limit := math.Radians(cfg.MaxRotation)
		if angle > limit && angle > math.Epsilon {
			excess := math.QuatIdentity().Slerp(delta, (angle-limit)/angle)
			pivot := e.anchorPos
			e.shift(func(v math.Vec3) math.Vec3 {
				return pivot.Add(excess.Rotate(v.Sub(pivot)))
			})
		}
	}
}

// shift applies f to the current and previous position of every free point.
func (e *Engine) shift(f func(math.Vec3) math.Vec3) {
	for i := range e.points {
		p := &e.points[i]
		if p.Fixed {
			continue
		}
		p.Position = f(p.Position)
		p.Previous = f(p.Previous)
	}
}
