package sim

import (
	"github.com/Faultbox/strandsim/internal/rig"
	"github.com/Faultbox/strandsim/internal/topology"
	"github.com/Faultbox/strandsim/pkg/math"
)

// integrate moves fixed points along their animation and advances free points
// with damped verlet under gravity, wind and the animation spring.
func (e *Engine) integrate(step Step, dt, t float32) {
	dt2 := dt * dt
	spring := step.SpringK * dt
	for i := range e.points {
		p := &e.points[i]
		if p.Fixed {
			p.Previous = p.Position
			p.Position = e.animAt(i, t)
			continue
		}

		vel := p.Position.Sub(p.Previous).Scale(p.Resistance)
		accel := step.Gravity.Scale(p.Gravity)
		if p.Mass > 0 {
			accel = accel.Add(step.Wind.Scale(p.Wind / p.Mass))
		}
		p.Previous = p.Position
		p.Position = p.Position.Add(vel).Add(accel.Scale(dt2))

		if k := math.Clamp01(p.Hardness * spring); k > 0 {
			p.Position = p.Position.Lerp(e.animAt(i, t), k)
		}
	}
}

// relax runs one pass over every batch in order, then applies target leashes.
func (e *Engine) relax() {
	for bi := range e.batches {
		cs := e.batches[bi].Constraints
		e.pool.run(len(cs), func(lo, hi int) {
			for j := lo; j < hi; j++ {
				project(e.points, &cs[j])
			}
		})
	}
	e.leash()
}

// project pulls a constraint's endpoints toward its rest length. It writes
// only points A and B, which a batch guarantees no other constraint touches.
func project(points []rig.Point, c *topology.Constraint) {
	a, b := &points[c.A], &points[c.B]
	wa, wb := a.Weight, b.Weight
	w := wa + wb
	if w == 0 {
		return
	}

	d := b.Position.Sub(a.Position)
	dist := d.Length()
	if dist < math.Epsilon {
		return
	}

	sa, sb := a.Stiffness[c.Family], b.Stiffness[c.Family]
	rest := c.RestLength
	diff := dist - rest
	var k float32
	if diff > 0 {
		k = (sa.Shrink + sb.Shrink) / 2
		if c.Family == rig.StructuralVertical {
			diff, k = slide(a, b, rest, diff, k)
		}
	} else {
		k = (sa.Stretch + sb.Stretch) / 2
	}
	if k == 0 || diff == 0 {
		return
	}

	corr := d.Scale(diff / dist * k / w)
	a.Position = a.Position.Add(corr.Scale(wa))
	b.Position = b.Position.Sub(corr.Scale(wb))
}

// slide applies the slider joint: within the slider range an overstretched
// vertical link is held only by the slider spring.
func slide(a, b *rig.Point, rest, diff, k float32) (float32, float32) {
	length := (a.SliderLength + b.SliderLength) / 2
	if length <= 0 {
		return diff, k
	}
	slack := rest * length
	if diff <= slack {
		return diff, k * (a.SliderSpring + b.SliderSpring) / 2
	}
	return diff - slack, k
}

// leash keeps points within their movable target's radius.
func (e *Engine) leash() {
	for i := range e.points {
		p := &e.points[i]
		if p.Fixed || p.Target == rig.NoIndex || p.Target >= len(e.targetPos) {
			continue
		}
		center := e.targetPos[p.Target]
		off := p.Position.Sub(center)
		if off.Length() > p.TargetRadius {
			p.Position = center.Add(off.ClampLength(p.TargetRadius))
		}
	}
}
