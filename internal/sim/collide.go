package sim

import (
	"github.com/Faultbox/strandsim/internal/rig"
	"github.com/Faultbox/strandsim/pkg/math"
)

// collide resolves floor, collider, grabber and surface contacts for one sub-step.
func (e *Engine) collide(step Step, dt float32) {
	if step.Floor.Enabled {
		e.collideFloor(step.Floor)
	}
	if step.Colliders.Enabled && len(e.colliders) > 0 {
		e.collidePoints(step.Colliders, dt)
		if step.Colliders.Detail > 1 {
			e.collideEdges(step.Colliders.Detail)
		}
	}
	e.grab(dt)
	if step.Surface.Enabled && len(e.faces) > 0 {
		if len(e.colliders) > 0 {
			e.collideFaces(step.Surface)
		}
		if step.Surface.Self {
			e.collideSelf(step.Surface.Thickness)
		}
	}
}

// applyFriction removes part of the motion made this step.
func applyFriction(p *rig.Point, friction float32) {
	if f := math.Clamp01(friction); f > 0 {
		p.Previous = p.Previous.Lerp(p.Position, f)
	}
}

func (e *Engine) collideFloor(cfg FloorConfig) {
	for i := range e.points {
		p := &e.points[i]
		if p.Fixed {
			continue
		}
		if floor := cfg.Height + p.Radius; p.Position.Y < floor {
			p.Position.Y = floor
			applyFriction(p, p.Friction)
		}
	}
}

func (e *Engine) collidePoints(cfg ColliderConfig, dt float32) {
	dt2 := dt * dt
	for i := range e.points {
		p := &e.points[i]
		if p.Fixed {
			continue
		}
		for _, c := range e.colliders {
			if f := c.SurfaceForce(p.Position, p.Radius); f != (math.Vec3{}) {
				p.Position = p.Position.Add(f.Scale(dt2 * p.Weight))
			}
			if push, hit := c.Resolve(p.Position, p.Radius); hit {
				p.Position = p.Position.Add(push)
				applyFriction(p, cfg.Friction*p.Friction)
			}
		}
	}
}

// collideEdges samples every colliding constraint between its endpoints and
// spreads any contact displacement back onto them.
func (e *Engine) collideEdges(detail int) {
	for _, c := range e.edges {
		a, b := &e.points[c.A], &e.points[c.B]
		r := (a.Radius + b.Radius) / 2
		for s := 1; s < detail; s++ {
			t := float32(s) / float32(detail)
			q := a.Position.Lerp(b.Position, t)
			for _, col := range e.colliders {
				push, hit := col.Resolve(q, r)
				if !hit {
					continue
				}
				distribute(push, []*rig.Point{a, b}, []float32{1 - t, t})
				q = a.Position.Lerp(b.Position, t)
			}
		}
	}
}

// distribute moves free points so that a sample with the given barycentric
// weights moves by push.
func distribute(push math.Vec3, pts []*rig.Point, weights []float32) {
	var norm float32
	for j, p := range pts {
		if p.Weight > 0 {
			norm += weights[j] * weights[j]
		}
	}
	if norm < math.Epsilon {
		return
	}
	for j, p := range pts {
		if p.Weight > 0 {
			p.Position = p.Position.Add(push.Scale(weights[j] / norm))
		}
	}
}

func (e *Engine) grab(dt float32) {
	for _, g := range e.grabbers {
		if !g.Enabled() {
			continue
		}
		center, radius := g.Center(), g.Radius()
		k := math.Clamp01(g.Force() * dt)
		if k == 0 {
			continue
		}
		for i := range e.points {
			p := &e.points[i]
			if p.Fixed || p.Position.Distance(center) > radius {
				continue
			}
			p.Position = p.Position.Lerp(center, k)
		}
	}
}

// collideFaces samples each surface quad on a grid against the colliders.
func (e *Engine) collideFaces(cfg SurfaceConfig) {
	n := cfg.Detail
	for _, f := range e.faces {
		corners := f.Corners()
		pts := []*rig.Point{
			&e.points[corners[0]], &e.points[corners[1]],
			&e.points[corners[2]], &e.points[corners[3]],
		}
		for iu := 0; iu <= n; iu++ {
			for iv := 0; iv <= n; iv++ {
				u, v := float32(iu)/float32(n), float32(iv)/float32(n)
				// A(0,0) B(1,0) C(1,1) D(0,1)
				w := []float32{(1 - u) * (1 - v), u * (1 - v), u * v, (1 - u) * v}
				for _, col := range e.colliders {
					q := bilinear(pts, w)
					if push, hit := col.Resolve(q, cfg.Thickness); hit {
						distribute(push, pts, w)
					}
				}
			}
		}
	}
}

func bilinear(pts []*rig.Point, w []float32) math.Vec3 {
	var q math.Vec3
	for j, p := range pts {
		q = q.Add(p.Position.Scale(w[j]))
	}
	return q
}

// collideSelf pushes free points out of surface faces they do not belong to.
func (e *Engine) collideSelf(thickness float32) {
	if thickness <= 0 {
		return
	}
	for i := range e.points {
		p := &e.points[i]
		if p.Fixed {
			continue
		}
		for fi, f := range e.faces {
			if e.ownsFace(i, fi) {
				continue
			}
			a, b, c, d := e.points[f.A].Position, e.points[f.B].Position, e.points[f.C].Position, e.points[f.D].Position
			for _, tri := range [2][3]math.Vec3{{a, b, c}, {a, c, d}} {
				closest := closestOnTriangle(p.Position, tri[0], tri[1], tri[2])
				off := p.Position.Sub(closest)
				dist := off.Length()
				if dist >= thickness {
					continue
				}
				n := off
				if dist < math.Epsilon {
					n = tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
				}
				p.Position = closest.Add(n.Normalize().Scale(thickness))
			}
		}
	}
}

func (e *Engine) ownsFace(point, face int) bool {
	for _, f := range e.faceOf[point] {
		if f == face {
			return true
		}
	}
	return false
}

// closestOnTriangle returns the point of triangle abc nearest to p.
func closestOnTriangle(p, a, b, c math.Vec3) math.Vec3 {
	ab, ac, ap := b.Sub(a), c.Sub(a), p.Sub(a)
	d1, d2 := ab.Dot(ap), ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}
	bp := p.Sub(b)
	d3, d4 := ab.Dot(bp), ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		return a.Add(ab.Scale(d1 / (d1 - d3)))
	}
	cp := p.Sub(c)
	d5, d6 := ab.Dot(cp), ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		return a.Add(ac.Scale(d2 / (d2 - d6)))
	}
	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		return b.Add(c.Sub(b).Scale((d4 - d3) / ((d4 - d3) + (d5 - d6))))
	}
	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Scale(v)).Add(ac.Scale(w))
}
