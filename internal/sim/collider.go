package sim

import "github.com/Faultbox/strandsim/pkg/math"

// Collider resolves points against a shape.
type Collider interface {
	// Resolve returns the displacement that moves a sphere of radius r at p out
	// of the collider, and whether there was contact.
	Resolve(p math.Vec3, r float32) (math.Vec3, bool)
	// SurfaceForce returns the force the collider applies near its surface.
	SurfaceForce(p math.Vec3, r float32) math.Vec3
}

// ForceMode selects the surface force a collider applies to nearby points.
type ForceMode int

const (
	ForceNone ForceMode = iota
	ForcePush
	ForcePull
)

// Capsule is a tapered capsule hanging from a transform along its local +Y axis.
type Capsule struct {
	Transform  Transform
	Radius     float32 // at the transform origin
	TailRadius float32 // at the far end
	Height     float32
	Inverted   bool // keep points inside instead of outside

	Mode     ForceMode
	Strength float32
	// Band is the distance from the surface within which the force applies.
	Band float32
}

// closest returns the signed distance from p to the surface and the outward normal.
func (c *Capsule) closest(p math.Vec3) (float32, math.Vec3) {
	a := c.Transform.Position()
	axis := c.Transform.Rotation().Rotate(math.Vec3{Y: 1}).Scale(c.Height)

	t := float32(0)
	if l2 := axis.LengthSq(); l2 > math.Epsilon {
		t = math.Clamp01(p.Sub(a).Dot(axis) / l2)
	}
	center := a.Add(axis.Scale(t))
	radius := c.Radius + t*(c.TailRadius-c.Radius)

	d := p.Sub(center)
	l := d.Length()
	if l < math.Epsilon {
		// Degenerate: pick any direction perpendicular to the axis
		n := axis.Cross(math.Vec3{X: 1})
		if n.LengthSq() < math.Epsilon {
			n = axis.Cross(math.Vec3{Z: 1})
		}
		if n.LengthSq() < math.Epsilon {
			n = math.Vec3{Y: 1}
		}
		return -radius, n.Normalize()
	}
	return l - radius, d.Scale(1 / l)
}

// Resolve implements Collider.
func (c *Capsule) Resolve(p math.Vec3, r float32) (math.Vec3, bool) {
	dist, n := c.closest(p)
	if c.Inverted {
		// Inside the shell the allowed region is dist <= -r
		if over := dist + r; over > 0 {
			return n.Scale(-over), true
		}
		return math.Vec3{}, false
	}
	if pen := r - dist; pen > 0 {
		return n.Scale(pen), true
	}
	return math.Vec3{}, false
}

// SurfaceForce implements Collider.
func (c *Capsule) SurfaceForce(p math.Vec3, r float32) math.Vec3 {
	if c.Mode == ForceNone || c.Strength == 0 {
		return math.Vec3{}
	}
	dist, n := c.closest(p)
	if c.Inverted {
		dist, n = -dist, n.Neg()
	}
	if dist-r > c.Band {
		return math.Vec3{}
	}
	if c.Mode == ForcePull {
		return n.Scale(-c.Strength)
	}
	return n.Scale(c.Strength)
}
