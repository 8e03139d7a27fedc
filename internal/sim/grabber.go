package sim

import "github.com/Faultbox/strandsim/pkg/math"

// Grabber pulls points inside its capture radius toward its center.
type Grabber interface {
	Enabled() bool
	Center() math.Vec3
	Radius() float32
	Force() float32
}

// SphereGrabber is a Grabber following a transform.
type SphereGrabber struct {
	Transform Transform
	Active    bool
	Capture   float32
	Pull      float32
}

func (g *SphereGrabber) Enabled() bool     { return g.Active }
func (g *SphereGrabber) Center() math.Vec3 { return g.Transform.Position() }
func (g *SphereGrabber) Radius() float32   { return g.Capture }
func (g *SphereGrabber) Force() float32    { return g.Pull }
