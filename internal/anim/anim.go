// Package anim plays keyframed clips onto scene nodes. Keys are in the node's
// local space, so animating an anchor drags every chain hanging from it.
package anim

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/google/uuid"

	"github.com/Faultbox/strandsim/internal/scene"
	"github.com/Faultbox/strandsim/pkg/math"
)

var ErrUnknownNode = errors.New("track targets unknown node")

// PositionKey is a local position at a time in seconds.
type PositionKey struct {
	Time     float32   `yaml:"time"`
	Position math.Vec3 `yaml:"position,flow"`
}

// RotationKey is a local rotation at a time in seconds.
type RotationKey struct {
	Time     float32   `yaml:"time"`
	Rotation math.Quat `yaml:"rotation,flow"`
}

// Track animates one node. Keys must be sorted by time.
type Track struct {
	Node      uuid.UUID     `yaml:"node"`
	Positions []PositionKey `yaml:"positions,omitempty"`
	Rotations []RotationKey `yaml:"rotations,omitempty"`
}

// Clip is a set of tracks played together.
type Clip struct {
	Name   string  `yaml:"name"`
	Loop   bool    `yaml:"loop"`
	Tracks []Track `yaml:"tracks"`
}

// Length returns the time of the last key in any track.
func (c *Clip) Length() float32 {
	var end float32
	for _, tr := range c.Tracks {
		if n := len(tr.Positions); n > 0 {
			end = max(end, tr.Positions[n-1].Time)
		}
		if n := len(tr.Rotations); n > 0 {
			end = max(end, tr.Rotations[n-1].Time)
		}
	}
	return end
}

// bracket finds the keys surrounding t and the blend factor between them.
// prev == next when t is before the first key or at/after the last.
func bracket(n int, at func(int) float32, t float32) (prev, next int, f float32) {
	for i := 0; i < n; i++ {
		if at(i) > t {
			next = i
			break
		}
		prev = i
		next = i
	}
	if prev == next {
		return prev, next, 0
	}
	t0, t1 := at(prev), at(next)
	if t1 != t0 {
		f = (t - t0) / (t1 - t0)
	}
	return prev, next, f
}

// InterpolatePosition interpolates position keys at time t.
func InterpolatePosition(keys []PositionKey, t float32) (math.Vec3, bool) {
	if len(keys) == 0 {
		return math.Vec3{}, false
	}
	prev, next, f := bracket(len(keys), func(i int) float32 { return keys[i].Time }, t)
	return keys[prev].Position.Lerp(keys[next].Position, f), true
}

// InterpolateRotation interpolates rotation keys at time t.
func InterpolateRotation(keys []RotationKey, t float32) (math.Quat, bool) {
	if len(keys) == 0 {
		return math.QuatIdentity(), false
	}
	prev, next, f := bracket(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if prev == next {
		return keys[prev].Rotation.Normalize(), true
	}
	return keys[prev].Rotation.Slerp(keys[next].Rotation, f).Normalize(), true
}

// Player applies a clip to the nodes of a graph.
type Player struct {
	clip   *Clip
	nodes  []*scene.Node
	length float32
	time   float32

	// Speed scales Advance; 1 plays in real time.
	Speed float32
}

// NewPlayer binds every track of clip to its node in g.
func NewPlayer(clip *Clip, g *scene.Graph) (*Player, error) {
	p := &Player{clip: clip, length: clip.Length(), Speed: 1}
	for _, tr := range clip.Tracks {
		n, ok := g.ByID(tr.Node)
		if !ok {
			return nil, fmt.Errorf("clip %q node %s: %w", clip.Name, tr.Node, ErrUnknownNode)
		}
		p.nodes = append(p.nodes, n)
	}
	return p, nil
}

// Time returns the current playback time.
func (p *Player) Time() float32 {
	return p.time
}

// Done reports whether a non-looping clip has reached its end.
func (p *Player) Done() bool {
	return !p.clip.Loop && p.time >= p.length
}

// Seek jumps to t and applies the pose there.
func (p *Player) Seek(t float32) {
	p.time = p.wrap(t)
	p.Apply()
}

// Advance moves playback forward by dt scaled by Speed and applies the pose.
func (p *Player) Advance(dt float32) {
	p.Seek(p.time + dt*p.Speed)
}

func (p *Player) wrap(t float32) float32 {
	if p.length <= 0 {
		return 0
	}
	if p.clip.Loop {
		t = float32(gomath.Mod(float64(t), float64(p.length)))
		if t < 0 {
			t += p.length
		}
		return t
	}
	return math.Clamp(t, 0, p.length)
}

// Apply writes the pose at the current time to the bound nodes.
func (p *Player) Apply() {
	for i, tr := range p.clip.Tracks {
		n := p.nodes[i]
		if pos, ok := InterpolatePosition(tr.Positions, p.time); ok {
			n.LocalPosition = pos
		}
		if rot, ok := InterpolateRotation(tr.Rotations, p.time); ok {
			n.LocalRotation = rot
		}
	}
}
