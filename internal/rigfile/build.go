package rigfile

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Faultbox/strandsim/internal/anim"
	"github.com/Faultbox/strandsim/internal/rig"
	"github.com/Faultbox/strandsim/internal/scene"
	"github.com/Faultbox/strandsim/internal/sim"
	"github.com/Faultbox/strandsim/pkg/math"
)

// Rig is a document instantiated into a scene graph and simulation inputs.
type Rig struct {
	Graph     *scene.Graph
	Anchor    *scene.Node // nil when the document has none
	Roots     []int
	Loop      bool
	Colliders []sim.Collider
	Grabbers  []sim.Grabber
	Targets   []sim.Transform
	Clip      *anim.Clip
}

var forceModes = map[string]sim.ForceMode{
	"":     sim.ForceNone,
	"none": sim.ForceNone,
	"push": sim.ForcePush,
	"pull": sim.ForcePull,
}

func forceMode(name string) (sim.ForceMode, error) {
	m, ok := forceModes[name]
	if !ok {
		return 0, fmt.Errorf("force mode %q: %w", name, ErrUnsupported)
	}
	return m, nil
}

func forceName(m sim.ForceMode) string {
	switch m {
	case sim.ForcePush:
		return "push"
	case sim.ForcePull:
		return "pull"
	default:
		return ""
	}
}

func quat(r [4]float32) math.Quat {
	q := math.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]}
	if q == (math.Quat{}) {
		return math.QuatIdentity()
	}
	return q.Normalize()
}

// Build instantiates the document. The document must be valid.
func (d *Document) Build() (*Rig, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	ids := make(map[uuid.UUID]int, len(d.Nodes))
	for i, n := range d.Nodes {
		ids[n.ID] = i
	}
	order, err := d.order(ids)
	if err != nil {
		return nil, err
	}

	g := scene.NewGraph()
	for _, i := range order {
		n := d.Nodes[i]
		var parent *scene.Node
		if n.Parent != nil {
			parent, _ = g.ByID(*n.Parent)
		}
		pos := math.Vec3{X: n.Position[0], Y: n.Position[1], Z: n.Position[2]}
		node := g.AddWithID(n.ID, n.Name, parent, pos, quat(n.Rotation))
		node.Flags = n.NodeFlags
		node.Flags.ForceChild = rig.NoIndex
		node.Flags.Target = rig.NoIndex
	}

	r := &Rig{Graph: g, Loop: d.Loop, Clip: d.Animation}
	lookup := func(id uuid.UUID) *scene.Node {
		n, _ := g.ByID(id)
		return n
	}

	targets := make(map[uuid.UUID]int)
	for _, n := range d.Nodes {
		node := lookup(n.ID)
		if n.ForceChild != nil {
			node.Flags.ForceChild = lookup(*n.ForceChild).Index
		}
		if n.Target != nil {
			idx, ok := targets[*n.Target]
			if !ok {
				idx = len(r.Targets)
				targets[*n.Target] = idx
				r.Targets = append(r.Targets, lookup(*n.Target))
			}
			node.Flags.Target = idx
		}
	}

	if d.Anchor != nil {
		r.Anchor = lookup(*d.Anchor)
	}
	for _, id := range d.Roots {
		r.Roots = append(r.Roots, lookup(id).Index)
	}
	for _, c := range d.Colliders {
		mode, err := forceMode(c.Force)
		if err != nil {
			return nil, err
		}
		r.Colliders = append(r.Colliders, &sim.Capsule{
			Transform:  lookup(c.Node),
			Radius:     c.Radius,
			TailRadius: c.TailRadius,
			Height:     c.Height,
			Inverted:   c.Inverted,
			Mode:       mode,
			Strength:   c.Strength,
			Band:       c.Band,
		})
	}
	for _, gr := range d.Grabbers {
		r.Grabbers = append(r.Grabbers, &sim.SphereGrabber{
			Transform: lookup(gr.Node),
			Active:    gr.Active,
			Capture:   gr.Radius,
			Pull:      gr.Force,
		})
	}
	return r, nil
}

func ptr(id uuid.UUID) *uuid.UUID {
	return &id
}

// nodeOf returns the scene node behind a transform written by Capture.
func nodeOf(t sim.Transform, what string) (*scene.Node, error) {
	n, ok := t.(*scene.Node)
	if !ok || n == nil {
		return nil, fmt.Errorf("%s transform %T: %w", what, t, ErrUnsupported)
	}
	return n, nil
}

// Capture converts a rig back into a document. Colliders and grabbers must be
// the concrete types Build creates, following scene nodes.
func Capture(r *Rig) (*Document, error) {
	g := r.Graph
	d := &Document{Version: Version, Loop: r.Loop, Animation: r.Clip}

	for _, n := range g.Nodes() {
		doc := Node{
			ID:        n.ID,
			Name:      n.Name,
			Position:  [3]float32{n.LocalPosition.X, n.LocalPosition.Y, n.LocalPosition.Z},
			Rotation:  [4]float32{n.LocalRotation.X, n.LocalRotation.Y, n.LocalRotation.Z, n.LocalRotation.W},
			NodeFlags: n.Flags,
		}
		if p := n.Parent(); p != nil {
			doc.Parent = ptr(p.ID)
		}
		if fc := n.Flags.ForceChild; fc != rig.NoIndex {
			doc.ForceChild = ptr(g.Node(fc).ID)
		}
		if t := n.Flags.Target; t != rig.NoIndex {
			if t >= len(r.Targets) {
				return nil, fmt.Errorf("node %s target %d: %w", n.ID, t, ErrUnknownNode)
			}
			tn, err := nodeOf(r.Targets[t], "target")
			if err != nil {
				return nil, err
			}
			doc.Target = ptr(tn.ID)
		}
		d.Nodes = append(d.Nodes, doc)
	}

	if r.Anchor != nil {
		d.Anchor = ptr(r.Anchor.ID)
	}
	for _, root := range r.Roots {
		d.Roots = append(d.Roots, g.Node(root).ID)
	}
	for _, c := range r.Colliders {
		capsule, ok := c.(*sim.Capsule)
		if !ok {
			return nil, fmt.Errorf("collider %T: %w", c, ErrUnsupported)
		}
		n, err := nodeOf(capsule.Transform, "collider")
		if err != nil {
			return nil, err
		}
		d.Colliders = append(d.Colliders, Collider{
			Node:       n.ID,
			Radius:     capsule.Radius,
			TailRadius: capsule.TailRadius,
			Height:     capsule.Height,
			Inverted:   capsule.Inverted,
			Force:      forceName(capsule.Mode),
			Strength:   capsule.Strength,
			Band:       capsule.Band,
		})
	}
	for _, gr := range r.Grabbers {
		sg, ok := gr.(*sim.SphereGrabber)
		if !ok {
			return nil, fmt.Errorf("grabber %T: %w", gr, ErrUnsupported)
		}
		n, err := nodeOf(sg.Transform, "grabber")
		if err != nil {
			return nil, err
		}
		d.Grabbers = append(d.Grabbers, Grabber{Node: n.ID, Active: sg.Active, Radius: sg.Capture, Force: sg.Pull})
	}
	return d, nil
}
