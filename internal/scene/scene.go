// Package scene is a minimal node graph that stands in for the host's transform hierarchy.
package scene

import (
	"github.com/google/uuid"

	"github.com/Faultbox/strandsim/internal/rig"
	"github.com/Faultbox/strandsim/pkg/math"
)

// Node is a positioned node with a parent and children.
// The local pose is relative to the parent; world values are derived on demand.
type Node struct {
	ID    uuid.UUID
	Name  string
	Index int
	Flags rig.NodeFlags

	LocalPosition math.Vec3
	LocalRotation math.Quat

	bindPosition math.Vec3
	bindRotation math.Quat

	parent   *Node
	children []*Node
}

// Parent returns the parent node or nil for a top-level node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children in insertion order.
func (n *Node) Children() []*Node {
	return n.children
}

// Position returns the world position.
func (n *Node) Position() math.Vec3 {
	if n.parent == nil {
		return n.LocalPosition
	}
	pp := n.parent.Position()
	pr := n.parent.Rotation()
	return pp.Add(pr.Rotate(n.LocalPosition))
}

// Rotation returns the world rotation.
func (n *Node) Rotation() math.Quat {
	if n.parent == nil {
		return n.LocalRotation
	}
	return n.parent.Rotation().Mul(n.LocalRotation)
}

// SetPosition moves the node to a world position.
func (n *Node) SetPosition(p math.Vec3) {
	if n.parent == nil {
		n.LocalPosition = p
		return
	}
	pr := n.parent.Rotation()
	n.LocalPosition = pr.Conjugate().Rotate(p.Sub(n.parent.Position()))
}

// SetRotation sets the world rotation.
func (n *Node) SetRotation(q math.Quat) {
	if n.parent == nil {
		n.LocalRotation = q.Normalize()
		return
	}
	n.LocalRotation = n.parent.Rotation().Conjugate().Mul(q).Normalize()
}

// Graph owns a set of nodes addressed by dense index and by ID.
type Graph struct {
	nodes []*Node
	byID  map[uuid.UUID]*Node
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{byID: make(map[uuid.UUID]*Node)}
}

// Add creates a node with a fresh ID under parent (nil for top level).
func (g *Graph) Add(name string, parent *Node, localPos math.Vec3, localRot math.Quat) *Node {
	return g.AddWithID(uuid.New(), name, parent, localPos, localRot)
}

// AddWithID creates a node with a caller-provided ID.
func (g *Graph) AddWithID(id uuid.UUID, name string, parent *Node, localPos math.Vec3, localRot math.Quat) *Node {
	n := &Node{
		ID:            id,
		Name:          name,
		Index:         len(g.nodes),
		Flags:         rig.DefaultFlags(),
		LocalPosition: localPos,
		LocalRotation: localRot,
		bindPosition:  localPos,
		bindRotation:  localRot,
		parent:        parent,
	}
	if parent != nil {
		parent.children = append(parent.children, n)
	}
	g.nodes = append(g.nodes, n)
	g.byID[id] = n
	return n
}

// Node returns the node at index i.
func (g *Graph) Node(i int) *Node {
	return g.nodes[i]
}

// Nodes returns every node in index order.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// ByID looks a node up by its stable ID.
func (g *Graph) ByID(id uuid.UUID) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// ByName returns the first node with the given name.
func (g *Graph) ByName(name string) (*Node, bool) {
	for _, n := range g.nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// SaveBindPose records every node's current local pose as its bind pose.
func (g *Graph) SaveBindPose() {
	for _, n := range g.nodes {
		n.bindPosition = n.LocalPosition
		n.bindRotation = n.LocalRotation
	}
}

// RestoreBindPose resets local poses to the bind pose, the way a host
// animation pass rewrites transforms before simulation reads them.
func (g *Graph) RestoreBindPose() {
	for _, n := range g.nodes {
		n.LocalPosition = n.bindPosition
		n.LocalRotation = n.bindRotation
	}
}

// Len implements rig.Hierarchy.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Parent implements rig.Hierarchy.
func (g *Graph) Parent(i int) int {
	if p := g.nodes[i].parent; p != nil {
		return p.Index
	}
	return rig.NoIndex
}

// Children implements rig.Hierarchy.
func (g *Graph) Children(i int) []int {
	children := g.nodes[i].children
	out := make([]int, len(children))
	for j, c := range children {
		out[j] = c.Index
	}
	return out
}

// Pose implements rig.Hierarchy.
func (g *Graph) Pose(i int) (math.Vec3, math.Quat) {
	n := g.nodes[i]
	return n.Position(), n.Rotation()
}

// Flags implements rig.Hierarchy.
func (g *Graph) Flags(i int) rig.NodeFlags {
	return g.nodes[i].Flags
}
