package rig

import (
	"errors"
	"fmt"
)

var (
	ErrNoRoots           = errors.New("rig has no roots")
	ErrUnknownNode       = errors.New("node index out of range")
	ErrDuplicateNode     = errors.New("node belongs to more than one chain")
	ErrCycle             = errors.New("hierarchy contains a cycle")
	ErrInvalidForceChild = errors.New("forced child is not a child of its node")
)

// Model is the point arena built from a hierarchy.
// Points are stored chain by chain, so every parent precedes its child.
type Model struct {
	Points   []Point
	Roots    []int
	MaxDepth int

	byNode map[int]int
}

// Build walks each root's vertical chain and creates one point per node.
// roots are hierarchy node indices ordered along the sheet's horizontal seam.
func Build(h Hierarchy, roots []int) (*Model, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}

	m := &Model{byNode: make(map[int]int)}
	for _, root := range roots {
		if root < 0 || root >= h.Len() {
			return nil, fmt.Errorf("root %d: %w", root, ErrUnknownNode)
		}
		if _, ok := m.byNode[root]; ok {
			return nil, fmt.Errorf("root %d: %w", root, ErrDuplicateNode)
		}

		parent := NoIndex
		for node := root; node != NoIndex; {
			if _, ok := m.byNode[node]; ok {
				if parent != NoIndex && m.inChain(parent, node) {
					return nil, fmt.Errorf("node %d: %w", node, ErrCycle)
				}
				return nil, fmt.Errorf("node %d: %w", node, ErrDuplicateNode)
			}

			idx := len(m.Points)
			m.Points = append(m.Points, newPoint(h, node, idx, parent))
			m.byNode[node] = idx
			if parent != NoIndex {
				m.Points[parent].Child = idx
			}

			next, err := verticalChild(h, node)
			if err != nil {
				return nil, err
			}
			parent = idx
			node = next
		}
		m.Roots = append(m.Roots, m.byNode[root])
	}

	m.MaxDepth = ComputeDepths(m.Points)
	for i := range m.Points {
		if m.Points[i].Depth == 0 {
			m.Points[i].Fixed = true
		}
	}
	return m, nil
}

func newPoint(h Hierarchy, node, idx, parent int) Point {
	flags := h.Flags(node)
	pos, rot := h.Pose(node)
	massScale := flags.MassScale
	if massScale <= 0 {
		massScale = 1
	}
	children := h.Children(node)
	return Point{
		Index:        idx,
		Node:         node,
		Parent:       parent,
		Child:        NoIndex,
		Fixed:        flags.Fixed,
		Branching:    len(children) > 1,
		Surface:      flags.Surface,
		MassScale:    massScale,
		Radius:       flags.Radius,
		Target:       flags.Target,
		TargetRadius: flags.TargetRadius,
		Position:     pos,
		Previous:     pos,
		Rotation:     rot,
	}
}

// verticalChild picks the node continuing the chain below node.
func verticalChild(h Hierarchy, node int) (int, error) {
	children := h.Children(node)
	forced := h.Flags(node).ForceChild
	if forced != NoIndex {
		for _, c := range children {
			if c == forced {
				return forced, nil
			}
		}
		return NoIndex, fmt.Errorf("node %d forces %d: %w", node, forced, ErrInvalidForceChild)
	}
	if len(children) == 0 {
		return NoIndex, nil
	}
	return children[0], nil
}

func (m *Model) inChain(from, node int) bool {
	for i := from; i != NoIndex; i = m.Points[i].Parent {
		if m.Points[i].Node == node {
			return true
		}
	}
	return false
}

// ComputeDepths assigns every point its distance from its chain root and
// returns the largest depth found. Points must be ordered parents first.
func ComputeDepths(points []Point) int {
	maxDepth := 0
	for i := range points {
		p := &points[i]
		if p.Parent == NoIndex {
			p.Depth = 0
			continue
		}
		p.Depth = points[p.Parent].Depth + 1
		if p.Depth > maxDepth {
			maxDepth = p.Depth
		}
	}
	return maxDepth
}

// PointOf returns the point index built from the given node.
func (m *Model) PointOf(node int) (int, bool) {
	idx, ok := m.byNode[node]
	return idx, ok
}

// Chain returns the point indices of the chain starting at root, top to bottom.
func (m *Model) Chain(root int) []int {
	var chain []int
	for i := root; i != NoIndex; i = m.Points[i].Child {
		chain = append(chain, i)
	}
	return chain
}

// Descend follows child links n levels down from i, returning NoIndex when the chain ends.
func (m *Model) Descend(i, n int) int {
	for ; n > 0 && i != NoIndex; n-- {
		i = m.Points[i].Child
	}
	return i
}
