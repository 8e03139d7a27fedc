package rig

import (
	"errors"
	"testing"

	"github.com/Faultbox/strandsim/pkg/math"
)

// mockHierarchy is a flat node table for testing.
type mockHierarchy struct {
	parents  []int
	children [][]int
	flags    []NodeFlags
}

func newMock(parents ...int) *mockHierarchy {
	h := &mockHierarchy{
		parents:  parents,
		children: make([][]int, len(parents)),
		flags:    make([]NodeFlags, len(parents)),
	}
	for i, p := range parents {
		h.flags[i] = DefaultFlags()
		if p != NoIndex {
			h.children[p] = append(h.children[p], i)
		}
	}
	return h
}

func (h *mockHierarchy) Len() int              { return len(h.parents) }
func (h *mockHierarchy) Parent(i int) int      { return h.parents[i] }
func (h *mockHierarchy) Children(i int) []int  { return h.children[i] }
func (h *mockHierarchy) Flags(i int) NodeFlags { return h.flags[i] }
func (h *mockHierarchy) Pose(i int) (math.Vec3, math.Quat) {
	return math.Vec3{Y: -float32(i)}, math.QuatIdentity()
}

func TestBuildChain(t *testing.T) {
	// 0 -> 1 -> 2 -> 3
	h := newMock(NoIndex, 0, 1, 2)
	m, err := Build(h, []int{0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(m.Points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(m.Points))
	}
	if m.MaxDepth != 3 {
		t.Errorf("expected max depth 3, got %d", m.MaxDepth)
	}
	for i, p := range m.Points {
		if p.Depth != i {
			t.Errorf("point %d depth = %d, want %d", i, p.Depth, i)
		}
		if p.Fixed != (i == 0) {
			t.Errorf("point %d fixed = %v", i, p.Fixed)
		}
	}
	if got := m.Chain(m.Roots[0]); len(got) != 4 {
		t.Errorf("chain length = %d, want 4", len(got))
	}
	if m.Descend(0, 2) != 2 || m.Descend(0, 9) != NoIndex {
		t.Error("Descend returned unexpected indices")
	}
}

func TestBuildMultipleRoots(t *testing.T) {
	// anchor 0; chains 1->2->3 and 4->5
	h := newMock(NoIndex, 0, 1, 2, 0, 4)
	m, err := Build(h, []int{1, 4})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(m.Points) != 5 {
		t.Fatalf("expected 5 points, got %d", len(m.Points))
	}
	if len(m.Roots) != 2 || m.Roots[0] != 0 || m.Roots[1] != 3 {
		t.Errorf("roots = %v, want [0 3]", m.Roots)
	}
	idx, ok := m.PointOf(5)
	if !ok || m.Points[idx].Depth != 1 {
		t.Errorf("node 5 should be a depth-1 point")
	}
	if _, ok := m.PointOf(0); ok {
		t.Error("anchor should not become a point")
	}
}

func TestBuildBranching(t *testing.T) {
	// 0 has two children; the first one continues the chain
	h := newMock(NoIndex, 0, 0, 1)
	m, err := Build(h, []int{0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !m.Points[0].Branching {
		t.Error("root with two children should be branching")
	}
	if len(m.Points) != 3 {
		t.Errorf("expected chain 0->1->3 (3 points), got %d", len(m.Points))
	}

	// Forcing the second child redirects the chain; the node still branches
	h.flags[0].ForceChild = 2
	m, err = Build(h, []int{0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !m.Points[0].Branching {
		t.Error("node with two children should stay branching when a child is forced")
	}
	if len(m.Points) != 2 || m.Points[1].Node != 2 {
		t.Errorf("forced chain should be 0->2")
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		h     *mockHierarchy
		roots []int
		want  error
	}{
		{"no roots", newMock(NoIndex), nil, ErrNoRoots},
		{"unknown root", newMock(NoIndex), []int{3}, ErrUnknownNode},
		{"duplicate", newMock(NoIndex, 0), []int{0, 1}, ErrDuplicateNode},
		{"bad forced child", func() *mockHierarchy {
			h := newMock(NoIndex, 0)
			h.flags[0].ForceChild = 0
			return h
		}(), []int{0}, ErrInvalidForceChild},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.h, tt.roots)
			if !errors.Is(err, tt.want) {
				t.Errorf("Build error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildCycle(t *testing.T) {
	h := newMock(NoIndex, 0, 1)
	h.children[2] = []int{0}
	_, err := Build(h, []int{0})
	if !errors.Is(err, ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
}

func TestComputeDepths(t *testing.T) {
	points := []Point{
		{Parent: NoIndex},
		{Parent: 0},
		{Parent: NoIndex},
		{Parent: 1},
	}
	if got := ComputeDepths(points); got != 2 {
		t.Errorf("max depth = %d, want 2", got)
	}
	want := []int{0, 1, 0, 2}
	for i, p := range points {
		if p.Depth != want[i] {
			t.Errorf("point %d depth = %d, want %d", i, p.Depth, want[i])
		}
	}

	if got := ComputeDepths([]Point{{Parent: NoIndex}}); got != 0 {
		t.Errorf("single point max depth = %d, want 0", got)
	}
}

func TestFixedOverride(t *testing.T) {
	h := newMock(NoIndex, 0, 1)
	h.flags[1].Fixed = true
	m, err := Build(h, []int{0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !m.Points[1].Fixed || m.Points[2].Fixed {
		t.Error("only the root and the overridden point should be fixed")
	}
}
