package scene

import (
	"math"
	"testing"

	"github.com/Faultbox/strandsim/internal/rig"
	smath "github.com/Faultbox/strandsim/pkg/math"
)

func TestNodeWorldPose(t *testing.T) {
	g := NewGraph()
	root := g.Add("root", nil, smath.Vec3{X: 1}, smath.QuatFromAxisAngle(smath.Vec3{Y: 1}, float32(math.Pi/2)))
	child := g.Add("child", root, smath.Vec3{X: 1}, smath.QuatIdentity())

	// 90 degrees about Y maps local +X to world -Z
	got := child.Position()
	want := smath.Vec3{X: 1, Z: -1}
	if got.Distance(want) > 0.0001 {
		t.Errorf("child world position = %v, want %v", got, want)
	}
}

func TestNodeSetPositionRoundTrip(t *testing.T) {
	g := NewGraph()
	root := g.Add("root", nil, smath.Vec3{Y: 2}, smath.QuatFromAxisAngle(smath.Vec3{Z: 1}, 0.5))
	child := g.Add("child", root, smath.Vec3{Y: -1}, smath.QuatIdentity())

	target := smath.Vec3{X: 3, Y: -4, Z: 1}
	child.SetPosition(target)
	if got := child.Position(); got.Distance(target) > 0.0001 {
		t.Errorf("Position after SetPosition = %v, want %v", got, target)
	}

	rot := smath.QuatFromAxisAngle(smath.Vec3{X: 1}, 1.1)
	child.SetRotation(rot)
	if got := child.Rotation(); math.Abs(float64(got.Dot(rot))) < 0.9999 {
		t.Errorf("Rotation after SetRotation = %v, want %v", got, rot)
	}
}

func TestBindPose(t *testing.T) {
	g := NewGraph()
	n := g.Add("n", nil, smath.Vec3{X: 1}, smath.QuatIdentity())
	n.SetPosition(smath.Vec3{X: 5})
	g.RestoreBindPose()
	if n.Position() != (smath.Vec3{X: 1}) {
		t.Errorf("RestoreBindPose should reset position, got %v", n.Position())
	}
}

func TestGraphHierarchy(t *testing.T) {
	g := NewGraph()
	_, roots := BuildSheet(g, SheetOptions{Columns: 2, Rows: 3, Spacing: 1, Segment: 1})

	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if g.Len() != 7 {
		t.Fatalf("expected 7 nodes (anchor + 2x3), got %d", g.Len())
	}
	if p := g.Parent(roots[0]); p != 0 {
		t.Errorf("root parent should be anchor (0), got %d", p)
	}
	if p := g.Parent(0); p != rig.NoIndex {
		t.Errorf("anchor parent should be NoIndex, got %d", p)
	}
	children := g.Children(roots[1])
	if len(children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(children))
	}
	pos, _ := g.Pose(children[0])
	if pos.Distance(smath.Vec3{X: 0.5, Y: -1}) > 0.0001 {
		t.Errorf("second row of right chain at %v, want (0.5,-1,0)", pos)
	}

	n, ok := g.ByID(g.Node(roots[0]).ID)
	if !ok || n.Index != roots[0] {
		t.Error("ByID should find the root node")
	}
	if _, ok := g.ByName("chain1_2"); !ok {
		t.Error("ByName should find chain1_2")
	}
}
