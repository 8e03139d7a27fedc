package batch

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/Faultbox/strandsim/internal/rig"
	"github.com/Faultbox/strandsim/internal/scene"
	"github.com/Faultbox/strandsim/internal/topology"
)

func sheetTopology(t *testing.T, cols, rows int, loop bool) (*rig.Model, *topology.Topology) {
	t.Helper()
	g := scene.NewGraph()
	_, roots := scene.BuildSheet(g, scene.SheetOptions{Columns: cols, Rows: rows, Spacing: 1, Segment: 1})
	m, err := rig.Build(g, roots)
	if err != nil {
		t.Fatalf("rig.Build: %v", err)
	}
	return m, topology.Build(m, topology.Options{Loop: loop})
}

func TestScheduleNoSharedPoints(t *testing.T) {
	tests := []struct {
		name       string
		cols, rows int
		loop       bool
	}{
		{"chain", 1, 8, false},
		{"sheet", 4, 6, false},
		{"loop", 6, 5, true},
		{"wide", 40, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, topo := sheetTopology(t, tt.cols, tt.rows, tt.loop)
			batches := Schedule(topo, rig.AllFamilies(), len(m.Points))

			if err := Verify(batches); err != nil {
				t.Fatal(err)
			}
			if got, want := Count(batches), topo.Count(); got != want {
				t.Errorf("scheduled %d constraints, want %d", got, want)
			}
		})
	}
}

func TestScheduleChainNeedsFewBatches(t *testing.T) {
	m, topo := sheetTopology(t, 1, 10, false)
	var only rig.FamilySet
	only[rig.StructuralVertical] = true
	batches := Schedule(topo, only, len(m.Points))

	// Alternating edges of a chain never share a point
	if len(batches) != 2 {
		t.Errorf("expected 2 batches for a plain chain, got %d", len(batches))
	}
}

func TestScheduleFamilyOrder(t *testing.T) {
	m, topo := sheetTopology(t, 3, 4, false)
	batches := Schedule(topo, rig.AllFamilies(), len(m.Points))

	// The first constraint placed is from the highest-precedence family present
	first := batches[0].Constraints[0]
	if first.Family != rig.BendingHorizontal {
		t.Errorf("first scheduled family = %s, want %s", first.Family, rig.BendingHorizontal)
	}
}

func TestScheduleComputeToggle(t *testing.T) {
	m, topo := sheetTopology(t, 3, 4, false)
	compute := rig.AllFamilies()
	compute[rig.Shear] = false
	batches := Schedule(topo, compute, len(m.Points))

	for _, b := range batches {
		for _, c := range b.Constraints {
			if c.Family == rig.Shear {
				t.Fatal("disabled shear family was scheduled")
			}
		}
	}
	want := topo.Count() - len(topo.Families[rig.Shear])
	if got := Count(batches); got != want {
		t.Errorf("scheduled %d constraints, want %d", got, want)
	}
}

func TestScheduleDeterministic(t *testing.T) {
	m, topo := sheetTopology(t, 5, 6, true)
	dump := func() string {
		var sb strings.Builder
		for i, b := range Schedule(topo, rig.AllFamilies(), len(m.Points)) {
			for _, c := range b.Constraints {
				fmt.Fprintf(&sb, "%d %s %v\n", i, c.Family, c.Points())
			}
		}
		return sb.String()
	}

	first, second := dump(), dump()
	if first != second {
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(first),
			B:        difflib.SplitLines(second),
			FromFile: "First",
			ToFile:   "Second",
			Context:  0,
		}
		text, _ := difflib.GetUnifiedDiffString(diff)
		t.Fatalf("scheduling is not deterministic:\n%s", text)
	}
}

func TestVerifyDetectsConflict(t *testing.T) {
	bad := []Batch{{Constraints: []topology.Constraint{
		{A: 0, B: 1, Mid: rig.NoIndex},
		{A: 1, B: 2, Mid: rig.NoIndex},
	}}}
	if err := Verify(bad); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestScheduleEmpty(t *testing.T) {
	if got := Schedule(&topology.Topology{}, rig.AllFamilies(), 0); len(got) != 0 {
		t.Errorf("expected no batches, got %d", len(got))
	}
}

func TestBitsetGrows(t *testing.T) {
	b := newBitset(0)
	b.set(130)
	if !b.has(130) || b.has(129) || b.has(500) {
		t.Error("bitset membership is wrong")
	}
}
