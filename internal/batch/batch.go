// Package batch partitions constraints into groups that share no point, so
// every constraint in a group can be projected independently.
package batch

import (
	"errors"
	"fmt"

	"github.com/Faultbox/strandsim/internal/rig"
	"github.com/Faultbox/strandsim/internal/topology"
)

// ErrConflict reports two constraints of one batch touching the same point.
var ErrConflict = errors.New("batch contains constraints sharing a point")

// Order is the family precedence used when scheduling.
var Order = []rig.Family{
	rig.BendingHorizontal,
	rig.StructuralHorizontal,
	rig.Shear,
	rig.BendingVertical,
	rig.StructuralVertical,
}

// Batch is a set of constraints with pairwise disjoint points.
type Batch struct {
	Constraints []topology.Constraint
	used        bitset
}

func (b *Batch) fits(points []int) bool {
	for _, p := range points {
		if b.used.has(p) {
			return false
		}
	}
	return true
}

func (b *Batch) insert(c topology.Constraint, points []int) {
	b.Constraints = append(b.Constraints, c)
	for _, p := range points {
		b.used.set(p)
	}
}

// Schedule assigns every constraint of the enabled families to the first batch
// it fits, opening a new batch when none does. pointCount bounds the point indices.
// The result depends only on the input order.
func Schedule(topo *topology.Topology, compute rig.FamilySet, pointCount int) []Batch {
	var batches []Batch
	for _, f := range Order {
		if !compute[f] {
			continue
		}
		for _, c := range topo.Families[f] {
			points := c.Points()
			placed := false
			for i := range batches {
				if batches[i].fits(points) {
					batches[i].insert(c, points)
					placed = true
					break
				}
			}
			if !placed {
				b := Batch{used: newBitset(pointCount)}
				b.insert(c, points)
				batches = append(batches, b)
			}
		}
	}
	return batches
}

// Verify checks that no batch touches a point twice.
func Verify(batches []Batch) error {
	for i, b := range batches {
		seen := make(map[int]int)
		for j, c := range b.Constraints {
			for _, p := range c.Points() {
				if prev, ok := seen[p]; ok {
					return fmt.Errorf("batch %d: constraints %d and %d share point %d: %w", i, prev, j, p, ErrConflict)
				}
				seen[p] = j
			}
		}
	}
	return nil
}

// Count returns the total number of scheduled constraints.
func Count(batches []Batch) int {
	n := 0
	for _, b := range batches {
		n += len(b.Constraints)
	}
	return n
}
