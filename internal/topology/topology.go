// Package topology derives distance, shear and bending constraints and
// surface faces from a point arena.
package topology

import "github.com/Faultbox/strandsim/internal/rig"

// shearSearchDepth is how many levels below the opposite point a shear
// constraint may reach for its diagonal partner.
const shearSearchDepth = 3

// Constraint links two points, or two points through a middle point for bending.
type Constraint struct {
	Family     rig.Family
	A, B       int
	Mid        int // rig.NoIndex for two-point constraints
	RestLength float32
	Collide    bool
}

// Points returns every point index the constraint touches.
func (c Constraint) Points() []int {
	if c.Mid == rig.NoIndex {
		return []int{c.A, c.B}
	}
	return []int{c.A, c.Mid, c.B}
}

// SurfaceFace is a quad: A,B on the upper edge, C below B and D below A.
type SurfaceFace struct {
	A, B, C, D int
}

// Corners returns the four corners in winding order.
func (f SurfaceFace) Corners() [4]int {
	return [4]int{f.A, f.B, f.C, f.D}
}

// Options controls topology derivation.
type Options struct {
	// Loop joins the last root back to the first.
	Loop bool
	// Collide enables edge collision per family.
	Collide rig.FamilySet
}

// Topology is the full derived constraint set.
type Topology struct {
	Families [rig.FamilyCount][]Constraint
	Faces    []SurfaceFace
}

// Count returns the number of constraints across all families.
func (t *Topology) Count() int {
	n := 0
	for _, cs := range t.Families {
		n += len(cs)
	}
	return n
}

// All returns every constraint, family by family in declaration order.
func (t *Topology) All() []Constraint {
	out := make([]Constraint, 0, t.Count())
	for _, cs := range t.Families {
		out = append(out, cs...)
	}
	return out
}

// RefreshRestLengths recomputes every rest length from current point positions.
func (t *Topology) RefreshRestLengths(points []rig.Point) {
	for f := range t.Families {
		for i := range t.Families[f] {
			c := &t.Families[f][i]
			c.RestLength = restLength(points, c.A, c.B, c.Mid)
		}
	}
}

func restLength(points []rig.Point, a, b, mid int) float32 {
	if mid == rig.NoIndex {
		return points[a].Position.Distance(points[b].Position)
	}
	return points[a].Position.Distance(points[mid].Position) +
		points[mid].Position.Distance(points[b].Position)
}

type constraintKey struct {
	family rig.Family
	lo, hi int
	mid    int
}

// builder accumulates constraints for one Build call.
type builder struct {
	model  *rig.Model
	opts   Options
	chains [][]int
	topo   *Topology
	seen   map[constraintKey]struct{}
}

// Build derives the complete topology. Every call starts from scratch, so
// building twice from the same model yields identical results.
func Build(m *rig.Model, opts Options) *Topology {
	b := &builder{
		model: m,
		opts:  opts,
		topo:  &Topology{},
		seen:  make(map[constraintKey]struct{}),
	}
	for _, r := range m.Roots {
		b.chains = append(b.chains, m.Chain(r))
	}

	b.structuralVertical()
	b.bendingVertical()
	for _, pair := range b.pairs() {
		left, right := b.chains[pair[0]], b.chains[pair[1]]
		b.structuralHorizontal(left, right)
		b.shear(left, right)
		b.surfaceFaces(left, right)
	}
	for _, tri := range b.triples() {
		b.bendingHorizontal(b.chains[tri[0]], b.chains[tri[1]], b.chains[tri[2]])
	}
	return b.topo
}

// pairs lists adjacent chain pairs, wrapping when looped.
func (b *builder) pairs() [][2]int {
	n := len(b.chains)
	var out [][2]int
	for i := 0; i+1 < n; i++ {
		out = append(out, [2]int{i, i + 1})
	}
	if b.opts.Loop && n > 2 {
		out = append(out, [2]int{n - 1, 0})
	}
	return out
}

// triples lists runs of three adjacent chains, wrapping when looped.
func (b *builder) triples() [][3]int {
	n := len(b.chains)
	var out [][3]int
	for i := 0; i+2 < n; i++ {
		out = append(out, [3]int{i, i + 1, i + 2})
	}
	if b.opts.Loop && n > 2 {
		out = append(out, [3]int{n - 2, n - 1, 0}, [3]int{n - 1, 0, 1})
	}
	return out
}

// level returns the chain's point at depth d. A chain that ended one level
// above lends its tip; deeper levels are absent.
func level(chain []int, d int) int {
	switch {
	case d < len(chain):
		return chain[d]
	case d == len(chain) && len(chain) > 0:
		return chain[len(chain)-1]
	default:
		return rig.NoIndex
	}
}

func (b *builder) add(f rig.Family, a, c, mid int) {
	if a == rig.NoIndex || c == rig.NoIndex || a == c {
		return
	}
	if mid != rig.NoIndex && (mid == a || mid == c) {
		return
	}
	key := constraintKey{family: f, lo: min(a, c), hi: max(a, c), mid: mid}
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}

	points := b.model.Points
	b.topo.Families[f] = append(b.topo.Families[f], Constraint{
		Family:     f,
		A:          a,
		B:          c,
		Mid:        mid,
		RestLength: restLength(points, a, c, mid),
		Collide:    b.opts.Collide[f] && !points[a].Fixed && !points[c].Fixed,
	})
}

func (b *builder) structuralVertical() {
	for _, chain := range b.chains {
		for i := 0; i+1 < len(chain); i++ {
			b.add(rig.StructuralVertical, chain[i], chain[i+1], rig.NoIndex)
		}
	}
}

func (b *builder) bendingVertical() {
	points := b.model.Points
	for _, chain := range b.chains {
		for i := 0; i+2 < len(chain); i++ {
			a, mid := &points[chain[i]], &points[chain[i+1]]
			if a.Branching || mid.Branching {
				continue
			}
			b.add(rig.BendingVertical, chain[i], chain[i+2], chain[i+1])
		}
	}
}

func (b *builder) structuralHorizontal(left, right []int) {
	depth := max(len(left), len(right))
	for d := 0; d < depth; d++ {
		b.add(rig.StructuralHorizontal, level(left, d), level(right, d), rig.NoIndex)
	}
}

// shear walks both chains in lock-step and links each point to the first
// usable point below its opposite neighbour.
func (b *builder) shear(left, right []int) {
	depth := min(len(left), len(right))
	for d := 0; d < depth; d++ {
		b.add(rig.Shear, left[d], b.diagonal(left[d], right[d]), rig.NoIndex)
		b.add(rig.Shear, right[d], b.diagonal(right[d], left[d]), rig.NoIndex)
	}
}

// diagonal searches child, grandchild and great-grandchild of opposite,
// skipping candidates that would tie two fixed points together.
func (b *builder) diagonal(from, opposite int) int {
	points := b.model.Points
	for n := 1; n <= shearSearchDepth; n++ {
		cand := b.model.Descend(opposite, n)
		if cand == rig.NoIndex {
			return rig.NoIndex
		}
		if points[from].Fixed && points[cand].Fixed {
			continue
		}
		return cand
	}
	return rig.NoIndex
}

func (b *builder) bendingHorizontal(left, mid, right []int) {
	depth := max(len(left), len(mid), len(right))
	for d := 0; d < depth; d++ {
		m := level(mid, d)
		if m == rig.NoIndex {
			continue
		}
		b.add(rig.BendingHorizontal, level(left, d), level(right, d), m)
	}
}

func (b *builder) surfaceFaces(left, right []int) {
	points := b.model.Points
	depth := min(len(left), len(right))
	for d := 0; d+1 < depth; d++ {
		f := SurfaceFace{A: left[d], B: right[d], C: right[d+1], D: left[d+1]}
		eligible := true
		for _, c := range f.Corners() {
			if !points[c].Surface {
				eligible = false
				break
			}
		}
		if eligible {
			b.topo.Faces = append(b.topo.Faces, f)
		}
	}
}

// Length returns the current length of the constraint's path.
func Length(points []rig.Point, c Constraint) float32 {
	return restLength(points, c.A, c.B, c.Mid)
}
