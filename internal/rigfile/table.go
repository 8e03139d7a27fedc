package rigfile

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Faultbox/strandsim/internal/rig"
	"github.com/Faultbox/strandsim/internal/scene"
	"github.com/Faultbox/strandsim/internal/topology"
)

// SetTopology records a derived constraint set in the document, addressing
// points by the IDs of the nodes they were built from.
func (d *Document) SetTopology(g *scene.Graph, m *rig.Model, t *topology.Topology) {
	id := func(point int) uuid.UUID {
		return g.Node(m.Points[point].Node).ID
	}

	d.Constraints = d.Constraints[:0]
	for _, c := range t.All() {
		doc := Constraint{
			Family:  c.Family.String(),
			A:       id(c.A),
			B:       id(c.B),
			Rest:    c.RestLength,
			Collide: c.Collide,
		}
		if c.Mid != rig.NoIndex {
			doc.Mid = ptr(id(c.Mid))
		}
		d.Constraints = append(d.Constraints, doc)
	}

	d.Faces = d.Faces[:0]
	for _, f := range t.Faces {
		d.Faces = append(d.Faces, Face{Corners: [4]uuid.UUID{id(f.A), id(f.B), id(f.C), id(f.D)}})
	}
}

// HasTopology reports whether the document carries a constraint table.
func (d *Document) HasTopology() bool {
	return len(d.Constraints) > 0
}

// Relink resolves the stored constraint table against a freshly built model.
// Rest lengths are kept as stored.
func (d *Document) Relink(g *scene.Graph, m *rig.Model) (*topology.Topology, error) {
	point := func(id uuid.UUID) (int, error) {
		n, ok := g.ByID(id)
		if !ok {
			return 0, fmt.Errorf("constraint node %s: %w", id, ErrUnknownNode)
		}
		p, ok := m.PointOf(n.Index)
		if !ok {
			return 0, fmt.Errorf("constraint node %s is not simulated: %w", id, ErrUnknownNode)
		}
		return p, nil
	}

	t := &topology.Topology{}
	for _, doc := range d.Constraints {
		f, ok := rig.ParseFamily(doc.Family)
		if !ok {
			return nil, fmt.Errorf("constraint family %q: %w", doc.Family, ErrUnsupported)
		}
		a, err := point(doc.A)
		if err != nil {
			return nil, err
		}
		b, err := point(doc.B)
		if err != nil {
			return nil, err
		}
		mid := rig.NoIndex
		if doc.Mid != nil {
			if mid, err = point(*doc.Mid); err != nil {
				return nil, err
			}
		}
		if a == b || (mid != rig.NoIndex && (mid == a || mid == b)) {
			return nil, fmt.Errorf("%s constraint %s-%s repeats a point: %w", doc.Family, doc.A, doc.B, ErrUnsupported)
		}
		t.Families[f] = append(t.Families[f], topology.Constraint{
			Family:     f,
			A:          a,
			B:          b,
			Mid:        mid,
			RestLength: doc.Rest,
			Collide:    doc.Collide,
		})
	}

	for _, face := range d.Faces {
		var corners [4]int
		for i, id := range face.Corners {
			p, err := point(id)
			if err != nil {
				return nil, err
			}
			corners[i] = p
		}
		t.Faces = append(t.Faces, topology.SurfaceFace{A: corners[0], B: corners[1], C: corners[2], D: corners[3]})
	}
	return t, nil
}

// Relinker adapts Relink to the cloth constraint hook.
func (d *Document) Relinker(g *scene.Graph) func(*rig.Model) (*topology.Topology, error) {
	return func(m *rig.Model) (*topology.Topology, error) {
		return d.Relink(g, m)
	}
}
