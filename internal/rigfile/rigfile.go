// Package rigfile reads and writes rig documents: the node hierarchy keyed by
// stable UUIDs, colliders, grabbers, an optional animation clip and an
// optional derived constraint table.
package rigfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/strandsim/internal/anim"
	"github.com/Faultbox/strandsim/internal/rig"
)

// Version is the document version written by Save.
const Version = 1

var (
	ErrUnknownNode = errors.New("unknown node")
	ErrDuplicateID = errors.New("duplicate node id")
	ErrCycle       = errors.New("parent cycle")
	ErrVersion     = errors.New("unsupported document version")
	ErrUnsupported = errors.New("cannot be saved to a rig file")
)

// Node is one hierarchy node with its local pose.
type Node struct {
	ID       uuid.UUID  `yaml:"id"`
	Name     string     `yaml:"name,omitempty"`
	Parent   *uuid.UUID `yaml:"parent,omitempty"`
	Position [3]float32 `yaml:"position,flow"`
	Rotation [4]float32 `yaml:"rotation,flow"` // x, y, z, w

	rig.NodeFlags `yaml:",inline"`
	ForceChild    *uuid.UUID `yaml:"force_child,omitempty"`
	Target        *uuid.UUID `yaml:"target,omitempty"`
}

// Collider is a capsule following a node.
type Collider struct {
	Node       uuid.UUID `yaml:"node"`
	Radius     float32   `yaml:"radius"`
	TailRadius float32   `yaml:"tail_radius"`
	Height     float32   `yaml:"height"`
	Inverted   bool      `yaml:"inverted,omitempty"`
	Force      string    `yaml:"force,omitempty"` // none, push or pull
	Strength   float32   `yaml:"strength,omitempty"`
	Band       float32   `yaml:"band,omitempty"`
}

// Grabber is a sphere grabber following a node.
type Grabber struct {
	Node   uuid.UUID `yaml:"node"`
	Active bool      `yaml:"active"`
	Radius float32   `yaml:"radius"`
	Force  float32   `yaml:"force"`
}

// Constraint is a derived constraint addressed by node IDs.
type Constraint struct {
	Family  string     `yaml:"family"`
	A       uuid.UUID  `yaml:"a"`
	B       uuid.UUID  `yaml:"b"`
	Mid     *uuid.UUID `yaml:"mid,omitempty"`
	Rest    float32    `yaml:"rest"`
	Collide bool       `yaml:"collide,omitempty"`
}

// Face is a derived surface quad addressed by node IDs (A, B, C, D).
type Face struct {
	Corners [4]uuid.UUID `yaml:"corners,flow"`
}

// Document is the on-disk rig.
type Document struct {
	Version   int         `yaml:"version"`
	Anchor    *uuid.UUID  `yaml:"anchor,omitempty"`
	Roots     []uuid.UUID `yaml:"roots"`
	Loop      bool        `yaml:"loop,omitempty"`
	Nodes     []Node      `yaml:"nodes"`
	Colliders []Collider  `yaml:"colliders,omitempty"`
	Grabbers  []Grabber   `yaml:"grabbers,omitempty"`
	Animation *anim.Clip  `yaml:"animation,omitempty"`

	Constraints []Constraint `yaml:"constraints,omitempty"`
	Faces       []Face       `yaml:"faces,omitempty"`
}

// Parse decodes and validates a document.
func Parse(data []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	if d.Version == 0 {
		d.Version = Version
	}
	if d.Version != Version {
		return nil, fmt.Errorf("version %d: %w", d.Version, ErrVersion)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load reads and validates the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return d, nil
}

// Marshal encodes the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	d.Version = Version
	return yaml.Marshal(d)
}

// Save writes the document to path, creating parent directories.
func (d *Document) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that every reference resolves and parents form a forest.
func (d *Document) Validate() error {
	ids := make(map[uuid.UUID]int, len(d.Nodes))
	for i, n := range d.Nodes {
		if _, ok := ids[n.ID]; ok {
			return fmt.Errorf("node %s: %w", n.ID, ErrDuplicateID)
		}
		ids[n.ID] = i
	}

	ref := func(what string, id uuid.UUID) error {
		if _, ok := ids[id]; !ok {
			return fmt.Errorf("%s %s: %w", what, id, ErrUnknownNode)
		}
		return nil
	}
	optRef := func(what string, id *uuid.UUID) error {
		if id == nil {
			return nil
		}
		return ref(what, *id)
	}

	for _, n := range d.Nodes {
		if err := optRef("parent", n.Parent); err != nil {
			return err
		}
		if err := optRef("force_child", n.ForceChild); err != nil {
			return err
		}
		if err := optRef("target", n.Target); err != nil {
			return err
		}
	}
	if err := optRef("anchor", d.Anchor); err != nil {
		return err
	}
	for _, r := range d.Roots {
		if err := ref("root", r); err != nil {
			return err
		}
	}
	for _, c := range d.Colliders {
		if err := ref("collider", c.Node); err != nil {
			return err
		}
		if _, err := forceMode(c.Force); err != nil {
			return err
		}
	}
	for _, g := range d.Grabbers {
		if err := ref("grabber", g.Node); err != nil {
			return err
		}
	}
	if d.Animation != nil {
		for _, tr := range d.Animation.Tracks {
			if err := ref("animation track", tr.Node); err != nil {
				return err
			}
		}
	}

	_, err := d.order(ids)
	return err
}

// order returns node positions sorted so that parents precede children.
func (d *Document) order(ids map[uuid.UUID]int) ([]int, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(d.Nodes))
	out := make([]int, 0, len(d.Nodes))

	for start := range d.Nodes {
		// Walk up to the first placed ancestor, then place the path top-down.
		var path []int
		for i := start; ; {
			if state[i] == done {
				break
			}
			if state[i] == visiting {
				return nil, fmt.Errorf("node %s: %w", d.Nodes[i].ID, ErrCycle)
			}
			state[i] = visiting
			path = append(path, i)
			p := d.Nodes[i].Parent
			if p == nil {
				break
			}
			i = ids[*p]
		}
		for j := len(path) - 1; j >= 0; j-- {
			state[path[j]] = done
			out = append(out, path[j])
		}
	}
	return out, nil
}
