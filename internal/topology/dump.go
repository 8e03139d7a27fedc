package topology

import (
	"fmt"
	"strings"

	"github.com/Faultbox/strandsim/internal/rig"
)

// Dump renders the topology as one line per constraint and face.
func (t *Topology) Dump() string {
	var sb strings.Builder
	for f, cs := range t.Families {
		for _, c := range cs {
			if c.Mid == rig.NoIndex {
				fmt.Fprintf(&sb, "%s %d-%d rest=%.4f collide=%v\n", rig.Family(f), c.A, c.B, c.RestLength, c.Collide)
			} else {
				fmt.Fprintf(&sb, "%s %d-%d-%d rest=%.4f collide=%v\n", rig.Family(f), c.A, c.Mid, c.B, c.RestLength, c.Collide)
			}
		}
	}
	for _, face := range t.Faces {
		fmt.Fprintf(&sb, "face %d %d %d %d\n", face.A, face.B, face.C, face.D)
	}
	return sb.String()
}
