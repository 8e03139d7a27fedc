package scene

import (
	"fmt"

	"github.com/Faultbox/strandsim/pkg/math"
)

// SheetOptions describes a regular grid of hanging chains.
type SheetOptions struct {
	Columns int       // number of root chains
	Rows    int       // points per chain, root included
	Spacing float32   // horizontal distance between chains
	Segment float32   // vertical distance between points
	Origin  math.Vec3 // anchor position
	Surface bool      // mark every point surface-eligible
	Radius  float32
}

// BuildSheet creates an anchor node with Columns chains of Rows nodes hanging
// along -Y. It returns the anchor and the root node indices, left to right.
func BuildSheet(g *Graph, opts SheetOptions) (*Node, []int) {
	anchor := g.Add("anchor", nil, opts.Origin, math.QuatIdentity())
	roots := make([]int, 0, opts.Columns)
	offset := float32(opts.Columns-1) * opts.Spacing / 2
	for c := 0; c < opts.Columns; c++ {
		parent := anchor
		pos := math.Vec3{X: float32(c)*opts.Spacing - offset}
		for r := 0; r < opts.Rows; r++ {
			n := g.Add(chainName(c, r), parent, pos, math.QuatIdentity())
			n.Flags.Surface = opts.Surface
			n.Flags.Radius = opts.Radius
			if r == 0 {
				roots = append(roots, n.Index)
			}
			parent = n
			pos = math.Vec3{Y: -opts.Segment}
		}
	}
	return anchor, roots
}

func chainName(col, row int) string {
	return fmt.Sprintf("chain%d_%d", col, row)
}
