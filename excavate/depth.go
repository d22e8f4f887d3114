package excavate

import "github.com/joshuapare/hivexcavator/pkg/types"

// Depth counts the parent links between n and the root; the root is 0. A
// failed parent lookup ends the walk. The walk stops after
// types.WindowsMaxTreeDepthDeep hops so a parent cycle cannot spin forever.
func Depth(a Accessor, n types.NodeID) int {
	depth := 0
	for depth < types.WindowsMaxTreeDepthDeep {
		p, err := a.Parent(n)
		if err != nil {
			break
		}
		n = p
		depth++
	}
	return depth
}
