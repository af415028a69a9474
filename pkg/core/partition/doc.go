// Package partition generates the skewed line families that make up a warped grid.
//
// # Overview
//
// A [Partition] describes numPartitions+1 near-parallel lines crossing a square
// of side length. Each line is stored by its two intercepts: Top (at y=0) and
// Bottom (at y=length) for columns, or equivalently left (x=0) and right
// (x=length) for rows. The first and last lines are the square's own edges.
//
// # Generation
//
// [New] starts from the even partition and tilts the internal lines:
//
//  1. A random centre in [0.5-CentreVariation/2, 0.5+CentreVariation/2) splits the
//     internal lines into a left and a right group.
//  2. Each group receives one deviation magnitude, drawn between MinDeviation and
//     MaxDeviation cells and scaled by how far the centre sits from the middle.
//  3. Inside a group the deviation ramps linearly from zero at the centre to the
//     full magnitude at the outer edge; it is split evenly between Top and Bottom.
//  4. Mutations random nudges of Step units tilt single lines further. Successive
//     nudges of the same line alternate between its Top and Bottom intercept.
//
// # Mutation Rule
//
// A nudge that keeps MinDistance to both neighbours is applied as is. Otherwise
// the mirror nudge (the other intercept, opposite sign) is tried; it only has to
// stay inside [MinDistance, length-MinDistance]. Neighbours in the direction of
// the mirror nudge are then pushed to exactly MinDistance spacing, one after the
// other. The push stops and the whole mutation is reverted when a neighbour has
// been tilted the opposite way (non-zero counters of opposite sign) or when it
// would be pushed past the far boundary.
//
// # Validation
//
// Generation never fails: infeasible parameters simply produce unordered
// offsets. [Check] reports such output when a caller wants to know.
//
// MinDistance only constrains mutations. The initial skew is applied without
// it, so a large MaxDeviation can leave a line closer than MinDistance to its
// neighbour or the boundary before any mutation runs. With MaxDeviation 0.6,
// 17 cells and MinDistance length/45 this happens for about 1% of seeds.
//
//	p := partition.New(800, 17, partition.Options{
//	    CentreVariation: 0.5,
//	    MinDeviation:    0.2,
//	    MaxDeviation:    0.6,
//	    Mutations:       500,
//	    MinDistance:     800.0 / 45,
//	    Step:            1,
//	}, rng)
//	if err := partition.Check(p, 800.0/45); err != nil {
//	    // parameters were too aggressive
//	}
package partition
