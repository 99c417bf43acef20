package engine

import "sort"

// AssignLanes spreads overlapping timed blocks side by side.
//
// Blocks are swept top to bottom. Blocks whose vertical spans chain into each
// other form a cluster; each block takes the lowest lane free at its offset and
// every block of a cluster reports the number of lanes the cluster used.
// All-day blocks stay in lane 0 of 1. The result keeps the input order.
func AssignLanes(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	copy(out, blocks)

	order := make([]int, 0, len(out))
	for i := range out {
		out[i].Lane, out[i].Lanes = 0, 1
		if !out[i].Event.AllDay {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return out[order[a]].Offset < out[order[b]].Offset
	})

	var (
		laneEnds   []float64
		cluster    []int
		clusterEnd float64
	)
	flush := func() {
		for _, idx := range cluster {
			out[idx].Lanes = len(laneEnds)
		}
		laneEnds, cluster = laneEnds[:0], cluster[:0]
	}

	for _, idx := range order {
		b := out[idx]
		if len(cluster) > 0 && b.Offset >= clusterEnd {
			flush()
		}

		lane := -1
		for l, end := range laneEnds {
			if end <= b.Offset {
				lane = l
				break
			}
		}
		if lane < 0 {
			lane = len(laneEnds)
			laneEnds = append(laneEnds, 0)
		}
		laneEnds[lane] = b.Bottom()

		out[idx].Lane = lane
		cluster = append(cluster, idx)
		if len(cluster) == 1 || b.Bottom() > clusterEnd {
			clusterEnd = b.Bottom()
		}
	}
	if len(cluster) > 0 {
		flush()
	}

	return out
}
