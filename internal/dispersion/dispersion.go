// Package dispersion selects the most spatially spread-out subset of a
// point set, an NP-hard p-dispersion problem solved here with the
// Erkut greedy heuristic: seed with the globally farthest-apart pair, then
// repeatedly add the point that maximizes its minimum distance to the
// already-selected set.
package dispersion

import (
	"github.com/paulmach/orb"

	"facilityassign/internal/geo"
)

// Select returns up to k points from points maximizing the minimum pairwise
// distance among the selection. Ties are broken by the lowest index involved
// so the result is deterministic for identical input order. If k >= len(points)
// the input is returned unchanged (order preserved).
func Select(points []orb.Point, k int) []orb.Point {
	n := len(points)
	if k >= n {
		out := make([]orb.Point, n)
		copy(out, points)
		return out
	}
	if k <= 0 || n == 0 {
		return nil
	}
	if k == 1 {
		return []orb.Point{points[0]}
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			dist[i][j] = geo.HaversineKM(points[i][1], points[i][0], points[j][1], points[j][0])
		}
	}

	seedA, seedB := 0, 1
	best := dist[0][1]
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if dist[i][j] > best {
				best = dist[i][j]
				seedA, seedB = i, j
			}
		}
	}

	selected := map[int]bool{seedA: true, seedB: true}
	order := []int{seedA, seedB}

	for len(selected) < k {
		bestIdx, bestMinDist := -1, -1.0
		for i := 0; i < n; i++ {
			if selected[i] {
				continue
			}
			minDist := minDistanceTo(dist, i, selected)
			if minDist > bestMinDist {
				bestMinDist = minDist
				bestIdx = i
			}
		}
		selected[bestIdx] = true
		order = append(order, bestIdx)
	}

	out := make([]orb.Point, len(order))
	for idx, pointIdx := range order {
		out[idx] = points[pointIdx]
	}
	return out
}

func minDistanceTo(dist [][]float64, i int, selected map[int]bool) float64 {
	min := -1.0
	for s := range selected {
		d := dist[i][s]
		if min < 0 || d < min {
			min = d
		}
	}
	return min
}
