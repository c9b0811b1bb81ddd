package geo

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// AlphaShape computes the alpha-shape (concave hull) boundary of a small
// point set, following Edelsbrunner/Kirkpatrick/Seidel's alpha-shape
// construction: triangulate the points with Delaunay triangulation, then keep
// only the triangles whose circumradius does not exceed 1/alpha, and trace
// the boundary edges of the surviving triangles into one or more rings.
//
// The retrieval pack carries no alpha-shape or Delaunay-triangulation library
// (see DESIGN.md); this brute-force O(n^4) triangulation is acceptable given
// the small point counts (bounded by the configured dispersed-subset size,
// normally single digits to a few dozen) this engine ever feeds it.
//
// alpha <= 0 is treated as "no radius restriction", which degenerates to the
// convex hull.
func AlphaShape(points []orb.Point, alpha float64) orb.MultiPolygon {
	if len(points) < 3 {
		return nil
	}
	dedup := dedupePoints(points)
	if len(dedup) < 3 {
		return nil
	}

	triangles := delaunayTriangles(dedup)
	if len(triangles) == 0 {
		return convexHullPolygon(dedup)
	}

	maxRadius := math.Inf(1)
	if alpha > 0 {
		maxRadius = 1 / alpha
	}

	kept := make([]triangle, 0, len(triangles))
	for _, tri := range triangles {
		_, r := circumcircle(dedup[tri.a], dedup[tri.b], dedup[tri.c])
		if r <= maxRadius {
			kept = append(kept, tri)
		}
	}
	if len(kept) == 0 {
		return convexHullPolygon(dedup)
	}

	// Cocircular points yield overlapping Delaunay triangles whose edges are
	// all shared, leaving no boundary to trace; fall back to the hull then.
	if traced := tracePolygons(dedup, kept); len(traced) > 0 {
		return traced
	}
	return convexHullPolygon(dedup)
}

type triangle struct {
	a, b, c int
}

type edgeKey struct {
	u, v int
}

func makeEdge(u, v int) edgeKey {
	if u > v {
		u, v = v, u
	}
	return edgeKey{u, v}
}

// delaunayTriangles returns every triangle of the point index set that
// satisfies the empty-circumcircle Delaunay property.
func delaunayTriangles(points []orb.Point) []triangle {
	n := len(points)
	var tris []triangle
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				if collinear(points[i], points[j], points[k]) {
					continue
				}
				center, radius := circumcircle(points[i], points[j], points[k])
				empty := true
				for m := 0; m < n; m++ {
					if m == i || m == j || m == k {
						continue
					}
					if dist(center, points[m]) < radius-1e-9 {
						empty = false
						break
					}
				}
				if empty {
					tris = append(tris, triangle{i, j, k})
				}
			}
		}
	}
	return tris
}

func collinear(a, b, c orb.Point) bool {
	return math.Abs(cross(a, b, c)) < 1e-12
}

func dist(a, b orb.Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return math.Sqrt(dx*dx + dy*dy)
}

// circumcircle returns the center and radius of the circle through a, b, c.
func circumcircle(a, b, c orb.Point) (orb.Point, float64) {
	ax, ay := a[0], a[1]
	bx, by := b[0], b[1]
	cx, cy := c[0], c[1]

	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if d == 0 {
		return orb.Point{}, math.Inf(1)
	}

	ux := ((ax*ax+ay*ay)*(by-cy) + (bx*bx+by*by)*(cy-ay) + (cx*cx+cy*cy)*(ay-by)) / d
	uy := ((ax*ax+ay*ay)*(cx-bx) + (bx*bx+by*by)*(ax-cx) + (cx*cx+cy*cy)*(bx-ax)) / d

	center := orb.Point{ux, uy}
	return center, dist(center, a)
}

// tracePolygons walks the boundary edges (edges belonging to exactly one
// kept triangle) of an alpha-shape triangle set into closed rings.
func tracePolygons(points []orb.Point, tris []triangle) orb.MultiPolygon {
	edgeCount := map[edgeKey]int{}
	for _, t := range tris {
		edgeCount[makeEdge(t.a, t.b)]++
		edgeCount[makeEdge(t.b, t.c)]++
		edgeCount[makeEdge(t.c, t.a)]++
	}

	adjacency := map[int][]int{}
	for e, count := range edgeCount {
		if count != 1 {
			continue
		}
		adjacency[e.u] = append(adjacency[e.u], e.v)
		adjacency[e.v] = append(adjacency[e.v], e.u)
	}
	if len(adjacency) == 0 {
		return nil
	}

	visited := map[edgeKey]bool{}
	var result orb.MultiPolygon

	nodes := make([]int, 0, len(adjacency))
	for k := range adjacency {
		nodes = append(nodes, k)
	}
	sort.Ints(nodes)

	for _, start := range nodes {
		for _, next := range adjacency[start] {
			if visited[makeEdge(start, next)] {
				continue
			}
			ring := walkRing(adjacency, visited, start, next)
			if len(ring) >= 3 {
				pts := make(orb.Ring, len(ring))
				for i, idx := range ring {
					pts[i] = points[idx]
				}
				result = append(result, orb.Polygon{pts})
			}
		}
	}
	return result
}

func walkRing(adjacency map[int][]int, visited map[edgeKey]bool, start, second int) []int {
	ring := []int{start}
	prev, curr := start, second
	for {
		visited[makeEdge(prev, curr)] = true
		ring = append(ring, curr)
		if curr == start {
			return ring
		}
		neighbors := adjacency[curr]
		found := false
		for _, n := range neighbors {
			if n == prev {
				continue
			}
			if visited[makeEdge(curr, n)] {
				continue
			}
			prev, curr = curr, n
			found = true
			break
		}
		if !found {
			return ring
		}
		if len(ring) > len(adjacency)+1 {
			return ring
		}
	}
}

func dedupePoints(points []orb.Point) []orb.Point {
	var out []orb.Point
	for _, p := range points {
		dup := false
		for _, q := range out {
			if math.Abs(p[0]-q[0]) < 1e-9 && math.Abs(p[1]-q[1]) < 1e-9 {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

// convexHullPolygon computes the convex hull via monotone chain, used both as
// the alpha=0 degeneration and as a fallback when no Delaunay triangle
// survives filtering.
func convexHullPolygon(points []orb.Point) orb.MultiPolygon {
	pts := make([]orb.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	n := len(pts)
	if n < 3 {
		return nil
	}

	hull := make([]orb.Point, 0, 2*n)
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := n - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	hull = hull[:len(hull)-1]
	if len(hull) < 3 {
		return nil
	}
	return orb.MultiPolygon{orb.Polygon{orb.Ring(hull)}}
}
