package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Area returns the unsigned planar area of a ring using the shoelace formula,
// in the same squared units as the input coordinates (degrees^2 for lat/lng
// rings, matching how exclusive-area sizes are reasoned about in this
// package - no geodesic correction is applied).
func Area(ring orb.Ring) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += ring[i][0]*ring[j][1] - ring[j][0]*ring[i][1]
	}
	return math.Abs(sum) / 2
}

// PolygonArea returns the exterior ring's area minus the area of its holes.
func PolygonArea(p orb.Polygon) float64 {
	if len(p) == 0 {
		return 0
	}
	area := Area(p[0])
	for _, hole := range p[1:] {
		area -= Area(hole)
	}
	if area < 0 {
		return 0
	}
	return area
}

// MultiPolygonArea sums the area of each member polygon.
func MultiPolygonArea(mp orb.MultiPolygon) float64 {
	total := 0.0
	for _, p := range mp {
		total += PolygonArea(p)
	}
	return total
}

// RingContains reports whether point lies inside ring using the standard
// even-odd ray casting rule. Points exactly on the boundary are treated as
// contained.
func RingContains(ring orb.Ring, point orb.Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	x, y := point[0], point[1]
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]

		if onSegment(ring[i], ring[j], point) {
			return true
		}

		if (yi > y) != (yj > y) {
			xIntersect := xj + (y-yj)*(xi-xj)/(yi-yj)
			if x < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(a, b, p orb.Point) bool {
	cross := (p[0]-a[0])*(b[1]-a[1]) - (p[1]-a[1])*(b[0]-a[0])
	if math.Abs(cross) > 1e-12 {
		return false
	}
	minX, maxX := math.Min(a[0], b[0]), math.Max(a[0], b[0])
	minY, maxY := math.Min(a[1], b[1]), math.Max(a[1], b[1])
	return p[0] >= minX-1e-12 && p[0] <= maxX+1e-12 && p[1] >= minY-1e-12 && p[1] <= maxY+1e-12
}

// PolygonContains reports whether point lies in the polygon's exterior ring
// and outside every hole.
func PolygonContains(p orb.Polygon, point orb.Point) bool {
	if len(p) == 0 {
		return false
	}
	if !RingContains(p[0], point) {
		return false
	}
	for _, hole := range p[1:] {
		if RingContains(hole, point) {
			return false
		}
	}
	return true
}

// MultiPolygonContains reports whether point lies in any member polygon.
func MultiPolygonContains(mp orb.MultiPolygon, point orb.Point) bool {
	for _, p := range mp {
		if PolygonContains(p, point) {
			return true
		}
	}
	return false
}

// segmentsIntersect reports whether segments (p1,p2) and (p3,p4) cross,
// including collinear-overlap and touching-endpoint cases.
func segmentsIntersect(p1, p2, p3, p4 orb.Point) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	if math.Abs(d1) < 1e-12 && onSegment(p3, p4, p1) {
		return true
	}
	if math.Abs(d2) < 1e-12 && onSegment(p3, p4, p2) {
		return true
	}
	if math.Abs(d3) < 1e-12 && onSegment(p1, p2, p3) {
		return true
	}
	if math.Abs(d4) < 1e-12 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// ringsIntersect reports whether two rings share any boundary crossing, or
// one is wholly contained in the other.
func ringsIntersect(a, b orb.Ring) bool {
	for i := 0; i < len(a); i++ {
		a1, a2 := a[i], a[(i+1)%len(a)]
		for j := 0; j < len(b); j++ {
			b1, b2 := b[j], b[(j+1)%len(b)]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	if len(a) > 0 && RingContains(b, a[0]) {
		return true
	}
	if len(b) > 0 && RingContains(a, b[0]) {
		return true
	}
	return false
}

// PolygonIntersects reports whether two polygons' exterior rings overlap.
// Holes are ignored for the overlap test: a facility's exclusive area is
// considered intersecting another's if their outer boundaries overlap at
// all; internal/evaluator uses this to decide which service areas to clip
// by another facility's exclusive area.
func PolygonIntersects(a, b orb.Polygon) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return ringsIntersect(a[0], b[0])
}

// MultiPolygonIntersects reports whether any member polygons of a and b
// overlap.
func MultiPolygonIntersects(a, b orb.MultiPolygon) bool {
	for _, pa := range a {
		for _, pb := range b {
			if PolygonIntersects(pa, pb) {
				return true
			}
		}
	}
	return false
}

// Bound returns the axis-aligned bounding box [minLng, minLat, maxLng, maxLat]
// of a ring's points.
func Bound(ring orb.Ring) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range ring {
		minX = math.Min(minX, p[0])
		minY = math.Min(minY, p[1])
		maxX = math.Max(maxX, p[0])
		maxY = math.Max(maxY, p[1])
	}
	return
}
