package geo

import "github.com/paulmach/orb"

// Difference subtracts a convex clip polygon from a subject polygon, ignoring
// holes on both operands, and returns the remaining piece(s) as a
// MultiPolygon. The exclusive-area polygons this engine carves out of
// facility service areas are small simple convex-ish regions in practice;
// the retrieval pack carries no polygon boolean-operations library compatible
// with orb's types (see DESIGN.md), so this implements the standard
// successive half-plane split used for convex-clip subtraction: the clip
// polygon's edges each define an inside half-plane (the side containing the
// clip's centroid); the subject is split against each edge in turn, the
// outside fragment of each split is kept as part of the difference, and the
// inside fragment carries forward to the next edge. What survives every
// split is entirely inside the clip and is discarded.
func Difference(subject orb.Polygon, clip orb.Polygon) orb.MultiPolygon {
	if len(subject) == 0 {
		return nil
	}
	if len(clip) == 0 || len(clip[0]) < 3 {
		return orb.MultiPolygon{subject}
	}

	clipRing := clip[0]
	cx, cy := centroid(clipRing)

	remaining := []orb.Ring{subject[0]}
	var pieces []orb.Ring

	n := len(clipRing)
	for i := 0; i < n && len(remaining) > 0; i++ {
		a := clipRing[i]
		b := clipRing[(i+1)%n]

		sign := cross(a, b, orb.Point{cx, cy})
		if sign == 0 {
			continue
		}

		var next []orb.Ring
		for _, r := range remaining {
			outside, inside := splitRing(r, a, b, sign)
			if len(outside) >= 3 {
				pieces = append(pieces, outside)
			}
			if len(inside) >= 3 {
				next = append(next, inside)
			}
		}
		remaining = next
	}

	if len(pieces) == 0 {
		return nil
	}
	result := make(orb.MultiPolygon, len(pieces))
	for i, r := range pieces {
		result[i] = orb.Polygon{r}
	}
	return result
}

func centroid(ring orb.Ring) (float64, float64) {
	var sx, sy float64
	for _, p := range ring {
		sx += p[0]
		sy += p[1]
	}
	n := float64(len(ring))
	if n == 0 {
		return 0, 0
	}
	return sx / n, sy / n
}

// splitRing partitions ring by the line through (a,b), returning the part on
// the opposite side of sign as outside and the part matching sign as inside.
func splitRing(ring orb.Ring, a, b orb.Point, sign float64) (outside, inside orb.Ring) {
	n := len(ring)
	if n == 0 {
		return nil, nil
	}

	insideOf := func(p orb.Point) bool {
		return cross(a, b, p)*sign >= -1e-12
	}

	for i := 0; i < n; i++ {
		curr := ring[i]
		next := ring[(i+1)%n]

		currInside := insideOf(curr)
		if currInside {
			inside = append(inside, curr)
		} else {
			outside = append(outside, curr)
		}

		if currInside != insideOf(next) {
			ip := lineIntersect(curr, next, a, b)
			inside = append(inside, ip)
			outside = append(outside, ip)
		}
	}
	return outside, inside
}

// lineIntersect returns the intersection of line segment p1-p2 with the
// infinite line through a-b. Callers only invoke this when the segment is
// known to straddle the line.
func lineIntersect(p1, p2, a, b orb.Point) orb.Point {
	d1 := cross(a, b, p1)
	d2 := cross(a, b, p2)
	denom := d1 - d2
	if denom == 0 {
		return p1
	}
	t := d1 / denom
	return orb.Point{
		p1[0] + t*(p2[0]-p1[0]),
		p1[1] + t*(p2[1]-p1[1]),
	}
}
