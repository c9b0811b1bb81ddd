// Package servicearea builds the geographic territory served by a
// facility: the facility's own exclusive area plus a concave hull grown
// around its assigned clients, clipped away from any client already
// reserved by that exclusive area.
package servicearea

import (
	"github.com/paulmach/orb"

	"facilityassign/internal/dispersion"
	"facilityassign/internal/geo"
	"facilityassign/internal/model"
)

// Config carries the two tunables the builder needs from the solver's
// configuration layer.
type Config struct {
	DispersedSubsetSize int
	Alpha               float64
}

// Build constructs a facility's service area from its exclusive area and its
// assigned clients, following the six steps: seed with the exclusive area,
// drop clients already inside it, disperse the remainder to a representative
// subset, dedupe, hull what's left, and only keep hull polygons not already
// covered by an existing polygon in the list.
func Build(facility model.Facility, clients []model.Client, cfg Config) orb.MultiPolygon {
	l := make(orb.MultiPolygon, len(facility.ExclusiveArea))
	copy(l, facility.ExclusiveArea)

	candidates := clients
	if facility.HasExclusiveArea() {
		candidates = make([]model.Client, 0, len(clients))
		for _, c := range clients {
			if !geo.MultiPolygonContains(facility.ExclusiveArea, c.Point()) {
				candidates = append(candidates, c)
			}
		}
	}

	points := make([]orb.Point, len(candidates))
	for i, c := range candidates {
		points[i] = c.Point()
	}

	dispersed := dispersion.Select(points, cfg.DispersedSubsetSize)
	unique := dedupePoints(dispersed)

	if len(unique) >= 4 {
		hulls := geo.AlphaShape(unique, cfg.Alpha)
		for _, hull := range hulls {
			if !containedByAny(hull, l) {
				l = append(l, hull)
			}
		}
	}

	return l
}

func dedupePoints(points []orb.Point) []orb.Point {
	out := make([]orb.Point, 0, len(points))
	for _, p := range points {
		dup := false
		for _, o := range out {
			if o[0] == p[0] && o[1] == p[1] {
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

// containedByAny reports whether every vertex of hull lies inside (or on)
// one of the existing polygons in l, i.e. hull contributes no new territory.
func containedByAny(hull orb.Polygon, l orb.MultiPolygon) bool {
	for _, existing := range l {
		if hullContainedByPolygon(hull, existing) {
			return true
		}
	}
	return false
}

func hullContainedByPolygon(hull orb.Polygon, existing orb.Polygon) bool {
	if len(hull) == 0 {
		return true
	}
	for _, p := range hull[0] {
		if !geo.PolygonContains(existing, p) {
			return false
		}
	}
	return true
}
