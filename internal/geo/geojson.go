package geo

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"

	"facilityassign/pkg/apperror"
)

// rawGeometry mirrors the subset of the GeoJSON geometry object the
// exclusive-area field accepts. Coordinates are decoded lazily per type since
// GeoJSON nests arrays to different depths depending on the geometry.
type rawGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
	Geometries  []rawGeometry   `json:"geometries"`
}

// ParseExclusiveArea decodes a facility's exclusive_area field into a
// MultiPolygon. Accepted GeoJSON geometry types are Polygon, MultiPolygon,
// and GeometryCollection (whose members are flattened and must themselves be
// Polygon or MultiPolygon). FeatureCollection and Feature wrappers are
// rejected: the field carries a bare geometry object, not a GeoJSON document.
func ParseExclusiveArea(raw []byte) (orb.MultiPolygon, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var g rawGeometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, apperror.New(apperror.CodeInvalidGeometry, "exclusive_area is not valid GeoJSON").
			WithDetails("parse_error", err.Error())
	}

	switch g.Type {
	case "FeatureCollection", "Feature":
		return nil, apperror.New(apperror.CodeInvalidGeometry,
			fmt.Sprintf("exclusive_area must be a bare geometry object, got %s", g.Type))
	}

	return flattenGeometry(g)
}

func flattenGeometry(g rawGeometry) (orb.MultiPolygon, error) {
	switch g.Type {
	case "Polygon":
		poly, err := decodePolygon(g.Coordinates)
		if err != nil {
			return nil, err
		}
		if err := validatePolygon(poly); err != nil {
			return nil, err
		}
		return orb.MultiPolygon{poly}, nil

	case "MultiPolygon":
		var coords [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, apperror.New(apperror.CodeInvalidGeometry, "malformed MultiPolygon coordinates")
		}
		mp := make(orb.MultiPolygon, 0, len(coords))
		for _, pc := range coords {
			poly := coordsToPolygon(pc)
			if err := validatePolygon(poly); err != nil {
				return nil, err
			}
			mp = append(mp, poly)
		}
		return mp, nil

	case "GeometryCollection":
		var mp orb.MultiPolygon
		for _, child := range g.Geometries {
			if child.Type != "Polygon" && child.Type != "MultiPolygon" {
				return nil, apperror.New(apperror.CodeInvalidGeometry,
					fmt.Sprintf("GeometryCollection member %s is not a Polygon or MultiPolygon", child.Type))
			}
			sub, err := flattenGeometry(child)
			if err != nil {
				return nil, err
			}
			mp = append(mp, sub...)
		}
		return mp, nil

	default:
		return nil, apperror.New(apperror.CodeInvalidGeometry,
			fmt.Sprintf("unsupported exclusive_area geometry type %q", g.Type))
	}
}

func decodePolygon(raw json.RawMessage) (orb.Polygon, error) {
	var coords [][][]float64
	if err := json.Unmarshal(raw, &coords); err != nil {
		return nil, apperror.New(apperror.CodeInvalidGeometry, "malformed Polygon coordinates")
	}
	return coordsToPolygon(coords), nil
}

func coordsToPolygon(coords [][][]float64) orb.Polygon {
	poly := make(orb.Polygon, len(coords))
	for i, ring := range coords {
		poly[i] = dedupRing(ring)
	}
	return poly
}

// dedupRing drops consecutive duplicate vertices (including the GeoJSON
// closing point that repeats the first coordinate).
func dedupRing(coords [][]float64) orb.Ring {
	var ring orb.Ring
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		p := orb.Point{c[0], c[1]}
		if len(ring) > 0 {
			last := ring[len(ring)-1]
			if last[0] == p[0] && last[1] == p[1] {
				continue
			}
		}
		ring = append(ring, p)
	}
	if len(ring) > 1 && ring[0][0] == ring[len(ring)-1][0] && ring[0][1] == ring[len(ring)-1][1] {
		ring = ring[:len(ring)-1]
	}
	return ring
}

func validatePolygon(p orb.Polygon) error {
	if len(p) == 0 || len(p[0]) < 3 {
		return apperror.New(apperror.CodeDegeneratePolygon,
			"polygon ring has fewer than 3 distinct vertices")
	}
	return nil
}

// MultiPolygonToGeoJSON renders mp as a bare GeoJSON MultiPolygon geometry
// object, the mirror image of ParseExclusiveArea's decoding.
func MultiPolygonToGeoJSON(mp orb.MultiPolygon) json.RawMessage {
	coords := make([][][][2]float64, len(mp))
	for i, poly := range mp {
		coords[i] = make([][][2]float64, len(poly))
		for j, ring := range poly {
			closed := ring
			if len(ring) > 0 && (ring[0][0] != ring[len(ring)-1][0] || ring[0][1] != ring[len(ring)-1][1]) {
				closed = append(append(orb.Ring{}, ring...), ring[0])
			}
			points := make([][2]float64, len(closed))
			for k, p := range closed {
				points[k] = [2]float64{p[0], p[1]}
			}
			coords[i][j] = points
		}
	}

	raw, _ := json.Marshal(struct {
		Type        string            `json:"type"`
		Coordinates [][][][2]float64 `json:"coordinates"`
	}{Type: "MultiPolygon", Coordinates: coords})
	return raw
}
