package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifference_CornerClip(t *testing.T) {
	subject := orb.Polygon{{{0, 0}, {4, 0}, {4, 4}, {0, 4}}}
	clip := orb.Polygon{{{0, 0}, {2, 0}, {2, 2}, {0, 2}}}

	result := Difference(subject, clip)
	require.NotEmpty(t, result)

	totalArea := MultiPolygonArea(result)
	assert.InDelta(t, 16-4, totalArea, 1e-6)

	for _, p := range result {
		for _, v := range p[0] {
			assert.False(t, PolygonContains(clip, v) && !onRingBoundary(clip[0], v),
				"difference vertex %v should not be strictly inside the clip", v)
		}
	}
}

func TestDifference_NoOverlap(t *testing.T) {
	subject := orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 1}}}
	clip := orb.Polygon{{{10, 10}, {11, 10}, {11, 11}, {10, 11}}}

	result := Difference(subject, clip)
	require.Len(t, result, 1)
	assert.InDelta(t, 1.0, MultiPolygonArea(result), 1e-9)
}

func TestDifference_EmptyClip(t *testing.T) {
	subject := orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 1}}}
	result := Difference(subject, orb.Polygon{})
	require.Len(t, result, 1)
	assert.InDelta(t, 1.0, MultiPolygonArea(result), 1e-9)
}

func onRingBoundary(ring orb.Ring, p orb.Point) bool {
	n := len(ring)
	for i := 0; i < n; i++ {
		if onSegment(ring[i], ring[(i+1)%n], p) {
			return true
		}
	}
	return false
}
