package dispersion

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestSelect_GreedyDispersion(t *testing.T) {
	points := []orb.Point{
		{0, 0}, {0, 0}, {1, 1}, {2, 2}, {3, 3}, {3, 3},
	}

	got := Select(points, 4)

	assert.ElementsMatch(t, []orb.Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}}, got)
}

func TestSelect_KGreaterThanOrEqualLenIsIdempotent(t *testing.T) {
	points := []orb.Point{{0, 0}, {1, 1}, {2, 2}}

	assert.Equal(t, points, Select(points, 3))
	assert.Equal(t, points, Select(points, 10))
}

func TestSelect_KZeroOrNegative(t *testing.T) {
	points := []orb.Point{{0, 0}, {1, 1}}
	assert.Nil(t, Select(points, 0))
	assert.Nil(t, Select(points, -1))
}

func TestSelect_KOne(t *testing.T) {
	points := []orb.Point{{5, 5}, {1, 1}, {2, 2}}
	assert.Equal(t, []orb.Point{{5, 5}}, Select(points, 1))
}

func TestSelect_SeedIsRowMajorFarthestPair(t *testing.T) {
	// A square where the two diagonal pairs tie for farthest; row-major
	// iteration order must pick (0,2) as the seed pair before (1,3).
	points := []orb.Point{
		{0, 0}, {1, 0}, {1, 1}, {0, 1},
	}

	got := Select(points, 2)
	assert.ElementsMatch(t, []orb.Point{{0, 0}, {1, 1}}, got)
}
