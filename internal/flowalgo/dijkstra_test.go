package flowalgo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"facilityassign/internal/flownet"
)

func TestDijkstraWithContext_ShortestDistancesNonNegativeWeights(t *testing.T) {
	g := flownet.NewResidualGraph()
	g.AddEdge(1, 2, 10, 4.0)
	g.AddEdge(1, 3, 10, 1.0)
	g.AddEdge(3, 2, 10, 2.0)

	result := DijkstraWithContext(context.Background(), g, 1)
	assert.False(t, result.UsedBellmanFord)
	assert.Equal(t, 0.0, result.Distances[1])
	assert.Equal(t, 3.0, result.Distances[2])
	assert.Equal(t, int64(3), result.Parent[2])
}

func TestDijkstraWithContext_FallsBackToBellmanFordOnNegativeEdge(t *testing.T) {
	g := flownet.NewResidualGraph()
	g.AddEdge(1, 2, 10, 4.0)
	g.AddEdge(1, 3, 10, 1.0)
	g.AddEdge(3, 2, 10, -2.0)

	result := DijkstraWithContext(context.Background(), g, 1)
	assert.True(t, result.UsedBellmanFord)
	assert.Equal(t, -1.0, result.Distances[2])
}

func TestDijkstraWithPotentialsContext_MatchesUnpotentiatedShortestPath(t *testing.T) {
	g := flownet.NewResidualGraph()
	g.AddEdge(1, 2, 10, 4.0)
	g.AddEdge(1, 3, 10, 1.0)
	g.AddEdge(3, 2, 10, 2.0)

	potentials := map[int64]float64{1: 0, 2: 0, 3: 0}
	result := DijkstraWithPotentialsContext(context.Background(), g, 1, potentials)
	assert.Equal(t, 3.0, result.Distances[2])
}
