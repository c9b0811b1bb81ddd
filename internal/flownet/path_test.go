package flownet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconstructPath_FollowsParentPointersFromSink(t *testing.T) {
	parent := map[int64]int64{1: -1, 3: 1, 5: 3}
	path := ReconstructPath(parent, 1, 5)
	assert.Equal(t, []int64{1, 3, 5}, path)
}

func TestReconstructPath_SinkUnreachableReturnsNil(t *testing.T) {
	parent := map[int64]int64{1: -1}
	assert.Nil(t, ReconstructPath(parent, 1, 5))
}

func TestFindMinCapacityOnPath_ReturnsBottleneck(t *testing.T) {
	g := NewResidualGraph()
	g.AddEdgeWithReverse(1, 3, 10, 1.0)
	g.AddEdgeWithReverse(3, 5, 4, 1.0)

	assert.Equal(t, 4.0, FindMinCapacityOnPath(g, []int64{1, 3, 5}))
}

func TestFindMinCapacityOnPath_MissingEdgeReturnsZero(t *testing.T) {
	g := NewResidualGraph()
	g.AddEdgeWithReverse(1, 3, 10, 1.0)

	assert.Equal(t, 0.0, FindMinCapacityOnPath(g, []int64{1, 3, 5}))
}

func TestAugmentPath_PushesFlowAlongEveryEdge(t *testing.T) {
	g := NewResidualGraph()
	g.AddEdgeWithReverse(1, 3, 10, 1.0)
	g.AddEdgeWithReverse(3, 5, 10, 1.0)

	AugmentPath(g, []int64{1, 3, 5}, 4)

	assert.Equal(t, 6.0, g.GetEdge(1, 3).Capacity)
	assert.Equal(t, 6.0, g.GetEdge(3, 5).Capacity)
	assert.Equal(t, 4.0, g.GetEdge(3, 1).Capacity)
	assert.Equal(t, 4.0, g.GetEdge(5, 3).Capacity)
}
