package flowalgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilityassign/internal/flownet"
)

func TestShouldUseCapacityScaling_ThresholdIsExclusive(t *testing.T) {
	small := flownet.NewResidualGraph()
	small.AddEdgeWithReverse(1, 2, CapacityScalingThreshold, 1.0)
	assert.False(t, ShouldUseCapacityScaling(small))

	large := flownet.NewResidualGraph()
	large.AddEdgeWithReverse(1, 2, CapacityScalingThreshold+1, 1.0)
	assert.True(t, ShouldUseCapacityScaling(large))
}

func TestRecommendMinCostAlgorithm_MatchesShouldUseCapacityScaling(t *testing.T) {
	g := flownet.NewResidualGraph()
	g.AddEdgeWithReverse(1, 2, CapacityScalingThreshold+1, 1.0)
	assert.Equal(t, MinCostAlgorithmCapacityScaling, RecommendMinCostAlgorithm(g))
	assert.Equal(t, "CapacityScaling", MinCostAlgorithmCapacityScaling.String())
}

func TestCapacityScalingMinCostFlow_OnLargeCapacityGraph(t *testing.T) {
	g := flownet.NewResidualGraph()
	g.AddEdgeWithReverse(1, 2, CapacityScalingThreshold+100, 1.0)
	g.AddEdgeWithReverse(2, 3, CapacityScalingThreshold+100, 2.0)

	result := CapacityScalingMinCostFlow(g, 1, 3, 1000, nil)
	require.Equal(t, 1000.0, result.Flow)
	assert.Equal(t, 3000.0, result.Cost)
}

func TestMinCostMaxFlow_DelegatesToCapacityScalingAboveThreshold(t *testing.T) {
	g := flownet.NewResidualGraph()
	g.AddEdgeWithReverse(1, 2, CapacityScalingThreshold+100, 1.0)
	g.AddEdgeWithReverse(2, 3, CapacityScalingThreshold+100, 2.0)

	result := MinCostMaxFlow(g, 1, 3, 1000, nil)
	assert.Equal(t, 1000.0, result.Flow)
	assert.Equal(t, 3000.0, result.Cost)
}
