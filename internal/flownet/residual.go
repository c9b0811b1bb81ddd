// Package flownet provides the residual-graph data structure used by the
// min-cost-flow assignment formulation: deterministic edge storage, flow
// augmentation, and the handful of accessors the successive-shortest-path
// and capacity-scaling solvers in internal/flowalgo actually walk.
package flownet

import (
	"sort"

	"facilityassign/pkg/domain"
)

// Epsilon is the tolerance for floating-point comparisons. Values smaller
// than Epsilon are considered zero.
const Epsilon = domain.Epsilon

// Infinity represents an unreachable distance or unlimited capacity.
const Infinity = domain.Infinity

// ResidualEdge represents an edge in the residual graph.
//
// In the residual graph, each original edge (u, v) with capacity c and cost w
// is represented by two edges:
//   - Forward edge (u, v) with capacity c and cost w
//   - Backward edge (v, u) with capacity 0 and cost -w
//
// When flow f is pushed along (u, v):
//   - Forward edge capacity becomes c - f
//   - Backward edge capacity becomes f
type ResidualEdge struct {
	// To is the destination node ID.
	To int64

	// Capacity is the current residual capacity.
	Capacity float64

	// Cost is the cost per unit of flow. For backward edges, this is the
	// negative of the forward edge's cost.
	Cost float64

	// Flow is the amount of flow currently on this edge. Only meaningful
	// for forward edges.
	Flow float64

	// OriginalCapacity is the initial capacity of the edge.
	OriginalCapacity float64

	// IsReverse indicates whether this is a backward (reverse) edge.
	IsReverse bool
}

// ResidualGraph is the core data structure for the min-cost-flow solvers.
//
// Edges are stored both in a map (O(1) lookup by (from, to)) and in a
// per-node slice (deterministic iteration order); network flow algorithms
// can reach different valid solutions depending on traversal order, so
// callers should iterate with GetNeighborsList/GetSortedNodes rather than
// ranging over Edges/Nodes directly.
type ResidualGraph struct {
	// Nodes contains all node IDs in the graph.
	Nodes map[int64]bool

	// Edges provides O(1) edge lookup by (from, to) pair.
	Edges map[int64]map[int64]*ResidualEdge

	// EdgesList provides deterministic edge iteration: EdgesList[from] is a
	// slice of edges in insertion order.
	EdgesList map[int64][]*ResidualEdge
}

// NewResidualGraph creates a new empty residual graph.
func NewResidualGraph() *ResidualGraph {
	return &ResidualGraph{
		Nodes:     make(map[int64]bool),
		Edges:     make(map[int64]map[int64]*ResidualEdge),
		EdgesList: make(map[int64][]*ResidualEdge),
	}
}

func (rg *ResidualGraph) ensureNode(id int64) {
	rg.Nodes[id] = true
}

// AddEdge adds a forward edge to the graph. If a reverse edge already
// occupies (from, to), it is converted to a forward edge; otherwise
// capacity accumulates on repeated calls for the same pair.
func (rg *ResidualGraph) AddEdge(from, to int64, capacity, cost float64) {
	rg.ensureNode(from)
	rg.ensureNode(to)

	if rg.Edges[from] == nil {
		rg.Edges[from] = make(map[int64]*ResidualEdge)
	}

	if existing := rg.Edges[from][to]; existing != nil {
		if existing.IsReverse {
			existing.OriginalCapacity = capacity
			existing.Capacity = capacity
			existing.Cost = cost
			existing.IsReverse = false
			return
		}
		existing.Capacity += capacity
		existing.OriginalCapacity += capacity
		return
	}

	edge := &ResidualEdge{
		To:               to,
		Capacity:         capacity,
		Cost:             cost,
		OriginalCapacity: capacity,
	}

	rg.Edges[from][to] = edge
	rg.EdgesList[from] = append(rg.EdgesList[from], edge)
}

// AddReverseEdge adds a zero-capacity backward edge used for flow
// cancellation. Typically called internally by AddEdgeWithReverse.
func (rg *ResidualGraph) AddReverseEdge(from, to int64, cost float64) {
	rg.ensureNode(from)
	rg.ensureNode(to)

	if rg.Edges[from] == nil {
		rg.Edges[from] = make(map[int64]*ResidualEdge)
	}

	if existing := rg.Edges[from][to]; existing != nil {
		return
	}

	edge := &ResidualEdge{
		To:        to,
		Cost:      -cost,
		IsReverse: true,
	}

	rg.Edges[from][to] = edge
	rg.EdgesList[from] = append(rg.EdgesList[from], edge)
}

// AddEdgeWithReverse adds both the forward edge (from, to) with the given
// capacity and cost, and its zero-capacity backward counterpart.
func (rg *ResidualGraph) AddEdgeWithReverse(from, to int64, capacity, cost float64) {
	rg.AddEdge(from, to, capacity, cost)
	rg.AddReverseEdge(to, from, cost)
}

// GetEdge returns the edge from 'from' to 'to', or nil if not found.
func (rg *ResidualGraph) GetEdge(from, to int64) *ResidualEdge {
	if rg.Edges[from] == nil {
		return nil
	}
	return rg.Edges[from][to]
}

// GetNeighborsList returns all outgoing edges from a node, in insertion
// order, for deterministic traversal.
func (rg *ResidualGraph) GetNeighborsList(node int64) []*ResidualEdge {
	return rg.EdgesList[node]
}

// GetSortedNodes returns node IDs sorted in ascending order, for
// deterministic iteration over the graph's nodes.
func (rg *ResidualGraph) GetSortedNodes() []int64 {
	nodes := make([]int64, 0, len(rg.Nodes))
	for node := range rg.Nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// UpdateFlow pushes flow along an edge: decreases the forward edge's
// residual capacity by flow, increases its Flow counter, and increases the
// matching backward edge's capacity by flow (creating it if necessary).
func (rg *ResidualGraph) UpdateFlow(from, to int64, flow float64) {
	if edge := rg.GetEdge(from, to); edge != nil {
		edge.Flow += flow
		edge.Capacity -= flow
	}

	if backEdge := rg.GetEdge(to, from); backEdge != nil {
		backEdge.Capacity += flow
		return
	}

	if rg.Edges[to] == nil {
		rg.Edges[to] = make(map[int64]*ResidualEdge)
	}
	cost := 0.0
	if forwardEdge := rg.GetEdge(from, to); forwardEdge != nil {
		cost = -forwardEdge.Cost
	}
	newEdge := &ResidualEdge{To: from, Capacity: flow, Cost: cost, IsReverse: true}
	rg.Edges[to][from] = newEdge
	rg.EdgesList[to] = append(rg.EdgesList[to], newEdge)
}

// GetTotalCost computes the total cost of all flow in the graph: every
// forward edge with positive flow contributes flow * cost.
func (rg *ResidualGraph) GetTotalCost() float64 {
	totalCost := 0.0
	for _, from := range rg.GetSortedNodes() {
		for _, edge := range rg.EdgesList[from] {
			if !edge.IsReverse && edge.Flow > 0 {
				totalCost += edge.Flow * edge.Cost
			}
		}
	}
	return totalCost
}
