// Package flowalgo provides implementations of min-cost flow algorithms used
// by the flow-based facility assignment formulation: Successive Shortest Path,
// Capacity Scaling, and their Bellman-Ford/Dijkstra building blocks.
//
// # Determinism
//
// All algorithms iterate over nodes in sorted order and over each node's
// edges in insertion order, producing deterministic results for a given
// input graph.
//
// # Context Support
//
// The XxxWithContext variants accept a context.Context and should be
// preferred so a caller can bound solve time with a deadline.
package flowalgo

import (
	"errors"
	"fmt"
	"time"

	"facilityassign/internal/flownet"
)

// Standard errors returned by solver operations. Check with errors.Is().
var (
	ErrNilGraph       = errors.New("graph is nil")
	ErrSourceNotFound = errors.New("source node not in graph")
	ErrSinkNotFound   = errors.New("sink node not in graph")
	ErrSourceEqualSink = errors.New("source equals sink")
)

// PathWithFlow records a source-to-sink path and the flow pushed along it,
// returned when SolverOptions.ReturnPaths is enabled.
type PathWithFlow struct {
	NodeIDs []int64
	Flow    float64
}

// SolverOptions configures the behavior of the min-cost flow algorithms.
//
// Zero values are safe to use - DefaultSolverOptions() applies sensible
// defaults. Options can be chained using the builder pattern:
//
//	opts := DefaultSolverOptions().WithTimeout(10 * time.Second)
type SolverOptions struct {
	// Epsilon is the tolerance for floating-point comparisons.
	Epsilon float64

	// MaxIterations limits the number of augmenting path iterations.
	// Zero or negative means unlimited.
	MaxIterations int

	// Timeout records a maximum duration for the caller's use. The
	// algorithms in this package do not read it; solve time is bounded only
	// by the context passed to the XxxWithContext variants.
	Timeout time.Duration

	// ReturnPaths indicates whether to collect and return individual flow
	// paths, increasing memory use proportional to the number of paths.
	ReturnPaths bool
}

// DefaultSolverOptions returns options with sensible defaults.
func DefaultSolverOptions() *SolverOptions {
	return &SolverOptions{
		Epsilon:       flownet.Epsilon,
		MaxIterations: 0,
		Timeout:       30 * time.Second,
		ReturnPaths:   false,
	}
}

// WithTimeout sets the timeout and returns the options for chaining.
func (o *SolverOptions) WithTimeout(timeout time.Duration) *SolverOptions {
	o.Timeout = timeout
	return o
}

// WithReturnPaths enables path collection and returns the options for chaining.
func (o *SolverOptions) WithReturnPaths(returnPaths bool) *SolverOptions {
	o.ReturnPaths = returnPaths
	return o
}

// WithMaxIterations sets the iteration limit and returns the options for chaining.
func (o *SolverOptions) WithMaxIterations(max int) *SolverOptions {
	o.MaxIterations = max
	return o
}

// validateGraph performs basic validation of the graph and source/sink nodes.
func validateGraph(g *flownet.ResidualGraph, source, sink int64) error {
	if g == nil {
		return ErrNilGraph
	}
	if !g.Nodes[source] {
		return fmt.Errorf("%w: %d", ErrSourceNotFound, source)
	}
	if !g.Nodes[sink] {
		return fmt.Errorf("%w: %d", ErrSinkNotFound, sink)
	}
	if source == sink {
		return ErrSourceEqualSink
	}
	return nil
}
