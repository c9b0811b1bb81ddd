// Package flow builds and solves the min-cost-flow formulation of the
// facility assignment problem: clients supply demand, facilities
// drain a minimum and optionally cap a maximum, and a sink absorbs whatever
// demand clears a facility's floor without being claimed by its ceiling.
package flow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"facilityassign/internal/flowalgo"
	"facilityassign/internal/flownet"
	"facilityassign/internal/geo"
	"facilityassign/internal/model"
	"facilityassign/internal/scaling"
	"facilityassign/pkg/apperror"
)

// Result is the decoded outcome of solving the flow network.
type Result struct {
	Status model.Status
	Message string

	// ObjectiveValue is in scaled units; the caller rescales via
	// scaling.UnscaleObjective before reporting it.
	ObjectiveValue float64

	// Assignments[i] lists the client indices (into the ScaledProblem's
	// Clients slice) routed to facility i.
	Assignments [][]int
}

// gateClients computes, for every client, the facility indices its point is
// allowed to flow to: the unique containing exclusive area if exactly one
// facility claims it, every facility if none does, or an error if more than
// one facility's exclusive area contains the point.
func gateClients(facilities []model.Facility, clients []model.Client) ([][]int, error) {
	allowed := make([][]int, len(clients))
	allFacilities := make([]int, len(facilities))
	for i := range facilities {
		allFacilities[i] = i
	}

	for j, c := range clients {
		var containing []int
		for i, f := range facilities {
			if f.HasExclusiveArea() && geo.MultiPolygonContains(f.ExclusiveArea, c.Point()) {
				containing = append(containing, i)
			}
		}

		switch len(containing) {
		case 0:
			allowed[j] = allFacilities
		case 1:
			allowed[j] = containing
		default:
			names := make([]string, len(containing))
			for k, idx := range containing {
				names[k] = facilities[idx].Name
			}
			return nil, apperror.New(apperror.CodeExclusiveOverlap, fmt.Sprintf(
				"Impossible solve the problem! client at (%.6f, %.6f) lies within the exclusive areas of facilities %s",
				c.Lat, c.Lng, strings.Join(names, " and "))).
				WithDetails("client_id", c.ID).
				WithDetails("facilities", names)
		}
	}
	return allowed, nil
}

// Solve builds the flow network for sp and runs min-cost max-flow, decoding
// the result into per-facility client assignments.
//
// Node layout: 0..|C|-1 are clients, |C|..|C|+|F|-1 are facilities, |C|+|F|
// is the shared sink that absorbs demand above any facility's floor. A super
// source/super sink pair (added beyond that range) convert the per-node
// supply/demand values the spec describes into the single source/single sink
// shape the max-flow solver expects: clients draw their scaled demand from
// the super source, and each facility's min_demand plus the shared sink's
// residual both drain into the super sink.
func Solve(ctx context.Context, sp scaling.ScaledProblem, timeout time.Duration) (Result, error) {
	allowed, err := gateClients(sp.Facilities, sp.Clients)
	if err != nil {
		return Result{}, err
	}

	numClients := len(sp.Clients)
	numFacilities := len(sp.Facilities)
	sinkNode := int64(numClients + numFacilities)
	superSource := sinkNode + 1
	superSink := sinkNode + 2

	totalSupply := 0
	for _, d := range sp.ClientDemand {
		totalSupply += d
	}
	totalMinDemand := 0
	for _, d := range sp.FacilityMinDemand {
		totalMinDemand += d
	}

	g := flownet.NewResidualGraph()

	for j := range sp.Clients {
		g.AddEdgeWithReverse(superSource, int64(j), float64(sp.ClientDemand[j]), 0)
	}

	for j, facilityIndices := range allowed {
		for _, i := range facilityIndices {
			g.AddEdgeWithReverse(int64(j), int64(numClients+i), float64(sp.ClientDemand[j]), float64(sp.Cost[i][j]))
		}
	}

	for i := range sp.Facilities {
		facilityNode := int64(numClients + i)
		minDemand := sp.FacilityMinDemand[i]
		if minDemand > 0 {
			g.AddEdgeWithReverse(facilityNode, superSink, float64(minDemand), 0)
		}

		cap := sp.FacilityMaxDemand[i]
		if cap <= 0 {
			cap = totalSupply
		}
		cap -= minDemand
		if cap > 0 {
			g.AddEdgeWithReverse(facilityNode, sinkNode, float64(cap), 0)
		}
	}

	if sinkExcess := totalSupply - totalMinDemand; sinkExcess > 0 {
		g.AddEdgeWithReverse(sinkNode, superSink, float64(sinkExcess), 0)
	}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	opts := flowalgo.DefaultSolverOptions().WithTimeout(timeout)
	flowResult := flowalgo.MinCostMaxFlowWithContext(runCtx, g, superSource, superSink, float64(totalSupply), opts)

	if flowResult.Flow < float64(totalSupply)-flownet.Epsilon {
		return Result{Status: model.StatusInfeasible, Message: "No optimal solution found"}, nil
	}

	assignments := make([][]int, numFacilities)
	for j, facilityIndices := range allowed {
		bestFacility, bestFlow := -1, 0.0
		for _, i := range facilityIndices {
			edge := g.GetEdge(int64(j), int64(numClients+i))
			if edge != nil && edge.Flow > bestFlow {
				bestFlow = edge.Flow
				bestFacility = i
			}
		}
		if bestFacility >= 0 {
			assignments[bestFacility] = append(assignments[bestFacility], j)
		}
	}

	return Result{
		Status:         model.StatusOptimal,
		ObjectiveValue: g.GetTotalCost(),
		Assignments:    assignments,
	}, nil
}
