// Package milp builds and solves the binary-assignment formulation of the
// facility assignment problem using the nextmv-io/sdk mip solver: one
// binary decision variable per (facility, client) pair, an assignment
// constraint forcing every client to exactly one facility, demand-capacity
// constraints per facility, and exclusive-area gating realized by creating
// no variable for the (facility, client) pairs it excludes.
package milp

import (
	"fmt"
	"strings"
	"time"

	"github.com/nextmv-io/sdk/mip"

	"facilityassign/internal/geo"
	"facilityassign/internal/model"
	"facilityassign/internal/scaling"
	"facilityassign/pkg/apperror"
)

// Result mirrors flow.Result so the assignment orchestrator can dispatch to
// either solver interchangeably.
type Result struct {
	Status         model.Status
	Message        string
	ObjectiveValue float64
	Assignments    [][]int
}

// Options configures the solve call.
type Options struct {
	MaxDuration time.Duration
	GapRelative float64
}

// DefaultOptions returns the nextmv-recommended defaults for a bounded solve.
func DefaultOptions() Options {
	return Options{MaxDuration: 10 * time.Second, GapRelative: 0}
}

// gateClients computes, for each client, the facility indices it may be
// assigned to. More than one exclusive area claiming the same client is an
// infeasibility diagnosed up front, before the model is even built.
func gateClients(facilities []model.Facility, clients []model.Client) ([][]int, error) {
	allowed := make([][]int, len(clients))
	all := make([]int, len(facilities))
	for i := range facilities {
		all[i] = i
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
			allowed[j] = all
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

// Solve builds and solves the MIP formulation for sp.
func Solve(sp scaling.ScaledProblem, opts Options) (Result, error) {
	allowed, err := gateClients(sp.Facilities, sp.Clients)
	if err != nil {
		return Result{}, err
	}

	numFacilities := len(sp.Facilities)
	numClients := len(sp.Clients)

	m := mip.NewModel()
	m.Objective().SetMinimize()

	// x[i][j] is nil where the client is gated away from facility i so the
	// assignment constraint below only sums over variables that exist.
	x := make([][]mip.Bool, numFacilities)
	for i := range x {
		x[i] = make([]mip.Bool, numClients)
	}
	for j, facilityIndices := range allowed {
		for _, i := range facilityIndices {
			x[i][j] = m.NewBool()
			m.Objective().NewTerm(float64(sp.Cost[i][j]), x[i][j])
		}
	}

	// Every client is assigned to exactly one facility.
	for j := range sp.Clients {
		assign := m.NewConstraint(mip.Equal, 1.0)
		for i := range sp.Facilities {
			if x[i][j] != nil {
				assign.NewTerm(1.0, x[i][j])
			}
		}
	}

	// Facility demand floor and (optional) ceiling.
	for i := range sp.Facilities {
		if sp.FacilityMinDemand[i] > 0 {
			floor := m.NewConstraint(mip.GreaterThanOrEqual, float64(sp.FacilityMinDemand[i]))
			for j := range sp.Clients {
				if x[i][j] != nil {
					floor.NewTerm(float64(sp.ClientDemand[j]), x[i][j])
				}
			}
		}
		if sp.FacilityMaxDemand[i] > 0 {
			ceiling := m.NewConstraint(mip.LessThanOrEqual, float64(sp.FacilityMaxDemand[i]))
			for j := range sp.Clients {
				if x[i][j] != nil {
					ceiling.NewTerm(float64(sp.ClientDemand[j]), x[i][j])
				}
			}
		}
	}

	solver, err := mip.NewSolver("highs", m)
	if err != nil {
		return Result{}, apperror.Wrap(err, apperror.CodeInternal, "failed to create MIP solver")
	}

	solveOptions := mip.NewSolveOptions()
	if err := solveOptions.SetMaximumDuration(opts.MaxDuration); err != nil {
		return Result{}, apperror.Wrap(err, apperror.CodeInternal, "failed to set MIP duration limit")
	}
	if err := solveOptions.SetMIPGapRelative(opts.GapRelative); err != nil {
		return Result{}, apperror.Wrap(err, apperror.CodeInternal, "failed to set MIP gap tolerance")
	}
	solveOptions.SetVerbosity(mip.Off)

	solution, err := solver.Solve(solveOptions)
	if err != nil {
		return Result{}, apperror.Wrap(err, apperror.CodeInternal, "MIP solve failed")
	}

	if solution == nil || !solution.HasValues() {
		return Result{Status: model.StatusInfeasible, Message: "No optimal solution found"}, nil
	}

	status := model.StatusFeasible
	if solution.IsOptimal() {
		status = model.StatusOptimal
	}

	assignments := make([][]int, numFacilities)
	for j := range sp.Clients {
		for i := range sp.Facilities {
			if x[i][j] != nil && solution.Value(x[i][j]) > 0.5 {
				assignments[i] = append(assignments[i], j)
				break
			}
		}
	}

	return Result{
		Status:         status,
		ObjectiveValue: solution.ObjectiveValue(),
		Assignments:    assignments,
	}, nil
}
