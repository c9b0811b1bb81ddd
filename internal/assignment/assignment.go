// Package assignment wires the full solve pipeline together: cost
// matrix construction, NaN scrubbing, parameter scaling, solver dispatch,
// post-solve evaluation, and objective rescaling back to original units.
package assignment

import (
	"context"
	"time"

	"facilityassign/internal/costmatrix"
	"facilityassign/internal/evaluator"
	"facilityassign/internal/flow"
	"facilityassign/internal/milp"
	"facilityassign/internal/model"
	"facilityassign/internal/routing"
	"facilityassign/internal/scaling"
	"facilityassign/internal/servicearea"
	"facilityassign/pkg/apperror"
	"facilityassign/pkg/config"
)

// Request is a single assignment problem instance.
type Request struct {
	Clients     []model.Client
	Facilities  []model.Facility
	Objective   model.Objective
	Algorithm   model.Algorithm
	TotalDemand float64
}

// Solve runs the full assignment pipeline and returns the resulting
// Solution. rt may be nil when the objective's cost type is SPHERICAL, which
// never calls out to the routing service.
func Solve(ctx context.Context, req Request, cfg config.Config, rt costmatrix.RoutingTable) (model.Solution, error) {
	if len(req.Clients) == 0 {
		return model.Solution{}, apperror.ErrEmptyClients
	}
	if len(req.Facilities) == 0 {
		return model.Solution{}, apperror.ErrEmptyFacilities
	}

	costType := req.Objective.CostType()

	matrix, err := costmatrix.Build(ctx, req.Facilities, req.Clients, costType, rt)
	if err != nil {
		return model.Solution{}, err
	}

	scrubbed, err := scaling.ScrubAndRescale(matrix, req.TotalDemand)
	if err != nil {
		return model.Solution{}, err
	}

	algorithm := req.Algorithm
	isFlow := algorithm == model.AlgorithmFlow

	scaleFactor := cfg.Solver.MilpScaleFactor
	if isFlow {
		scaleFactor = cfg.Solver.FlowScaleFactor
	}

	scaled, err := scaling.Scale(scrubbed, scaleFactor, isFlow)
	if err != nil {
		return model.Solution{}, err
	}

	timeLimit := time.Duration(cfg.Solver.TimeLimitSeconds) * time.Second

	var (
		status         model.Status
		message        string
		objectiveValue float64
		assignments    [][]int
	)

	if isFlow {
		result, err := flow.Solve(ctx, scaled, timeLimit)
		if err != nil {
			return model.Solution{}, err
		}
		status, message, objectiveValue, assignments = result.Status, result.Message, result.ObjectiveValue, result.Assignments
	} else {
		result, err := milp.Solve(scaled, milp.Options{MaxDuration: timeLimit, GapRelative: cfg.Solver.GapTolerance})
		if err != nil {
			return model.Solution{}, err
		}
		status, message, objectiveValue, assignments = result.Status, result.Message, result.ObjectiveValue, result.Assignments
	}

	solution := model.Solution{
		ObjectiveValue: scaling.UnscaleObjective(objectiveValue, scaleFactor, isFlow),
		Status:         status,
		Message:        message,
	}

	if status == model.StatusInfeasible {
		return solution, nil
	}

	assignedClients := make([][]model.Client, len(scaled.Facilities))
	for i, indices := range assignments {
		for _, j := range indices {
			assignedClients[i] = append(assignedClients[i], scaled.Clients[j])
		}
	}

	solution.AssignedFacilities = evaluator.Evaluate(scaled.Facilities, assignedClients, servicearea.Config{
		DispersedSubsetSize: cfg.Geometry.DispersedSubsetSize,
		Alpha:               cfg.Geometry.Alpha,
	})

	return solution, nil
}
