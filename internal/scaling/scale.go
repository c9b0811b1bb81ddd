package scaling

import (
	"math"

	"facilityassign/internal/model"
	"facilityassign/pkg/apperror"
)

// ScaledProblem is the integer-valued problem handed to the flow or MILP
// formulation after parameter scaling.
type ScaledProblem struct {
	Facilities []model.Facility
	Clients    []model.Client

	ClientDemand      []int // scaled demand per client, index-aligned with Clients
	FacilityMinDemand []int // scaled min_demand per facility
	FacilityMaxDemand []int // scaled max_demand per facility, 0 means unbounded

	Cost [][]int // Cost[i][j], scaled (and per-unit-flow-converted when applicable)

	ScaleFactor int
}

// Scale converts the floating-point cost matrix into the integer parameters
// the solvers require. When perUnitFlowCost is true (the FLOW formulation),
// demand-weighted costs are further converted to per-unit-flow costs by
// dividing by the client's scaled demand, since the flow network routes
// demand_j units of flow through client j's node and the arc cost applies
// per unit of flow.
func Scale(m model.CostMatrix, scaleFactor int, perUnitFlowCost bool) (ScaledProblem, error) {
	clientDemand := make([]int, m.NumClients())
	for j, c := range m.Clients {
		clientDemand[j] = int(math.Round(float64(scaleFactor) * c.Demand))
		if perUnitFlowCost && clientDemand[j] == 0 {
			return ScaledProblem{}, apperror.New(apperror.CodeZeroScaledDemand,
				"client demand rounds to zero after scaling; increase the flow scale factor").
				WithField("client").
				WithDetails("client_id", c.ID).
				WithDetails("raw_demand", c.Demand)
		}
	}

	minDemand := make([]int, m.NumFacilities())
	maxDemand := make([]int, m.NumFacilities())
	for i, f := range m.Facilities {
		minDemand[i] = int(math.Round(float64(scaleFactor) * float64(f.MinDemand)))
		maxDemand[i] = int(math.Round(float64(scaleFactor) * float64(f.MaxDemand)))
	}

	cost := make([][]int, m.NumFacilities())
	for i := range cost {
		cost[i] = make([]int, m.NumClients())
		for j := range cost[i] {
			scaled := float64(scaleFactor) * m.Values[i][j]
			if perUnitFlowCost {
				scaled = scaled / float64(clientDemand[j])
			}
			cost[i][j] = int(scaled) // truncation, per the consistent-cast rule
		}
	}

	return ScaledProblem{
		Facilities:        m.Facilities,
		Clients:           m.Clients,
		ClientDemand:      clientDemand,
		FacilityMinDemand: minDemand,
		FacilityMaxDemand: maxDemand,
		Cost:              cost,
		ScaleFactor:        scaleFactor,
	}, nil
}

// UnscaleObjective converts a solver's integer-valued objective back to
// original units: a FLOW objective is divided by k², a MILP objective by k.
func UnscaleObjective(value float64, scaleFactor int, isFlow bool) float64 {
	k := float64(scaleFactor)
	if isFlow {
		return value / (k * k)
	}
	return value / k
}
