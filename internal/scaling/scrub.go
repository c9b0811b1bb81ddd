// Package scaling implements the NaN-scrubbing/demand-rescaling transform
// and the integer parameter scaler that sit between the cost
// matrix builder and the flow/MILP formulations.
package scaling

import (
	"math"

	"facilityassign/internal/model"
	"facilityassign/pkg/apperror"
)

// ScrubAndRescale drops every client column containing a NaN cost, then
// rescales the surviving clients' demands so their sum equals totalDemand.
// Dropping clients must not change the aggregate demand seen by capacity
// constraints downstream, hence the rescale.
func ScrubAndRescale(m model.CostMatrix, totalDemand float64) (model.CostMatrix, error) {
	keep := make([]int, 0, m.NumClients())
	for j := 0; j < m.NumClients(); j++ {
		bad := false
		for i := 0; i < m.NumFacilities(); i++ {
			if math.IsNaN(m.Values[i][j]) {
				bad = true
				break
			}
		}
		if !bad {
			keep = append(keep, j)
		}
	}

	if len(keep) == 0 {
		return model.CostMatrix{}, apperror.ErrAllClientsDropped
	}

	clients := make([]model.Client, len(keep))
	sum := 0.0
	for idx, j := range keep {
		clients[idx] = m.Clients[j]
		sum += m.Clients[j].Demand
	}

	for idx := range clients {
		clients[idx].Demand = math.Round(totalDemand*clients[idx].Demand/sum*100) / 100
	}

	values := make([][]float64, m.NumFacilities())
	for i := 0; i < m.NumFacilities(); i++ {
		row := make([]float64, len(keep))
		for idx, j := range keep {
			row[idx] = m.Values[i][j]
		}
		values[i] = row
	}

	return model.CostMatrix{Values: values, Facilities: m.Facilities, Clients: clients}, nil
}
