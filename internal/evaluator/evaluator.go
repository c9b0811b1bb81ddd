// Package evaluator runs the post-solve pipeline over a solution's assigned
// facilities: expected demand and service area per facility,
// exclusive-area subtraction between neighboring facilities, and a TSP route
// length estimate per facility.
package evaluator

import (
	"math"

	"github.com/paulmach/orb"

	"facilityassign/internal/geo"
	"facilityassign/internal/model"
	"facilityassign/internal/servicearea"
)

// kmPerDegreeSquared converts a service area measured in squared degrees
// near the equator into squared kilometers for the TSP length estimator.
const kmPerDegreeSquared = 12321.0

// Evaluate fills in ExpectedDemand, ServiceArea, and TSPEstimate for every
// facility in facilities, given facilities[i]'s assigned clients in
// assignedClients[i]. The facility order is preserved from the input.
func Evaluate(facilities []model.Facility, assignedClients [][]model.Client, cfg servicearea.Config) []model.AssignedFacility {
	result := make([]model.AssignedFacility, len(facilities))
	for i, f := range facilities {
		clients := assignedClients[i]
		expectedDemand := 0.0
		for _, c := range clients {
			expectedDemand += c.Demand
		}

		result[i] = model.AssignedFacility{
			Facility:        f,
			AssignedClients: clients,
			ExpectedDemand:  math.Round(expectedDemand),
			ServiceArea:     servicearea.Build(f, clients, cfg),
		}
	}

	subtractExclusiveAreas(facilities, result)

	for i := range result {
		area := geo.MultiPolygonArea(result[i].ServiceArea)
		n := float64(len(result[i].AssignedClients))
		estimate := 0.75 * math.Sqrt(n*area*kmPerDegreeSquared)
		result[i].TSPEstimate = math.Round(estimate*100) / 100
	}

	return result
}

// subtractExclusiveAreas removes facility i's exclusive area from every
// other facility j's service area wherever they intersect, pruning any
// neighboring hull that strayed into reserved territory.
func subtractExclusiveAreas(facilities []model.Facility, result []model.AssignedFacility) {
	for i, fi := range facilities {
		if !fi.HasExclusiveArea() {
			continue
		}
		for j := range facilities {
			if i == j {
				continue
			}
			if !geo.MultiPolygonIntersects(result[j].ServiceArea, fi.ExclusiveArea) {
				continue
			}
			remaining := orb.MultiPolygon(result[j].ServiceArea)
			for _, clip := range fi.ExclusiveArea {
				var next orb.MultiPolygon
				for _, poly := range remaining {
					next = append(next, geo.Difference(poly, clip)...)
				}
				remaining = next
			}
			result[j].ServiceArea = remaining
		}
	}
}
