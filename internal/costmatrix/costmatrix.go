// Package costmatrix builds the facility-by-client demand-weighted cost
// matrix that every downstream formulation (flow and MILP) solves against.
package costmatrix

import (
	"context"

	"facilityassign/internal/geo"
	"facilityassign/internal/model"
	"facilityassign/internal/routing"
	"facilityassign/pkg/apperror"
)

// RoutingTable is the subset of the routing client this package depends on,
// so callers can substitute a fake in tests without standing up an HTTP
// server.
type RoutingTable interface {
	Table(ctx context.Context, sources, destinations []routing.Point) (distances, durations [][]float64, err error)
}

// Build computes the |facilities| x |clients| demand-weighted cost matrix for
// the given cost type. Raw per-trip cost (kilometers, meters, or seconds,
// depending on costType) is multiplied by the client's demand, matching the
// demand-weighted cost convention the flow and MILP formulations both solve
// against. Unreachable routing pairs surface as NaN and are left for the
// scrubbing stage to drop.
func Build(ctx context.Context, facilities []model.Facility, clients []model.Client, costType model.CostType, rt RoutingTable) (model.CostMatrix, error) {
	if len(clients) == 0 {
		return model.CostMatrix{}, apperror.ErrEmptyClients
	}
	if len(facilities) == 0 {
		return model.CostMatrix{}, apperror.ErrEmptyFacilities
	}

	values := make([][]float64, len(facilities))
	for i := range values {
		values[i] = make([]float64, len(clients))
	}

	switch costType {
	case model.CostRoadDistance, model.CostRoadDuration:
		if rt == nil {
			return model.CostMatrix{}, apperror.New(apperror.CodeRoutingUnavailable, "road-based cost type requires a routing client")
		}

		sources := make([]routing.Point, len(facilities))
		for i, f := range facilities {
			sources[i] = routing.Point{f.Lng, f.Lat}
		}
		destinations := make([]routing.Point, len(clients))
		for j, c := range clients {
			destinations[j] = routing.Point{c.Lng, c.Lat}
		}

		distances, durations, err := rt.Table(ctx, sources, destinations)
		if err != nil {
			return model.CostMatrix{}, err
		}

		raw := distances
		if costType == model.CostRoadDuration {
			raw = durations
		}
		for i := range facilities {
			for j, c := range clients {
				values[i][j] = raw[i][j] * c.Demand
			}
		}

	default: // model.CostSpherical
		for i, f := range facilities {
			for j, c := range clients {
				values[i][j] = geo.HaversineKM(f.Lat, f.Lng, c.Lat, c.Lng) * c.Demand
			}
		}
	}

	return model.CostMatrix{Values: values, Facilities: facilities, Clients: clients}, nil
}
