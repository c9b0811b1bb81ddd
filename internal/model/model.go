// Package model defines the value types shared across the assignment engine:
// clients, facilities, cost matrices, and the resulting solution. All types
// are immutable value types constructed at request boundaries; transforming
// steps produce new owned values rather than mutating shared inputs.
package model

import "github.com/paulmach/orb"

// Client is a demand point to be assigned to exactly one facility.
type Client struct {
	ID     string
	Lat    float64
	Lng    float64
	Demand float64
}

// Point returns the client's location as an orb.Point ([lng, lat]).
func (c Client) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// Facility is a candidate assignment target with optional capacity bounds
// and an optional exclusive service area.
type Facility struct {
	ID             string
	Name           string
	Lat            float64
	Lng            float64
	MinDemand      int
	MaxDemand      int // 0 means unbounded
	ExclusiveArea  orb.MultiPolygon
}

// Point returns the facility's location as an orb.Point ([lng, lat]).
func (f Facility) Point() orb.Point {
	return orb.Point{f.Lng, f.Lat}
}

// HasExclusiveArea reports whether the facility declares a non-empty
// exclusive service area.
func (f Facility) HasExclusiveArea() bool {
	return len(f.ExclusiveArea) > 0
}

// CostType selects how raw transportation cost between a facility and a
// client is computed.
type CostType int

const (
	// CostSpherical uses great-circle distance (haversine, kilometers).
	CostSpherical CostType = iota
	// CostRoadDistance uses an external routing service's distance matrix (meters).
	CostRoadDistance
	// CostRoadDuration uses an external routing service's duration matrix (seconds).
	CostRoadDuration
)

// String implements fmt.Stringer.
func (c CostType) String() string {
	switch c {
	case CostSpherical:
		return "SPHERICAL"
	case CostRoadDistance:
		return "ROAD_DISTANCE"
	case CostRoadDuration:
		return "ROAD_DURATION"
	default:
		return "UNKNOWN"
	}
}

// Objective is the wire-facing intent; it maps bijectively to a CostType.
type Objective int

const (
	ObjectiveMinProximity Objective = iota
	ObjectiveMinTravelDistance
	ObjectiveMinTravelDuration
)

// CostType converts the objective to its underlying cost type. This is the
// single conversion point mandated so no ambiguous union of CostType/Objective
// leaks past the request boundary.
func (o Objective) CostType() CostType {
	switch o {
	case ObjectiveMinTravelDistance:
		return CostRoadDistance
	case ObjectiveMinTravelDuration:
		return CostRoadDuration
	default:
		return CostSpherical
	}
}

// Algorithm selects which optimization formulation solves the problem.
type Algorithm int

const (
	AlgorithmFlow Algorithm = iota
	AlgorithmMILP
)

// CostMatrix is a dense F×C array of demand-weighted costs. Entry [i][j] is
// the cost of serving client j from facility i; NaN marks an unreachable pair.
type CostMatrix struct {
	Values     [][]float64 // Values[i][j], i over facilities, j over clients
	Facilities []Facility
	Clients    []Client
}

// NumFacilities returns the number of facility rows.
func (m CostMatrix) NumFacilities() int { return len(m.Facilities) }

// NumClients returns the number of client columns.
func (m CostMatrix) NumClients() int { return len(m.Clients) }

// Status is the outcome of a solve attempt.
type Status int

const (
	StatusInfeasible Status = iota
	StatusFeasible
	StatusOptimal
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusFeasible:
		return "FEASIBLE"
	case StatusOptimal:
		return "OPTIMAL"
	default:
		return "INFEASIBLE"
	}
}

// AssignedFacility is a facility together with the clients routed to it and
// the derived evaluation metrics.
type AssignedFacility struct {
	Facility        Facility
	AssignedClients []Client
	ExpectedDemand  float64
	ServiceArea     orb.MultiPolygon
	TSPEstimate     float64
}

// Solution is the final result of solving an assignment request.
type Solution struct {
	ObjectiveValue    float64
	AssignedFacilities []AssignedFacility
	Status            Status
	Message           string
}
